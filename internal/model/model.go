// Package model holds the raw FPL reference data the engine consumes:
// teams, fixtures, and players as they appear in bootstrap-static, plus the
// closed position enumeration mapped from the numeric wire codes.
package model

import (
	"strconv"
	"strings"
)

// Position is the closed set of player positions. The numeric element_type
// codes (1-4) exist only at the input boundary.
type Position int

const (
	PositionUnknown Position = iota
	Goalkeeper
	Defender
	Midfielder
	Forward
)

// PositionFromCode maps an element_type wire code to a Position.
// Unknown codes map to PositionUnknown.
func PositionFromCode(code int) Position {
	switch code {
	case 1:
		return Goalkeeper
	case 2:
		return Defender
	case 3:
		return Midfielder
	case 4:
		return Forward
	default:
		return PositionUnknown
	}
}

// Code returns the element_type wire code for the position.
func (p Position) Code() int {
	switch p {
	case Goalkeeper:
		return 1
	case Defender:
		return 2
	case Midfielder:
		return 3
	case Forward:
		return 4
	default:
		return 0
	}
}

func (p Position) Label() string {
	switch p {
	case Goalkeeper:
		return "GK"
	case Defender:
		return "DEF"
	case Midfielder:
		return "MID"
	case Forward:
		return "FWD"
	default:
		return "UNK"
	}
}

// Team is immutable reference data for one club.
type Team struct {
	ID        int    `json:"id"`
	ShortName string `json:"short_name"`
	Name      string `json:"name,omitempty"`
	Strength  int    `json:"strength,omitempty"`
}

// Fixture is one scheduled match. Difficulty ratings are per side, 1-5,
// lower is easier.
type Fixture struct {
	Event           int  `json:"event"`
	TeamH           int  `json:"team_h"`
	TeamA           int  `json:"team_a"`
	TeamHDifficulty int  `json:"team_h_difficulty"`
	TeamADifficulty int  `json:"team_a_difficulty"`
	Finished        bool `json:"finished"`
}

// Player is one bootstrap-static element. Numeric-looking fields that the
// API serves as strings (form, xG, xA) stay strings here; parsing happens in
// the scorer via Num.
type Player struct {
	ID              int    `json:"id"`
	WebName         string `json:"web_name"`
	Team            int    `json:"team"`
	ElementType     int    `json:"element_type"`
	TotalPoints     int    `json:"total_points"`
	Form            string `json:"form"`
	ExpectedGoals   string `json:"expected_goals"`
	ExpectedAssists string `json:"expected_assists"`
	NowCost         int    `json:"now_cost"`
	Minutes         int    `json:"minutes"`
	Status          string `json:"status"`
	ChanceOfPlaying *int   `json:"chance_of_playing_this_round"`
	News            string `json:"news"`
}

// Position maps the element_type code to the closed enumeration.
func (p Player) Position() Position {
	return PositionFromCode(p.ElementType)
}

// Cost converts now_cost (tenths) to currency units, e.g. 100 -> 10.0.
func (p Player) Cost() float64 {
	return float64(p.NowCost) / 10.0
}

// Available reports whether the player carries the fully-available status.
func (p Player) Available() bool {
	return p.Status == "a"
}

// Dataset is the full in-memory input for one analysis run.
type Dataset struct {
	Teams    []Team    `json:"teams"`
	Fixtures []Fixture `json:"fixtures"`
	Players  []Player  `json:"players"`
}

// Num parses a numeric string leniently: missing or unparsable values are 0,
// never an error. The FPL API serves form/xG/xA as decimal strings.
func Num(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
