// Package fixtures reduces each team's upcoming fixture list into a
// rolling-window difficulty summary: average FDR plus the longest easy and
// hard streaks inside the window.
package fixtures

import (
	"math"
	"sort"

	"github.com/fplkit/squad-engine/internal/model"
)

const (
	// DefaultWindowSize is how many upcoming fixtures each window covers.
	DefaultWindowSize = 8

	// NeutralFDR is the average difficulty reported for a team with no
	// upcoming fixtures inside the window. It is a neutral placeholder,
	// not a measured rating.
	NeutralFDR = 3.0

	easyThreshold = 2
	hardThreshold = 4
)

// Entry is one upcoming fixture from a single team's point of view.
type Entry struct {
	Event         int    `json:"event"`
	OpponentID    int    `json:"opponent_id"`
	OpponentShort string `json:"opponent_short"`
	Home          bool   `json:"home"`
	Difficulty    int    `json:"difficulty"`
}

// Window is the rolling difficulty summary for one team. It is recomputed
// fresh on every run and never mutated afterwards.
type Window struct {
	TeamID    int     `json:"team_id"`
	TeamShort string  `json:"team_short"`
	Fixtures  []Entry `json:"fixtures"`
	AvgFDR    float64 `json:"avg_fdr"`
	EasyRun   int     `json:"easy_run"`
	HardRun   int     `json:"hard_run"`
}

// Windows computes a difficulty window for every team in teams. A team with
// no qualifying fixtures still gets a window, with AvgFDR set to NeutralFDR
// and both runs zero.
func Windows(fixtureList []model.Fixture, teams []model.Team, currentGW int, window int) map[int]Window {
	if window <= 0 {
		window = DefaultWindowSize
	}

	upcoming := make([]model.Fixture, 0, len(fixtureList))
	for _, f := range fixtureList {
		if f.Finished {
			continue
		}
		if f.Event < currentGW || f.Event >= currentGW+window {
			continue
		}
		upcoming = append(upcoming, f)
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].Event < upcoming[j].Event
	})

	shortName := make(map[int]string, len(teams))
	for _, t := range teams {
		shortName[t.ID] = t.ShortName
	}

	out := make(map[int]Window, len(teams))
	for _, t := range teams {
		entries := make([]Entry, 0, window)
		for _, f := range upcoming {
			if len(entries) == window {
				break
			}
			switch t.ID {
			case f.TeamH:
				entries = append(entries, Entry{
					Event:         f.Event,
					OpponentID:    f.TeamA,
					OpponentShort: shortName[f.TeamA],
					Home:          true,
					Difficulty:    f.TeamHDifficulty,
				})
			case f.TeamA:
				entries = append(entries, Entry{
					Event:         f.Event,
					OpponentID:    f.TeamH,
					OpponentShort: shortName[f.TeamH],
					Home:          false,
					Difficulty:    f.TeamADifficulty,
				})
			}
		}

		w := Window{
			TeamID:    t.ID,
			TeamShort: shortName[t.ID],
			Fixtures:  entries,
			AvgFDR:    NeutralFDR,
		}
		if len(entries) > 0 {
			sum := 0
			for _, e := range entries {
				sum += e.Difficulty
			}
			w.AvgFDR = round2(float64(sum) / float64(len(entries)))
			w.EasyRun, w.HardRun = longestRuns(entries)
		}
		out[t.ID] = w
	}
	return out
}

// longestRuns scans difficulties left to right. A fixture at or below the
// easy threshold extends the easy streak and resets the hard streak, and
// vice versa; a difficulty of exactly 3 resets both.
func longestRuns(entries []Entry) (easy int, hard int) {
	curEasy, curHard := 0, 0
	for _, e := range entries {
		switch {
		case e.Difficulty <= easyThreshold:
			curEasy++
			curHard = 0
		case e.Difficulty >= hardThreshold:
			curHard++
			curEasy = 0
		default:
			curEasy, curHard = 0, 0
		}
		if curEasy > easy {
			easy = curEasy
		}
		if curHard > hard {
			hard = curHard
		}
	}
	return easy, hard
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
