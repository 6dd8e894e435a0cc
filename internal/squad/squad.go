// Package squad selects a constrained squad from a pool of scored players.
// The default strategy is the single-pass greedy fill: cheap, predictable,
// and deliberately not a global optimum solver.
package squad

import (
	"fmt"
	"math"
	"sort"

	"github.com/fplkit/squad-engine/internal/model"
	"github.com/fplkit/squad-engine/internal/scoring"
)

// Defaults for the squad constraints.
const (
	DefaultBudget     = 100.0
	DefaultMaxPerClub = 3
)

// positionOrder is the fill order for the greedy strategy.
var positionOrder = []model.Position{
	model.Goalkeeper,
	model.Defender,
	model.Midfielder,
	model.Forward,
}

// Constraints carries the selection rules for one run. Quotas are fixed
// counts per position, not ranges. There is no process-wide default; every
// call receives its own Constraints value.
type Constraints struct {
	Budget     float64                `json:"budget"`
	Quotas     map[model.Position]int `json:"quotas"`
	MaxPerClub int                    `json:"max_per_club"`
}

// DefaultConstraints returns the standard 2/5/5/3 squad under a 100.0 budget
// with at most 3 players per club.
func DefaultConstraints() Constraints {
	return Constraints{
		Budget: DefaultBudget,
		Quotas: map[model.Position]int{
			model.Goalkeeper: 2,
			model.Defender:   5,
			model.Midfielder: 5,
			model.Forward:    3,
		},
		MaxPerClub: DefaultMaxPerClub,
	}
}

// Validate rejects internally inconsistent configuration. Data problems
// (small pools, expensive players) are not errors; config problems are.
func (c Constraints) Validate() error {
	if c.Budget < 0 {
		return fmt.Errorf("budget must be non-negative, got %.1f", c.Budget)
	}
	if c.MaxPerClub < 1 {
		return fmt.Errorf("max per club must be at least 1, got %d", c.MaxPerClub)
	}
	if len(c.Quotas) == 0 {
		return fmt.Errorf("position quotas are required")
	}
	total := 0
	for pos, n := range c.Quotas {
		if pos == model.PositionUnknown {
			return fmt.Errorf("quota set for unknown position")
		}
		if n < 0 {
			return fmt.Errorf("quota for %s must be non-negative, got %d", pos.Label(), n)
		}
		total += n
	}
	if total == 0 {
		return fmt.Errorf("position quotas sum to zero")
	}
	return nil
}

// SquadSize is the number of players a full squad holds under c.
func (c Constraints) SquadSize() int {
	total := 0
	for _, n := range c.Quotas {
		total += n
	}
	return total
}

// Squad is the optimizer's result: the selected players in pick order plus
// aggregate totals. Constructed once, never mutated by callers.
type Squad struct {
	Players     []scoring.ScoredPlayer `json:"players"`
	TotalCost   float64                `json:"total_cost"`
	TotalPoints int                    `json:"total_points"`
	AverageForm float64                `json:"average_form"`
	AverageFDR  float64                `json:"average_fdr"`
}

// Size returns the number of selected players.
func (s Squad) Size() int {
	return len(s.Players)
}

// Complete reports whether every quota seat was filled. A short squad is a
// degraded result (pool starvation), not an error.
func (s Squad) Complete(c Constraints) bool {
	return len(s.Players) == c.SquadSize()
}

// Strategy picks a squad from a pre-filtered pool. The pool is expected to
// already exclude unavailable or high-risk players; strategies do no
// availability filtering of their own.
type Strategy interface {
	Select(pool []scoring.ScoredPlayer, c Constraints) (Squad, error)
}

// Greedy is the default strategy: per-position fill in GK, DEF, MID, FWD
// order, best overall score first, rejecting candidates that would breach
// the budget or the club cap and moving on. It never backtracks, so an
// early expensive pick can starve a later position of budget.
type Greedy struct{}

// Select runs the greedy fill. Ties on overall score break by player id
// ascending so identical inputs always yield identical squads.
func (Greedy) Select(pool []scoring.ScoredPlayer, c Constraints) (Squad, error) {
	if err := c.Validate(); err != nil {
		return Squad{}, err
	}

	sorted := make([]scoring.ScoredPlayer, len(pool))
	copy(sorted, pool)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].OverallScore != sorted[j].OverallScore {
			return sorted[i].OverallScore > sorted[j].OverallScore
		}
		return sorted[i].Player.ID < sorted[j].Player.ID
	})

	picked := make([]scoring.ScoredPlayer, 0, c.SquadSize())
	clubCount := make(map[int]int)
	cost := 0.0

	for _, pos := range positionOrder {
		quota := c.Quotas[pos]
		filled := 0
		for _, cand := range sorted {
			if filled == quota {
				break
			}
			if cand.Player.Position() != pos {
				continue
			}
			if cost+cand.Player.Cost() > c.Budget {
				continue
			}
			if clubCount[cand.Player.Team] == c.MaxPerClub {
				continue
			}
			picked = append(picked, cand)
			clubCount[cand.Player.Team]++
			cost += cand.Player.Cost()
			filled++
		}
	}

	return build(picked), nil
}

func build(players []scoring.ScoredPlayer) Squad {
	s := Squad{Players: players}
	if len(players) == 0 {
		return s
	}
	formSum, fdrSum := 0.0, 0.0
	for _, p := range players {
		s.TotalCost += p.Player.Cost()
		s.TotalPoints += p.Player.TotalPoints
		formSum += p.FormScore
		fdrSum += p.Window.AvgFDR
	}
	n := float64(len(players))
	s.TotalCost = round2(s.TotalCost)
	s.AverageForm = round2(formSum / n)
	s.AverageFDR = round2(fdrSum / n)
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
