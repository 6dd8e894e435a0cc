// Package analysis wires the engine end to end: fixture windows, player
// scores, squad selection, and captain ranking, in that order, over one
// in-memory dataset. Each run takes fresh inputs and returns fresh outputs.
package analysis

import (
	"fmt"
	"time"

	"github.com/fplkit/squad-engine/internal/captain"
	"github.com/fplkit/squad-engine/internal/fixtures"
	"github.com/fplkit/squad-engine/internal/model"
	"github.com/fplkit/squad-engine/internal/scoring"
	"github.com/fplkit/squad-engine/internal/squad"
)

// DefaultMaxRisk is the availability-risk ceiling for the optimizer pool.
// Players above it (or not fully available) never reach the optimizer.
const DefaultMaxRisk = 1

// Options configures one analysis run. Zero-value fields fall back to the
// documented defaults; there is no process-wide configuration.
type Options struct {
	CurrentGW   int               `json:"current_gw"`
	WindowSize  int               `json:"window_size"`
	Constraints squad.Constraints `json:"constraints"`
	MaxRisk     int               `json:"max_risk"`

	// Strategy overrides the squad selection policy. Nil means the
	// default greedy fill.
	Strategy squad.Strategy `json:"-"`
}

// DefaultOptions returns options for the given gameweek with the standard
// window, constraints, and risk ceiling.
func DefaultOptions(currentGW int) Options {
	return Options{
		CurrentGW:   currentGW,
		WindowSize:  fixtures.DefaultWindowSize,
		Constraints: squad.DefaultConstraints(),
		MaxRisk:     DefaultMaxRisk,
	}
}

// Report is the full output of one run.
type Report struct {
	CurrentGW      int                     `json:"current_gw"`
	WindowSize     int                     `json:"window_size"`
	GeneratedAtUTC string                  `json:"generated_at_utc"`
	Windows        map[int]fixtures.Window `json:"windows"`
	Players        []scoring.ScoredPlayer  `json:"players"`
	PoolSize       int                     `json:"pool_size"`
	Squad          squad.Squad             `json:"squad"`
	Captains       []captain.Candidate     `json:"captains"`
	Notes          []string                `json:"notes"`
}

// Run executes the four stages sequentially and returns the report.
// Configuration problems fail fast; data problems degrade gracefully.
func Run(dataset model.Dataset, opts Options) (Report, error) {
	if opts.CurrentGW < 1 {
		return Report{}, fmt.Errorf("current gameweek must be at least 1, got %d", opts.CurrentGW)
	}
	if opts.WindowSize <= 0 {
		opts.WindowSize = fixtures.DefaultWindowSize
	}
	if opts.MaxRisk < 0 {
		opts.MaxRisk = DefaultMaxRisk
	}
	if err := opts.Constraints.Validate(); err != nil {
		return Report{}, fmt.Errorf("invalid constraints: %w", err)
	}
	if dataset.Teams == nil || dataset.Players == nil || dataset.Fixtures == nil {
		return Report{}, fmt.Errorf("dataset requires teams, players, and fixtures lists")
	}

	windows := fixtures.Windows(dataset.Fixtures, dataset.Teams, opts.CurrentGW, opts.WindowSize)
	scored := scoring.ScoreAll(dataset.Players, windows)

	pool := make([]scoring.ScoredPlayer, 0, len(scored))
	for _, p := range scored {
		if !p.Player.Available() {
			continue
		}
		if p.AvailabilityRisk > opts.MaxRisk {
			continue
		}
		pool = append(pool, p)
	}

	strategy := opts.Strategy
	if strategy == nil {
		strategy = squad.Greedy{}
	}
	selected, err := strategy.Select(pool, opts.Constraints)
	if err != nil {
		return Report{}, err
	}

	report := Report{
		CurrentGW:      opts.CurrentGW,
		WindowSize:     opts.WindowSize,
		GeneratedAtUTC: time.Now().UTC().Format(time.RFC3339),
		Windows:        windows,
		Players:        scored,
		PoolSize:       len(pool),
		Squad:          selected,
		Captains:       captain.Rank(selected),
		Notes: []string{
			"Squad fill is a single-pass greedy heuristic, not a global optimum.",
			fmt.Sprintf("Pool excludes players not fully available or with availability risk above %d.", opts.MaxRisk),
		},
	}
	if !selected.Complete(opts.Constraints) {
		report.Notes = append(report.Notes, fmt.Sprintf("Squad is short: %d of %d seats filled (pool starvation).", selected.Size(), opts.Constraints.SquadSize()))
	}
	return report, nil
}
