package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/fplkit/squad-engine/internal/analysis"
	"github.com/fplkit/squad-engine/internal/cache"
	"github.com/fplkit/squad-engine/internal/captain"
	"github.com/fplkit/squad-engine/internal/fixtures"
	"github.com/fplkit/squad-engine/internal/model"
	"github.com/fplkit/squad-engine/internal/scoring"
	"github.com/fplkit/squad-engine/internal/store"
)

type FixtureDifficultyArgs struct {
	GW     int `json:"gw" jsonschema:"Current gameweek (0 = resolve from bootstrap)"`
	Window int `json:"window" jsonschema:"Fixture window size in GWs (default 8)"`
}

type FixtureDifficultyOutput struct {
	GW     int               `json:"gw"`
	Window int               `json:"window"`
	Teams  []fixtures.Window `json:"teams"`
}

type PlayerScoresArgs struct {
	GW       int    `json:"gw" jsonschema:"Current gameweek (0 = resolve from bootstrap)"`
	Window   int    `json:"window" jsonschema:"Fixture window size in GWs (default 8)"`
	Position string `json:"position" jsonschema:"Filter: GK|DEF|MID|FWD (empty = all)"`
	Limit    int    `json:"limit" jsonschema:"How many players to return (default 20)"`
}

type PlayerScoresOutput struct {
	GW      int                    `json:"gw"`
	Window  int                    `json:"window"`
	Players []scoring.ScoredPlayer `json:"players"`
}

type OptimalSquadArgs struct {
	GW         int     `json:"gw" jsonschema:"Current gameweek (0 = resolve from bootstrap)"`
	Window     int     `json:"window" jsonschema:"Fixture window size in GWs (default 8)"`
	Budget     float64 `json:"budget" jsonschema:"Budget ceiling in currency units (default 100.0)"`
	MaxPerClub int     `json:"max_per_club" jsonschema:"Club concentration cap (default 3)"`
	MaxRisk    int     `json:"max_risk" jsonschema:"Availability risk ceiling for the pool (default 1)"`
}

type CaptainPicksArgs struct {
	GW      int `json:"gw" jsonschema:"Current gameweek (0 = resolve from bootstrap)"`
	Window  int `json:"window" jsonschema:"Fixture window size in GWs (default 8)"`
	MaxRisk int `json:"max_risk" jsonschema:"Availability risk ceiling for the pool (default 1)"`
}

type CaptainPicksOutput struct {
	GW         int                 `json:"gw"`
	Candidates []captain.Candidate `json:"candidates"`
}

type SquadAnalysisArgs struct {
	GW         int     `json:"gw" jsonschema:"Current gameweek (0 = resolve from bootstrap)"`
	Window     int     `json:"window" jsonschema:"Fixture window size in GWs (default 8)"`
	Budget     float64 `json:"budget" jsonschema:"Budget ceiling in currency units (default 100.0)"`
	MaxPerClub int     `json:"max_per_club" jsonschema:"Club concentration cap (default 3)"`
	MaxRisk    int     `json:"max_risk" jsonschema:"Availability risk ceiling for the pool (default 1)"`
}

func loadDataset(cfg ServerConfig) (model.Dataset, error) {
	return store.NewJSONStore(cfg.DataRoot).LoadDataset()
}

// resolveGW returns gw unchanged when positive, otherwise the current event
// from the bootstrap events list (falling back to the next event during the
// pre-season gap).
func resolveGW(cfg ServerConfig, gw int) (int, error) {
	if gw > 0 {
		return gw, nil
	}
	raw, err := store.NewJSONStore(cfg.DataRoot).ReadRaw(store.BootstrapPath)
	if err != nil {
		return 0, fmt.Errorf("missing bootstrap: %w", err)
	}
	var bootstrap struct {
		Events []struct {
			ID        int  `json:"id"`
			IsCurrent bool `json:"is_current"`
			IsNext    bool `json:"is_next"`
		} `json:"events"`
	}
	if err := json.Unmarshal(raw, &bootstrap); err != nil {
		return 0, err
	}
	next := 0
	for _, e := range bootstrap.Events {
		if e.IsCurrent {
			return e.ID, nil
		}
		if e.IsNext {
			next = e.ID
		}
	}
	if next > 0 {
		return next, nil
	}
	return 0, fmt.Errorf("no current event in bootstrap")
}

func analysisOptions(gw, window int, budget float64, maxPerClub, maxRisk int) analysis.Options {
	opts := analysis.DefaultOptions(gw)
	if window > 0 {
		opts.WindowSize = window
	}
	if budget > 0 {
		opts.Constraints.Budget = budget
	}
	if maxPerClub > 0 {
		opts.Constraints.MaxPerClub = maxPerClub
	}
	if maxRisk > 0 {
		opts.MaxRisk = maxRisk
	}
	return opts
}

func buildFixtureDifficulty(cfg ServerConfig, args FixtureDifficultyArgs) (FixtureDifficultyOutput, error) {
	gw, err := resolveGW(cfg, args.GW)
	if err != nil {
		return FixtureDifficultyOutput{}, err
	}
	window := args.Window
	if window <= 0 {
		window = fixtures.DefaultWindowSize
	}
	dataset, err := loadDataset(cfg)
	if err != nil {
		return FixtureDifficultyOutput{}, err
	}

	windows := fixtures.Windows(dataset.Fixtures, dataset.Teams, gw, window)
	teams := make([]fixtures.Window, 0, len(windows))
	for _, w := range windows {
		teams = append(teams, w)
	}
	sort.Slice(teams, func(i, j int) bool {
		if teams[i].AvgFDR != teams[j].AvgFDR {
			return teams[i].AvgFDR < teams[j].AvgFDR
		}
		return teams[i].TeamShort < teams[j].TeamShort
	})

	return FixtureDifficultyOutput{GW: gw, Window: window, Teams: teams}, nil
}

func buildPlayerScores(cfg ServerConfig, args PlayerScoresArgs) (PlayerScoresOutput, error) {
	gw, err := resolveGW(cfg, args.GW)
	if err != nil {
		return PlayerScoresOutput{}, err
	}
	window := args.Window
	if window <= 0 {
		window = fixtures.DefaultWindowSize
	}
	limit := args.Limit
	if limit <= 0 {
		limit = 20
	}
	dataset, err := loadDataset(cfg)
	if err != nil {
		return PlayerScoresOutput{}, err
	}

	windows := fixtures.Windows(dataset.Fixtures, dataset.Teams, gw, window)
	scored := scoring.ScoreAll(dataset.Players, windows)

	posFilter := strings.TrimSpace(strings.ToUpper(args.Position))
	if posFilter != "" {
		filtered := make([]scoring.ScoredPlayer, 0, len(scored))
		for _, p := range scored {
			if p.Player.Position().Label() == posFilter {
				filtered = append(filtered, p)
			}
		}
		scored = filtered
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].OverallScore != scored[j].OverallScore {
			return scored[i].OverallScore > scored[j].OverallScore
		}
		return scored[i].Player.ID < scored[j].Player.ID
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}

	return PlayerScoresOutput{GW: gw, Window: window, Players: scored}, nil
}

func buildOptimalSquad(cfg ServerConfig, args OptimalSquadArgs) (analysis.Report, error) {
	gw, err := resolveGW(cfg, args.GW)
	if err != nil {
		return analysis.Report{}, err
	}
	dataset, err := loadDataset(cfg)
	if err != nil {
		return analysis.Report{}, err
	}
	opts := analysisOptions(gw, args.Window, args.Budget, args.MaxPerClub, args.MaxRisk)

	start := time.Now()
	report, err := analysis.Run(dataset, opts)
	if err != nil {
		return analysis.Report{}, err
	}
	cfg.Metrics.RecordRunDuration(time.Since(start).Seconds())

	// The squad tools omit the per-player and per-team detail to keep the
	// payload small; squad_analysis returns everything.
	report.Players = nil
	report.Windows = nil
	return report, nil
}

func buildCaptainPicks(cfg ServerConfig, args CaptainPicksArgs) (CaptainPicksOutput, error) {
	report, err := buildOptimalSquad(cfg, OptimalSquadArgs{GW: args.GW, Window: args.Window, MaxRisk: args.MaxRisk})
	if err != nil {
		return CaptainPicksOutput{}, err
	}
	return CaptainPicksOutput{GW: report.CurrentGW, Candidates: report.Captains}, nil
}

func buildSquadAnalysis(ctx context.Context, cfg ServerConfig, args SquadAnalysisArgs) ([]byte, error) {
	gw, err := resolveGW(cfg, args.GW)
	if err != nil {
		return nil, err
	}
	opts := analysisOptions(gw, args.Window, args.Budget, args.MaxPerClub, args.MaxRisk)

	key := cache.Key(opts.CurrentGW, opts.WindowSize, opts.Constraints.Budget, opts.Constraints.MaxPerClub, opts.MaxRisk)
	if data, ok := cfg.Cache.Get(ctx, key); ok {
		cfg.Metrics.RecordCacheHit()
		return data, nil
	}

	dataset, err := loadDataset(cfg)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	report, err := analysis.Run(dataset, opts)
	if err != nil {
		return nil, err
	}
	cfg.Metrics.RecordRunDuration(time.Since(start).Seconds())

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := cfg.Cache.Set(ctx, key, data); err != nil {
		log.Printf("cache write failed: %v", err)
	}
	return data, nil
}
