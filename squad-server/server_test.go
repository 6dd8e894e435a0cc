package main

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/fplkit/squad-engine/internal/analysis"
	"github.com/fplkit/squad-engine/internal/metrics"
	"github.com/fplkit/squad-engine/internal/store"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func writeJSON(t *testing.T, st *store.JSONStore, rel string, data any) {
	t.Helper()
	b, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := st.WriteRaw(rel, b, true); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func element(id, elementType, team, points, nowCost int) map[string]any {
	return map[string]any{
		"id": id, "web_name": "P", "team": team, "element_type": elementType,
		"total_points": points, "form": "4.0", "expected_goals": "0.2",
		"expected_assists": "0.1", "now_cost": nowCost, "minutes": 900, "status": "a",
	}
}

// testConfig writes a small but squad-complete dataset under a temp root:
// eight teams (so the club cap never starves the 15 seats), one upcoming
// round, and 2/5/5/3 plus spares per position.
func testConfig(t *testing.T) ServerConfig {
	t.Helper()
	st := store.NewJSONStore(t.TempDir())

	elements := make([]map[string]any, 0, 22)
	id := 0
	add := func(elementType, n int) {
		for i := 0; i < n; i++ {
			id++
			elements = append(elements, element(id, elementType, (id%8)+1, 40+id, 50))
		}
	}
	add(1, 3)
	add(2, 7)
	add(3, 7)
	add(4, 5)

	shortNames := []string{"ARS", "CHE", "LIV", "MCI", "MUN", "NEW", "TOT", "AVL"}
	teams := make([]map[string]any, 0, len(shortNames))
	for i, n := range shortNames {
		teams = append(teams, map[string]any{"id": i + 1, "short_name": n})
	}

	writeJSON(t, st, store.BootstrapPath, map[string]any{
		"events": []map[string]any{
			{"id": 4, "is_current": false, "is_next": false},
			{"id": 5, "is_current": true, "is_next": false},
			{"id": 6, "is_current": false, "is_next": true},
		},
		"teams":    teams,
		"elements": elements,
	})
	writeJSON(t, st, store.FixturesPath, []map[string]any{
		{"event": 5, "team_h": 1, "team_a": 2, "team_h_difficulty": 2, "team_a_difficulty": 4, "finished": false},
		{"event": 5, "team_h": 3, "team_a": 4, "team_h_difficulty": 3, "team_a_difficulty": 3, "finished": false},
		{"event": 5, "team_h": 5, "team_a": 6, "team_h_difficulty": 2, "team_a_difficulty": 2, "finished": false},
		{"event": 5, "team_h": 7, "team_a": 8, "team_h_difficulty": 4, "team_a_difficulty": 3, "finished": false},
		{"event": 6, "team_h": 2, "team_a": 3, "team_h_difficulty": 2, "team_a_difficulty": 2, "finished": false},
	})

	return ServerConfig{DataRoot: st.Root, Metrics: metrics.NewRecorder()}
}

// ---------------------------------------------------------------------------
// resolveGW
// ---------------------------------------------------------------------------

func TestResolveGW(t *testing.T) {
	cfg := testConfig(t)

	t.Run("Explicit", func(t *testing.T) {
		gw, err := resolveGW(cfg, 12)
		if err != nil || gw != 12 {
			t.Errorf("resolveGW(12) = (%d, %v); want (12, nil)", gw, err)
		}
	})

	t.Run("FromBootstrap", func(t *testing.T) {
		gw, err := resolveGW(cfg, 0)
		if err != nil || gw != 5 {
			t.Errorf("resolveGW(0) = (%d, %v); want (5, nil)", gw, err)
		}
	})

	t.Run("MissingBootstrap", func(t *testing.T) {
		empty := ServerConfig{DataRoot: t.TempDir(), Metrics: cfg.Metrics}
		if _, err := resolveGW(empty, 0); err == nil {
			t.Errorf("expected error")
		}
	})
}

// ---------------------------------------------------------------------------
// Tool builders
// ---------------------------------------------------------------------------

func TestBuildFixtureDifficulty(t *testing.T) {
	cfg := testConfig(t)
	out, err := buildFixtureDifficulty(cfg, FixtureDifficultyArgs{})
	if err != nil {
		t.Fatalf("buildFixtureDifficulty: %v", err)
	}
	if out.GW != 5 {
		t.Errorf("GW = %d; want 5", out.GW)
	}
	if len(out.Teams) != 8 {
		t.Fatalf("teams = %d; want 8", len(out.Teams))
	}
	for i := 1; i < len(out.Teams); i++ {
		if out.Teams[i].AvgFDR < out.Teams[i-1].AvgFDR {
			t.Errorf("teams not sorted by AvgFDR ascending at %d", i)
		}
	}
}

func TestBuildPlayerScores(t *testing.T) {
	cfg := testConfig(t)

	t.Run("SortedAndLimited", func(t *testing.T) {
		out, err := buildPlayerScores(cfg, PlayerScoresArgs{Limit: 5})
		if err != nil {
			t.Fatalf("buildPlayerScores: %v", err)
		}
		if len(out.Players) != 5 {
			t.Fatalf("players = %d; want 5", len(out.Players))
		}
		for i := 1; i < len(out.Players); i++ {
			if out.Players[i].OverallScore > out.Players[i-1].OverallScore {
				t.Errorf("players not sorted by score descending at %d", i)
			}
		}
	})

	t.Run("PositionFilter", func(t *testing.T) {
		out, err := buildPlayerScores(cfg, PlayerScoresArgs{Position: "gk", Limit: 50})
		if err != nil {
			t.Fatalf("buildPlayerScores: %v", err)
		}
		if len(out.Players) != 3 {
			t.Fatalf("players = %d; want 3 goalkeepers", len(out.Players))
		}
		for _, p := range out.Players {
			if p.Player.Position().Label() != "GK" {
				t.Errorf("player %d is %s; want GK", p.Player.ID, p.Player.Position().Label())
			}
		}
	})
}

func TestBuildOptimalSquad(t *testing.T) {
	cfg := testConfig(t)
	report, err := buildOptimalSquad(cfg, OptimalSquadArgs{})
	if err != nil {
		t.Fatalf("buildOptimalSquad: %v", err)
	}
	if report.Squad.Size() != 15 {
		t.Errorf("squad size = %d; want 15", report.Squad.Size())
	}
	if report.Players != nil || report.Windows != nil {
		t.Errorf("squad tool should omit per-player and per-team detail")
	}
}

func TestBuildCaptainPicks(t *testing.T) {
	cfg := testConfig(t)
	out, err := buildCaptainPicks(cfg, CaptainPicksArgs{})
	if err != nil {
		t.Fatalf("buildCaptainPicks: %v", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates) > 3 {
		t.Errorf("candidates = %d; want 1-3", len(out.Candidates))
	}
}

func TestBuildSquadAnalysis(t *testing.T) {
	cfg := testConfig(t)
	data, err := buildSquadAnalysis(context.Background(), cfg, SquadAnalysisArgs{})
	if err != nil {
		t.Fatalf("buildSquadAnalysis: %v", err)
	}
	var report analysis.Report
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("unmarshal report: %v", err)
	}
	if report.CurrentGW != 5 {
		t.Errorf("CurrentGW = %d; want 5", report.CurrentGW)
	}
	if report.Squad.Size() != 15 {
		t.Errorf("squad size = %d; want 15", report.Squad.Size())
	}
	if len(report.Players) == 0 || len(report.Windows) == 0 {
		t.Errorf("full report should include players and windows")
	}
}
