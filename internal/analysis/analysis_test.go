package analysis

import (
	"reflect"
	"testing"

	"github.com/fplkit/squad-engine/internal/model"
)

func intPtr(n int) *int { return &n }

func player(id, elementType, team int) model.Player {
	return model.Player{
		ID:          id,
		WebName:     "Player",
		ElementType: elementType,
		Team:        team,
		TotalPoints: 40 + id,
		Form:        "5.0",
		NowCost:     50,
		Minutes:     900,
		Status:      "a",
	}
}

// testDataset returns eight teams, one round of fixtures, and a pool deep
// enough to fill the default 2/5/5/3 squad.
func testDataset() model.Dataset {
	teams := make([]model.Team, 0, 8)
	names := []string{"ARS", "CHE", "LIV", "MCI", "MUN", "NEW", "TOT", "AVL"}
	for i, n := range names {
		teams = append(teams, model.Team{ID: i + 1, ShortName: n})
	}

	fixtureList := []model.Fixture{
		{Event: 1, TeamH: 1, TeamA: 2, TeamHDifficulty: 2, TeamADifficulty: 3},
		{Event: 1, TeamH: 3, TeamA: 4, TeamHDifficulty: 2, TeamADifficulty: 4},
		{Event: 1, TeamH: 5, TeamA: 6, TeamHDifficulty: 3, TeamADifficulty: 3},
		{Event: 1, TeamH: 7, TeamA: 8, TeamHDifficulty: 4, TeamADifficulty: 2},
		{Event: 2, TeamH: 2, TeamA: 1, TeamHDifficulty: 3, TeamADifficulty: 2},
	}

	players := make([]model.Player, 0, 22)
	id := 0
	add := func(elementType, n int) {
		for i := 0; i < n; i++ {
			id++
			players = append(players, player(id, elementType, (id%8)+1))
		}
	}
	add(1, 3)
	add(2, 7)
	add(3, 7)
	add(4, 5)

	return model.Dataset{Teams: teams, Fixtures: fixtureList, Players: players}
}

// ---------------------------------------------------------------------------
// Run
// ---------------------------------------------------------------------------

func TestRunEndToEnd(t *testing.T) {
	dataset := testDataset()
	report, err := Run(dataset, DefaultOptions(1))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(report.Windows) != len(dataset.Teams) {
		t.Errorf("windows = %d; want one per team (%d)", len(report.Windows), len(dataset.Teams))
	}
	if len(report.Players) != len(dataset.Players) {
		t.Errorf("scored players = %d; want %d", len(report.Players), len(dataset.Players))
	}
	if report.PoolSize != len(dataset.Players) {
		t.Errorf("PoolSize = %d; want %d (everyone available)", report.PoolSize, len(dataset.Players))
	}
	if report.Squad.Size() != 15 {
		t.Errorf("squad size = %d; want 15", report.Squad.Size())
	}
	if len(report.Captains) == 0 || len(report.Captains) > 3 {
		t.Errorf("captains = %d; want 1-3", len(report.Captains))
	}
	for _, c := range report.Captains {
		pos := c.Player.Player.Position()
		if pos != model.Midfielder && pos != model.Forward {
			t.Errorf("captain candidate at %s; want MID/FWD only", pos.Label())
		}
	}
	if report.GeneratedAtUTC == "" {
		t.Errorf("GeneratedAtUTC is empty")
	}
}

func TestRunIdempotent(t *testing.T) {
	dataset := testDataset()
	first, err := Run(dataset, DefaultOptions(1))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	second, err := Run(dataset, DefaultOptions(1))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// GeneratedAtUTC is wall-clock; everything else must match.
	first.GeneratedAtUTC = ""
	second.GeneratedAtUTC = ""
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated runs diverged")
	}
}

func TestRunFiltersPool(t *testing.T) {
	dataset := testDataset()
	// Injured and doubtful players never reach the optimizer.
	dataset.Players[0].Status = "i"
	dataset.Players[1].ChanceOfPlaying = intPtr(25)

	report, err := Run(dataset, DefaultOptions(1))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if want := len(dataset.Players) - 2; report.PoolSize != want {
		t.Errorf("PoolSize = %d; want %d", report.PoolSize, want)
	}
	for _, p := range report.Squad.Players {
		if p.Player.ID == dataset.Players[0].ID || p.Player.ID == dataset.Players[1].ID {
			t.Errorf("filtered player %d made the squad", p.Player.ID)
		}
	}
	// Scoring still covers everyone; only the optimizer pool shrinks.
	if len(report.Players) != len(dataset.Players) {
		t.Errorf("scored players = %d; want %d", len(report.Players), len(dataset.Players))
	}
}

func TestRunShortSquadNote(t *testing.T) {
	dataset := testDataset()
	// Keep only one goalkeeper so the GK quota starves.
	players := dataset.Players[:0:0]
	gks := 0
	for _, p := range dataset.Players {
		if p.ElementType == 1 {
			gks++
			if gks > 1 {
				continue
			}
		}
		players = append(players, p)
	}
	dataset.Players = players

	report, err := Run(dataset, DefaultOptions(1))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Squad.Size() != 14 {
		t.Errorf("squad size = %d; want 14", report.Squad.Size())
	}
	found := false
	for _, n := range report.Notes {
		if n == "Squad is short: 14 of 15 seats filled (pool starvation)." {
			found = true
		}
	}
	if !found {
		t.Errorf("missing starvation note; got %v", report.Notes)
	}
}

func TestRunConfigErrors(t *testing.T) {
	dataset := testDataset()
	tests := []struct {
		name string
		opts Options
	}{
		{"ZeroGameweek", func() Options { o := DefaultOptions(0); return o }()},
		{"NegativeBudget", func() Options {
			o := DefaultOptions(1)
			o.Constraints.Budget = -10
			return o
		}()},
		{"NoQuotas", func() Options {
			o := DefaultOptions(1)
			o.Constraints.Quotas = nil
			return o
		}()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Run(dataset, tc.opts); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}

func TestRunMalformedDataset(t *testing.T) {
	tests := []struct {
		name    string
		dataset model.Dataset
	}{
		{"NilTeams", model.Dataset{Players: []model.Player{}, Fixtures: []model.Fixture{}}},
		{"NilPlayers", model.Dataset{Teams: []model.Team{}, Fixtures: []model.Fixture{}}},
		{"NilFixtures", model.Dataset{Teams: []model.Team{}, Players: []model.Player{}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Run(tc.dataset, DefaultOptions(1)); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}
