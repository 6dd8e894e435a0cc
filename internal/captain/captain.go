// Package captain ranks midfielders and forwards from a finished squad for
// the armband, with human-readable reasons alongside each pick.
package captain

import (
	"fmt"
	"sort"

	"github.com/fplkit/squad-engine/internal/model"
	"github.com/fplkit/squad-engine/internal/scoring"
	"github.com/fplkit/squad-engine/internal/squad"
)

// MaxCandidates caps how many ranked picks are returned.
const MaxCandidates = 3

// Candidate is a view over one squad player: the captain score plus the
// generated reasons. Reasons are explanation only and never feed the score.
type Candidate struct {
	Player  scoring.ScoredPlayer `json:"player"`
	Score   float64              `json:"captain_score"`
	Reasons []string             `json:"reasons"`
}

// Rank returns the top captain candidates from the squad's midfielders and
// forwards, best first. Goalkeepers and defenders are never candidates.
func Rank(s squad.Squad) []Candidate {
	candidates := make([]Candidate, 0, len(s.Players))
	for _, p := range s.Players {
		pos := p.Player.Position()
		if pos != model.Midfielder && pos != model.Forward {
			continue
		}
		candidates = append(candidates, Candidate{
			Player:  p,
			Score:   captainScore(p),
			Reasons: reasons(p),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Player.Player.ID < candidates[j].Player.Player.ID
	})

	if len(candidates) > MaxCandidates {
		candidates = candidates[:MaxCandidates]
	}
	return candidates
}

func captainScore(p scoring.ScoredPlayer) float64 {
	return p.FormScore + (5 - p.Window.AvgFDR) + p.ExpectedScore*2
}

// reasons evaluates a fixed rule list; every rule that fires contributes a
// line, with a fallback when none do.
func reasons(p scoring.ScoredPlayer) []string {
	out := make([]string, 0, 4)
	if p.FormScore >= 6 {
		out = append(out, fmt.Sprintf("Excellent form (%.1f)", p.FormScore))
	}
	if p.Window.AvgFDR <= 2.5 {
		out = append(out, "Great fixtures")
	}
	if p.ExpectedScore >= 1 {
		out = append(out, "High expected returns")
	}
	if p.Window.EasyRun >= 3 {
		out = append(out, fmt.Sprintf("%d game easy run", p.Window.EasyRun))
	}
	if len(out) == 0 {
		out = append(out, "Consistent performer")
	}
	return out
}
