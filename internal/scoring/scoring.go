// Package scoring turns a raw player plus their club's fixture window into a
// single value score and the derived metrics around it. The formula is a
// plain weighted sum so each term stays independently tunable.
package scoring

import (
	"math"

	"github.com/fplkit/squad-engine/internal/fixtures"
	"github.com/fplkit/squad-engine/internal/model"
)

// Weights for each additive term of the overall score.
const (
	weightTotalPoints = 0.4
	weightForm        = 4.0
	weightExpected    = 2.5
	weightFixture     = 2.0
	weightValue       = 0.5
	weightReliability = 5.0

	gkFixtureBonus  = 1.5
	defFixtureBonus = 1.2
	fwdXGBonus      = 2.0

	// reliabilityMinutes caps the minutes credited towards reliability
	// at two full matches.
	reliabilityMinutes = 180.0
)

// ScoredPlayer is a Player enriched with the engine's derived metrics and
// the fixture window of its club. Created once per run, read-only after.
type ScoredPlayer struct {
	Player model.Player    `json:"player"`
	Window fixtures.Window `json:"window"`

	OverallScore     float64 `json:"overall_score"`
	AvailabilityRisk int     `json:"availability_risk"`
	PricePerPoint    float64 `json:"price_per_point"`
	FormScore        float64 `json:"form_score"`
	ExpectedScore    float64 `json:"expected_score"`
}

// Score evaluates one player against their club's fixture window.
// Missing or non-numeric inputs contribute 0, never an error.
func Score(p model.Player, w fixtures.Window) ScoredPlayer {
	form := model.Num(p.Form)
	xg := model.Num(p.ExpectedGoals)
	xa := model.Num(p.ExpectedAssists)
	fixtureEase := math.Max(0, 5-w.AvgFDR)

	score := float64(p.TotalPoints) * weightTotalPoints
	score += form * weightForm
	score += (xg*4 + xa*3) * weightExpected
	score += fixtureEase * weightFixture
	score += pointsPerUnit(p) * weightValue
	score += math.Min(1, float64(p.Minutes)/reliabilityMinutes) * weightReliability

	switch p.Position() {
	case model.Goalkeeper:
		score += fixtureEase * gkFixtureBonus
	case model.Defender:
		score += fixtureEase * defFixtureBonus
	case model.Forward:
		score += xg * fwdXGBonus
	}

	return ScoredPlayer{
		Player:           p,
		Window:           w,
		OverallScore:     round1(score),
		AvailabilityRisk: AvailabilityRisk(p),
		PricePerPoint:    pricePerPoint(p),
		FormScore:        form,
		ExpectedScore:    xg + xa,
	}
}

// ScoreAll scores every player against its club's window. Players whose club
// has no window entry get a zero Window, which carries AvgFDR 0; callers
// building windows with fixtures.Windows always have an entry per team, so
// this only happens on inconsistent input.
func ScoreAll(players []model.Player, windows map[int]fixtures.Window) []ScoredPlayer {
	out := make([]ScoredPlayer, 0, len(players))
	for _, p := range players {
		out = append(out, Score(p, windows[p.Team]))
	}
	return out
}

// AvailabilityRisk maps a player's availability fields to a 0-5 integer.
// Checks run top to bottom, first match wins; the risk never feeds back into
// the overall score.
func AvailabilityRisk(p model.Player) int {
	if p.Status == "u" {
		return 5
	}
	if p.ChanceOfPlaying != nil {
		switch *p.ChanceOfPlaying {
		case 0:
			return 4
		case 25:
			return 3
		case 50:
			return 2
		case 75:
			return 1
		}
	}
	if p.News != "" {
		return 1
	}
	return 0
}

// pointsPerUnit is total points per currency unit of cost, 0 for players
// without points yet.
func pointsPerUnit(p model.Player) float64 {
	if p.TotalPoints <= 0 || p.NowCost <= 0 {
		return 0
	}
	return float64(p.TotalPoints) / p.Cost()
}

func pricePerPoint(p model.Player) float64 {
	if p.TotalPoints <= 0 {
		return 0
	}
	return round2(p.Cost() / float64(p.TotalPoints))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
