package game

import (
	"math"

	"github.com/jcturnbull/DailyDraft/internal/provider"
)

// MaxPoints is awarded for matching the leader exactly.
const MaxPoints = 10000

// Tier is the five-glyph rendering of a score.
type Tier string

const (
	TierPerfect Tier = "🟩🟩🟩🟩🟩"
	TierEighty  Tier = "🟩🟩🟩🟩🟨"
	TierSixty   Tier = "🟩🟩🟩🟨⬛"
	TierForty   Tier = "🟩🟩🟨⬛⬛"
	TierTwenty  Tier = "🟩🟨⬛⬛⬛"
	TierAny     Tier = "🟨⬛⬛⬛⬛"
	TierNone    Tier = "⬛⬛⬛⬛⬛"
)

var ladder = []struct {
	min  float64
	tier Tier
}{
	{100, TierPerfect},
	{80, TierEighty},
	{60, TierSixty},
	{40, TierForty},
	{20, TierTwenty},
}

// Score compares a guessed value against the leader's value.
//
// A correct value of zero (or one that cannot be read as a number) awards
// full marks only to a zero guess. Otherwise the guess as a percentage of
// the correct value, clamped to [0, 100], gives points = round(pct × 100)
// and the tier. A guess that cannot be read as a number counts as zero.
func Score(guessed, correct interface{}) (Tier, int) {
	g, ok := provider.ExtractValue(guessed)
	if !ok {
		g = 0
	}
	c, ok := provider.ExtractValue(correct)
	if !ok || c == 0 {
		if g == 0 {
			return TierPerfect, MaxPoints
		}
		return TierNone, 0
	}

	pct := math.Min(math.Max(0, g/c*100), 100)
	points := int(math.RoundToEven(pct * 100))
	return tierFor(pct), points
}

func tierFor(pct float64) Tier {
	for _, step := range ladder {
		if pct >= step.min {
			return step.tier
		}
	}
	if pct > 0 {
		return TierAny
	}
	return TierNone
}
