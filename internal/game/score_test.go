package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name    string
		guessed interface{}
		correct interface{}
		tier    Tier
		points  int
	}{
		{"exact", 1389.0, 1389.0, TierPerfect, 10000},
		{"eighty percent", 4000, 5000, TierEighty, 8000},
		{"over the leader clamps", 6000, 5000, TierPerfect, 10000},
		{"zero correct zero guess", 0, 0, TierPerfect, 10000},
		{"zero correct nonzero guess", 5, 0, TierNone, 0},
		{"unreadable correct zero guess", 0, "abc", TierPerfect, 10000},
		{"unreadable correct", 100, "abc", TierNone, 0},
		{"missing correct", 100, nil, TierNone, 0},
		{"unreadable guess counts as zero", "abc", 100, TierNone, 0},
		{"negative guess", -10, 100, TierNone, 0},
		{"half", "50", 100, TierForty, 5000},
		{"tiny share", 1, 1000000, TierAny, 0},
		{"numeric strings", "300", "1000", TierTwenty, 3000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, points := Score(tt.guessed, tt.correct)
			assert.Equal(t, tt.tier, tier)
			assert.Equal(t, tt.points, points)
		})
	}
}

func TestScoreMonotonic(t *testing.T) {
	const correct = 1389.0
	prev := -1
	for g := 0.0; g <= correct+50; g += 7 {
		_, points := Score(g, correct)
		assert.GreaterOrEqual(t, points, prev)
		assert.LessOrEqual(t, points, MaxPoints)
		prev = points
	}
}

func TestSeedAndDateForNow(t *testing.T) {
	eastern := time.FixedZone("EST", -5*60*60)
	seed, date := SeedAndDateForNow(time.Date(2024, time.January, 15, 20, 0, 0, 0, eastern))

	assert.Equal(t, int64(20240116), seed, "calendar day is taken in UTC")
	assert.Equal(t, "2024-01-16", date)

	seed, date = SeedAndDateForNow(time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, int64(20240115), seed)
	assert.Equal(t, "2024-01-15", date)
}

func TestNextReset(t *testing.T) {
	assert.Equal(t, time.Hour, NextReset(time.Date(2024, time.January, 15, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, 24*time.Hour, NextReset(time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)))
}

func TestShareText(t *testing.T) {
	questions := make([]Question, QuestionsPerRound)
	results := map[int]Result{
		0: {Tier: TierPerfect, Points: 10000},
		1: {Tier: TierEighty, Points: 8000},
		2: {Tier: TierSixty, Points: 6000},
		3: {Tier: TierForty, Points: 4000},
		4: {Tier: TierTwenty, Points: 4000},
	}

	got := ShareText(results, questions, 32000, 50000, "2024-01-15")

	want := "Daily Draft NFL Trivia 2024-01-15\n" +
		"Score: 32,000/50,000 (64%)\n" +
		"\n" +
		"🟩🟩🟩🟩🟩\n" +
		"🟩🟩🟩🟩🟨\n" +
		"🟩🟩🟩🟨⬛\n" +
		"🟩🟩🟨⬛⬛\n" +
		"🟩🟨⬛⬛⬛"
	assert.Equal(t, want, got)
}

func TestShareTextPartialAndZeroMax(t *testing.T) {
	questions := make([]Question, QuestionsPerRound)
	got := ShareText(map[int]Result{2: {}}, questions, 0, 0, "2024-01-15")

	assert.Equal(t, "Daily Draft NFL Trivia 2024-01-15\nScore: 0/0 (0%)\n\n⬛⬛⬛⬛⬛", got)
}

func TestAnswer(t *testing.T) {
	data := datasets{2010: season2010()}
	leader, value := "WR1", 1389.0
	q := Question{Position: "WR", Year: 2010, Statistic: "receiving_yards", LeaderPlayerID: &leader, LeaderValue: &value}

	r := Answer(context.Background(), data, q, "WR1", "Roddy White")
	assert.Equal(t, TierPerfect, r.Tier)
	assert.Equal(t, MaxPoints, r.Points)
	require.NotNil(t, r.GuessedValue)
	assert.Equal(t, 1389.0, *r.GuessedValue)
	assert.Equal(t, "Roddy White", r.Selection)

	r = Answer(context.Background(), data, q, "WR3", "Amy Snapper")
	assert.Equal(t, TierNone, r.Tier)
	assert.Equal(t, 0, r.Points)

	r = Answer(context.Background(), data, q, "", "")
	assert.Equal(t, "No player selected.", r.Message)
	assert.False(t, r.Skipped)

	r = Answer(context.Background(), data, Question{DataIssue: true}, "WR1", "Roddy White")
	assert.True(t, r.Skipped)
	assert.Equal(t, TierNone, r.Tier)
}

func TestScorecardSkipsDoNotCountTowardMax(t *testing.T) {
	sc := Tally(map[int]Result{
		0: {Points: 10000, Tier: TierPerfect},
		1: SkipResult(),
		2: NoSelectionResult(),
	})

	assert.Equal(t, 10000, sc.Total)
	assert.Equal(t, 20000, sc.Max)
	assert.False(t, sc.Complete())

	sc.Record(2, Result{Points: 5000, Tier: TierForty})
	assert.Equal(t, 15000, sc.Total)
	assert.Equal(t, 20000, sc.Max, "replacing a result keeps the max")

	sc.Record(3, Result{})
	sc.Record(4, Result{})
	assert.True(t, sc.Complete())
}
