package game

import (
	"context"
	"sort"
)

// Result is the outcome recorded for one answered question.
type Result struct {
	Points       int      `json:"points_awarded" validate:"min=0,max=10000"`
	Tier         Tier     `json:"tier"`
	GuessedValue *float64 `json:"guessed_value"`
	Selection    string   `json:"user_selection,omitempty"`
	PlayerID     *string  `json:"player_id,omitempty"`
	Skipped      bool     `json:"skipped,omitempty"`
	Message      string   `json:"message,omitempty"`
}

// SkipResult is recorded for a question that could not be asked.
func SkipResult() Result {
	return Result{Tier: TierNone, Skipped: true, Message: "Question skipped due to data issue."}
}

// NoSelectionResult is recorded when the user submits without a player.
func NoSelectionResult() Result {
	return Result{Tier: TierNone, Message: "No player selected."}
}

// Answer scores a pick for q. Questions without a leader are skipped and an
// empty playerID is a no-selection.
func Answer(ctx context.Context, data Datasets, q Question, playerID, playerName string) Result {
	if !q.Answerable() {
		return SkipResult()
	}
	if playerID == "" {
		return NoSelectionResult()
	}

	guessed := GuessedValue(ctx, data, q, playerID)
	tier, points := Score(guessed, *q.LeaderValue)
	id := playerID
	return Result{
		Points:       points,
		Tier:         tier,
		GuessedValue: &guessed,
		Selection:    playerName,
		PlayerID:     &id,
	}
}

// Scorecard totals a round. Skipped questions add nothing to the maximum.
type Scorecard struct {
	Results map[int]Result `json:"results"`
	Total   int            `json:"total"`
	Max     int            `json:"max"`
}

// NewScorecard returns an empty scorecard.
func NewScorecard() *Scorecard {
	return &Scorecard{Results: make(map[int]Result)}
}

// Tally builds a scorecard from results keyed by question index.
func Tally(results map[int]Result) *Scorecard {
	sc := NewScorecard()
	indexes := make([]int, 0, len(results))
	for i := range results {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)
	for _, i := range indexes {
		sc.Record(i, results[i])
	}
	return sc
}

// Record stores the result for question index, replacing any earlier one.
func (s *Scorecard) Record(index int, r Result) {
	if prev, ok := s.Results[index]; ok {
		s.Total -= prev.Points
		if !prev.Skipped {
			s.Max -= MaxPoints
		}
	}
	s.Results[index] = r
	s.Total += r.Points
	if !r.Skipped {
		s.Max += MaxPoints
	}
}

// Complete reports whether every question of the round has a result.
func (s *Scorecard) Complete() bool {
	for i := 0; i < QuestionsPerRound; i++ {
		if _, ok := s.Results[i]; !ok {
			return false
		}
	}
	return true
}
