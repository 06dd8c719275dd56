package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/jcturnbull/DailyDraft/internal/provider"
	"github.com/jcturnbull/DailyDraft/internal/season"
)

// Mode selects how a round's random stream is seeded.
type Mode string

const (
	ModeDaily    Mode = "daily"
	ModePractice Mode = "practice"
)

// Rand is the random stream consumed by generation. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// Datasets returns the normalized dataset for a year.
type Datasets interface {
	Get(ctx context.Context, year int) season.Dataset
}

// Question is one generated trivia item.
type Question struct {
	Index          int      `json:"index"`
	Slot           Slot     `json:"slot"`
	Position       string   `json:"position"`
	Year           int      `json:"year"`
	Statistic      string   `json:"statistic,omitempty"`
	Prompt         string   `json:"prompt"`
	LeaderPlayerID *string  `json:"leader_player_id"`
	LeaderName     *string  `json:"leader_name"`
	LeaderValue    *float64 `json:"leader_value"`
	DataIssue      bool     `json:"data_issue"`
}

// Answerable reports whether the question has a resolved leader to score
// against.
func (q Question) Answerable() bool {
	return !q.DataIssue && q.LeaderValue != nil
}

// Generator builds rounds from cached season data.
type Generator struct {
	data   Datasets
	years  YearRange
	now    func() time.Time
	logger *slog.Logger
}

// NewGenerator creates a generator over data drawing years from years.
func NewGenerator(data Datasets, years YearRange, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{data: data, years: years, now: time.Now, logger: logger}
}

// WithClock replaces the clock used for the year upper bound.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Years returns the generator's year window.
func (g *Generator) Years() YearRange {
	return g.years
}

// NewStream returns the deterministic stream for seed.
func NewStream(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
}

// NewPracticeSeed draws a fresh seed for an unseeded round.
func NewPracticeSeed() int64 {
	return rand.Int64()
}

// Generate returns a round of QuestionsPerRound questions. A daily round with
// a seed is reproducible; any other combination draws from an unseeded
// stream.
func (g *Generator) Generate(ctx context.Context, mode Mode, seed *int64) []Question {
	if mode == ModeDaily && seed != nil {
		return g.GenerateFrom(ctx, NewStream(*seed))
	}
	return g.GenerateFrom(ctx, NewStream(NewPracticeSeed()))
}

// ForSeed regenerates the round produced by seed.
func (g *Generator) ForSeed(ctx context.Context, seed int64) []Question {
	return g.GenerateFrom(ctx, NewStream(seed))
}

type yearStat struct {
	year int
	stat string
}

// GenerateFrom builds a round consuming rng in slot order: the year, then
// the statistic.
func (g *Generator) GenerateFrom(ctx context.Context, rng Rand) []Question {
	now := g.now().UTC()
	usedWR := make(map[yearStat]bool)
	questions := make([]Question, 0, len(DraftSlots))

	for i, slot := range DraftSlots {
		pos := slot.Position()
		year := g.years.Pick(rng, now)
		q := Question{Index: i, Slot: slot, Position: pos, Year: year}

		ds := g.data.Get(ctx, year)
		if ds.Stats.Empty() || !ds.Stats.Has("position") {
			q.Prompt = fmt.Sprintf("Data unavailable for %s (Year: %d).", slot, year)
			q.DataIssue = true
			g.logger.Warn("No statistics for question", "slot", slot, "year", year)
			questions = append(questions, q)
			continue
		}

		menu := StatMenu[pos]
		var stat string
		if pos == "WR" {
			var fellBack bool
			stat, fellBack = pickDistinct(rng, menu, year, usedWR)
			if fellBack {
				g.logger.Debug("WR statistic repeated after retries", "slot", slot, "year", year, "statistic", stat)
			}
		} else {
			stat = menu[rng.IntN(len(menu))]
		}
		q.Statistic = stat
		q.Prompt = fmt.Sprintf("Who had the most %s in %d for %ss?", strings.ReplaceAll(stat, "_", " "), year, pos)

		atPosition := ds.Stats.Filter(func(r provider.Row) bool {
			p, _ := provider.Text(r["position"])
			return p == pos
		})
		leader, ok := ResolveLeader(atPosition, stat)
		if !ok {
			na := "N/A"
			q.LeaderName = &na
			q.DataIssue = true
			g.logger.Warn("No leader for question", "slot", slot, "year", year, "statistic", stat)
			questions = append(questions, q)
			continue
		}

		name, found := ds.PlayerName(leader.PlayerID)
		if !found {
			name = "Unknown"
		}
		id, value := leader.PlayerID, leader.Value
		q.LeaderPlayerID = &id
		q.LeaderName = &name
		q.LeaderValue = &value
		questions = append(questions, q)
	}
	return questions
}

// pickDistinct draws a statistic whose (year, statistic) pair is not yet in
// used, retrying up to three times the menu size. After that it returns one
// unconstrained draw and fellBack is true.
func pickDistinct(rng Rand, menu []string, year int, used map[yearStat]bool) (stat string, fellBack bool) {
	for attempt := 0; attempt < 3*len(menu); attempt++ {
		s := menu[rng.IntN(len(menu))]
		key := yearStat{year, s}
		if !used[key] {
			used[key] = true
			return s, false
		}
	}
	return menu[rng.IntN(len(menu))], true
}
