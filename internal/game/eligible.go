package game

import (
	"context"
	"fmt"
	"sort"

	"github.com/jcturnbull/DailyDraft/internal/provider"
)

// Candidate is one selectable answer. A nil PlayerID marks a sentinel entry
// that only carries a message.
type Candidate struct {
	Name     string  `json:"name"`
	PlayerID *string `json:"player_id"`
}

// Sentinel reports whether the candidate is a message rather than a player.
func (c Candidate) Sentinel() bool {
	return c.PlayerID == nil
}

func sentinel(format string, args ...interface{}) []Candidate {
	return []Candidate{{Name: fmt.Sprintf(format, args...)}}
}

// Eligible lists the players at position in year who recorded any usage:
// a positive opportunity statistic or any offensive snaps. The list is
// deduplicated by player and sorted by name. When nothing qualifies a single
// sentinel candidate explains why.
func Eligible(ctx context.Context, data Datasets, position string, year int) []Candidate {
	ds := data.Get(ctx, year)
	if len(ds.Roster) == 0 {
		return sentinel("No roster data available")
	}

	statsByID := make(map[string][]provider.Row)
	for _, r := range ds.Stats.Rows {
		if id, ok := provider.Text(r["player_id"]); ok {
			statsByID[id] = append(statsByID[id], r)
		}
	}
	snaps := ds.Snaps()
	field, filtered := opportunityField[position]

	var out []Candidate
	seen := make(map[string]bool)
	atPosition := 0
	for _, e := range ds.Roster {
		if e.Position != position {
			continue
		}
		atPosition++
		if seen[e.PlayerID] {
			continue
		}

		active := !filtered
		if filtered {
			opportunity := 0.0
			for _, r := range statsByID[e.PlayerID] {
				if v, ok := provider.ExtractValue(r[field]); ok && v > opportunity {
					opportunity = v
				}
			}
			active = opportunity > 0 || snaps[e.PlayerID] > 0
		}
		if !active {
			continue
		}

		seen[e.PlayerID] = true
		id := e.PlayerID
		out = append(out, Candidate{Name: e.PlayerName, PlayerID: &id})
	}

	if atPosition == 0 {
		return sentinel("No %ss found in roster for %d", position, year)
	}
	if len(out) == 0 {
		return sentinel("No active %ss found for %d", position, year)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// CandidatesFor returns the answer list for a question. Questions without a
// resolved leader get a single error sentinel.
func CandidatesFor(ctx context.Context, data Datasets, q Question) []Candidate {
	if !q.Answerable() {
		return sentinel("Error loading players")
	}
	return Eligible(ctx, data, q.Position, q.Year)
}

// GuessedValue returns the chosen player's value for the question's
// statistic in the question's year, or 0 when the player has no numeric
// value for it.
func GuessedValue(ctx context.Context, data Datasets, q Question, playerID string) float64 {
	if q.Statistic == "" || playerID == "" {
		return 0
	}
	ds := data.Get(ctx, q.Year)
	if ds.Stats.Empty() || !ds.Stats.Has("player_id") || !ds.Stats.Has(q.Statistic) {
		return 0
	}
	for _, r := range ds.Stats.Rows {
		if id, _ := provider.Text(r["player_id"]); id == playerID {
			v, ok := provider.ExtractValue(r[q.Statistic])
			if !ok {
				return 0
			}
			return v
		}
	}
	return 0
}
