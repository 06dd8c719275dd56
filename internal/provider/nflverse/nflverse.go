package nflverse

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jcturnbull/DailyDraft/internal/provider"
)

// URLs holds the release locations. Per-season templates take the year as %d.
type URLs struct {
	Rosters     string
	PlayerStats string
	SnapCounts  string
	PlayerIDs   string
}

// rosterAliases maps release column names onto the canonical roster schema.
var rosterAliases = map[string]string{
	"gsis_id":   "player_id",
	"full_name": "player_name",
}

// nonSummable are numeric columns that identify a row rather than measure it.
var nonSummable = map[string]bool{
	"season": true,
	"week":   true,
}

// Source implements provider.Source over nflverse release files.
type Source struct {
	fetcher Fetcher
	urls    URLs
	logger  *slog.Logger

	mu  sync.Mutex
	ids *provider.Table
}

// NewSource creates a Source that loads files through fetcher.
func NewSource(fetcher Fetcher, urls URLs, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{fetcher: fetcher, urls: urls, logger: logger}
}

// Rosters returns the seasonal roster with gsis_id and full_name renamed to
// player_id and player_name.
func (s *Source) Rosters(ctx context.Context, year int) (provider.Table, error) {
	raw, err := s.fetcher.Fetch(ctx, fmt.Sprintf(s.urls.Rosters, year))
	if err != nil {
		return provider.Table{}, fmt.Errorf("fetch rosters %d: %w", year, err)
	}
	return renameColumns(raw, rosterAliases), nil
}

// SeasonStats returns one row per player summing the weekly rows of the
// given season type.
func (s *Source) SeasonStats(ctx context.Context, year int, seasonType string) (provider.Table, error) {
	weekly, err := s.fetcher.Fetch(ctx, fmt.Sprintf(s.urls.PlayerStats, year))
	if err != nil {
		return provider.Table{}, fmt.Errorf("fetch player stats %d: %w", year, err)
	}
	if !weekly.Has("player_id") {
		return provider.Table{}, fmt.Errorf("player stats %d: missing player_id column", year)
	}
	return aggregateSeason(weekly, year, seasonType), nil
}

// SnapCounts returns the per-game snap rows unchanged.
func (s *Source) SnapCounts(ctx context.Context, year int) (provider.Table, error) {
	t, err := s.fetcher.Fetch(ctx, fmt.Sprintf(s.urls.SnapCounts, year))
	if err != nil {
		return provider.Table{}, fmt.Errorf("fetch snap counts %d: %w", year, err)
	}
	return t, nil
}

// PlayerIDs returns the id cross-reference. The first successful load is
// kept for the life of the Source.
func (s *Source) PlayerIDs(ctx context.Context) (provider.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ids != nil {
		return *s.ids, nil
	}

	t, err := s.fetcher.Fetch(ctx, s.urls.PlayerIDs)
	if err != nil {
		return provider.Table{}, fmt.Errorf("fetch player ids: %w", err)
	}
	s.ids = &t
	s.logger.Info("Loaded player id cross-reference", "rows", t.Len())
	return t, nil
}

func renameColumns(t provider.Table, aliases map[string]string) provider.Table {
	out := provider.Table{Columns: make([]string, len(t.Columns))}
	for i, c := range t.Columns {
		if to, ok := aliases[c]; ok {
			c = to
		}
		out.Columns[i] = c
	}
	out.Rows = make([]provider.Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		nr := make(provider.Row, len(r))
		for k, v := range r {
			if to, ok := aliases[k]; ok {
				k = to
			}
			nr[k] = v
		}
		out.Rows = append(out.Rows, nr)
	}
	return out
}

// aggregateSeason groups weekly rows by player_id in first-seen order. A
// column is summed when it has at least one value and every value is numeric.
func aggregateSeason(weekly provider.Table, year int, seasonType string) provider.Table {
	rows := weekly.Rows
	if weekly.Has("season_type") && seasonType != "" {
		rows = weekly.Filter(func(r provider.Row) bool {
			st, _ := provider.Text(r["season_type"])
			return st == seasonType
		}).Rows
	}

	var summed []string
	for _, col := range weekly.Columns {
		if col == "player_id" || nonSummable[col] {
			continue
		}
		if numericColumn(rows, col) {
			summed = append(summed, col)
		}
	}

	out := provider.Table{Columns: append([]string{"player_id", "season", "season_type", "games"}, summed...)}
	index := make(map[string]int)
	for _, r := range rows {
		id, ok := provider.Text(r["player_id"])
		if !ok {
			continue
		}
		i, seen := index[id]
		if !seen {
			agg := provider.Row{
				"player_id":   id,
				"season":      year,
				"season_type": seasonType,
				"games":       0,
			}
			for _, col := range summed {
				agg[col] = 0.0
			}
			out.Rows = append(out.Rows, agg)
			i = len(out.Rows) - 1
			index[id] = i
		}
		agg := out.Rows[i]
		agg["games"] = agg["games"].(int) + 1
		for _, col := range summed {
			if v, ok := provider.ExtractValue(r[col]); ok {
				agg[col] = agg[col].(float64) + v
			}
		}
	}
	return out
}

func numericColumn(rows []provider.Row, col string) bool {
	seen := false
	for _, r := range rows {
		v, present := r[col]
		if !present || v == nil {
			continue
		}
		if _, ok := provider.ExtractValue(v); !ok {
			return false
		}
		seen = true
	}
	return seen
}
