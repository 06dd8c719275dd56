// Package providertest provides an in-memory provider.Source for tests.
package providertest

import (
	"context"
	"sync"

	"github.com/jcturnbull/DailyDraft/internal/provider"
)

// Season holds the raw tables for one year. A non-nil error field makes the
// matching call fail.
type Season struct {
	Rosters    provider.Table
	Stats      provider.Table
	Snaps      provider.Table
	RostersErr error
	StatsErr   error
	SnapsErr   error
}

// Source serves fixed tables and counts calls per method.
type Source struct {
	Seasons map[int]Season
	IDs     provider.Table
	IDsErr  error

	mu    sync.Mutex
	calls map[string]int
}

// New returns an empty Source.
func New() *Source {
	return &Source{Seasons: map[int]Season{}}
}

func (s *Source) count(method string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = map[string]int{}
	}
	s.calls[method]++
}

// Calls returns how many times method was invoked.
func (s *Source) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

func (s *Source) Rosters(_ context.Context, year int) (provider.Table, error) {
	s.count("Rosters")
	season := s.Seasons[year]
	return season.Rosters, season.RostersErr
}

func (s *Source) SeasonStats(_ context.Context, year int, _ string) (provider.Table, error) {
	s.count("SeasonStats")
	season := s.Seasons[year]
	return season.Stats, season.StatsErr
}

func (s *Source) SnapCounts(_ context.Context, year int) (provider.Table, error) {
	s.count("SnapCounts")
	season := s.Seasons[year]
	return season.Snaps, season.SnapsErr
}

func (s *Source) PlayerIDs(_ context.Context) (provider.Table, error) {
	s.count("PlayerIDs")
	return s.IDs, s.IDsErr
}

// Table builds a table from a header and positional rows. A nil cell is null.
func Table(columns []string, rows ...[]interface{}) provider.Table {
	t := provider.Table{Columns: columns}
	for _, vals := range rows {
		r := provider.Row{}
		for i, c := range columns {
			if i < len(vals) && vals[i] != nil {
				r[c] = vals[i]
			}
		}
		t.Rows = append(t.Rows, r)
	}
	return t
}
