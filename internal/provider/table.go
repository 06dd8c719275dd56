// Package provider defines the raw tabular contract between season data
// sources and the normalizer. Sources emit Tables; the season package turns
// them into typed datasets.
//
// Adding a new source means implementing the Source interface. The
// normalizer and everything downstream never change.
package provider

import "context"

// Row is one record keyed by column name. A missing key or a nil value is
// null.
type Row map[string]interface{}

// Table is an ordered set of rows sharing a column list.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Empty reports whether the table has no rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// Has reports whether column is part of the table's schema.
func (t Table) Has(column string) bool {
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Filter returns the rows for which keep returns true, with the same columns.
func (t Table) Filter(keep func(Row) bool) Table {
	out := Table{Columns: t.Columns}
	for _, r := range t.Rows {
		if keep(r) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// Source is the upstream season data collaborator. Every call may fail;
// callers treat a failure as an empty table.
type Source interface {
	// Rosters returns the seasonal roster, one row per player.
	Rosters(ctx context.Context, year int) (Table, error)
	// SeasonStats returns per-player aggregate statistics for the season
	// type ("REG" for the regular season).
	SeasonStats(ctx context.Context, year int, seasonType string) (Table, error)
	// SnapCounts returns per-game participation rows keyed by pfr_player_id.
	SnapCounts(ctx context.Context, year int) (Table, error)
	// PlayerIDs returns the pfr_id to gsis_id cross-reference.
	PlayerIDs(ctx context.Context) (Table, error)
}
