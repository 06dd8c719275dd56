package game

import "github.com/jcturnbull/DailyDraft/internal/provider"

// Leader is the row holding the maximum value of a statistic.
type Leader struct {
	PlayerID string
	Value    float64
}

// ResolveLeader finds the player with the largest numeric value in column.
// Non-numeric cells are skipped and ties go to the first row. ok is false
// when the table is empty, lacks the column or player_id, or has no numeric
// value in the column.
func ResolveLeader(t provider.Table, column string) (Leader, bool) {
	if t.Empty() || !t.Has(column) || !t.Has("player_id") {
		return Leader{}, false
	}

	var best Leader
	found := false
	for _, r := range t.Rows {
		v, ok := provider.ExtractValue(r[column])
		if !ok {
			continue
		}
		if found && v <= best.Value {
			continue
		}
		id, ok := provider.Text(r["player_id"])
		if !ok {
			continue
		}
		best = Leader{PlayerID: id, Value: v}
		found = true
	}
	return best, found
}
