// Package season turns raw provider tables into one normalized Dataset per
// year and memoizes the result for the life of the process.
package season

import "github.com/jcturnbull/DailyDraft/internal/provider"

// Positions are the roster positions the game draws from.
var Positions = []string{"QB", "WR", "RB", "TE"}

// RosterEntry is one deduplicated roster row.
type RosterEntry struct {
	PlayerID   string `json:"player_id"`
	Position   string `json:"position"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	PlayerName string `json:"player_name"`
}

// Participation is a player's total offensive snaps for the season.
type Participation struct {
	PlayerID     string `json:"player_id"`
	OffenseSnaps int    `json:"offense_snaps"`
}

// Dataset is the normalized view of one season. It is never modified after
// the normalizer returns it.
type Dataset struct {
	Year          int             `json:"year"`
	Roster        []RosterEntry   `json:"roster"`
	Stats         provider.Table  `json:"stats"`
	Participation []Participation `json:"participation"`
}

// Empty returns the dataset with no rows in any table.
func Empty(year int) Dataset {
	return Dataset{Year: year}
}

// Usable reports whether both the roster and the statistics have rows.
func (d Dataset) Usable() bool {
	return len(d.Roster) > 0 && !d.Stats.Empty()
}

// PlayerName looks up a roster name by id.
func (d Dataset) PlayerName(playerID string) (string, bool) {
	for _, e := range d.Roster {
		if e.PlayerID == playerID {
			return e.PlayerName, true
		}
	}
	return "", false
}

// Snaps returns participation keyed by player id.
func (d Dataset) Snaps() map[string]int {
	m := make(map[string]int, len(d.Participation))
	for _, p := range d.Participation {
		m[p.PlayerID] = p.OffenseSnaps
	}
	return m
}
