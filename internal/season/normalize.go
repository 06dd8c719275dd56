package season

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/jcturnbull/DailyDraft/internal/config"
	"github.com/jcturnbull/DailyDraft/internal/provider"
)

// rosterColumns are required on the raw roster; rows missing any are dropped.
var rosterColumns = []string{"player_id", "position", "first_name", "last_name", "player_name"}

// Normalizer builds datasets from a provider.Source.
type Normalizer struct {
	src        provider.Source
	seasonType string
	logger     *slog.Logger
}

// NewNormalizer creates a normalizer reading regular-season aggregates.
func NewNormalizer(src provider.Source, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{src: src, seasonType: config.SeasonTypeRegular, logger: logger}
}

// Normalize acquires and joins the season's tables. It never fails: each
// acquisition step degrades to an empty table and logs a warning.
func (n *Normalizer) Normalize(ctx context.Context, year int) Dataset {
	ds := Dataset{Year: year}
	log := n.logger.With("year", year)

	roster, err := n.roster(ctx, year)
	if err != nil {
		log.Warn("Roster unavailable", "error", err)
	}
	ds.Roster = roster

	stats, err := n.src.SeasonStats(ctx, year, n.seasonType)
	if err != nil {
		log.Warn("Season stats unavailable", "error", err)
		stats = provider.Table{}
	} else if stats.Empty() {
		log.Warn("Season stats empty")
	}

	if len(roster) > 0 && !stats.Empty() && stats.Has("player_id") {
		ds.Stats = joinRoster(stats, roster)
	}

	part, err := n.participation(ctx, year)
	if err != nil {
		log.Warn("Participation unavailable", "error", err)
	}
	ds.Participation = part

	log.Info("Season normalized",
		"roster", len(ds.Roster),
		"stats", ds.Stats.Len(),
		"participation", len(ds.Participation),
	)
	return ds
}

func (n *Normalizer) roster(ctx context.Context, year int) ([]RosterEntry, error) {
	raw, err := n.src.Rosters(ctx, year)
	if err != nil {
		return nil, err
	}
	if raw.Empty() {
		return nil, fmt.Errorf("roster %d is empty", year)
	}
	for _, c := range rosterColumns {
		if !raw.Has(c) {
			return nil, fmt.Errorf("roster %d missing column %q", year, c)
		}
	}

	allowed := make(map[string]bool, len(Positions))
	for _, p := range Positions {
		allowed[p] = true
	}

	var out []RosterEntry
	seen := make(map[string]bool)
	for _, r := range raw.Rows {
		vals := make([]string, len(rosterColumns))
		complete := true
		for i, c := range rosterColumns {
			v, ok := provider.Text(r[c])
			if !ok {
				complete = false
				break
			}
			vals[i] = v
		}
		if !complete || !allowed[vals[1]] || seen[vals[0]] {
			continue
		}
		seen[vals[0]] = true
		out = append(out, RosterEntry{
			PlayerID:   vals[0],
			Position:   vals[1],
			FirstName:  vals[2],
			LastName:   vals[3],
			PlayerName: vals[4],
		})
	}
	return out, nil
}

// joinRoster keeps the stats rows whose player is on the roster and stamps
// them with the roster's position and player_name.
func joinRoster(stats provider.Table, roster []RosterEntry) provider.Table {
	byID := make(map[string]RosterEntry, len(roster))
	for _, e := range roster {
		byID[e.PlayerID] = e
	}

	out := provider.Table{}
	for _, c := range stats.Columns {
		if c != "position" && c != "player_name" {
			out.Columns = append(out.Columns, c)
		}
	}
	out.Columns = append(out.Columns, "position", "player_name")

	for _, r := range stats.Rows {
		id, ok := provider.Text(r["player_id"])
		if !ok {
			continue
		}
		e, ok := byID[id]
		if !ok {
			continue
		}
		nr := make(provider.Row, len(r)+2)
		for k, v := range r {
			nr[k] = v
		}
		nr["player_id"] = id
		nr["position"] = e.Position
		nr["player_name"] = e.PlayerName
		out.Rows = append(out.Rows, nr)
	}
	return out
}

func (n *Normalizer) participation(ctx context.Context, year int) ([]Participation, error) {
	snaps, err := n.src.SnapCounts(ctx, year)
	if err != nil {
		return nil, err
	}
	if snaps.Empty() || !snaps.Has("pfr_player_id") || !snaps.Has("offense_snaps") {
		return nil, fmt.Errorf("snap counts %d lack pfr_player_id or offense_snaps", year)
	}

	ids, err := n.src.PlayerIDs(ctx)
	if err != nil {
		return nil, err
	}
	if ids.Empty() || !ids.Has("pfr_id") || !ids.Has("gsis_id") {
		return nil, fmt.Errorf("player id cross-reference lacks pfr_id or gsis_id")
	}

	primary := make(map[string]string, ids.Len())
	for _, r := range ids.Rows {
		pfr, ok := provider.Text(r["pfr_id"])
		if !ok {
			continue
		}
		gsis, ok := provider.Text(r["gsis_id"])
		if !ok {
			continue
		}
		if _, dup := primary[pfr]; !dup {
			primary[pfr] = gsis
		}
	}

	totals := make(map[string]float64)
	for _, r := range snaps.Rows {
		pfr, ok := provider.Text(r["pfr_player_id"])
		if !ok {
			continue
		}
		gsis, ok := primary[pfr]
		if !ok {
			continue
		}
		v, _ := provider.ExtractValue(r["offense_snaps"])
		totals[gsis] += v
	}

	out := make([]Participation, 0, len(totals))
	for id, total := range totals {
		out = append(out, Participation{PlayerID: id, OffenseSnaps: int(math.Round(total))})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out, nil
}
