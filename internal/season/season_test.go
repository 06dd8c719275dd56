package season

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcturnbull/DailyDraft/internal/provider"
	"github.com/jcturnbull/DailyDraft/internal/provider/providertest"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var rosterCols = []string{"player_id", "position", "first_name", "last_name", "player_name", "team"}

func fixtureSource() *providertest.Source {
	src := providertest.New()
	src.Seasons[2011] = providertest.Season{
		Rosters: providertest.Table(rosterCols,
			[]interface{}{"QB1", "QB", "Tom", "Brady", "Tom Brady", "NE"},
			[]interface{}{"WR1", "WR", "Wes", "Welker", "Wes Welker", "NE"},
			[]interface{}{"WR1", "WR", "Wes", "Welker", "Duplicate Row", "NE"},
			[]interface{}{"K1", "K", "Steve", "Gostkowski", "Steve Gostkowski", "NE"},
			[]interface{}{"RB1", "RB", nil, "Green-Ellis", "BenJarvus Green-Ellis", "NE"},
		),
		Stats: providertest.Table([]string{"player_id", "position", "passing_yards", "receptions"},
			[]interface{}{"QB1", "XX", "5235", "0"},
			[]interface{}{"WR1", nil, "0", "122"},
			[]interface{}{"ZZ9", "WR", "0", "100"},
		),
		Snaps: providertest.Table([]string{"pfr_player_id", "offense_snaps"},
			[]interface{}{"BradTo00", "60"},
			[]interface{}{"BradTo00", "70"},
			[]interface{}{"WelkWe00", "50"},
			[]interface{}{"Nobody00", "30"},
		),
	}
	src.IDs = providertest.Table([]string{"pfr_id", "gsis_id"},
		[]interface{}{"BradTo00", "QB1"},
		[]interface{}{"WelkWe00", "WR1"},
		[]interface{}{"BradTo00", "OTHER"},
	)
	return src
}

func TestNormalizeJoinsTables(t *testing.T) {
	n := NewNormalizer(fixtureSource(), testLogger())
	ds := n.Normalize(context.Background(), 2011)

	assert.Equal(t, 2011, ds.Year)
	require.Len(t, ds.Roster, 2)
	assert.Equal(t, RosterEntry{"QB1", "QB", "Tom", "Brady", "Tom Brady"}, ds.Roster[0])
	assert.Equal(t, "Wes Welker", ds.Roster[1].PlayerName, "first duplicate wins")

	require.Equal(t, 2, ds.Stats.Len(), "stats without a roster match are dropped")
	assert.Equal(t, "QB", ds.Stats.Rows[0]["position"], "roster position replaces the stats column")
	assert.Equal(t, "Tom Brady", ds.Stats.Rows[0]["player_name"])
	assert.Equal(t, "WR", ds.Stats.Rows[1]["position"])
	assert.True(t, ds.Stats.Has("receptions"))

	assert.Equal(t, []Participation{{"QB1", 130}, {"WR1", 50}}, ds.Participation)
	assert.True(t, ds.Usable())
}

func TestNormalizeRosterMissingColumn(t *testing.T) {
	src := fixtureSource()
	s := src.Seasons[2011]
	s.Rosters = providertest.Table([]string{"player_id", "position", "player_name"},
		[]interface{}{"QB1", "QB", "Tom Brady"},
	)
	src.Seasons[2011] = s

	ds := NewNormalizer(src, testLogger()).Normalize(context.Background(), 2011)

	assert.Empty(t, ds.Roster)
	assert.True(t, ds.Stats.Empty(), "join needs a roster")
	assert.NotEmpty(t, ds.Participation, "participation is guarded independently")
}

func TestNormalizeStepsDegradeIndependently(t *testing.T) {
	src := fixtureSource()
	s := src.Seasons[2011]
	s.StatsErr = errors.New("upstream 500")
	s.SnapsErr = errors.New("timeout")
	src.Seasons[2011] = s

	ds := NewNormalizer(src, testLogger()).Normalize(context.Background(), 2011)

	assert.Len(t, ds.Roster, 2)
	assert.True(t, ds.Stats.Empty())
	assert.Empty(t, ds.Participation)
	assert.False(t, ds.Usable())
}

func TestNormalizeParticipationNeedsColumns(t *testing.T) {
	src := fixtureSource()
	src.IDs = providertest.Table([]string{"pfr_id"}, []interface{}{"BradTo00"})

	ds := NewNormalizer(src, testLogger()).Normalize(context.Background(), 2011)
	assert.Empty(t, ds.Participation)
	assert.Len(t, ds.Roster, 2)
}

func TestDatasetLookups(t *testing.T) {
	ds := NewNormalizer(fixtureSource(), testLogger()).Normalize(context.Background(), 2011)

	name, ok := ds.PlayerName("WR1")
	assert.True(t, ok)
	assert.Equal(t, "Wes Welker", name)

	_, ok = ds.PlayerName("nope")
	assert.False(t, ok)

	assert.Equal(t, 130, ds.Snaps()["QB1"])
}

func TestCacheLoadsOnce(t *testing.T) {
	src := fixtureSource()
	c := NewCache(NewNormalizer(src, testLogger()), testLogger())

	first := c.Get(context.Background(), 2011)
	second := c.Get(context.Background(), 2011)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, src.Calls("Rosters"))
	assert.True(t, c.Cached(2011))

	stats := c.Stats()
	assert.Equal(t, 1, stats["hits"])
	assert.Equal(t, 1, stats["misses"])
	assert.Equal(t, []int{2011}, stats["cached_years"])
}

func TestCacheStoresEmptyAllOrNothing(t *testing.T) {
	src := fixtureSource()
	s := src.Seasons[2011]
	s.Stats = provider.Table{}
	src.Seasons[2011] = s
	c := NewCache(NewNormalizer(src, testLogger()), testLogger())

	ds := c.Get(context.Background(), 2011)
	assert.Empty(t, ds.Roster, "partial data is not kept")
	assert.Empty(t, ds.Participation)

	c.Get(context.Background(), 2011)
	assert.Equal(t, 1, src.Calls("SeasonStats"), "empty years are not retried")
	assert.Equal(t, 1, c.Stats()["empty_years"])
}

type slowLoader struct {
	calls   atomic.Int32
	release chan struct{}
}

func (l *slowLoader) Normalize(_ context.Context, year int) Dataset {
	l.calls.Add(1)
	<-l.release
	return Dataset{
		Year:   year,
		Roster: []RosterEntry{{PlayerID: "p", Position: "QB", PlayerName: "P"}},
		Stats:  provider.Table{Columns: []string{"player_id"}, Rows: []provider.Row{{"player_id": "p"}}},
	}
}

func TestCacheConcurrentFirstRequestsShareLoad(t *testing.T) {
	l := &slowLoader{release: make(chan struct{})}
	c := NewCache(l, testLogger())

	var wg sync.WaitGroup
	results := make([]Dataset, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.Get(context.Background(), 2015)
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(l.release)
	wg.Wait()

	assert.Equal(t, int32(1), l.calls.Load())
	for _, ds := range results {
		assert.True(t, ds.Usable())
	}
}

type countingLoader struct{ calls atomic.Int32 }

func (l *countingLoader) Normalize(ctx context.Context, year int) Dataset {
	l.calls.Add(1)
	if ctx.Err() != nil {
		return Empty(year)
	}
	return Dataset{
		Year:   year,
		Roster: []RosterEntry{{PlayerID: "p", Position: "QB", PlayerName: "P"}},
		Stats:  provider.Table{Columns: []string{"player_id"}, Rows: []provider.Row{{"player_id": "p"}}},
	}
}

func TestCacheSkipsLoadOnCanceledContext(t *testing.T) {
	l := &countingLoader{}
	c := NewCache(l, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, c.Get(ctx, 2012).Usable())
	assert.False(t, c.Cached(2012))
	assert.Equal(t, int32(0), l.calls.Load())

	assert.True(t, c.Get(context.Background(), 2012).Usable())
	assert.True(t, c.Cached(2012))
	assert.Equal(t, int32(1), l.calls.Load())
}

// cancelAwareLoader blocks until released and reports an empty dataset if
// its context was canceled in the meantime.
type cancelAwareLoader struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func (l *cancelAwareLoader) Normalize(ctx context.Context, year int) Dataset {
	if l.calls.Add(1) == 1 {
		close(l.started)
	}
	<-l.release
	if ctx.Err() != nil {
		return Empty(year)
	}
	return Dataset{
		Year:   year,
		Roster: []RosterEntry{{PlayerID: "p", Position: "QB", PlayerName: "P"}},
		Stats:  provider.Table{Columns: []string{"player_id"}, Rows: []provider.Row{{"player_id": "p"}}},
	}
}

func TestCacheLeaderCancelDoesNotStarveFollowers(t *testing.T) {
	l := &cancelAwareLoader{started: make(chan struct{}), release: make(chan struct{})}
	c := NewCache(l, testLogger())

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leader := make(chan Dataset, 1)
	go func() { leader <- c.Get(leaderCtx, 2016) }()
	<-l.started

	follower := make(chan Dataset, 1)
	go func() { follower <- c.Get(context.Background(), 2016) }()
	time.Sleep(20 * time.Millisecond)

	cancelLeader()
	assert.False(t, (<-leader).Usable(), "canceled caller returns without waiting")

	close(l.release)
	ds := <-follower
	assert.True(t, ds.Usable())
	assert.True(t, c.Cached(2016))
	assert.True(t, c.Get(context.Background(), 2016).Usable())
	assert.Equal(t, int32(1), l.calls.Load())
}

func TestWarmReportsPerYear(t *testing.T) {
	src := fixtureSource()
	c := NewCache(NewNormalizer(src, testLogger()), testLogger())

	res := c.Warm(context.Background(), []int{2012, 2011}, 4)

	require.Len(t, res.Years, 2)
	assert.Equal(t, 2011, res.Years[0].Year)
	assert.True(t, res.Years[0].Usable)
	assert.Equal(t, 2, res.Years[0].Roster)
	assert.False(t, res.Years[1].Usable)
	assert.Equal(t, 1, res.Usable)
	assert.Equal(t, 1, res.Empty)
	assert.Contains(t, res.Summary(), "usable=1")
}
