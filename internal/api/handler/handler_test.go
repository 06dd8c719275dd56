package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcturnbull/DailyDraft/internal/cache"
	"github.com/jcturnbull/DailyDraft/internal/config"
	"github.com/jcturnbull/DailyDraft/internal/game"
	"github.com/jcturnbull/DailyDraft/internal/provider"
	"github.com/jcturnbull/DailyDraft/internal/season"
	"github.com/jcturnbull/DailyDraft/internal/store"
)

var fixedNow = time.Date(2024, time.March, 10, 15, 0, 0, 0, time.UTC)

type staticLoader map[int]season.Dataset

func (l staticLoader) Normalize(_ context.Context, year int) season.Dataset {
	if ds, ok := l[year]; ok {
		return ds
	}
	return season.Empty(year)
}

var cols = []string{
	"player_id", "position", "player_name",
	"passing_yards", "passing_tds", "completions", "attempts",
	"receptions", "receiving_yards", "receiving_tds", "targets",
	"rushing_yards", "rushing_tds", "carries",
}

func row(id, pos, name string, vals ...float64) provider.Row {
	r := provider.Row{"player_id": id, "position": pos, "player_name": name}
	for i, v := range vals {
		r[cols[3+i]] = v
	}
	return r
}

// The first player listed per position leads every statistic.
func fixture() season.Dataset {
	return season.Dataset{
		Year: 2010,
		Roster: []season.RosterEntry{
			{PlayerID: "QB1", Position: "QB", PlayerName: "Peyton Manning"},
			{PlayerID: "QB2", Position: "QB", PlayerName: "Drew Brees"},
			{PlayerID: "WR1", Position: "WR", PlayerName: "Roddy White"},
			{PlayerID: "WR2", Position: "WR", PlayerName: "Brandon Lloyd"},
			{PlayerID: "RB1", Position: "RB", PlayerName: "Arian Foster"},
			{PlayerID: "RB2", Position: "RB", PlayerName: "Jamaal Charles"},
			{PlayerID: "TE1", Position: "TE", PlayerName: "Antonio Gates"},
		},
		Stats: provider.Table{
			Columns: cols,
			Rows: []provider.Row{
				row("QB1", "QB", "Peyton Manning", 4700, 33, 450, 679),
				row("QB2", "QB", "Drew Brees", 4000, 30, 400, 600),
				row("WR1", "WR", "Roddy White", 0, 0, 0, 0, 115, 1389, 10, 179),
				row("WR2", "WR", "Brandon Lloyd", 0, 0, 0, 0, 77, 1200, 8, 150),
				row("RB1", "RB", "Arian Foster", 0, 0, 0, 0, 66, 604, 2, 84, 1616, 16, 327),
				row("RB2", "RB", "Jamaal Charles", 0, 0, 0, 0, 45, 468, 3, 64, 1467, 5, 230),
				row("TE1", "TE", "Antonio Gates", 0, 0, 0, 0, 50, 782, 10, 72),
			},
		},
	}
}

var leaders = map[string]string{"QB": "QB1", "WR": "WR1", "RB": "RB1", "TE": "TE1"}

// ctxLoader reports an empty season when asked to load on a finished context.
type ctxLoader struct{ staticLoader }

func (l ctxLoader) Normalize(ctx context.Context, year int) season.Dataset {
	if ctx.Err() != nil {
		return season.Empty(year)
	}
	return l.staticLoader.Normalize(ctx, year)
}

func newTestHandler(t *testing.T) (*Handler, http.Handler) {
	t.Helper()
	return newTestHandlerWith(t, staticLoader{2010: fixture()})
}

func newTestHandlerWith(t *testing.T, loader season.Loader) (*Handler, http.Handler) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	seasons := season.NewCache(loader, logger)
	gen := game.NewGenerator(seasons, game.YearRange{Floor: 2010, Ceiling: 2010}, logger).
		WithClock(func() time.Time { return fixedNow })
	fs := store.NewFileStore(filepath.Join(t.TempDir(), "completed.json"), logger)

	h := New(Deps{
		Config:    &config.Config{StoreBackend: config.StoreFile},
		Seasons:   seasons,
		Generator: gen,
		Store:     fs,
		Retention: store.Retention{Days: 30, Location: time.UTC},
		Cache:     cache.New(true),
		Logger:    logger,
		Now:       func() time.Time { return fixedNow },
	})

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(WithUser(req.Context(), req.Header.Get("X-User-ID"))))
		})
	})
	r.Get("/", h.Root)
	r.Get("/health", h.HealthCheck)
	r.Get("/health/store", h.HealthCheckStore)
	r.Get("/health/cache", h.HealthCheckCache)
	r.Get("/daily", h.GetDaily)
	r.Get("/daily/status", h.GetDailyStatus)
	r.Post("/daily/complete", h.PostDailyComplete)
	r.Get("/daily/share", h.GetDailyShare)
	r.Post("/practice", h.PostPractice)
	r.Get("/completion/{date}", h.GetCompletion)
	r.Get("/rounds/{seed}/questions/{index}/candidates", h.GetRoundCandidates)
	r.Post("/rounds/{seed}/answers", h.PostAnswer)
	r.Get("/eligible/{position}/{year}", h.GetEligible)
	return h, r
}

func do(t *testing.T, srv http.Handler, method, path, user, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestRootAndHealth(t *testing.T) {
	_, srv := newTestHandler(t)

	rec := do(t, srv, http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var root map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &root))
	assert.EqualValues(t, 10000, root["max_points"])
	assert.EqualValues(t, 2010, root["year_floor"])

	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/health", "", "").Code)
	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/health/store", "", "").Code)

	rec = do(t, srv, http.MethodGet, "/health/cache", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "seasons")
}

func TestGetDailyHidesAnswersAndCaches(t *testing.T) {
	_, srv := newTestHandler(t)

	rec := do(t, srv, http.MethodGet, "/daily", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.NotContains(t, rec.Body.String(), "leader")

	var round RoundResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &round))
	wantSeed, wantDate := game.SeedAndDateForNow(fixedNow)
	assert.Equal(t, game.ModeDaily, round.Mode)
	assert.Equal(t, wantDate, round.Date)
	assert.Equal(t, wantSeed, round.Seed)
	require.Len(t, round.Questions, game.QuestionsPerRound)
	for i, q := range round.Questions {
		assert.Equal(t, i, q.Index)
		assert.Equal(t, game.DraftSlots[i], q.Slot)
		assert.Equal(t, 2010, q.Year)
		assert.False(t, q.DataIssue)
	}

	again := do(t, srv, http.MethodGet, "/daily", "", "")
	assert.Equal(t, "HIT", again.Header().Get("X-Cache"))
	assert.Equal(t, rec.Body.String(), again.Body.String())

	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)
	notModified := do(t, srv, http.MethodGet, "/daily", "", "", "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, notModified.Code)
}

func TestGetDailyAfterCanceledRequestMatchesScoredRound(t *testing.T) {
	h, srv := newTestHandlerWith(t, ctxLoader{staticLoader{2010: fixture()}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/daily", nil).WithContext(ctx)
	srv.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, h.seasons.Cached(2010))

	rec := do(t, srv, http.MethodGet, "/daily", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))

	var round RoundResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &round))
	seed, _ := game.SeedAndDateForNow(fixedNow)
	assert.Equal(t, viewOf(h.gen.ForSeed(context.Background(), seed)), round.Questions)
	for _, q := range round.Questions {
		assert.False(t, q.DataIssue)
	}

	done := do(t, srv, http.MethodPost, "/daily/complete", "user-1", perfectPicks(t, srv))
	require.Equal(t, http.StatusCreated, done.Code)
	var resp CompletionResponse
	require.NoError(t, json.Unmarshal(done.Body.Bytes(), &resp))
	assert.Equal(t, 50000, resp.Score)
	assert.Equal(t, resp.MaxScore, resp.Score)
}

func TestPracticeRoundAnswers(t *testing.T) {
	_, srv := newTestHandler(t)

	rec := do(t, srv, http.MethodPost, "/practice", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var round RoundResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &round))
	assert.Equal(t, game.ModePractice, round.Mode)
	require.Len(t, round.Questions, game.QuestionsPerRound)

	seed := strconv.FormatInt(round.Seed, 10)
	te := round.Questions[4]
	body := `{"index":4,"player_id":"` + leaders[te.Position] + `","player_name":"Antonio Gates"}`
	rec = do(t, srv, http.MethodPost, "/rounds/"+seed+"/answers", "", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var ans AnswerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ans))
	assert.Equal(t, game.MaxPoints, ans.Result.Points)
	assert.Equal(t, game.TierPerfect, ans.Result.Tier)
	require.NotNil(t, ans.Correct.PlayerID)
	assert.Equal(t, "TE1", *ans.Correct.PlayerID)
	assert.Equal(t, te.Statistic, ans.Correct.Statistic)
}

func TestPostAnswerNoSelection(t *testing.T) {
	_, srv := newTestHandler(t)

	rec := do(t, srv, http.MethodPost, "/rounds/42/answers", "", `{"index":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var ans AnswerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ans))
	assert.Equal(t, 0, ans.Result.Points)
	assert.Equal(t, game.TierNone, ans.Result.Tier)
	assert.Equal(t, "No player selected.", ans.Result.Message)
}

func TestPostAnswerRejectsBadInput(t *testing.T) {
	_, srv := newTestHandler(t)

	tests := []struct {
		name string
		path string
		body string
		code string
	}{
		{"bad seed", "/rounds/abc/answers", `{"index":0}`, "INVALID_SEED"},
		{"bad json", "/rounds/1/answers", `{"index":`, "INVALID_JSON"},
		{"unknown field", "/rounds/1/answers", `{"index":0,"points":10000}`, "INVALID_JSON"},
		{"index out of range", "/rounds/1/answers", `{"index":7}`, "INVALID_BODY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, tt.path, "", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.code)
		})
	}
}

func TestCandidates(t *testing.T) {
	_, srv := newTestHandler(t)

	rec := do(t, srv, http.MethodGet, "/rounds/7/questions/0/candidates", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got []game.Candidate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Drew Brees", got[0].Name)
	assert.Equal(t, "Peyton Manning", got[1].Name)

	rec = do(t, srv, http.MethodGet, "/rounds/7/questions/5/candidates", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetEligible(t *testing.T) {
	_, srv := newTestHandler(t)

	rec := do(t, srv, http.MethodGet, "/eligible/RB/2010", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	var got []game.Candidate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Arian Foster", got[0].Name)

	again := do(t, srv, http.MethodGet, "/eligible/RB/2010", "", "")
	assert.Equal(t, "HIT", again.Header().Get("X-Cache"))

	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodGet, "/eligible/K/2010", "", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodGet, "/eligible/QB/1990", "", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodGet, "/eligible/QB/soon", "", "").Code)
}

func perfectPicks(t *testing.T, srv http.Handler) string {
	t.Helper()
	rec := do(t, srv, http.MethodGet, "/daily", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var round RoundResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &round))

	picks := map[int]Pick{}
	for _, q := range round.Questions {
		picks[q.Index] = Pick{PlayerID: leaders[q.Position], PlayerName: q.Position + " leader"}
	}
	body, err := json.Marshal(CompleteRequest{Picks: picks})
	require.NoError(t, err)
	return string(body)
}

func TestDailyCompletionFlow(t *testing.T) {
	_, srv := newTestHandler(t)
	_, date := game.SeedAndDateForNow(fixedNow)

	rec := do(t, srv, http.MethodGet, "/daily/status", "alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var status StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.False(t, status.Completed)
	assert.Equal(t, 9*60*60, status.NextResetSeconds)

	rec = do(t, srv, http.MethodPost, "/daily/complete", "alice", perfectPicks(t, srv))
	require.Equal(t, http.StatusCreated, rec.Code)
	var done CompletionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &done))
	assert.Equal(t, date, done.Date)
	assert.Equal(t, 5*game.MaxPoints, done.Score)
	assert.Equal(t, 5*game.MaxPoints, done.MaxScore)
	assert.Len(t, done.Results, game.QuestionsPerRound)
	assert.Contains(t, done.ShareText, "50,000")

	rec = do(t, srv, http.MethodPost, "/daily/complete", "alice", perfectPicks(t, srv))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, srv, http.MethodGet, "/daily/status", "alice", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.Completed)
	require.NotNil(t, status.Record)
	assert.Equal(t, 5*game.MaxPoints, status.Record.Score)

	rec = do(t, srv, http.MethodGet, "/completion/"+date, "alice", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodGet, "/daily/share", "alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
	assert.Contains(t, rec.Body.String(), date)

	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/completion/"+date, "bob", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/daily/share", "bob", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodGet, "/completion/yesterday", "bob", "").Code)
}

func TestDailyCompletionConcurrentSubmissions(t *testing.T) {
	_, srv := newTestHandler(t)
	body := perfectPicks(t, srv)

	var wg sync.WaitGroup
	codes := make([]int, 6)
	for i := range codes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = do(t, srv, http.MethodPost, "/daily/complete", "erin", body).Code
		}(i)
	}
	wg.Wait()

	created := 0
	for _, code := range codes {
		if code == http.StatusCreated {
			created++
			continue
		}
		assert.Equal(t, http.StatusConflict, code)
	}
	assert.Equal(t, 1, created)
}

func TestDailyCompletionEmptyPicks(t *testing.T) {
	_, srv := newTestHandler(t)

	rec := do(t, srv, http.MethodPost, "/daily/complete", "carol", `{"picks":{}}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var done CompletionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &done))
	assert.Equal(t, 0, done.Score)
	assert.Equal(t, 5*game.MaxPoints, done.MaxScore)
	for _, r := range done.Results {
		assert.Equal(t, game.TierNone, r.Tier)
	}
}

func TestDailyCompletionRejectsBadIndex(t *testing.T) {
	_, srv := newTestHandler(t)

	rec := do(t, srv, http.MethodPost, "/daily/complete", "dave", `{"picks":{"9":{"player_id":"QB1"}}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
