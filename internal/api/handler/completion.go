package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jcturnbull/DailyDraft/internal/api/respond"
	"github.com/jcturnbull/DailyDraft/internal/game"
	"github.com/jcturnbull/DailyDraft/internal/store"
)

// Pick is the user's choice for one question.
type Pick struct {
	PlayerID   string `json:"player_id" validate:"max=64"`
	PlayerName string `json:"player_name" validate:"max=128"`
}

// CompleteRequest submits every pick of today's round.
type CompleteRequest struct {
	Picks map[int]Pick `json:"picks" validate:"max=5,dive,keys,min=0,max=4,endkeys"`
}

// CompletionResponse is a saved completion.
type CompletionResponse struct {
	Date        string              `json:"date"`
	Score       int                 `json:"score"`
	MaxScore    int                 `json:"max_score"`
	Results     map[int]game.Result `json:"results"`
	CompletedAt time.Time           `json:"completed_at"`
	ShareText   string              `json:"share_text,omitempty"`
}

// StatusResponse describes the caller's standing for today.
type StatusResponse struct {
	Date             string              `json:"date"`
	Seed             int64               `json:"seed,string"`
	Completed        bool                `json:"completed"`
	Record           *CompletionResponse `json:"record,omitempty"`
	NextResetSeconds int                 `json:"next_reset_seconds"`
}

func completionOf(rec store.Record) *CompletionResponse {
	return &CompletionResponse{
		Date:        rec.Date,
		Score:       rec.Score,
		MaxScore:    rec.MaxScore,
		Results:     rec.Results,
		CompletedAt: rec.CompletedAt,
	}
}

// GetDailyStatus reports whether the caller finished today's round.
// @Summary Get daily status
// @Description Returns today's date and seed, whether the caller has completed it, and seconds until the next round.
// @Tags completion
// @Produce json
// @Success 200 {object} StatusResponse
// @Failure 503 {object} respond.ErrorResponse
// @Router /api/v1/daily/status [get]
func (h *Handler) GetDailyStatus(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	seed, date := game.SeedAndDateForNow(now)
	resp := StatusResponse{
		Date:             date,
		Seed:             seed,
		NextResetSeconds: int(game.NextReset(now).Seconds()),
	}

	rec, err := h.store.Get(r.Context(), date, UserFrom(r.Context()))
	switch {
	case err == nil:
		resp.Completed = true
		resp.Record = completionOf(rec)
	case !errors.Is(err, store.ErrNotFound):
		h.logger.Warn("Completion lookup failed", "date", date, "error", err)
		respond.WriteError(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Completion store is unavailable")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, resp)
}

// PostDailyComplete scores and saves today's round for the caller.
// @Summary Complete the daily round
// @Description Re-scores the submitted picks against today's round and saves the completion. Questions without a leader are skipped and do not count toward the maximum.
// @Tags completion
// @Accept json
// @Produce json
// @Param body body CompleteRequest true "Picks keyed by question index"
// @Success 201 {object} CompletionResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 409 {object} respond.ErrorResponse
// @Router /api/v1/daily/complete [post]
func (h *Handler) PostDailyComplete(w http.ResponseWriter, r *http.Request) {
	var req CompleteRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx := r.Context()
	user := UserFrom(ctx)
	now := h.now()
	seed, date := game.SeedAndDateForNow(now)

	done, err := h.store.HasCompleted(ctx, date, user)
	if err != nil {
		h.logger.Warn("Completion check failed", "date", date, "error", err)
		respond.WriteError(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Completion store is unavailable")
		return
	}
	if done {
		respond.WriteError(w, http.StatusConflict, "ALREADY_COMPLETED", "Today's round is already complete")
		return
	}

	gctx := gameContext(r)
	questions := h.gen.ForSeed(gctx, seed)
	card := game.NewScorecard()
	for _, q := range questions {
		p := req.Picks[q.Index]
		card.Record(q.Index, game.Answer(gctx, h.seasons, q, p.PlayerID, p.PlayerName))
	}

	rec := store.Record{
		Date:     date,
		UserID:   user,
		Score:    card.Total,
		MaxScore: card.Max,
		Results:  card.Results,
	}
	h.retention.Stamp(&rec, now)
	if err := h.store.Create(ctx, rec); err != nil {
		if errors.Is(err, store.ErrAlreadyCompleted) {
			respond.WriteError(w, http.StatusConflict, "ALREADY_COMPLETED", "Today's round is already complete")
			return
		}
		h.logger.Error("Saving completion failed", "date", date, "error", err)
		respond.WriteError(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Completion could not be saved")
		return
	}
	h.logger.Info("Daily round completed", "date", date, "score", rec.Score, "max", rec.MaxScore)

	resp := completionOf(rec)
	resp.ShareText = game.ShareText(rec.Results, questions, rec.Score, rec.MaxScore, date)
	respond.WriteJSONObject(w, http.StatusCreated, resp)
}

// GetCompletion returns the caller's completion for a date.
// @Summary Get a completion
// @Description Returns the caller's saved completion for the date.
// @Tags completion
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} CompletionResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/v1/completion/{date} [get]
func (h *Handler) GetCompletion(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if _, err := time.Parse(game.DateLayout, date); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_DATE", "date must be YYYY-MM-DD")
		return
	}
	rec, ok := h.lookup(w, r, date)
	if !ok {
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, completionOf(rec))
}

// GetDailyShare renders the share text of the caller's completed round.
// @Summary Get share text
// @Description Returns the plain-text summary of today's completed round.
// @Tags completion
// @Produce plain
// @Success 200 {string} string
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/v1/daily/share [get]
func (h *Handler) GetDailyShare(w http.ResponseWriter, r *http.Request) {
	seed, date := game.SeedAndDateForNow(h.now())
	rec, ok := h.lookup(w, r, date)
	if !ok {
		return
	}
	questions := h.gen.ForSeed(gameContext(r), seed)
	respond.WriteText(w, http.StatusOK, game.ShareText(rec.Results, questions, rec.Score, rec.MaxScore, date))
}

// lookup fetches the caller's record or writes the error response.
func (h *Handler) lookup(w http.ResponseWriter, r *http.Request, date string) (store.Record, bool) {
	rec, err := h.store.Get(r.Context(), date, UserFrom(r.Context()))
	if errors.Is(err, store.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "No completion for "+date)
		return store.Record{}, false
	}
	if err != nil {
		h.logger.Warn("Completion lookup failed", "date", date, "error", err)
		respond.WriteError(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Completion store is unavailable")
		return store.Record{}, false
	}
	return rec, true
}
