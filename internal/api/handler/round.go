package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jcturnbull/DailyDraft/internal/api/respond"
	"github.com/jcturnbull/DailyDraft/internal/cache"
	"github.com/jcturnbull/DailyDraft/internal/game"
)

// eligibleTTL bounds how long a candidate list is served from cache. Season
// data never changes within a process, so this only limits memory.
const eligibleTTL = 6 * time.Hour

// gameContext detaches r's context from its cancellation for round
// generation and scoring. A seed must yield the same questions whether or
// not the client that asked for them is still connected.
func gameContext(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

// QuestionView is a question without its answer.
type QuestionView struct {
	Index     int       `json:"index"`
	Slot      game.Slot `json:"slot"`
	Position  string    `json:"position"`
	Year      int       `json:"year"`
	Statistic string    `json:"statistic,omitempty"`
	Prompt    string    `json:"prompt"`
	DataIssue bool      `json:"data_issue"`
}

// RoundResponse is a generated round.
type RoundResponse struct {
	Mode      game.Mode      `json:"mode"`
	Date      string         `json:"date,omitempty"`
	Seed      int64          `json:"seed,string"`
	Questions []QuestionView `json:"questions"`
}

// AnswerRequest picks a player for one question.
type AnswerRequest struct {
	Index      int    `json:"index" validate:"min=0,max=4"`
	PlayerID   string `json:"player_id" validate:"max=64"`
	PlayerName string `json:"player_name" validate:"max=128"`
}

// CorrectAnswer is the leader revealed after an answer.
type CorrectAnswer struct {
	PlayerID  *string  `json:"player_id"`
	Name      *string  `json:"name"`
	Value     *float64 `json:"value"`
	Statistic string   `json:"statistic,omitempty"`
}

// AnswerResponse is the scored pick.
type AnswerResponse struct {
	Result  game.Result   `json:"result"`
	Correct CorrectAnswer `json:"correct"`
}

func viewOf(questions []game.Question) []QuestionView {
	out := make([]QuestionView, len(questions))
	for i, q := range questions {
		out[i] = QuestionView{
			Index:     q.Index,
			Slot:      q.Slot,
			Position:  q.Position,
			Year:      q.Year,
			Statistic: q.Statistic,
			Prompt:    q.Prompt,
			DataIssue: q.DataIssue,
		}
	}
	return out
}

// GetDaily returns today's round, identical for every caller.
// @Summary Get the daily round
// @Description Returns the five questions of today's round. The round is derived from the UTC date and cached until the next UTC midnight.
// @Tags rounds
// @Produce json
// @Success 200 {object} RoundResponse
// @Success 304 "Not modified"
// @Router /api/v1/daily [get]
func (h *Handler) GetDaily(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	seed, date := game.SeedAndDateForNow(now)
	cacheKey := "daily:" + date
	maxAge := game.NextReset(now)

	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, maxAge, true)
		return
	}

	questions := h.gen.ForSeed(gameContext(r), seed)
	data, err := json.Marshal(RoundResponse{Mode: game.ModeDaily, Date: date, Seed: seed, Questions: viewOf(questions)})
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "ENCODE_FAILED", "Could not encode round")
		return
	}

	etag := h.cache.Set(cacheKey, data, maxAge)
	respond.WriteJSON(w, data, etag, maxAge, false)
}

// PostPractice starts a new practice round.
// @Summary Start a practice round
// @Description Returns a randomly generated round. The seed identifies the round when submitting answers.
// @Tags rounds
// @Produce json
// @Success 200 {object} RoundResponse
// @Router /api/v1/practice [post]
func (h *Handler) PostPractice(w http.ResponseWriter, r *http.Request) {
	seed := game.NewPracticeSeed()
	questions := h.gen.ForSeed(gameContext(r), seed)
	respond.WriteJSONObject(w, http.StatusOK, RoundResponse{
		Mode:      game.ModePractice,
		Seed:      seed,
		Questions: viewOf(questions),
	})
}

// roundFromPath regenerates the round named by the {seed} path parameter.
func (h *Handler) roundFromPath(w http.ResponseWriter, r *http.Request) ([]game.Question, bool) {
	seed, err := strconv.ParseInt(chi.URLParam(r, "seed"), 10, 64)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_SEED", "seed must be an integer")
		return nil, false
	}
	return h.gen.ForSeed(gameContext(r), seed), true
}

// GetRoundCandidates lists the selectable players for one question.
// @Summary Get candidates for a question
// @Description Returns eligible players for the question, or a single sentinel entry with a null player_id.
// @Tags rounds
// @Produce json
// @Param seed path string true "Round seed"
// @Param index path int true "Question index (0-4)"
// @Success 200 {array} game.Candidate
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/v1/rounds/{seed}/questions/{index}/candidates [get]
func (h *Handler) GetRoundCandidates(w http.ResponseWriter, r *http.Request) {
	questions, ok := h.roundFromPath(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 || index >= len(questions) {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_INDEX",
			fmt.Sprintf("index must be between 0 and %d", len(questions)-1))
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, game.CandidatesFor(gameContext(r), h.seasons, questions[index]))
}

// PostAnswer scores one pick.
// @Summary Answer a question
// @Description Scores the chosen player against the statistical leader. An empty player_id is recorded as no selection; questions with a data issue are skipped.
// @Tags rounds
// @Accept json
// @Produce json
// @Param seed path string true "Round seed"
// @Param body body AnswerRequest true "Pick"
// @Success 200 {object} AnswerResponse
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/v1/rounds/{seed}/answers [post]
func (h *Handler) PostAnswer(w http.ResponseWriter, r *http.Request) {
	questions, ok := h.roundFromPath(w, r)
	if !ok {
		return
	}
	var req AnswerRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Index >= len(questions) {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_INDEX", "index is out of range")
		return
	}

	q := questions[req.Index]
	result := game.Answer(gameContext(r), h.seasons, q, req.PlayerID, req.PlayerName)
	respond.WriteJSONObject(w, http.StatusOK, AnswerResponse{
		Result: result,
		Correct: CorrectAnswer{
			PlayerID:  q.LeaderPlayerID,
			Name:      q.LeaderName,
			Value:     q.LeaderValue,
			Statistic: q.Statistic,
		},
	})
}

// GetEligible lists the active players at a position for a season.
// @Summary Get eligible players
// @Description Returns players at the position who recorded usage in the season, sorted by name.
// @Tags players
// @Produce json
// @Param position path string true "Position" Enums(QB, WR, RB, TE)
// @Param year path int true "Season"
// @Success 200 {array} game.Candidate
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/v1/eligible/{position}/{year} [get]
func (h *Handler) GetEligible(w http.ResponseWriter, r *http.Request) {
	position := chi.URLParam(r, "position")
	if _, ok := game.StatMenu[position]; !ok {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_POSITION", "position must be one of QB, WR, RB, TE")
		return
	}
	years := h.gen.Years()
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < years.Floor || year > years.Ceiling {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_YEAR",
			fmt.Sprintf("year must be between %d and %d", years.Floor, years.Ceiling))
		return
	}

	cacheKey := fmt.Sprintf("eligible:%s:%d", position, year)
	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, eligibleTTL, true)
		return
	}

	data, err := json.Marshal(game.Eligible(gameContext(r), h.seasons, position, year))
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "ENCODE_FAILED", "Could not encode players")
		return
	}
	etag := h.cache.Set(cacheKey, data, eligibleTTL)
	respond.WriteJSON(w, data, etag, eligibleTTL, false)
}
