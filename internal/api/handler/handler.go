// Package handler provides HTTP handlers for all API endpoints.
// Rounds are regenerated from their seed on every request, so handlers keep
// no per-round state; only completions are persisted.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jcturnbull/DailyDraft/internal/api/respond"
	"github.com/jcturnbull/DailyDraft/internal/cache"
	"github.com/jcturnbull/DailyDraft/internal/config"
	"github.com/jcturnbull/DailyDraft/internal/game"
	"github.com/jcturnbull/DailyDraft/internal/season"
	"github.com/jcturnbull/DailyDraft/internal/store"
)

// Deps are the shared dependencies of all handlers.
type Deps struct {
	Config    *config.Config
	Seasons   *season.Cache
	Generator *game.Generator
	Store     store.Store
	Retention store.Retention
	Cache     *cache.Cache
	Logger    *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	cfg       *config.Config
	seasons   *season.Cache
	gen       *game.Generator
	store     store.Store
	retention store.Retention
	cache     *cache.Cache
	logger    *slog.Logger
	now       func() time.Time
	validate  *validator.Validate
}

// New creates a Handler with shared dependencies.
func New(d Deps) *Handler {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Cache == nil {
		d.Cache = cache.New(false)
	}
	return &Handler{
		cfg:       d.Config,
		seasons:   d.Seasons,
		gen:       d.Generator,
		store:     d.Store,
		retention: d.Retention,
		cache:     d.Cache,
		logger:    d.Logger,
		now:       d.Now,
		validate:  validator.New(),
	}
}

type userKey struct{}

// WithUser returns ctx carrying the caller's opaque id.
func WithUser(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userKey{}, id)
}

// UserFrom returns the caller's opaque id, or "" when none was resolved.
func UserFrom(ctx context.Context) string {
	id, _ := ctx.Value(userKey{}).(string)
	return id
}

// decode reads a JSON body into dst and validates it. On failure the error
// response has been written and false is returned.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		respond.WriteErrorDetail(w, http.StatusBadRequest, "INVALID_JSON", "Request body is not valid JSON", err.Error())
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag()))
			}
			respond.WriteValidationError(w, fields)
			return false
		}
		respond.WriteError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return false
	}
	return true
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status and the round rules.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	years := h.gen.Years()
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":                "Daily Draft NFL Trivia API",
		"version":             "1.0.0",
		"status":              "running",
		"docs":                "/docs",
		"slots":               game.DraftSlots,
		"max_points":          game.MaxPoints,
		"questions_per_round": game.QuestionsPerRound,
		"year_floor":          years.Floor,
		"year_ceiling":        years.Ceiling,
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthCheckStore verifies the completion store is reachable.
// @Summary Store health check
// @Description Verifies the completion store (file or Postgres) is usable.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/store [get]
func (h *Handler) HealthCheckStore(w http.ResponseWriter, r *http.Request) {
	backend := ""
	if h.cfg != nil {
		backend = h.cfg.StoreBackend
	}
	if hc, ok := h.store.(healthChecker); ok {
		if err := hc.HealthCheck(r.Context()); err != nil {
			h.logger.Warn("Store health check failed", "error", err)
			respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status":    "unhealthy",
				"store":     backend,
				"error":     "Completion store check failed",
				"timestamp": h.now().UTC().Format(time.RFC3339),
			})
			return
		}
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"store":     backend,
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns response cache and season cache statistics.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"responses": h.cache.Stats(),
		"seasons":   h.seasons.Stats(),
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}
