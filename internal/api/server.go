package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/jcturnbull/DailyDraft/internal/api/handler"
	"github.com/jcturnbull/DailyDraft/internal/config"
)

// NewRouter creates and configures the Chi router with all middleware and
// routes. A nil mcpHandler leaves /mcp unmounted.
func NewRouter(h *handler.Handler, cfg *config.Config, mcpHandler http.Handler) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS. Credentials are allowed so the identity cookie reaches the API.
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control", UserHeader, "Mcp-Session-Id"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "ETag", "Mcp-Session-Id"},
		AllowCredentials: true,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/store", h.HealthCheckStore)
		r.Get("/cache", h.HealthCheckCache)
	})

	// Swagger UI
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(UserMiddleware(cfg.IsProduction()))

		// Daily round
		r.Get("/daily", h.GetDaily)
		r.Get("/daily/status", h.GetDailyStatus)
		r.Post("/daily/complete", h.PostDailyComplete)
		r.Get("/daily/share", h.GetDailyShare)
		r.Get("/completion/{date}", h.GetCompletion)

		// Practice and answering
		r.Post("/practice", h.PostPractice)
		r.Get("/rounds/{seed}/questions/{index}/candidates", h.GetRoundCandidates)
		r.Post("/rounds/{seed}/answers", h.PostAnswer)

		// Players
		r.Get("/eligible/{position}/{year}", h.GetEligible)
	})

	// MCP tools
	if mcpHandler != nil {
		r.Handle("/mcp", mcpHandler)
		r.Handle("/mcp/*", mcpHandler)
	}

	return r
}
