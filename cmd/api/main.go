// Command api is the Daily Draft trivia API server.
//
// Usage:
//
//	dailydraft-api
//	API_PORT=8080 STORE_BACKEND=postgres DATABASE_URL=postgres://... dailydraft-api

// @title Daily Draft NFL Trivia API
// @version 1.0.0
// @description Daily and practice rounds of NFL statistical-leader trivia with proximity scoring and per-user daily completions.
// @host localhost:8000
// @BasePath /
// @schemes http https
// @contact.name Daily Draft
// @license.name MIT
package main

//go:generate swag init --dir ../../ --generalInfo cmd/api/main.go --output ../../docs --parseInternal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jcturnbull/DailyDraft/internal/api"
	"github.com/jcturnbull/DailyDraft/internal/api/handler"
	"github.com/jcturnbull/DailyDraft/internal/app"
	"github.com/jcturnbull/DailyDraft/internal/cache"
	"github.com/jcturnbull/DailyDraft/internal/config"
	"github.com/jcturnbull/DailyDraft/internal/logging"
	"github.com/jcturnbull/DailyDraft/internal/maintenance"
	"github.com/jcturnbull/DailyDraft/internal/mcpserver"

	_ "github.com/jcturnbull/DailyDraft/docs" // swagger docs
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to configure logging:", err)
		os.Exit(1)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Completion store
	completions, closeStore, err := app.NewStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open completion store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// Season data and round generation
	g := app.NewGame(cfg, logger)
	retention := app.Retention(cfg)

	// Initialize cache
	appCache := cache.New(cfg.CacheEnabled)
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)
	go appCache.EvictLoop(ctx, 10*time.Minute)

	// Start maintenance tickers (prune, daily warm)
	go maintenance.Start(ctx, maintenance.Deps{
		Store:     completions,
		Retention: retention,
		Rounds:    g.Generator,
	}, maintenance.Config{
		PruneInterval: cfg.PruneInterval,
		WarmInterval:  cfg.WarmInterval,
	}, logger)

	h := handler.New(handler.Deps{
		Config:    cfg,
		Seasons:   g.Seasons,
		Generator: g.Generator,
		Store:     completions,
		Retention: retention,
		Cache:     appCache,
		Logger:    logger,
	})

	var mcpHandler http.Handler
	if cfg.MCPEnabled {
		mcpHandler = mcpserver.Handler(mcpserver.NewServer(&mcpserver.Tools{
			Data:      g.Seasons,
			Generator: g.Generator,
		}))
		logger.Info("MCP endpoint enabled", "path", "/mcp")
	}

	// Create router
	router := api.NewRouter(h, cfg, mcpHandler)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Daily Draft API",
			"addr", addr,
			"environment", cfg.Environment,
			"store", cfg.StoreBackend,
			"years", fmt.Sprintf("%d-%d", cfg.MinYear, cfg.MaxYear),
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
