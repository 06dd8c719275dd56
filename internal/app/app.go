// Package app assembles the season pipeline and completion store from
// configuration. Shared by cmd/api and cmd/dailydraft.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jcturnbull/DailyDraft/internal/config"
	"github.com/jcturnbull/DailyDraft/internal/db"
	"github.com/jcturnbull/DailyDraft/internal/game"
	"github.com/jcturnbull/DailyDraft/internal/provider/nflverse"
	"github.com/jcturnbull/DailyDraft/internal/season"
	"github.com/jcturnbull/DailyDraft/internal/store"
)

// Game is the read side: cached seasons and the round generator over them.
type Game struct {
	Seasons   *season.Cache
	Generator *game.Generator
}

// NewSource returns the nflverse source, reading local CSV files when
// ProviderDir is set and the release URLs otherwise.
func NewSource(cfg *config.Config, logger *slog.Logger) *nflverse.Source {
	urls := nflverse.URLs{
		Rosters:     cfg.RostersURL,
		PlayerStats: cfg.PlayerStatsURL,
		SnapCounts:  cfg.SnapCountsURL,
		PlayerIDs:   cfg.PlayerIDsURL,
	}
	var fetcher nflverse.Fetcher
	if cfg.ProviderDir != "" {
		fetcher = nflverse.NewDir(cfg.ProviderDir)
		logger.Info("Reading season data from directory", "dir", cfg.ProviderDir)
	} else {
		fetcher = nflverse.NewClient(cfg.ProviderRequestsPerMinute, cfg.ProviderTimeout, logger)
	}
	return nflverse.NewSource(fetcher, urls, logger)
}

// NewGame wires the normalizer, season cache and generator.
func NewGame(cfg *config.Config, logger *slog.Logger) *Game {
	seasons := season.NewCache(season.NewNormalizer(NewSource(cfg, logger), logger), logger)
	years := game.YearRange{Floor: cfg.MinYear, Ceiling: cfg.MaxYear}
	return &Game{
		Seasons:   seasons,
		Generator: game.NewGenerator(seasons, years, logger),
	}
}

// Retention returns the configured retention policy.
func Retention(cfg *config.Config) store.Retention {
	return store.Retention{
		Days:           cfg.RetentionDays,
		CurrentDayOnly: cfg.RetentionCurrentDayOnly,
		Location:       cfg.Location(),
	}
}

// NewStore opens the configured completion store. The returned close func
// releases the database pool, if any.
func NewStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, func(), error) {
	switch cfg.StoreBackend {
	case config.StorePostgres:
		logger.Info("Connecting to database...")
		pool, err := db.New(ctx, cfg, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		logger.Info("Database connected",
			"min_conns", cfg.DBPoolMinConns,
			"max_conns", cfg.DBPoolMaxConns)
		return store.NewPostgresStore(pool), pool.Close, nil
	case config.StoreFile, "":
		logger.Info("Using file completion store", "path", cfg.StorePath)
		return store.NewFileStore(cfg.StorePath, logger), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
