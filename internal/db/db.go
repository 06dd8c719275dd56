// Package db provides a pgxpool-based connection pool with prepared statement
// registration, schema bootstrap and health checking.
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"

	"github.com/jcturnbull/DailyDraft/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool. The completions schema
// is created before prepared statements are registered.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Pool, error) {
	if logger == nil {
		logger = slog.Default()
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	level := tracelog.LogLevelWarn
	if cfg.Debug {
		level = tracelog.LogLevelDebug
	}
	poolCfg.ConnConfig.Tracer = &tracelog.TraceLog{
		Logger:   newTraceLogger(logger),
		LogLevel: level,
	}

	if err := ensureSchema(ctx, poolCfg.ConnConfig); err != nil {
		return nil, err
	}

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// registerPreparedStatements registers all statements the completion store
// uses.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Completions
		"completion_upsert": `INSERT INTO ` + config.CompletionsTable + ` (game_date, user_id, score, max_score, results, completed_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (game_date, user_id) DO UPDATE SET
				score = EXCLUDED.score,
				max_score = EXCLUDED.max_score,
				results = EXCLUDED.results,
				completed_at = EXCLUDED.completed_at`,
		"completion_insert": `INSERT INTO ` + config.CompletionsTable + ` (game_date, user_id, score, max_score, results, completed_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (game_date, user_id) DO NOTHING`,
		"completion_get": `SELECT score, max_score, results, completed_at FROM ` + config.CompletionsTable + `
			WHERE game_date = $1 AND user_id = $2`,
		"completion_exists": `SELECT EXISTS (SELECT 1 FROM ` + config.CompletionsTable + `
			WHERE game_date = $1 AND user_id = $2)`,
		"completion_prune_before": `DELETE FROM ` + config.CompletionsTable + ` WHERE game_date < $1`,
		"completion_prune_except": `DELETE FROM ` + config.CompletionsTable + ` WHERE game_date <> $1`,
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
