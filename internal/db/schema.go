package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jcturnbull/DailyDraft/internal/config"
)

const completionsDDL = `
CREATE TABLE IF NOT EXISTS ` + config.CompletionsTable + ` (
	game_date    DATE        NOT NULL,
	user_id      TEXT        NOT NULL,
	score        INTEGER     NOT NULL,
	max_score    INTEGER     NOT NULL,
	results      JSONB       NOT NULL DEFAULT '{}'::jsonb,
	completed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (game_date, user_id)
)`

// ensureSchema creates the completions table on a short-lived connection so
// that statements prepared on pool connections can reference it.
func ensureSchema(ctx context.Context, connCfg *pgx.ConnConfig) error {
	conn, err := pgx.ConnectConfig(ctx, connCfg)
	if err != nil {
		return fmt.Errorf("connect for schema: %w", err)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, completionsDDL); err != nil {
		return fmt.Errorf("create %s: %w", config.CompletionsTable, err)
	}
	return nil
}
