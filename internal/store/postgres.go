package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jcturnbull/DailyDraft/internal/game"
)

// Querier is the subset of *pgxpool.Pool the Postgres store needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps completions in the completions table using the
// statements prepared by the db package.
type PostgresStore struct {
	q Querier
}

// NewPostgresStore returns a store over q.
func NewPostgresStore(q Querier) *PostgresStore {
	return &PostgresStore{q: q}
}

func parseDate(date string) (time.Time, error) {
	d, err := time.Parse(game.DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	return d, nil
}

func (s *PostgresStore) Save(ctx context.Context, rec Record) error {
	d, err := parseDate(rec.Date)
	if err != nil {
		return err
	}
	results, err := json.Marshal(rec.Results)
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	if _, err := s.q.Exec(ctx, "completion_upsert",
		d, rec.UserID, rec.Score, rec.MaxScore, results, rec.CompletedAt,
	); err != nil {
		return fmt.Errorf("save completion: %w", err)
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, rec Record) error {
	d, err := parseDate(rec.Date)
	if err != nil {
		return err
	}
	results, err := json.Marshal(rec.Results)
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	tag, err := s.q.Exec(ctx, "completion_insert",
		d, rec.UserID, rec.Score, rec.MaxScore, results, rec.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("create completion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyCompleted
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, date, userID string) (Record, error) {
	d, err := parseDate(date)
	if err != nil {
		return Record{}, err
	}

	rec := Record{Date: date, UserID: userID}
	var results []byte
	err = s.q.QueryRow(ctx, "completion_get", d, userID).
		Scan(&rec.Score, &rec.MaxScore, &results, &rec.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get completion: %w", err)
	}
	if err := json.Unmarshal(results, &rec.Results); err != nil {
		return Record{}, fmt.Errorf("decode results: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) HasCompleted(ctx context.Context, date, userID string) (bool, error) {
	d, err := parseDate(date)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := s.q.QueryRow(ctx, "completion_exists", d, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check completion: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) Prune(ctx context.Context, r Retention, now time.Time) (int, error) {
	cutoff, err := parseDate(r.Cutoff(now))
	if err != nil {
		return 0, err
	}
	stmt := "completion_prune_before"
	if r.CurrentDayOnly {
		stmt = "completion_prune_except"
	}
	tag, err := s.q.Exec(ctx, stmt, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune completions: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// HealthCheck runs the prepared health query.
func (s *PostgresStore) HealthCheck(ctx context.Context) error {
	var n int
	return s.q.QueryRow(ctx, "health_check").Scan(&n)
}
