// Package store persists daily round completions keyed by (date, user).
package store

import (
	"context"
	"errors"
	"time"

	"github.com/jcturnbull/DailyDraft/internal/game"
)

// ErrNotFound is returned by Get when no completion exists for the key.
var ErrNotFound = errors.New("completion not found")

// ErrAlreadyCompleted is returned by Create when a record already exists for
// the date and user.
var ErrAlreadyCompleted = errors.New("completion already exists")

// Record is a user's finished daily round.
type Record struct {
	Date        string              `json:"-"`
	UserID      string              `json:"-"`
	Score       int                 `json:"score"`
	MaxScore    int                 `json:"max_score"`
	Results     map[int]game.Result `json:"results"`
	CompletedAt time.Time           `json:"completed_at"`
}

// Store is the persistence collaborator for completions.
type Store interface {
	// Save writes rec, replacing any record with the same date and user.
	Save(ctx context.Context, rec Record) error
	// Create writes rec only if no record exists for its date and user,
	// returning ErrAlreadyCompleted otherwise. The check and the write are
	// atomic.
	Create(ctx context.Context, rec Record) error
	// Get returns the record for date and user, or ErrNotFound.
	Get(ctx context.Context, date, userID string) (Record, error)
	// HasCompleted reports whether a record exists for date and user.
	HasCompleted(ctx context.Context, date, userID string) (bool, error)
	// Prune removes every date outside the retention window and returns the
	// number of records removed.
	Prune(ctx context.Context, r Retention, now time.Time) (int, error)
}

// Retention decides which date keys survive a prune.
type Retention struct {
	// Days keeps dates no more than this many calendar days before today.
	Days int
	// CurrentDayOnly keeps today's date and nothing else.
	CurrentDayOnly bool
	// Location defines "today". Nil means UTC.
	Location *time.Location
}

func (r Retention) today(now time.Time) time.Time {
	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}
	n := now.In(loc)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

// Cutoff returns the earliest date key that is kept, formatted as
// game.DateLayout.
func (r Retention) Cutoff(now time.Time) string {
	t := r.today(now)
	if !r.CurrentDayOnly {
		t = t.AddDate(0, 0, -r.Days)
	}
	return t.Format(game.DateLayout)
}

// Keep reports whether the date key survives a prune at now. Keys that are
// not dates are kept.
func (r Retention) Keep(date string, now time.Time) bool {
	d, err := time.Parse(game.DateLayout, date)
	if err != nil {
		return true
	}
	if r.CurrentDayOnly {
		return d.Equal(r.today(now))
	}
	return !d.Before(r.today(now).AddDate(0, 0, -r.Days))
}

// Stamp sets CompletedAt to now in the retention location.
func (r Retention) Stamp(rec *Record, now time.Time) {
	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}
	rec.CompletedAt = now.In(loc)
}
