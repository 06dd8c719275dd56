// Package maintenance runs periodic background tasks as Go tickers.
package maintenance

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jcturnbull/DailyDraft/internal/game"
	"github.com/jcturnbull/DailyDraft/internal/store"
)

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	PruneInterval time.Duration // Completions outside the retention window
	WarmInterval  time.Duration // Today's round, regenerated when the date changes
}

// DefaultConfig returns sensible production defaults.
func DefaultConfig() Config {
	return Config{
		PruneInterval: 60 * time.Minute,
		WarmInterval:  5 * time.Minute,
	}
}

// Pruner deletes completions outside a retention window.
type Pruner interface {
	Prune(ctx context.Context, r store.Retention, now time.Time) (int, error)
}

// Rounds regenerates the round for a seed.
type Rounds interface {
	ForSeed(ctx context.Context, seed int64) []game.Question
}

// Deps are the collaborators of the maintenance tasks.
type Deps struct {
	Store     Pruner
	Retention store.Retention
	Rounds    Rounds
	// Now defaults to time.Now.
	Now func() time.Time
}

// Start launches all configured maintenance tickers. Each enabled task also
// runs once immediately. Blocks until ctx is cancelled. Intended to be
// called with `go`.
func Start(ctx context.Context, deps Deps, cfg Config, logger *slog.Logger) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	logger.Info("Maintenance tickers started",
		"prune", cfg.PruneInterval,
		"warm", cfg.WarmInterval)

	tickers := make([]*time.Ticker, 0, 2)
	defer func() {
		for _, t := range tickers {
			t.Stop()
		}
	}()

	var wg sync.WaitGroup

	if cfg.PruneInterval > 0 && deps.Store != nil {
		t := time.NewTicker(cfg.PruneInterval)
		tickers = append(tickers, t)
		prune := func() { Prune(ctx, deps, logger) }
		prune()
		wg.Add(1)
		go func() {
			defer wg.Done()
			runLoop(ctx, t.C, prune)
		}()
	}

	if cfg.WarmInterval > 0 && deps.Rounds != nil {
		t := time.NewTicker(cfg.WarmInterval)
		tickers = append(tickers, t)
		w := &dailyWarmer{deps: deps, logger: logger}
		w.run(ctx)
		wg.Add(1)
		go func() {
			defer wg.Done()
			runLoop(ctx, t.C, func() { w.run(ctx) })
		}()
	}

	<-ctx.Done()
	wg.Wait()
	logger.Info("Maintenance tickers stopped")
}

func runLoop(ctx context.Context, ch <-chan time.Time, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

// --------------------------------------------------------------------------
// Task implementations
// --------------------------------------------------------------------------

// Prune removes completions outside the retention window and returns how
// many were deleted.
func Prune(ctx context.Context, deps Deps, logger *slog.Logger) int {
	now := time.Now()
	if deps.Now != nil {
		now = deps.Now()
	}
	n, err := deps.Store.Prune(ctx, deps.Retention, now)
	if err != nil {
		logger.Warn("Prune: failed to delete old completions", "error", err)
		return 0
	}
	if n > 0 {
		logger.Info("Prune: deleted old completions", "count", n, "cutoff", deps.Retention.Cutoff(now))
	}
	return n
}

// dailyWarmer generates the daily round once per UTC date so its seasons
// are loaded before the first request.
type dailyWarmer struct {
	deps   Deps
	logger *slog.Logger
	date   string
}

func (w *dailyWarmer) run(ctx context.Context) bool {
	seed, date := game.SeedAndDateForNow(w.deps.Now())
	if date == w.date {
		return false
	}
	start := time.Now()
	questions := w.deps.Rounds.ForSeed(ctx, seed)
	if ctx.Err() != nil {
		return false
	}
	issues := 0
	for _, q := range questions {
		if !q.Answerable() {
			issues++
		}
	}
	w.date = date
	w.logger.Info("Warm: daily round ready",
		"date", date,
		"questions", len(questions),
		"data_issues", issues,
		"duration", time.Since(start).Round(time.Millisecond))
	return true
}
