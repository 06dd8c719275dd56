package maintenance

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jcturnbull/DailyDraft/internal/season"
)

// WarmSeasons loads every year in [from, to] into the season cache. It fails
// only when no year produced usable data.
// Call this at startup or from the CLI before serving traffic.
func WarmSeasons(ctx context.Context, seasons *season.Cache, from, to, workers int, logger *slog.Logger) (season.WarmResult, error) {
	if from > to {
		return season.WarmResult{}, fmt.Errorf("warm: empty year range %d-%d", from, to)
	}
	years := make([]int, 0, to-from+1)
	for y := from; y <= to; y++ {
		years = append(years, y)
	}

	res := seasons.Warm(ctx, years, workers)
	for _, e := range res.Errors {
		logger.Warn("Warm: season not loaded", "error", e)
	}

	if err := ctx.Err(); err != nil {
		return res, fmt.Errorf("warm: %w", err)
	}
	if res.Usable == 0 {
		return res, fmt.Errorf("warm: no usable seasons in %d-%d", from, to)
	}
	return res, nil
}
