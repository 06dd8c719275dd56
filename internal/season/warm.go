package season

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// YearResult reports what was loaded for one year.
type YearResult struct {
	Year          int  `json:"year"`
	Roster        int  `json:"roster"`
	Stats         int  `json:"stats"`
	Participation int  `json:"participation"`
	Usable        bool `json:"usable"`
}

// WarmResult tracks the outcome of a Warm run.
type WarmResult struct {
	Years    []YearResult  `json:"years"`
	Usable   int           `json:"usable"`
	Empty    int           `json:"empty"`
	Errors   []string      `json:"errors,omitempty"`
	Duration time.Duration `json:"duration"`
}

// AddErrorf records a formatted error message.
func (r *WarmResult) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the run.
func (r *WarmResult) Summary() string {
	return fmt.Sprintf(
		"years=%d usable=%d empty=%d errors=%d duration=%s",
		len(r.Years), r.Usable, r.Empty, len(r.Errors), r.Duration.Round(time.Millisecond),
	)
}

// Warm loads the given years into the cache using a pool of workers. Results
// are ordered by year.
func (c *Cache) Warm(ctx context.Context, years []int, workers int) WarmResult {
	start := time.Now()
	var result WarmResult
	if len(years) == 0 {
		return result
	}

	if workers < 1 {
		workers = 1
	}
	if workers > len(years) {
		workers = len(years)
	}

	ch := make(chan int, len(years))
	for _, y := range years {
		ch <- y
	}
	close(ch)

	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for year := range ch {
				if err := ctx.Err(); err != nil {
					mu.Lock()
					result.AddErrorf("year %d: %v", year, err)
					mu.Unlock()
					continue
				}

				ds := c.Get(ctx, year)
				if err := ctx.Err(); err != nil {
					mu.Lock()
					result.AddErrorf("year %d: %v", year, err)
					mu.Unlock()
					continue
				}
				yr := YearResult{
					Year:          year,
					Roster:        len(ds.Roster),
					Stats:         ds.Stats.Len(),
					Participation: len(ds.Participation),
					Usable:        ds.Usable(),
				}

				mu.Lock()
				result.Years = append(result.Years, yr)
				if yr.Usable {
					result.Usable++
				} else {
					result.Empty++
				}
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	sort.Slice(result.Years, func(i, j int) bool { return result.Years[i].Year < result.Years[j].Year })
	result.Duration = time.Since(start)

	c.logger.Info("Season warm complete", "summary", result.Summary())
	return result
}
