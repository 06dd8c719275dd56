package season

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Loader produces a dataset for a year.
type Loader interface {
	Normalize(ctx context.Context, year int) Dataset
}

// Cache memoizes one dataset per year for the life of the process. A year
// whose roster or statistics came back empty is stored as the fully empty
// dataset and is never reloaded.
type Cache struct {
	loader Loader
	logger *slog.Logger

	mu     sync.RWMutex
	years  map[int]Dataset
	hits   int
	misses int

	group singleflight.Group
}

// NewCache creates a cache in front of loader.
func NewCache(loader Loader, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		loader: loader,
		logger: logger,
		years:  make(map[int]Dataset),
	}
}

// Get returns the dataset for year, normalizing it on first request.
// Concurrent first requests share a single normalization, which runs on a
// context detached from every caller and is stored when it finishes. A
// caller whose ctx ends first gets the empty dataset for year.
func (c *Cache) Get(ctx context.Context, year int) Dataset {
	c.mu.Lock()
	if ds, ok := c.years[year]; ok {
		c.hits++
		c.mu.Unlock()
		return ds
	}
	c.misses++
	c.mu.Unlock()

	if ctx.Err() != nil {
		return Empty(year)
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(strconv.Itoa(year), func() (interface{}, error) {
		c.mu.RLock()
		ds, ok := c.years[year]
		c.mu.RUnlock()
		if ok {
			return ds, nil
		}

		ds = c.loader.Normalize(loadCtx, year)
		if !ds.Usable() {
			ds = Empty(year)
		}

		c.mu.Lock()
		c.years[year] = ds
		c.mu.Unlock()
		if !ds.Usable() {
			c.logger.Warn("Season cached as empty", "year", year)
		}
		return ds, nil
	})

	select {
	case res := <-ch:
		return res.Val.(Dataset)
	case <-ctx.Done():
		c.logger.Warn("Season load abandoned by caller", "year", year, "error", ctx.Err())
		return Empty(year)
	}
}

// Cached reports whether year has a stored dataset.
func (c *Cache) Cached(year int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.years[year]
	return ok
}

// Stats returns cache statistics.
func (c *Cache) Stats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	years := make([]int, 0, len(c.years))
	empty := 0
	for y, ds := range c.years {
		years = append(years, y)
		if !ds.Usable() {
			empty++
		}
	}
	sort.Ints(years)
	return map[string]interface{}{
		"cached_years": years,
		"empty_years":  empty,
		"hits":         c.hits,
		"misses":       c.misses,
	}
}
