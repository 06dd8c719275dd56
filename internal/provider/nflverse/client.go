// Package nflverse reads season data from the nflverse CSV releases.
//
// Files are fetched over HTTP with a token bucket limiter, or read from a
// local directory holding the same file names for offline use.
package nflverse

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"

	"github.com/jcturnbull/DailyDraft/internal/provider"
)

// Fetcher loads one CSV file as a table.
type Fetcher interface {
	Fetch(ctx context.Context, location string) (provider.Table, error)
}

// Client is the HTTP fetcher for release files.
type Client struct {
	httpClient *http.Client
	userAgent  string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates an HTTP fetcher with rate limiting.
func NewClient(requestsPerMinute int, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	rps := float64(requestsPerMinute) / 60.0
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  "dailydraft/1.0 (+https://github.com/jcturnbull/DailyDraft)",
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger,
	}
}

// Fetch performs a rate-limited GET and parses the body as CSV.
func (c *Client) Fetch(ctx context.Context, location string) (provider.Table, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return provider.Table{}, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return provider.Table{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return provider.Table{}, fmt.Errorf("http request %s: %w", location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return provider.Table{}, fmt.Errorf("nflverse %s returned %d: %s", location, resp.StatusCode, truncate(body, 200))
	}

	t, err := ReadTable(resp.Body)
	if err != nil {
		return provider.Table{}, fmt.Errorf("parse %s: %w", location, err)
	}
	c.logger.Debug("Fetched nflverse file", "url", location, "rows", t.Len(), "duration", time.Since(start))
	return t, nil
}

// Dir reads release files from a local directory. The file name is the last
// path element of the location.
type Dir struct {
	root string
}

// NewDir returns a fetcher rooted at dir.
func NewDir(dir string) *Dir {
	return &Dir{root: dir}
}

// Fetch opens the file named by location's base name under the root.
func (d *Dir) Fetch(_ context.Context, location string) (provider.Table, error) {
	p := filepath.Join(d.root, path.Base(location))
	f, err := os.Open(p)
	if err != nil {
		return provider.Table{}, fmt.Errorf("open %s: %w", p, err)
	}
	defer f.Close()

	t, err := ReadTable(f)
	if err != nil {
		return provider.Table{}, fmt.Errorf("parse %s: %w", p, err)
	}
	return t, nil
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
