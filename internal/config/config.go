// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/dailydraft.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// --------------------------------------------------------------------------
// Game rules
// --------------------------------------------------------------------------

const (
	// DefaultMinYear is the first season with usable statistics.
	DefaultMinYear = 1999
	// DefaultMaxYear is the last season the bundled data covers.
	DefaultMaxYear = 2023

	// SeasonTypeRegular selects regular-season aggregates.
	SeasonTypeRegular = "REG"
)

// --------------------------------------------------------------------------
// Store backends and table names
// --------------------------------------------------------------------------

const (
	StoreFile     = "file"
	StorePostgres = "postgres"

	CompletionsTable = "completions"
)

// --------------------------------------------------------------------------
// nflverse release locations. %d is replaced with the season.
// --------------------------------------------------------------------------

const (
	DefaultRostersURL     = "https://github.com/nflverse/nflverse-data/releases/download/rosters/roster_%d.csv"
	DefaultPlayerStatsURL = "https://github.com/nflverse/nflverse-data/releases/download/player_stats/player_stats_%d.csv"
	DefaultSnapCountsURL  = "https://github.com/nflverse/nflverse-data/releases/download/snap_counts/snap_counts_%d.csv"
	DefaultPlayerIDsURL   = "https://raw.githubusercontent.com/dynastyprocess/data/master/files/db_playerids.csv"
)

// --------------------------------------------------------------------------
// Config is populated from environment variables.
// --------------------------------------------------------------------------

type Config struct {
	// Logging
	LogFormat string `validate:"oneof=text json"`
	LogLevel  string `validate:"oneof=debug info warn error"`

	// API server
	APIHost     string `validate:"required"`
	APIPort     int    `validate:"min=1,max=65535"`
	Environment string `validate:"oneof=development staging production"` // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int           `validate:"min=1"`
	RateLimitWindow   time.Duration `validate:"min=1s"`

	// Response cache
	CacheEnabled bool

	// Completion store
	StoreBackend string `validate:"oneof=file postgres"`
	StorePath    string `validate:"required_if=StoreBackend file"`

	// Database (postgres store only)
	DatabaseURL    string `validate:"required_if=StoreBackend postgres"`
	DBPoolMinConns int    `validate:"min=0"`
	DBPoolMaxConns int    `validate:"min=1"`
	DBPoolMaxLife  time.Duration

	// Retention
	RetentionDays           int `validate:"min=0"`
	RetentionCurrentDayOnly bool
	RetentionTimezone       string `validate:"required"`

	// Background tasks; zero disables
	PruneInterval time.Duration
	WarmInterval  time.Duration

	// Season data provider
	ProviderDir               string
	RostersURL                string `validate:"required"`
	PlayerStatsURL            string `validate:"required"`
	SnapCountsURL             string `validate:"required"`
	PlayerIDsURL              string `validate:"required"`
	ProviderRequestsPerMinute int    `validate:"min=1"`
	ProviderTimeout           time.Duration

	// Year window
	MinYear int `validate:"min=1920"`
	MaxYear int `validate:"gtefield=MinYear"`

	// MCP endpoint
	MCPEnabled bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		LogFormat: strings.ToLower(envOr("LOG_FORMAT", "text")),
		LogLevel:  strings.ToLower(envOr("LOG_LEVEL", "info")),

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://localhost:8501",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		CacheEnabled: envBool("CACHE_ENABLED", true),

		StoreBackend: strings.ToLower(envOr("STORE_BACKEND", StoreFile)),
		StorePath:    envOr("STORE_PATH", ".dailydraft/completed_games.json"),

		DatabaseURL:    envOr("DATABASE_URL", ""),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 1),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 5),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		RetentionDays:           envInt("RETENTION_DAYS", 7),
		RetentionCurrentDayOnly: envBool("RETENTION_CURRENT_DAY_ONLY", false),
		RetentionTimezone:       envOr("RETENTION_TIMEZONE", "America/Los_Angeles"),

		PruneInterval: envDuration("PRUNE_INTERVAL_MINUTES", 60, time.Minute),
		WarmInterval:  envDuration("WARM_INTERVAL_MINUTES", 5, time.Minute),

		ProviderDir:               envOr("PROVIDER_DIR", ""),
		RostersURL:                envOr("NFLVERSE_ROSTERS_URL", DefaultRostersURL),
		PlayerStatsURL:            envOr("NFLVERSE_PLAYER_STATS_URL", DefaultPlayerStatsURL),
		SnapCountsURL:             envOr("NFLVERSE_SNAP_COUNTS_URL", DefaultSnapCountsURL),
		PlayerIDsURL:              envOr("NFLVERSE_PLAYER_IDS_URL", DefaultPlayerIDsURL),
		ProviderRequestsPerMinute: envInt("PROVIDER_REQUESTS_PER_MINUTE", 60),
		ProviderTimeout:           envDuration("PROVIDER_TIMEOUT_SECONDS", 60, time.Second),

		MinYear: envInt("MIN_YEAR", DefaultMinYear),
		MaxYear: envInt("MAX_YEAR", DefaultMaxYear),

		MCPEnabled: envBool("MCP_ENABLED", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and that the retention timezone exists.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, ", "))
		}
		return fmt.Errorf("validate config: %w", err)
	}
	if _, err := time.LoadLocation(c.RetentionTimezone); err != nil {
		return fmt.Errorf("invalid config: RETENTION_TIMEZONE %q: %w", c.RetentionTimezone, err)
	}
	return nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Location returns the retention timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.RetentionTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback int, unit time.Duration) time.Duration {
	return time.Duration(envInt(key, fallback)) * unit
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
