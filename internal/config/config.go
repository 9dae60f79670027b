// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New returns a Config populated with defaults.
// - Load layers a YAML file and RIGCHECK_* environment variables on top.
// - Errors returned from Load wrap ErrLoadConfig or ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DBPath is the SQLite file holding overrides and check history.
	// Empty keeps everything in memory.
	DBPath string `koanf:"db_path"`

	// SeedFile is an optional YAML catalog overlay applied at start.
	SeedFile string `koanf:"seed_file"`

	// AdminToken guards /admin/*. Empty disables the admin routes.
	AdminToken string `koanf:"admin_token"`

	// UnknownGameFallback estimates unregistered titles instead of rejecting them.
	UnknownGameFallback bool `koanf:"unknown_game_fallback"`

	// HistoryQueueSize bounds the check history queue.
	HistoryQueueSize int `koanf:"history_queue_size"`

	// HistoryWorkers sets the number of history writers.
	HistoryWorkers int `koanf:"history_workers"`

	// HistoryDedupeTTLMS is how long a request id suppresses repeated history rows.
	HistoryDedupeTTLMS int `koanf:"history_dedupe_ttl_ms"`

	// GraphCacheTTLMS is how long a performance graph stays cached.
	GraphCacheTTLMS int `koanf:"graph_cache_ttl_ms"`

	// PopularGamesLimit caps the most checked games in admin stats.
	PopularGamesLimit int `koanf:"popular_games_limit"`
}

// New creates a Config with defaults. Context is accepted first to follow
// the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		HistoryQueueSize:   10_000,
		HistoryWorkers:     2,
		HistoryDedupeTTLMS: 600_000,
		GraphCacheTTLMS:    60_000,
		PopularGamesLimit:  5,
	}
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	case c.HistoryWorkers < 0:
		return fmt.Errorf("%w: history_workers must not be negative", ErrInvalidConfig)
	case c.HistoryQueueSize < 0:
		return fmt.Errorf("%w: history_queue_size must not be negative", ErrInvalidConfig)
	}
	return nil
}

// GraphCacheTTL returns GraphCacheTTLMS as a duration.
func (c *Config) GraphCacheTTL() time.Duration {
	return time.Duration(c.GraphCacheTTLMS) * time.Millisecond
}

// HistoryDedupeTTL returns HistoryDedupeTTLMS as a duration.
func (c *Config) HistoryDedupeTTL() time.Duration {
	return time.Duration(c.HistoryDedupeTTLMS) * time.Millisecond
}
