// Package loadtest drives a running rigcheck server with concurrent
// compatibility checks and verifies the recorded history.
package loadtest

import (
	"errors"
	"time"

	"github.com/okian/rigcheck/internal/domain/model"
)

// Defaults used when a Config field is zero.
const (
	DefaultChecks     = 1000
	DefaultWorkers    = 8
	DefaultTimeout    = 30 * time.Second
	DefaultSettle     = 30 * time.Second
	DefaultRetryRatio = 0.1
)

var (
	// ErrAdminToken is returned when no admin token is configured; history
	// totals are only exposed on /admin/stats.
	ErrAdminToken = errors.New("admin token required")
	// ErrUnhealthy is returned when /healthz does not answer 200.
	ErrUnhealthy = errors.New("service unhealthy")
	// ErrMismatch is returned when recorded totals disagree with what was sent.
	ErrMismatch = errors.New("history mismatch")
)

// Config holds configuration for one load run.
type Config struct {
	BaseURL    string        // Base URL of the service
	AdminToken string        // Bearer token for /admin/stats
	Checks     int           // Number of distinct checks to send
	RetryRatio float64       // Share of checks resent with the same request id
	Workers    int           // Number of concurrent senders
	Timeout    time.Duration // HTTP request timeout
	Settle     time.Duration // How long to wait for history writers to catch up
	Seed       uint64        // Random seed; zero picks one from the clock
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.Checks <= 0 {
		out.Checks = DefaultChecks
	}
	if out.Workers <= 0 {
		out.Workers = DefaultWorkers
	}
	if out.Timeout <= 0 {
		out.Timeout = DefaultTimeout
	}
	if out.Settle <= 0 {
		out.Settle = DefaultSettle
	}
	if out.RetryRatio < 0 || out.RetryRatio > 1 {
		out.RetryRatio = DefaultRetryRatio
	}
	if out.Seed == 0 {
		out.Seed = uint64(time.Now().UnixNano())
	}
	return out
}

// Check is one compatibility request. Resends reuse RequestID.
type Check struct {
	RequestID string   `json:"-"`
	PC        model.PC `json:"pc"`
	Game      string   `json:"game"`
}

// GameCount mirrors an entry of popular_games.
type GameCount struct {
	Game   string `json:"game"`
	Checks int    `json:"checks"`
}

type adminStats struct {
	TotalChecks  int         `json:"total_checks"`
	PopularGames []GameCount `json:"popular_games"`
	QueueLength  int         `json:"queue_length"`
}

// Stats summarizes a run.
type Stats struct {
	Generated      int           `json:"generated"`
	Sent           int           `json:"sent"`
	Succeeded      int           `json:"succeeded"`
	Failed         int           `json:"failed"`
	Unique         int           `json:"unique"`
	Recorded       int           `json:"recorded"`
	PopularGames   []GameCount   `json:"popular_games"`
	Duration       time.Duration `json:"duration"`
	ChecksPerSec   float64       `json:"checks_per_second"`
	GamesExercised int           `json:"games_exercised"`
}
