// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a YAML file and environment variables on top of New.
// - Errors are wrapped with ErrLoadConfig or ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/okian/standings/internal/domain/standings"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// WorkerCount sets the number of batch ranking workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the batch job queue; a full queue rejects new batches.
	QueueSize int `koanf:"queue_size"`

	// MaxCompetitors and MaxMatches cap a single division.
	MaxCompetitors int `koanf:"max_competitors"`
	MaxMatches     int `koanf:"max_matches"`

	// MaxBatchDivisions caps POST /v1/standings/batch.
	MaxBatchDivisions int `koanf:"max_batch_divisions"`

	// Tiebreakers is the default chain for requests that do not name one.
	Tiebreakers []string `koanf:"tiebreakers"`

	// CORSAllowedOrigins lists origins for the CORS middleware.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// RateLimitRPS and RateLimitBurst configure the per-IP limiter. Zero RPS disables it.
	RateLimitRPS   float64 `koanf:"rate_limit_rps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`

	// BatchTimeoutMS bounds how long a batch request waits for its results.
	BatchTimeoutMS int `koanf:"batch_timeout_ms"`
}

// New creates a Config holding the defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		WorkerCount:        runtime.NumCPU(),
		QueueSize:          1024,
		MaxCompetitors:     512,
		MaxMatches:         20_000,
		MaxBatchDivisions:  64,
		Tiebreakers:        standings.DefaultChain().Strings(),
		CORSAllowedOrigins: []string{"*"},
		RateLimitRPS:       50,
		RateLimitBurst:     100,
		BatchTimeoutMS:     5_000,
	}
}

// Chain parses the configured default tiebreakers.
func (c *Config) Chain() (standings.Chain, error) {
	return standings.ParseChain(c.Tiebreakers)
}

// Validate checks every field eagerly so a bad value fails at startup.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	positive := []struct {
		name  string
		value int
	}{
		{"worker_count", c.WorkerCount},
		{"queue_size", c.QueueSize},
		{"max_competitors", c.MaxCompetitors},
		{"max_matches", c.MaxMatches},
		{"max_batch_divisions", c.MaxBatchDivisions},
		{"batch_timeout_ms", c.BatchTimeoutMS},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidConfig, p.name, p.value)
		}
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("%w: rate_limit_rps must not be negative", ErrInvalidConfig)
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst <= 0 {
		return fmt.Errorf("%w: rate_limit_burst must be positive when rate limiting is on", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	if _, err := c.Chain(); err != nil {
		return fmt.Errorf("%w: tiebreakers: %w", ErrInvalidConfig, err)
	}
	return nil
}
