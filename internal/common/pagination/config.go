// Package pagination parses page/limit query parameters and builds
// paginated response envelopes for list endpoints.
package pagination

import (
	"log/slog"

	"lima-segura/internal/pkg/config"
)

// Config holds pagination defaults and bounds.
type Config struct {
	DefaultPage  int
	DefaultLimit int
	MaxLimit     int
}

// DefaultConfig returns page 1, 20 items per page, at most 100.
func DefaultConfig() Config {
	return Config{
		DefaultPage:  1,
		DefaultLimit: 20,
		MaxLimit:     100,
	}
}

// LoadFromEnv reads PAGINATION_DEFAULT_LIMIT and PAGINATION_MAX_LIMIT,
// falling back to DefaultConfig values when unset or invalid.
func LoadFromEnv() Config {
	cfg := DefaultConfig()

	maxRes := config.LoadEnvInt("PAGINATION_MAX_LIMIT", cfg.MaxLimit, func(v int) error {
		return config.ValidateRange(v, 1, 1000)
	})
	cfg.MaxLimit = maxRes.Value.(int)

	limitRes := config.LoadEnvInt("PAGINATION_DEFAULT_LIMIT", cfg.DefaultLimit, func(v int) error {
		return config.ValidateRange(v, 1, cfg.MaxLimit)
	})
	cfg.DefaultLimit = limitRes.Value.(int)
	if cfg.DefaultLimit > cfg.MaxLimit {
		cfg.DefaultLimit = cfg.MaxLimit
	}

	for _, w := range append(maxRes.Warnings, limitRes.Warnings...) {
		slog.Warn("Pagination configuration fallback applied", slog.String("warning", w))
	}
	return cfg
}
