package scan

import (
	"log/slog"
	"time"

	"lima-segura/internal/pkg/config"
	"lima-segura/internal/usecase/classify"
)

// Config controls how a scan fans out over sources.
type Config struct {
	// MaxConcurrent is the number of sources scanned at the same time.
	MaxConcurrent int

	// SourceTimeout bounds the scan of one source, pagination included.
	SourceTimeout time.Duration

	// PageInterval is the pause between two listing pages of one source.
	PageInterval time.Duration

	// Policy is the classifier acceptance policy.
	Policy classify.Policy
}

// DefaultConfig returns the scan defaults.
func DefaultConfig() Config {
	return Config{
		MaxConcurrent: 4,
		SourceTimeout: 2 * time.Minute,
		PageInterval:  time.Second,
		Policy:        classify.PolicyStrict,
	}
}

// LoadConfigFromEnv reads SCAN_MAX_CONCURRENT, SCAN_SOURCE_TIMEOUT,
// SCAN_PAGE_INTERVAL and CLASSIFIER_POLICY. Invalid values fall back to the
// defaults with a warning; it never fails.
func LoadConfigFromEnv(logger *slog.Logger) Config {
	cfg := DefaultConfig()

	warn := func(field string, res config.ConfigLoadResult) {
		for _, w := range res.Warnings {
			logger.Warn("Configuration fallback applied",
				slog.String("field", field),
				slog.String("warning", w))
		}
	}

	res := config.LoadEnvInt("SCAN_MAX_CONCURRENT", cfg.MaxConcurrent, func(v int) error {
		return config.ValidateRange(v, 1, 32)
	})
	cfg.MaxConcurrent = res.Value.(int)
	warn("MaxConcurrent", res)

	res = config.LoadEnvDuration("SCAN_SOURCE_TIMEOUT", cfg.SourceTimeout, func(d time.Duration) error {
		return config.ValidateRange(d, 5*time.Second, 30*time.Minute)
	})
	cfg.SourceTimeout = res.Value.(time.Duration)
	warn("SourceTimeout", res)

	res = config.LoadEnvDuration("SCAN_PAGE_INTERVAL", cfg.PageInterval, func(d time.Duration) error {
		return config.ValidateRange(d, 100*time.Millisecond, 10*time.Second)
	})
	cfg.PageInterval = res.Value.(time.Duration)
	warn("PageInterval", res)

	res = config.LoadEnvWithFallback("CLASSIFIER_POLICY", string(cfg.Policy), func(s string) error {
		_, err := classify.ParsePolicy(s)
		return err
	})
	cfg.Policy, _ = classify.ParsePolicy(res.Value.(string))
	warn("Policy", res)

	return cfg
}
