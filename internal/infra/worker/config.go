// Package worker holds the configuration, metrics and health endpoints of
// the scheduled scan worker.
package worker

import (
	"fmt"
	"log/slog"
	"time"

	"lima-segura/internal/pkg/config"
)

// WorkerConfig controls the scheduled scan worker.
type WorkerConfig struct {
	// CronSchedule is a 5-field cron expression evaluated in Timezone.
	CronSchedule string

	// Timezone is an IANA name; Lima has no DST so the schedule is stable.
	Timezone string

	// NotifyMaxConcurrent bounds in-flight webhook deliveries.
	NotifyMaxConcurrent int

	// ScanTimeout bounds one ingest run (scan, store, notify).
	ScanTimeout time.Duration

	HealthPort  int
	MetricsPort int

	// RunOnStart triggers one ingest run immediately after startup.
	RunOnStart bool
}

// DefaultConfig scans every two hours, Lima time.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule:        "0 */2 * * *",
		Timezone:            "America/Lima",
		NotifyMaxConcurrent: 10,
		ScanTimeout:         20 * time.Minute,
		HealthPort:          9091,
		MetricsPort:         9090,
		RunOnStart:          false,
	}
}

// Validate checks every field and reports all failures together.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateRange(c.NotifyMaxConcurrent, 1, 50); err != nil {
		errs = append(errs, fmt.Errorf("notify max concurrent: %w", err))
	}
	if err := config.ValidatePositiveDuration(c.ScanTimeout); err != nil {
		errs = append(errs, fmt.Errorf("scan timeout: %w", err))
	}
	if err := config.ValidateRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	if err := config.ValidateRange(c.MetricsPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("metrics port: %w", err))
	}
	if c.HealthPort == c.MetricsPort {
		errs = append(errs, fmt.Errorf("health port and metrics port must differ (both %d)", c.HealthPort))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// LoadConfigFromEnv loads the worker configuration. It fails open: every
// invalid or missing value falls back to its default, logs a warning and
// is counted in metrics. The returned error is always nil.
//
// Environment variables:
//   - CRON_SCHEDULE (default "0 */2 * * *")
//   - WORKER_TIMEZONE (default "America/Lima")
//   - NOTIFY_MAX_CONCURRENT, 1-50 (default 10)
//   - SCAN_TIMEOUT, 1m-2h (default 20m)
//   - WORKER_HEALTH_PORT (default 9091)
//   - WORKER_METRICS_PORT (default 9090)
//   - RUN_ON_START (default false)
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	fallbackApplied := false

	apply := func(field string, result config.ConfigLoadResult) {
		if metrics.Observe(logger, field, result) {
			fallbackApplied = true
		}
	}

	result := config.LoadEnvWithFallback("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = result.Value.(string)
	apply("cron_schedule", result)

	result = config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = result.Value.(string)
	apply("timezone", result)

	result = config.LoadEnvInt("NOTIFY_MAX_CONCURRENT", cfg.NotifyMaxConcurrent, func(v int) error {
		return config.ValidateRange(v, 1, 50)
	})
	cfg.NotifyMaxConcurrent = result.Value.(int)
	apply("notify_max_concurrent", result)

	result = config.LoadEnvDuration("SCAN_TIMEOUT", cfg.ScanTimeout, func(d time.Duration) error {
		return config.ValidateRange(d, time.Minute, 2*time.Hour)
	})
	cfg.ScanTimeout = result.Value.(time.Duration)
	apply("scan_timeout", result)

	result = config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateRange(v, 1024, 65535)
	})
	cfg.HealthPort = result.Value.(int)
	apply("health_port", result)

	result = config.LoadEnvInt("WORKER_METRICS_PORT", cfg.MetricsPort, func(v int) error {
		return config.ValidateRange(v, 1024, 65535)
	})
	cfg.MetricsPort = result.Value.(int)
	apply("metrics_port", result)

	result = config.LoadEnvBool("RUN_ON_START", cfg.RunOnStart)
	cfg.RunOnStart = result.Value.(bool)
	apply("run_on_start", result)

	if cfg.HealthPort == cfg.MetricsPort {
		def := DefaultConfig()
		apply("metrics_port", config.ConfigLoadResult{
			FallbackApplied: true,
			Warnings:        []string{fmt.Sprintf("metrics port %d collides with health port, using defaults", cfg.MetricsPort)},
		})
		cfg.HealthPort, cfg.MetricsPort = def.HealthPort, def.MetricsPort
	}

	metrics.SetFallbackActive(fallbackApplied)
	metrics.RecordLoadTimestamp()

	return &cfg, nil
}
