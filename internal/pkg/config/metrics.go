package config

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ConfigMetrics exports how a component's configuration loaded:
// <component>_config_{load_timestamp,validation_errors_total,fallbacks_total,fallback_active}.
type ConfigMetrics struct {
	LoadTimestamp         prometheus.Gauge
	ValidationErrorsTotal *prometheus.CounterVec
	FallbacksTotal        *prometheus.CounterVec
	FallbackActive        prometheus.Gauge
}

// NewConfigMetrics registers with the default registry and panics on a
// duplicate component name.
func NewConfigMetrics(component string) *ConfigMetrics {
	opts := func(suffix, help string) (string, string) {
		return component + "_config_" + suffix, help + " (" + component + ")"
	}
	gauge := func(suffix, help string) prometheus.Gauge {
		name, h := opts(suffix, help)
		return promauto.NewGauge(prometheus.GaugeOpts{Name: name, Help: h})
	}
	perField := func(suffix, help string) *prometheus.CounterVec {
		name, h := opts(suffix, help)
		return promauto.NewCounterVec(prometheus.CounterOpts{Name: name, Help: h}, []string{"field"})
	}

	return &ConfigMetrics{
		LoadTimestamp:         gauge("load_timestamp", "Unix time of the last configuration load"),
		ValidationErrorsTotal: perField("validation_errors_total", "Configuration values rejected by validation"),
		FallbacksTotal:        perField("fallbacks_total", "Configuration values replaced by their default"),
		FallbackActive:        gauge("fallback_active", "1 while any configuration default is standing in for a bad value"),
	}
}

func (m *ConfigMetrics) RecordLoadTimestamp() { m.LoadTimestamp.SetToCurrentTime() }

func (m *ConfigMetrics) RecordValidationError(field string) {
	m.ValidationErrorsTotal.WithLabelValues(field).Inc()
}

func (m *ConfigMetrics) RecordFallback(field string) {
	m.FallbacksTotal.WithLabelValues(field).Inc()
}

func (m *ConfigMetrics) SetFallbackActive(active bool) {
	v := 0.0
	if active {
		v = 1
	}
	m.FallbackActive.Set(v)
}

// Observe logs res's warnings and counts a fallback for field. It reports
// whether the default was used.
func (m *ConfigMetrics) Observe(logger *slog.Logger, field string, res ConfigLoadResult) bool {
	for _, w := range res.Warnings {
		logger.Warn("Configuration fallback applied", slog.String("field", field), slog.String("warning", w))
	}
	if !res.FallbackApplied {
		return false
	}
	m.RecordValidationError(field)
	m.RecordFallback(field)
	return true
}
