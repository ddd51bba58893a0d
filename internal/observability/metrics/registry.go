// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestSize measures HTTP request body size in bytes
	HTTPRequestSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_size_bytes",
			Help:    "HTTP request size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// HTTPResponseSize measures HTTP response body size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// HTTPRequestsInFlight tracks requests currently being served
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)
)

// Scan metrics track the classification pipeline
var (
	// ScanRunsTotal counts completed ScanAll runs
	ScanRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scan_runs_total",
			Help: "Total number of completed scans across all sources",
		},
	)

	// ScanItemsTotal counts accepted items per source, before cross-source dedup
	ScanItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scan_items_total",
			Help: "Total number of classified items returned by each source",
		},
		[]string{"source"},
	)

	// ScanSourceErrors counts sources that failed or timed out during a scan
	ScanSourceErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scan_source_errors_total",
			Help: "Total number of source scan failures",
		},
		[]string{"source", "error_type"},
	)

	// ScanDuration measures time to scan one source
	ScanDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scan_duration_seconds",
			Help:    "Time taken to scan a source",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		},
		[]string{"source"},
	)

	// ClassifyDecisionsTotal counts classifier outcomes by reason
	ClassifyDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classify_decisions_total",
			Help: "Total number of classifier decisions by outcome",
		},
		[]string{"outcome"}, // accepted, excluded_path, excluded_keyword, no_district, no_category, invalid_link
	)

	// PageFetchTotal counts listing page fetches by result
	PageFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_page_fetch_total",
			Help: "Total number of listing page fetches",
		},
		[]string{"source", "status"}, // status: success, failure
	)

	// IncidentsSavedTotal counts incidents newly persisted
	IncidentsSavedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "incidents_saved_total",
			Help: "Total number of new incidents persisted",
		},
	)

	// IncidentsTotal tracks the number of stored incidents
	IncidentsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "incidents_total",
			Help: "Total number of incidents in the database",
		},
	)
)

// DBQueryDuration measures repository calls made by the API and worker
var DBQueryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Database query duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
	},
	[]string{"operation"},
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration, requestSize, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())

	if requestSize > 0 {
		HTTPRequestSize.WithLabelValues(method, path).Observe(float64(requestSize))
	}
	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}

// RecordOperationDuration records the duration of a named operation
func RecordOperationDuration(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// CircuitBreakerState is 0 closed, 1 half-open, 2 open, per breaker name
// ("database", "source:RPP", "notify:discord").
var CircuitBreakerState = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "circuit_breaker_state",
		Help: "Circuit breaker state: 0 closed, 1 half-open, 2 open",
	},
	[]string{"name"},
)

// SetCircuitBreakerState records a breaker transition.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}
