package pagination

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Error types recorded by RecordError.
const (
	ErrorValidation = "validation"
	ErrorDatabase   = "database"
)

var (
	// RequestsTotal counts list requests by HTTP status and page bucket.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "incident_pagination_requests_total",
		Help: "Total number of paginated incident list requests",
	}, []string{"status", "page_range"})

	// DurationSeconds is labeled by layer: handler or service.
	DurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "incident_pagination_duration_seconds",
		Help:    "Paginated incident list duration by layer",
		Buckets: []float64{0.01, 0.05, 0.1, 0.2, 0.5, 1.0, 2.0},
	}, []string{"operation"})

	TotalCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "incident_total_count",
		Help: "Number of incidents matching the last list query",
	})

	ErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "incident_pagination_errors_total",
		Help: "Total number of paginated incident list errors",
	}, []string{"type"})
)

func RecordRequest(statusCode int, page int) {
	RequestsTotal.WithLabelValues(strconv.Itoa(statusCode), pageBucket(page)).Inc()
}

func RecordDuration(operation string, d time.Duration) {
	DurationSeconds.WithLabelValues(operation).Observe(d.Seconds())
}

func UpdateTotalCount(count int64) {
	TotalCount.Set(float64(count))
}

func RecordError(errorType string) {
	ErrorsTotal.WithLabelValues(errorType).Inc()
}

// pageBucket keeps the page label bounded: deep pages share one bucket.
func pageBucket(page int) string {
	switch {
	case page <= 10:
		return "1-10"
	case page <= 50:
		return "11-50"
	case page <= 100:
		return "51-100"
	default:
		return "100+"
	}
}
