package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"lima-segura/internal/pkg/config"
)

// WorkerMetrics embeds the worker_config_* metrics and adds the scan job
// metrics:
//   - worker_scan_job_runs_total{status}
//   - worker_scan_job_duration_seconds
//   - worker_scan_job_incidents_inserted_total
//   - worker_scan_job_last_success_timestamp
//
// Metrics are registered with the default registry on creation, so
// NewWorkerMetrics must be called once per process.
type WorkerMetrics struct {
	*config.ConfigMetrics

	JobRunsTotal         *prometheus.CounterVec
	JobDurationSeconds   prometheus.Histogram
	IncidentsInserted    prometheus.Counter
	LastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics creates and registers the worker metrics.
func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker"),

		JobRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_scan_job_runs_total",
			Help: "Total number of scheduled scan runs by status (started/success/failure)",
		}, []string{"status"}),

		JobDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_scan_job_duration_seconds",
			Help:    "Duration of scheduled scan runs in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		}),

		IncidentsInserted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "worker_scan_job_incidents_inserted_total",
			Help: "Total number of new incidents stored by scheduled scan runs",
		}),

		LastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "worker_scan_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful scheduled scan run",
		}),
	}
}

// RecordJobRun counts a run with status "started", "success" or "failure".
func (m *WorkerMetrics) RecordJobRun(status string) {
	m.JobRunsTotal.WithLabelValues(status).Inc()
}

// RecordJobDuration observes a run duration in seconds.
func (m *WorkerMetrics) RecordJobDuration(seconds float64) {
	m.JobDurationSeconds.Observe(seconds)
}

// RecordIncidentsInserted adds the number of incidents a run stored.
func (m *WorkerMetrics) RecordIncidentsInserted(count int) {
	if count > 0 {
		m.IncidentsInserted.Add(float64(count))
	}
}

// RecordLastSuccess stamps the current time as the last successful run.
func (m *WorkerMetrics) RecordLastSuccess() {
	m.LastSuccessTimestamp.SetToCurrentTime()
}
