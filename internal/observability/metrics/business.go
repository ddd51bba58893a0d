package metrics

import "time"

// RecordSourceScan records the duration and item count of one source scan.
func RecordSourceScan(source string, duration time.Duration, items int) {
	ScanDuration.WithLabelValues(source).Observe(duration.Seconds())
	if items > 0 {
		ScanItemsTotal.WithLabelValues(source).Add(float64(items))
	}
}

// RecordSourceError records a failed source scan.
// errorType is a short label such as "timeout", "fetch" or "panic".
func RecordSourceError(source, errorType string) {
	ScanSourceErrors.WithLabelValues(source, errorType).Inc()
}

// RecordScanRun records a completed ScanAll.
func RecordScanRun() {
	ScanRunsTotal.Inc()
}

// RecordClassification records one classifier decision.
func RecordClassification(outcome string) {
	ClassifyDecisionsTotal.WithLabelValues(outcome).Inc()
}

// RecordPageFetch records the result of a listing page fetch.
func RecordPageFetch(source string, success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	PageFetchTotal.WithLabelValues(source, status).Inc()
}

// RecordIncidentsSaved records newly persisted incidents.
func RecordIncidentsSaved(count int) {
	if count > 0 {
		IncidentsSavedTotal.Add(float64(count))
	}
}

// UpdateIncidentsTotal updates the stored incident gauge.
func UpdateIncidentsTotal(count int64) {
	IncidentsTotal.Set(float64(count))
}
