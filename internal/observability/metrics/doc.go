// Package metrics declares the Prometheus series exported on /metrics:
// HTTP traffic, per-source scan results, classifier decisions, page
// fetches and stored incidents. Recorders are plain functions so that the
// scan pipeline can call them without carrying a registry around.
//
//	start := time.Now()
//	items, err := adapter.Scan(ctx)
//	metrics.RecordSourceScan(adapter.Name(), time.Since(start), len(items))
package metrics
