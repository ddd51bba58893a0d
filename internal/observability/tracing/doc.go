// Package tracing provides OpenTelemetry tracing integration.
//
// Middleware creates a server span per HTTP request and echoes the trace ID
// in the X-Trace-Id response header. StartSpan is used by the scan pipeline
// for one span per ScanAll and one child span per source.
//
//	ctx, span := tracing.StartSpan(ctx, "scan.source", attribute.String("source", name))
//	defer span.End()
//
// Without a configured TracerProvider the global no-op provider is used.
package tracing
