package tracing

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"lima-segura/internal/pkg/config"
)

// DefaultSampleRatio samples every request.
const DefaultSampleRatio = 1.0

// Setup installs an SDK tracer provider and the W3C trace-context
// propagator as the otel globals. Spans are sampled by trace ID with
// OTEL_TRACES_SAMPLE_RATIO (0 to 1), honoring the caller's sampling
// decision when a parent span is propagated. The returned function flushes
// and stops the provider.
//
// No exporter is attached; spans give every request a real trace ID for the
// X-Trace-Id header and log correlation.
func Setup(logger *slog.Logger, opts ...sdktrace.TracerProviderOption) func(context.Context) error {
	res := config.LoadEnvWithFallback("OTEL_TRACES_SAMPLE_RATIO", strconv.FormatFloat(DefaultSampleRatio, 'f', -1, 64), validateRatio)
	for _, w := range res.Warnings {
		logger.Warn("Configuration fallback applied", slog.String("field", "OTEL_TRACES_SAMPLE_RATIO"), slog.String("warning", w))
	}
	ratio, _ := strconv.ParseFloat(res.Value.(string), 64)

	opts = append([]sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
	}, opts...)
	tp := sdktrace.NewTracerProvider(opts...)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	logger.Info("tracing configured", slog.Float64("sample_ratio", ratio))
	return tp.Shutdown
}

func validateRatio(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number")
	}
	if v < 0 || v > 1 {
		return fmt.Errorf("ratio %v outside [0, 1]", v)
	}
	return nil
}
