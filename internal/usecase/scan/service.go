// Package scan runs every source adapter and merges their results into one
// deduplicated list of crime headlines.
package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"lima-segura/internal/domain/entity"
	"lima-segura/internal/observability/logging"
	"lima-segura/internal/observability/metrics"
	"lima-segura/internal/observability/tracing"
)

// Adapter scans a single news source.
type Adapter interface {
	Name() string
	Scan(ctx context.Context) ([]entity.ClassifiedItem, error)
}

// SourceStats describes the outcome of one source within a scan. Partial is
// set when the source failed after some of its pages were already accepted.
type SourceStats struct {
	Source   string        `json:"source"`
	Items    int           `json:"items"`
	Error    string        `json:"error,omitempty"`
	Partial  bool          `json:"partial,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Stats summarizes a ScanAll run.
type Stats struct {
	Sources    int           `json:"sources"`
	Failed     int           `json:"failed"`
	Partial    int           `json:"partial"`
	Found      int           `json:"found"`
	Duplicates int           `json:"duplicates"`
	Duration   time.Duration `json:"duration_ns"`
	PerSource  []SourceStats `json:"per_source"`
}

// Service fans a scan out over the configured adapters.
type Service struct {
	adapters []Adapter
	cfg      Config
}

// NewService creates a scan Service. Adapters are scanned concurrently but
// their results are always merged in the order given here.
func NewService(adapters []Adapter, cfg Config) (*Service, error) {
	if len(adapters) == 0 {
		return nil, ErrNoAdapters
	}
	def := DefaultConfig()
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = def.MaxConcurrent
	}
	if cfg.SourceTimeout <= 0 {
		cfg.SourceTimeout = def.SourceTimeout
	}
	return &Service{adapters: adapters, cfg: cfg}, nil
}

// Sources returns the adapter names in merge order.
func (s *Service) Sources() []string {
	names := make([]string, len(s.adapters))
	for i, a := range s.adapters {
		names[i] = a.Name()
	}
	return names
}

type sourceResult struct {
	items    []entity.ClassifiedItem
	err      error
	duration time.Duration
}

// ScanAll runs every adapter and returns the merged items, deduplicated by
// link with the first occurrence kept.
//
// A failing source (error, timeout or panic) is logged and counted; ScanAll
// itself never fails. Items a source accepted before it failed are kept and
// the source is reported as partial. If ctx is canceled the sources that
// already finished are still returned.
func (s *Service) ScanAll(ctx context.Context) ([]entity.ClassifiedItem, Stats) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, "scan.ScanAll",
		attribute.Int("scan.sources", len(s.adapters)))
	defer span.End()

	results := make([]sourceResult, len(s.adapters))

	var g errgroup.Group
	g.SetLimit(s.cfg.MaxConcurrent)
	for i, a := range s.adapters {
		g.Go(func() error {
			results[i] = s.scanSource(ctx, a)
			return nil
		})
	}
	_ = g.Wait()

	stats := Stats{Sources: len(s.adapters), PerSource: make([]SourceStats, len(s.adapters))}
	var items []entity.ClassifiedItem
	seen := make(map[string]struct{})

	for i, r := range results {
		name := s.adapters[i].Name()
		ss := SourceStats{Source: name, Duration: r.duration}

		if r.err != nil {
			ss.Error = r.err.Error()
			if len(r.items) == 0 {
				stats.Failed++
				stats.PerSource[i] = ss
				continue
			}
			ss.Partial = true
			stats.Partial++
		}

		for _, it := range r.items {
			it.Source = name
			if _, dup := seen[it.Link]; dup {
				stats.Duplicates++
				continue
			}
			seen[it.Link] = struct{}{}
			items = append(items, it)
			ss.Items++
		}
		stats.PerSource[i] = ss
	}

	stats.Found = len(items)
	stats.Duration = time.Since(start)
	metrics.RecordScanRun()

	span.SetAttributes(
		attribute.Int("scan.found", stats.Found),
		attribute.Int("scan.failed", stats.Failed),
		attribute.Int("scan.partial", stats.Partial))

	slog.Info("scan completed",
		slog.Int("sources", stats.Sources),
		slog.Int("failed", stats.Failed),
		slog.Int("partial", stats.Partial),
		slog.Int("found", stats.Found),
		slog.Int("duplicates", stats.Duplicates),
		slog.Duration("duration", stats.Duration))

	return items, stats
}

// ScanInto runs ScanAll and merges the result into h, which the caller keeps
// across scans. It returns only the items whose links h had not seen.
func (s *Service) ScanInto(ctx context.Context, h *History) ([]entity.ClassifiedItem, Stats) {
	items, stats := s.ScanAll(ctx)
	return h.Merge(items), stats
}

// scanSource runs one adapter under its own timeout. Panics are converted
// into errors so one broken adapter cannot take the scan down. An error does
// not discard the items returned alongside it.
func (s *Service) scanSource(ctx context.Context, a Adapter) (res sourceResult) {
	name := a.Name()
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.SourceTimeout)
	defer cancel()

	ctx, span := tracing.StartSpan(ctx, "scan.source", attribute.String("source", name))
	defer span.End()

	defer func() {
		if p := recover(); p != nil {
			res = sourceResult{err: fmt.Errorf("%w: %v", errAdapterPanic, p)}
		}
		res.duration = time.Since(start)

		if res.err != nil {
			errType := errorType(res.err)
			metrics.RecordSourceError(name, errType)
			span.RecordError(res.err)
			span.SetStatus(codes.Error, errType)
			logger := logging.WithSource(slog.Default(), name)
			if len(res.items) == 0 {
				logger.Error("source scan failed",
					slog.String("error_type", errType),
					slog.Duration("duration", res.duration),
					slog.Any("error", res.err))
				return
			}
			logger.Warn("source scan incomplete, keeping accepted items",
				slog.String("error_type", errType),
				slog.Int("items", len(res.items)),
				slog.Duration("duration", res.duration),
				slog.Any("error", res.err))
		}
		metrics.RecordSourceScan(name, res.duration, len(res.items))
		span.SetAttributes(attribute.Int("scan.items", len(res.items)))
	}()

	items, err := a.Scan(ctx)
	return sourceResult{items: items, err: err}
}

func errorType(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, errAdapterPanic):
		return "panic"
	default:
		return "scan"
	}
}
