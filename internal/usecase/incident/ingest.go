package incident

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"lima-segura/internal/domain/entity"
	"lima-segura/internal/observability/logging"
	"lima-segura/internal/observability/metrics"
	"lima-segura/internal/repository"
	"lima-segura/internal/usecase/scan"
)

// Scanner produces the merged items of one scan.
type Scanner interface {
	ScanAll(ctx context.Context) ([]entity.ClassifiedItem, scan.Stats)
}

// Notifier is told about every newly stored incident.
type Notifier interface {
	NotifyNewIncident(ctx context.Context, inc entity.Incident) error
}

// IngestResult describes one ingest run.
type IngestResult struct {
	Found    int               `json:"found"`
	Inserted []entity.Incident `json:"inserted"`
	Total    int64             `json:"total"`
	Stats    scan.Stats        `json:"stats"`
}

// Ingestor scans every source, stores the new items and notifies about them.
type Ingestor struct {
	Scanner  Scanner
	Repo     repository.IncidentRepository
	Notifier Notifier // optional
	Logger   *slog.Logger
}

// Run performs one ingest cycle. Only storage failures are returned: failed
// sources are reported in Stats and notification failures are logged.
func (in *Ingestor) Run(ctx context.Context) (IngestResult, error) {
	logger := in.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logging.WithRequestID(ctx, logger)
	start := time.Now()
	defer func() { metrics.RecordOperationDuration("ingest", time.Since(start)) }()

	items, stats := in.Scanner.ScanAll(ctx)
	res := IngestResult{Found: len(items), Stats: stats, Inserted: []entity.Incident{}}

	if len(items) > 0 {
		inserted, err := in.Repo.SaveNew(ctx, items)
		if err != nil {
			return res, fmt.Errorf("save incidents: %w", err)
		}
		res.Inserted = inserted
		metrics.RecordIncidentsSaved(len(inserted))
	}

	if in.Notifier != nil {
		for _, inc := range res.Inserted {
			if err := in.Notifier.NotifyNewIncident(ctx, inc); err != nil {
				logger.Warn("notification dispatch failed",
					slog.Int64("incident_id", inc.ID),
					slog.String("link", inc.Link),
					slog.Any("error", err))
			}
		}
	}

	total, err := in.Repo.Count(ctx, repository.IncidentFilter{})
	if err != nil {
		// The new rows are already stored; a stale gauge is not fatal.
		if !errors.Is(err, context.Canceled) {
			logger.Warn("count incidents failed", slog.Any("error", err))
		}
	} else {
		res.Total = total
		metrics.UpdateIncidentsTotal(total)
	}

	logger.Info("ingest completed",
		slog.Int("sources", stats.Sources),
		slog.Int("failed_sources", stats.Failed),
		slog.Int("found", res.Found),
		slog.Int("inserted", len(res.Inserted)),
		slog.Int64("total", res.Total),
		slog.Duration("duration", time.Since(start)))
	return res, nil
}
