package main

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"lima-segura/internal/handler/http/requestid"
	"lima-segura/internal/handler/http/respond"
	workerPkg "lima-segura/internal/infra/worker"
	incUC "lima-segura/internal/usecase/incident"
)

type ingestRunner interface {
	Run(ctx context.Context) (incUC.IngestResult, error)
}

// scanJob runs one ingest cycle at a time. The cron chain already skips
// overlapping ticks; the mutex also covers RUN_ON_START racing the first tick.
type scanJob struct {
	logger  *slog.Logger
	ingest  ingestRunner
	cfg     *workerPkg.WorkerConfig
	metrics *workerPkg.WorkerMetrics
	health  *workerPkg.HealthServer

	mu sync.Mutex
}

func (j *scanJob) run(parent context.Context) {
	if !j.mu.TryLock() {
		j.logger.Warn("scan skipped, previous run still in progress")
		return
	}
	defer j.mu.Unlock()

	runID := requestid.New()
	logger := j.logger.With(slog.String("request_id", runID))

	startTime := time.Now()
	j.metrics.RecordJobRun("started")
	logger.Info("scan started")

	ctx, cancel := context.WithTimeout(requestid.WithRequestID(parent, runID), j.cfg.ScanTimeout)
	defer cancel()

	res, err := j.ingest.Run(ctx)
	j.metrics.RecordJobDuration(time.Since(startTime).Seconds())

	status := workerPkg.RunStatus{
		At:       startTime,
		Found:    res.Found,
		Inserted: len(res.Inserted),
		Failed:   res.Stats.Failed,
	}
	if err != nil {
		logger.Error("scan failed", slog.String("error", respond.SanitizeError(err)))
		j.metrics.RecordJobRun("failure")
		status.Status = "failure"
		status.Error = respond.SanitizeError(err)
		j.health.RecordRun(status)
		return
	}

	j.metrics.RecordJobRun("success")
	j.metrics.RecordIncidentsInserted(len(res.Inserted))
	j.metrics.RecordLastSuccess()
	status.Status = "success"
	j.health.RecordRun(status)
}

// wait blocks until an in-flight run returns.
func (j *scanJob) wait() {
	j.mu.Lock()
	j.mu.Unlock() //nolint:staticcheck // empty critical section
}
