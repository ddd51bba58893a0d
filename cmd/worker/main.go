package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"lima-segura/internal/bootstrap"
	"lima-segura/internal/handler/http/respond"
	workerPkg "lima-segura/internal/infra/worker"
	"lima-segura/internal/observability/logging"
	incUC "lima-segura/internal/usecase/incident"
	"lima-segura/internal/usecase/notify"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load worker configuration (fail-open strategy)
	workerMetrics := workerPkg.NewWorkerMetrics()
	workerConfig, _ := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Int("notify_max_concurrent", workerConfig.NotifyMaxConcurrent),
		slog.Duration("scan_timeout", workerConfig.ScanTimeout),
		slog.Int("health_port", workerConfig.HealthPort),
		slog.Int("metrics_port", workerConfig.MetricsPort),
		slog.Bool("run_on_start", workerConfig.RunOnStart))

	database, err := bootstrap.SetupDatabase(ctx, logger)
	if err != nil {
		logger.Error("database setup failed", slog.String("error", respond.SanitizeError(err)))
		os.Exit(1)
	}
	defer database.Close(logger)

	scanComps, err := bootstrap.NewScanComponents(logger, bootstrap.ScanOptions{})
	if err != nil {
		logger.Error("scan pipeline setup failed", slog.Any("error", err))
		os.Exit(1)
	}

	notifyService := bootstrap.SetupNotifications(logger, workerConfig.NotifyMaxConcurrent)
	defer shutdownNotifications(logger, notifyService)

	ingestor := &incUC.Ingestor{
		Scanner:  scanComps.Scanner,
		Repo:     database.Repo,
		Notifier: notifyService,
		Logger:   logger,
	}

	serveMetrics(ctx, logger, workerConfig.MetricsPort, notifyService)

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	job := &scanJob{
		logger:  logger,
		ingest:  ingestor,
		cfg:     workerConfig,
		metrics: workerMetrics,
		health:  healthServer,
	}
	runScheduler(ctx, logger, job, workerConfig, healthServer)
}

// runScheduler blocks until ctx is canceled, then waits for a running job.
func runScheduler(ctx context.Context, logger *slog.Logger, job *scanJob, cfg *workerPkg.WorkerConfig, health *workerPkg.HealthServer) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}

	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	id, err := c.AddFunc(cfg.CronSchedule, func() { job.run(ctx) })
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()
	health.SetNextRun(func() time.Time { return c.Entry(id).Next })
	health.SetReady(true)
	logger.Info("worker started", slog.String("schedule", cfg.CronSchedule), slog.String("timezone", loc.String()))

	if cfg.RunOnStart {
		go job.run(ctx)
	}

	<-ctx.Done()
	logger.Info("shutdown signal received")
	health.SetReady(false)
	<-c.Stop().Done()
	job.wait()
	logger.Info("worker stopped")
}

func shutdownNotifications(logger *slog.Logger, svc notify.Service) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := svc.Shutdown(ctx); err != nil {
		logger.Warn("notification shutdown incomplete", slog.Any("error", err))
	}
}
