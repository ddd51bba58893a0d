package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lima-segura/internal/bootstrap"
	"lima-segura/internal/common/pagination"
	hhttp "lima-segura/internal/handler/http"
	"lima-segura/internal/handler/http/auth"
	hincident "lima-segura/internal/handler/http/incident"
	"lima-segura/internal/handler/http/requestid"
	"lima-segura/internal/handler/http/respond"
	"lima-segura/internal/observability/logging"
	"lima-segura/internal/observability/tracing"
	"lima-segura/internal/pkg/config"
	incUC "lima-segura/internal/usecase/incident"
)

const (
	defaultPort          = 8080
	defaultNotifyWorkers = 10
	maxRequestBody       = 1 << 20
	shutdownTimeout      = 5 * time.Second
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing := tracing.Setup(logger)
	defer func() { _ = shutdownTracing(context.Background()) }()

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

	apiMetrics := config.NewConfigMetrics("api")
	notifyWorkers := config.LoadEnvInt("NOTIFY_MAX_CONCURRENT", defaultNotifyWorkers,
		func(v int) error { return config.ValidateRange(v, 1, 50) })
	port := config.LoadEnvInt("API_PORT", defaultPort,
		func(v int) error { return config.ValidateRange(v, 1, 65535) })
	notifyFallback := apiMetrics.Observe(logger, "notify_max_concurrent", notifyWorkers)
	portFallback := apiMetrics.Observe(logger, "api_port", port)
	apiMetrics.SetFallbackActive(notifyFallback || portFallback)
	apiMetrics.RecordLoadTimestamp()

	notifyService := bootstrap.SetupNotifications(logger, notifyWorkers.Value.(int))
	defer shutdownNotifications(logger, notifyService)

	svc := &incUC.Service{Repo: database.Repo, Lexicon: scanComps.Lexicon}
	ingestor := &incUC.Ingestor{
		Scanner:  scanComps.Scanner,
		Repo:     database.Repo,
		Notifier: notifyService,
		Logger:   logger,
	}

	version := getVersion()
	mux := http.NewServeMux()
	mux.Handle("GET /health", &hhttp.HealthHandler{DB: database.DB, Version: version, Channels: notifyService})
	mux.Handle("GET /health/channels", &hhttp.ChannelHealthHandler{Channels: notifyService})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{DB: database.DB})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	var scanGuard func(http.Handler) http.Handler
	if authCfg, err := auth.LoadConfigFromEnv(logger); err != nil {
		logger.Warn("POST /scans disabled, admin auth not configured", slog.Any("error", err))
	} else {
		mux.Handle("POST /auth/token", auth.NewTokenHandler(authCfg))
		scanGuard = auth.Require(authCfg)
	}
	hincident.Register(mux, svc, ingestor, pagination.LoadFromEnv(), scanGuard)

	runServer(ctx, logger, applyMiddleware(logger, mux), port.Value.(int), version)
}

func applyMiddleware(logger *slog.Logger, handler http.Handler) http.Handler {
	return hhttp.Chain(handler,
		requestid.Middleware,
		tracing.Middleware,
		hhttp.Recover(logger),
		hhttp.Logging(logger),
		hhttp.LimitRequestBody(maxRequestBody),
		hhttp.MetricsMiddleware,
	)
}

func runServer(ctx context.Context, logger *slog.Logger, handler http.Handler, port int, version string) {
	addr := fmt.Sprintf(":%d", port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("addr", addr), slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		logger.Error("server failed", slog.Any("error", err))
		return
	case <-ctx.Done():
	}
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}

func shutdownNotifications(logger *slog.Logger, svc interface{ Shutdown(context.Context) error }) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := svc.Shutdown(ctx); err != nil {
		logger.Warn("notification shutdown incomplete", slog.Any("error", err))
	}
}

func getVersion() string {
	if v := os.Getenv("VERSION"); v != "" {
		return v
	}
	return "dev"
}
