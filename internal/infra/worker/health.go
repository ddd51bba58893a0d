package worker

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"lima-segura/internal/handler/http/respond"
)

// RunStatus is the outcome of one scan run.
type RunStatus struct {
	Status   string    `json:"status"`
	At       time.Time `json:"at"`
	Found    int       `json:"found"`
	Inserted int       `json:"inserted"`
	Failed   int       `json:"failed_sources"`
	Error    string    `json:"error,omitempty"`
}

type healthResponse struct {
	Status  string     `json:"status"`
	LastRun *RunStatus `json:"last_run,omitempty"`
	NextRun *time.Time `json:"next_run,omitempty"`
}

// HealthServer answers the worker's probes. GET /health is liveness and
// always 200. GET /health/ready is 503 until the scheduler starts and
// reports the last run and the next scheduled one.
type HealthServer struct {
	addr   string
	logger *slog.Logger
	ready  atomic.Bool

	mu      sync.RWMutex
	lastRun *RunStatus
	nextRun func() time.Time
}

func NewHealthServer(addr string, logger *slog.Logger) *HealthServer {
	return &HealthServer{addr: addr, logger: logger}
}

func (h *HealthServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		respond.JSON(w, http.StatusOK, healthResponse{Status: "ok"})
	})
	mux.HandleFunc("GET /health/ready", h.readiness)
	return mux
}

// Start serves until ctx is canceled and then shuts down within 5s,
// returning http.ErrServerClosed. Listen errors are returned as is.
func (h *HealthServer) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              h.addr,
		Handler:           h.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      5 * time.Second,
	}
	stop := context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		h.logger.Info("health server shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			h.logger.Error("health server shutdown failed", slog.Any("error", err))
		}
	})
	defer stop()

	h.logger.Info("health server starting", slog.String("addr", h.addr))
	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		h.logger.Error("health server failed", slog.Any("error", err))
	}
	return err
}

func (h *HealthServer) SetReady(ready bool) {
	h.ready.Store(ready)
	h.logger.Info("health server readiness changed", slog.Bool("ready", ready))
}

// SetNextRun installs the lookup for the next scheduled run.
func (h *HealthServer) SetNextRun(next func() time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextRun = next
}

func (h *HealthServer) RecordRun(status RunStatus) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastRun = &status
}

// LastRun returns the most recent run, if there was one.
func (h *HealthServer) LastRun() (RunStatus, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.lastRun == nil {
		return RunStatus{}, false
	}
	return *h.lastRun, true
}

func (h *HealthServer) readiness(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{Status: "ok"}
	if last, ok := h.LastRun(); ok {
		resp.LastRun = &last
	}
	h.mu.RLock()
	if h.nextRun != nil {
		if next := h.nextRun(); !next.IsZero() {
			resp.NextRun = &next
		}
	}
	h.mu.RUnlock()

	code := http.StatusOK
	if !h.ready.Load() {
		resp.Status, code = "not ready", http.StatusServiceUnavailable
	}
	respond.JSON(w, code, resp)
}
