// Package http holds the API's shared HTTP plumbing: health probes,
// request metrics and middleware. Resource handlers live in subpackages.
package http

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"lima-segura/internal/handler/http/respond"
	"lima-segura/internal/usecase/notify"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"

	// poolDegradedPercent marks the pool degraded before it is exhausted.
	poolDegradedPercent = 80.0
)

type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// ChannelHealthReporter is implemented by notify.Service.
type ChannelHealthReporter interface {
	GetChannelHealth() []notify.ChannelHealthStatus
}

// HealthHandler serves GET /health. The database decides healthy vs
// unhealthy; an open notification breaker only degrades its own check.
type HealthHandler struct {
	DB       *sql.DB
	Version  string
	Channels ChannelHealthReporter
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]CheckStatus{"database": databaseCheck(ctx, h.DB)}
	if h.Channels != nil {
		checks["notifications"] = channelsCheck(h.Channels.GetChannelHealth())
	}

	resp := HealthResponse{
		Status:    statusHealthy,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	}
	code := http.StatusOK
	if checks["database"].Status == statusUnhealthy {
		resp.Status, code = statusUnhealthy, http.StatusServiceUnavailable
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, code, resp)
}

func databaseCheck(ctx context.Context, db *sql.DB) CheckStatus {
	if db == nil {
		return CheckStatus{Status: statusUnhealthy, Message: "not configured"}
	}
	if err := db.PingContext(ctx); err != nil {
		slog.Warn("health: database ping failed", slog.String("error", respond.SanitizeError(err)))
		return CheckStatus{Status: statusUnhealthy, Message: "database unreachable"}
	}

	st := db.Stats()
	check := CheckStatus{Status: statusHealthy, Details: map[string]any{
		"max_open_connections": st.MaxOpenConnections,
		"open_connections":     st.OpenConnections,
		"in_use":               st.InUse,
		"idle":                 st.Idle,
		"wait_count":           st.WaitCount,
		"wait_duration_ms":     st.WaitDuration.Milliseconds(),
	}}
	if st.MaxOpenConnections > 0 {
		used := float64(st.InUse) / float64(st.MaxOpenConnections) * 100
		check.Details["utilization_percent"] = used
		if used >= poolDegradedPercent {
			check.Status = statusDegraded
			check.Message = "connection pool utilization above 80%"
		}
	}
	return check
}

func channelsCheck(channels []notify.ChannelHealthStatus) CheckStatus {
	check := CheckStatus{Status: statusHealthy, Details: map[string]any{}}
	for _, ch := range channels {
		check.Details[ch.Name] = ch
		if ch.Enabled && ch.CircuitBreakerOpen {
			check.Status = statusDegraded
			check.Message = "circuit breaker open for " + ch.Name
		}
	}
	return check
}

// ChannelHealthResponse is the body of GET /health/channels.
type ChannelHealthResponse struct {
	Healthy  bool                         `json:"healthy"`
	Channels []notify.ChannelHealthStatus `json:"channels"`
}

// ChannelHealthHandler serves GET /health/channels: 503 while any enabled
// channel's breaker is open, so alerting can page on it directly.
type ChannelHealthHandler struct {
	Channels ChannelHealthReporter
}

func (h *ChannelHealthHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	statuses := h.Channels.GetChannelHealth()
	if statuses == nil {
		statuses = []notify.ChannelHealthStatus{}
	}
	resp := ChannelHealthResponse{Healthy: channelsCheck(statuses).Status == statusHealthy, Channels: statuses}

	code := http.StatusOK
	if !resp.Healthy {
		code = http.StatusServiceUnavailable
	}
	respond.JSON(w, code, resp)
}

// ReadyHandler serves GET /ready: 200 once the database answers a ping.
type ReadyHandler struct {
	DB *sql.DB
}

func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	switch {
	case h.DB == nil:
		http.Error(w, "database not configured", http.StatusServiceUnavailable)
	case h.DB.PingContext(ctx) != nil:
		http.Error(w, "database not ready", http.StatusServiceUnavailable)
	default:
		plain(w, "ready")
	}
}

// LiveHandler serves GET /live and always answers 200.
type LiveHandler struct{}

func (*LiveHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) { plain(w, "alive") }

func plain(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}
