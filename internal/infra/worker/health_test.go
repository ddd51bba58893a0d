package worker

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func getHealth(t *testing.T, h http.Handler, path string) (int, healthResponse) {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	var resp healthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return rr.Code, resp
}

func TestHealthServer_Liveness(t *testing.T) {
	server := NewHealthServer(":0", quietLogger())

	code, resp := getHealth(t, server.Handler(), "/health")
	if code != http.StatusOK || resp.Status != "ok" {
		t.Errorf("liveness = %d %q, want 200 ok", code, resp.Status)
	}
}

func TestHealthServer_Readiness(t *testing.T) {
	server := NewHealthServer(":0", quietLogger())
	h := server.Handler()

	code, resp := getHealth(t, h, "/health/ready")
	if code != http.StatusServiceUnavailable || resp.Status != "not ready" {
		t.Errorf("before SetReady = %d %q, want 503 not ready", code, resp.Status)
	}

	server.SetReady(true)
	code, resp = getHealth(t, h, "/health/ready")
	if code != http.StatusOK || resp.Status != "ok" {
		t.Errorf("after SetReady = %d %q, want 200 ok", code, resp.Status)
	}
	if resp.LastRun != nil {
		t.Errorf("last_run = %+v, want none", resp.LastRun)
	}

	server.SetReady(false)
	if code, _ := getHealth(t, h, "/health/ready"); code != http.StatusServiceUnavailable {
		t.Errorf("after SetReady(false) = %d, want 503", code)
	}
}

func TestHealthServer_ReportsLastRun(t *testing.T) {
	server := NewHealthServer(":0", quietLogger())
	server.SetReady(true)

	at := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	server.RecordRun(RunStatus{Status: "success", At: at, Found: 12, Inserted: 3, Failed: 1})

	_, resp := getHealth(t, server.Handler(), "/health/ready")
	if resp.LastRun == nil {
		t.Fatal("last_run missing")
	}
	if resp.LastRun.Inserted != 3 || resp.LastRun.Failed != 1 || !resp.LastRun.At.Equal(at) {
		t.Errorf("last_run = %+v", resp.LastRun)
	}

	got, ok := server.LastRun()
	if !ok || got.Status != "success" {
		t.Errorf("LastRun() = %+v, %v", got, ok)
	}
}

func TestHealthServer_MethodNotAllowed(t *testing.T) {
	server := NewHealthServer(":0", quietLogger())
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/health", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /health = %d, want 405", rr.Code)
	}
}

func TestHealthServer_StartAndShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	server := NewHealthServer(addr, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Start(ctx) }()

	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get("http://" + addr + "/health")
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server never came up: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != http.ErrServerClosed {
			t.Errorf("Start returned %v, want http.ErrServerClosed", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestHealthServer_ReportsNextRun(t *testing.T) {
	server := NewHealthServer(":0", quietLogger())
	server.SetReady(true)

	_, resp := getHealth(t, server.Handler(), "/health/ready")
	if resp.NextRun != nil {
		t.Errorf("next_run = %v before a schedule is set", resp.NextRun)
	}

	next := time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC)
	server.SetNextRun(func() time.Time { return next })
	_, resp = getHealth(t, server.Handler(), "/health/ready")
	if resp.NextRun == nil || !resp.NextRun.Equal(next) {
		t.Errorf("next_run = %v, want %v", resp.NextRun, next)
	}
}
