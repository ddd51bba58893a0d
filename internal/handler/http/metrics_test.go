package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lima-segura/internal/observability/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddleware_NormalizesPaths(t *testing.T) {
	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/404") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("OK"))
	}))

	counter := func(path, status string) float64 {
		return testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, path, status))
	}
	idBefore := counter("/incidents/:id", "200")
	notFoundBefore := counter("/incidents/:id", "404")
	otherBefore := counter("other", "200")

	for _, path := range []string{"/incidents/1", "/incidents/2", "/incidents/404", "/.env"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := counter("/incidents/:id", "200") - idBefore; got != 2 {
		t.Errorf("/incidents/:id 200 count = %v, want 2", got)
	}
	if got := counter("/incidents/:id", "404") - notFoundBefore; got != 1 {
		t.Errorf("/incidents/:id 404 count = %v, want 1", got)
	}
	if got := counter("other", "200") - otherBefore; got != 1 {
		t.Errorf("other count = %v, want 1", got)
	}
}

func TestMetricsMiddleware_InFlightReturnsToZero(t *testing.T) {
	var during float64
	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		during = testutil.ToFloat64(metrics.HTTPRequestsInFlight)
	}))

	before := testutil.ToFloat64(metrics.HTTPRequestsInFlight)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	if during != before+1 {
		t.Errorf("in-flight during request = %v, want %v", during, before+1)
	}
	if after := testutil.ToFloat64(metrics.HTTPRequestsInFlight); after != before {
		t.Errorf("in-flight after request = %v, want %v", after, before)
	}
}

func TestMetricsHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "scan_runs_total") {
		t.Error("expected scan metrics to be exposed")
	}
}
