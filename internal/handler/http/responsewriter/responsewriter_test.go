package responsewriter

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResponseWriter_DefaultsTo200(t *testing.T) {
	rec := httptest.NewRecorder()
	w := Wrap(rec)

	if w.StatusCode() != http.StatusOK {
		t.Errorf("StatusCode() = %d before any write, want 200", w.StatusCode())
	}
	n, err := w.Write([]byte(`{"data":[]}`))
	if err != nil || n != 11 {
		t.Fatalf("Write = %d, %v", n, err)
	}
	if rec.Code != http.StatusOK || w.BytesWritten() != 11 {
		t.Errorf("recorded %d with %d bytes", rec.Code, w.BytesWritten())
	}
}

func TestResponseWriter_FirstStatusWins(t *testing.T) {
	rec := httptest.NewRecorder()
	w := Wrap(rec)

	w.WriteHeader(http.StatusConflict)
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte("scan already running"))
	_, _ = w.Write([]byte("\n"))

	if w.StatusCode() != http.StatusConflict || rec.Code != http.StatusConflict {
		t.Errorf("status = %d (recorder %d), want 409", w.StatusCode(), rec.Code)
	}
	if w.BytesWritten() != len("scan already running\n") {
		t.Errorf("BytesWritten() = %d", w.BytesWritten())
	}
}

func TestWrap_Idempotent(t *testing.T) {
	outer := Wrap(httptest.NewRecorder())
	if Wrap(outer) != outer {
		t.Error("wrapping a ResponseWriter twice should return the same recorder")
	}
}

func TestResponseWriter_FlushAndUnwrap(t *testing.T) {
	rec := httptest.NewRecorder()
	w := Wrap(rec)

	w.Flush()
	if !rec.Flushed {
		t.Error("Flush was not forwarded")
	}
	if w.StatusCode() != http.StatusOK {
		t.Errorf("StatusCode() = %d after flush", w.StatusCode())
	}
	if w.Unwrap() != rec {
		t.Error("Unwrap should return the wrapped writer")
	}
	if err := http.NewResponseController(w).Flush(); err != nil {
		t.Errorf("ResponseController.Flush: %v", err)
	}
}
