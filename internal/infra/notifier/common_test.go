package notifier

import (
	"net/http"
	"testing"
	"time"
)

func TestExtractRetryAfter(t *testing.T) {
	tests := []struct {
		name   string
		header string
		body   string
		want   time.Duration
	}{
		{name: "json body", body: `{"retry_after":1.5}`, want: 1500 * time.Millisecond},
		{name: "header seconds", header: "3", body: "rate limited", want: 3 * time.Second},
		{name: "body wins over header", header: "9", body: `{"retry_after":2}`, want: 2 * time.Second},
		{name: "nothing usable", want: defaultRetryAfter},
		{name: "bad header", header: "soon", want: defaultRetryAfter},
		{name: "zero body falls through", header: "4", body: `{"retry_after":0}`, want: 4 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.header != "" {
				h.Set("Retry-After", tt.header)
			}
			if got := extractRetryAfter(h, []byte(tt.body)); got != tt.want {
				t.Errorf("extractRetryAfter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		in     string
		max    int
		suffix string
		want   string
	}{
		{"Breña", 10, "...", "Breña"},
		{"Robo en Breña", 8, "...", "Robo ..."},
		{"Breña", 3, "", "Bre"},
		{"Callao", 2, "...", "..."},
	}
	for _, tt := range tests {
		if got := truncateText(tt.in, tt.max, tt.suffix); got != tt.want {
			t.Errorf("truncateText(%q, %d, %q) = %q, want %q", tt.in, tt.max, tt.suffix, got, tt.want)
		}
	}
}
