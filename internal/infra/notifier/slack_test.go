package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestSlackNotifier_buildBlockKitPayload(t *testing.T) {
	n := NewSlackNotifier(WebhookConfig{Enabled: true, WebhookURL: "http://unused", Timeout: time.Second})
	inc := sampleIncident()

	payload := n.buildBlockKitPayload(inc)

	if !strings.HasPrefix(payload.Text, "[MIRAFLORES] Asaltan a cambista") {
		t.Errorf("fallback text = %q", payload.Text)
	}
	if len(payload.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(payload.Blocks))
	}
	section := payload.Blocks[0].Text.Text
	if !strings.Contains(section, "<"+inc.Link+"|"+inc.Headline+">") {
		t.Errorf("section lacks link: %q", section)
	}
	if !strings.Contains(section, "Distrito: MIRAFLORES · Categoría: ASALTO") {
		t.Errorf("section lacks labels: %q", section)
	}
	if got := payload.Blocks[1].Elements[0].Text; got != "El Comercio • 2025-03-14T20:04:05Z" {
		t.Errorf("context = %q", got)
	}
}

func TestSlackNotifier_FallbackTruncated(t *testing.T) {
	n := NewSlackNotifier(WebhookConfig{Enabled: true, WebhookURL: "http://unused", Timeout: time.Second})
	inc := sampleIncident()
	inc.Headline = strings.Repeat("á", 400)

	payload := n.buildBlockKitPayload(inc)
	if got := utf8.RuneCountInString(payload.Text); got != maxFallbackLength {
		t.Errorf("fallback has %d runes, want %d", got, maxFallbackLength)
	}
}

func TestSlackNotifier_NotifyIncident(t *testing.T) {
	var got SlackWebhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	n := NewSlackNotifier(WebhookConfig{Enabled: true, WebhookURL: server.URL, Timeout: time.Second})
	if err := n.NotifyIncident(context.Background(), sampleIncident()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Blocks) != 2 {
		t.Errorf("server received %+v", got)
	}
}
