package bootstrap

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lima-segura/internal/lexicon"
	"lima-segura/internal/usecase/classify"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestLoadLexicon(t *testing.T) {
	t.Run("empty path uses built-in", func(t *testing.T) {
		lex := LoadLexicon(quietLogger(), "")
		assert.Equal(t, len(lexicon.Default().Districts), len(lex.Districts))
	})

	t.Run("missing file falls back to empty", func(t *testing.T) {
		lex := LoadLexicon(quietLogger(), filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Empty(t, lex.Districts)
		assert.Empty(t, lex.CrimeKeywords)
	})

	t.Run("invalid file falls back to empty", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "lexicon.yaml")
		require.NoError(t, os.WriteFile(path, []byte("districts:\n  - name: \"\"\n"), 0o600))
		lex := LoadLexicon(quietLogger(), path)
		assert.Empty(t, lex.Districts)
	})
}

func TestNewScanComponents_Defaults(t *testing.T) {
	t.Setenv("LEXICON_PATH", "")
	t.Setenv("SOURCES_PATH", "")
	t.Setenv("CLASSIFIER_POLICY", "")

	comps, err := NewScanComponents(quietLogger(), ScanOptions{})
	require.NoError(t, err)
	assert.Equal(t, classify.PolicyStrict, comps.Classifier.Policy())
	assert.NotEmpty(t, comps.Scanner.Sources())
	assert.Equal(t, comps.Registry.Names(), comps.Scanner.Sources())
}

func TestNewScanComponents_Overrides(t *testing.T) {
	t.Setenv("SOURCES_PATH", "")

	comps, err := NewScanComponents(quietLogger(), ScanOptions{
		Policy:     classify.PolicyLenient,
		OnlySource: "RPP",
	})
	require.NoError(t, err)
	assert.Equal(t, classify.PolicyLenient, comps.Classifier.Policy())
	assert.Equal(t, []string{"RPP"}, comps.Scanner.Sources())
}

func TestNewScanComponents_UnknownSource(t *testing.T) {
	t.Setenv("SOURCES_PATH", "")

	_, err := NewScanComponents(quietLogger(), ScanOptions{OnlySource: "Diario Inexistente"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown source")
}

func TestNewScanComponents_SourcesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	yaml := `sources:
  - name: Local
    kind: html
    base_url: https://noticias.example.pe
    listing_urls: ["https://noticias.example.pe/policiales/"]
    selector: h2
  - name: Apagado
    kind: rss
    base_url: https://otro.example.pe
    listing_urls: ["https://otro.example.pe/feed"]
    enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	comps, err := NewScanComponents(quietLogger(), ScanOptions{
		SourcesPath: path,
		HTTPClient:  http.DefaultClient,
	})
	require.NoError(t, err)
	assert.Len(t, comps.Sources, 2)
	assert.Equal(t, []string{"Local"}, comps.Scanner.Sources())
}

func TestNewScanComponents_BadSourcesFile(t *testing.T) {
	_, err := NewScanComponents(quietLogger(), ScanOptions{
		SourcesPath: filepath.Join(t.TempDir(), "missing.yaml"),
	})
	require.Error(t, err)
}

func TestLoadDiscordConfig(t *testing.T) {
	tests := []struct {
		name    string
		enabled string
		url     string
		want    bool
	}{
		{"disabled", "false", "https://discord.com/api/webhooks/1/abc", false},
		{"unset", "", "https://discord.com/api/webhooks/1/abc", false},
		{"valid", "true", "https://discord.com/api/webhooks/1/abc", true},
		{"empty url", "true", "", false},
		{"http", "true", "http://discord.com/api/webhooks/1/abc", false},
		{"wrong host", "true", "https://evil.example/api/webhooks/1/abc", false},
		{"wrong path", "true", "https://discord.com/webhooks/1/abc", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DISCORD_ENABLED", tt.enabled)
			t.Setenv("DISCORD_WEBHOOK_URL", tt.url)
			cfg := LoadDiscordConfig(quietLogger())
			assert.Equal(t, tt.want, cfg.Enabled)
			if tt.want {
				assert.Equal(t, tt.url, cfg.WebhookURL)
				assert.Equal(t, webhookTimeout, cfg.Timeout)
			}
		})
	}
}

func TestLoadSlackConfig(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"valid", "https://hooks.slack.com/services/T0/B0/xyz", true},
		{"wrong host", "https://slack.com/services/T0/B0/xyz", false},
		{"wrong path", "https://hooks.slack.com/hooks/T0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SLACK_ENABLED", "true")
			t.Setenv("SLACK_WEBHOOK_URL", tt.url)
			assert.Equal(t, tt.want, LoadSlackConfig(quietLogger()).Enabled)
		})
	}
}

func TestSetupNotifications_NoChannels(t *testing.T) {
	t.Setenv("DISCORD_ENABLED", "")
	t.Setenv("SLACK_ENABLED", "")

	svc := SetupNotifications(quietLogger(), 2)
	assert.Empty(t, svc.GetChannelHealth())
}
