package scan_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lima-segura/internal/usecase/classify"
	"lima-segura/internal/usecase/scan"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	cfg := scan.LoadConfigFromEnv(discardLogger())
	assert.Equal(t, scan.DefaultConfig(), cfg)
}

func TestLoadConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("SCAN_MAX_CONCURRENT", "8")
	t.Setenv("SCAN_SOURCE_TIMEOUT", "45s")
	t.Setenv("SCAN_PAGE_INTERVAL", "500ms")
	t.Setenv("CLASSIFIER_POLICY", "lenient")

	cfg := scan.LoadConfigFromEnv(discardLogger())
	assert.Equal(t, 8, cfg.MaxConcurrent)
	assert.Equal(t, 45*time.Second, cfg.SourceTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.PageInterval)
	assert.Equal(t, classify.PolicyLenient, cfg.Policy)
}

func TestLoadConfigFromEnv_InvalidFallsBack(t *testing.T) {
	t.Setenv("SCAN_MAX_CONCURRENT", "0")
	t.Setenv("SCAN_SOURCE_TIMEOUT", "forever")
	t.Setenv("SCAN_PAGE_INTERVAL", "1ms")
	t.Setenv("CLASSIFIER_POLICY", "permissive")

	cfg := scan.LoadConfigFromEnv(discardLogger())
	assert.Equal(t, scan.DefaultConfig(), cfg)
}
