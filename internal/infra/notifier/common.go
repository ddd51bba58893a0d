package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"lima-segura/internal/domain/entity"
	"lima-segura/internal/handler/http/requestid"
	"lima-segura/internal/resilience/retry"

	"golang.org/x/time/rate"
)

const (
	defaultRetryAfter = 5 * time.Second

	// maxErrorBody caps how much of an error response lands in messages.
	maxErrorBody = 512
)

// truncateText cuts text to maxRunes runes including suffix, on a rune
// boundary.
func truncateText(text string, maxRunes int, suffix string) string {
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	keep := max(maxRunes-utf8.RuneCountInString(suffix), 0)
	return string([]rune(text)[:keep]) + suffix
}

// extractRetryAfter prefers the JSON retry_after (seconds, fractional) that
// Discord and Slack send, then the Retry-After header.
func extractRetryAfter(header http.Header, body []byte) time.Duration {
	var parsed struct {
		RetryAfter float64 `json:"retry_after"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.RetryAfter > 0 {
		return time.Duration(parsed.RetryAfter * float64(time.Second))
	}
	if d := retry.ParseRetryAfter(header.Get("Retry-After"), time.Now()); d > 0 {
		return d
	}
	return defaultRetryAfter
}

// webhook is the delivery path shared by the chat notifiers.
type webhook struct {
	service string
	url     string
	client  *http.Client
	limiter *rate.Limiter
	retry   retry.Config
}

func newWebhook(service, url string, timeout time.Duration, lim limit) *webhook {
	return &webhook{
		service: service,
		url:     url,
		client:  &http.Client{Timeout: timeout},
		limiter: lim.limiter(),
		retry:   retry.WebhookConfig(),
	}
}

// post sends one JSON payload. Non-2xx answers become *retry.HTTPError so
// retry.WithBackoff decides what to repeat: 5xx, 408 and 429 are retried,
// any other 4xx (bad token, deleted webhook) is final.
func (w *webhook) post(ctx context.Context, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	httpErr := &retry.HTTPError{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("%s webhook: %s", w.service, bytes.TrimSpace(body)),
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		httpErr.RetryAfter = extractRetryAfter(resp.Header, body)
	}
	return httpErr
}

// deliver waits for the rate limiter and posts payload with retries.
func (w *webhook) deliver(ctx context.Context, inc entity.Incident, payload any) error {
	requestID := requestid.FromContext(ctx)
	if requestID == "" {
		requestID = requestid.New()
		ctx = requestid.WithRequestID(ctx, requestID)
	}
	logger := slog.With(
		slog.String("request_id", requestID),
		slog.String("service", w.service),
		slog.Int64("incident_id", inc.ID),
		slog.String("link", inc.Link))

	if err := w.limiter.Wait(ctx); err != nil {
		logger.Error("Rate limiter error", slog.Any("error", err))
		return fmt.Errorf("rate limiter error: %w", err)
	}

	attempts := 0
	err := retry.WithBackoff(ctx, w.retry, func() error {
		attempts++
		return w.post(ctx, payload)
	})
	if err != nil {
		logger.Error("Notification failed", slog.Int("attempts", attempts), slog.Any("error", err))
		return fmt.Errorf("%s notification failed: %w", w.service, err)
	}
	logger.Info("Notification successful", slog.Int("attempts", attempts))
	return nil
}
