// Package notifier delivers new-incident alerts to chat webhooks.
//
// Discord and Slack notifiers share one delivery path: rate limiting,
// retry.WithBackoff honoring 429 retry_after hints, and request_id
// tagged logging. NoOpNotifier stands in when a channel is disabled.
package notifier

import (
	"context"

	"lima-segura/internal/domain/entity"
)

// Notifier sends a notification about a newly persisted incident.
//
// Implementations rate limit and retry transient failures internally and
// return an error only after giving up. They must respect ctx cancellation.
type Notifier interface {
	NotifyIncident(ctx context.Context, inc entity.Incident) error
}
