// Package notify fans new incidents out to the enabled notification
// channels without blocking the scan that found them.
package notify

import (
	"context"

	"lima-segura/internal/domain/entity"
	"lima-segura/internal/infra/notifier"
)

// Channel is one notification destination.
//
// Implementations are safe for concurrent use, respect ctx cancellation and
// handle their own rate limiting and retries. Send returns
// ErrChannelDisabled on a disabled channel and ErrInvalidIncident for an
// incident without headline or link.
type Channel interface {
	// Name is used as the metrics label and in health output.
	Name() string
	IsEnabled() bool
	Send(ctx context.Context, inc entity.Incident) error
}

// notifierChannel adapts an infra notifier to Channel.
type notifierChannel struct {
	name     string
	notifier notifier.Notifier
	enabled  bool
}

func newNotifierChannel(name string, enabled bool, n notifier.Notifier) *notifierChannel {
	if !enabled {
		n = notifier.NewNoOpNotifier()
	}
	return &notifierChannel{name: name, notifier: n, enabled: enabled}
}

func (c *notifierChannel) Name() string { return c.name }

func (c *notifierChannel) IsEnabled() bool { return c.enabled }

func (c *notifierChannel) Send(ctx context.Context, inc entity.Incident) error {
	if !c.enabled {
		return ErrChannelDisabled
	}
	if err := validateIncident(inc); err != nil {
		return err
	}
	return c.notifier.NotifyIncident(ctx, inc)
}

func validateIncident(inc entity.Incident) error {
	if inc.Headline == "" || inc.Link == "" {
		return ErrInvalidIncident
	}
	return nil
}
