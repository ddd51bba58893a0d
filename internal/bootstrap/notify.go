package bootstrap

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"lima-segura/internal/infra/notifier"
	"lima-segura/internal/pkg/config"
	"lima-segura/internal/usecase/notify"
)

const webhookTimeout = 30 * time.Second

// SetupNotifications builds the notification service from DISCORD_* and
// SLACK_* variables. Channels that are disabled or misconfigured are left
// out with a warning; with no channels the service is a no-op.
func SetupNotifications(logger *slog.Logger, maxConcurrent int) notify.Service {
	var channels []notify.Channel

	if cfg := LoadDiscordConfig(logger); cfg.Enabled {
		channels = append(channels, notify.NewDiscordChannel(cfg))
		logger.Info("Discord channel initialized")
	}
	if cfg := LoadSlackConfig(logger); cfg.Enabled {
		channels = append(channels, notify.NewSlackChannel(cfg))
		logger.Info("Slack channel initialized")
	}

	logger.Info("notification service initialized",
		slog.Int("channels", len(channels)),
		slog.Int("max_concurrent", maxConcurrent))
	return notify.NewService(channels, maxConcurrent)
}

// LoadDiscordConfig reads DISCORD_ENABLED and DISCORD_WEBHOOK_URL. The URL
// must be an https discord.com webhook.
func LoadDiscordConfig(logger *slog.Logger) notifier.WebhookConfig {
	webhookURL, ok := loadWebhook(logger, "DISCORD", func(u *url.URL) error {
		if u.Host != "discord.com" && u.Host != "discordapp.com" {
			return fmt.Errorf("invalid Discord webhook host %q", u.Host)
		}
		if !strings.HasPrefix(u.Path, "/api/webhooks/") {
			return fmt.Errorf("invalid Discord webhook path")
		}
		return nil
	})
	if !ok {
		return notifier.WebhookConfig{Enabled: false}
	}
	return notifier.WebhookConfig{Enabled: true, WebhookURL: webhookURL, Timeout: webhookTimeout}
}

// LoadSlackConfig reads SLACK_ENABLED and SLACK_WEBHOOK_URL. The URL must be
// an https hooks.slack.com webhook.
func LoadSlackConfig(logger *slog.Logger) notifier.WebhookConfig {
	webhookURL, ok := loadWebhook(logger, "SLACK", func(u *url.URL) error {
		if u.Host != "hooks.slack.com" {
			return fmt.Errorf("invalid Slack webhook host %q", u.Host)
		}
		if !strings.HasPrefix(u.Path, "/services/") {
			return fmt.Errorf("invalid Slack webhook path")
		}
		return nil
	})
	if !ok {
		return notifier.WebhookConfig{Enabled: false}
	}
	return notifier.WebhookConfig{Enabled: true, WebhookURL: webhookURL, Timeout: webhookTimeout}
}

func loadWebhook(logger *slog.Logger, prefix string, check func(*url.URL) error) (string, bool) {
	enabled := config.LoadEnvBool(prefix+"_ENABLED", false)
	for _, w := range enabled.Warnings {
		logger.Warn("Configuration fallback applied", slog.String("warning", w))
	}
	if !enabled.Value.(bool) {
		return "", false
	}

	raw := config.LoadEnvString(prefix+"_WEBHOOK_URL", "")
	if raw == "" {
		logger.Warn("webhook URL is empty, disabling notifications", slog.String("channel", strings.ToLower(prefix)))
		return "", false
	}
	u, err := url.Parse(raw)
	if err == nil && u.Scheme != "https" {
		err = fmt.Errorf("webhook URL must use HTTPS")
	}
	if err == nil {
		err = check(u)
	}
	if err != nil {
		// the URL carries the webhook token, so only the error is logged
		logger.Warn("invalid webhook URL, disabling notifications",
			slog.String("channel", strings.ToLower(prefix)),
			slog.Any("error", err))
		return "", false
	}
	return raw, true
}
