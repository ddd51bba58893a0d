package notify

import "lima-segura/internal/infra/notifier"

// NewDiscordChannel returns the "discord" channel. A disabled config yields
// a channel backed by NoOpNotifier.
func NewDiscordChannel(config notifier.WebhookConfig) Channel {
	var n notifier.Notifier
	if config.Enabled {
		n = notifier.NewDiscordNotifier(config)
	}
	return newNotifierChannel("discord", config.Enabled, n)
}

// NewSlackChannel returns the "slack" channel.
func NewSlackChannel(config notifier.WebhookConfig) Channel {
	var n notifier.Notifier
	if config.Enabled {
		n = notifier.NewSlackNotifier(config)
	}
	return newNotifierChannel("slack", config.Enabled, n)
}
