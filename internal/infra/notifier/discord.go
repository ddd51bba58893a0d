package notifier

import (
	"context"
	"time"

	"lima-segura/internal/domain/entity"
)

// WebhookConfig configures a chat webhook notifier. WebhookURL embeds the
// webhook token and must never be logged.
type WebhookConfig struct {
	Enabled    bool
	WebhookURL string
	Timeout    time.Duration
}

// DiscordNotifier posts incidents to a Discord channel as embeds.
type DiscordNotifier struct {
	webhook *webhook
}

func NewDiscordNotifier(cfg WebhookConfig) *DiscordNotifier {
	return &DiscordNotifier{webhook: newWebhook("Discord", cfg.WebhookURL, cfg.Timeout, discordLimit)}
}

type DiscordWebhookPayload struct {
	Embeds []DiscordEmbed `json:"embeds"`
}

type DiscordEmbed struct {
	Title     string       `json:"title"`
	URL       string       `json:"url"`
	Color     int          `json:"color"`
	Fields    []EmbedField `json:"fields"`
	Footer    EmbedFooter  `json:"footer"`
	Timestamp string       `json:"timestamp,omitempty"`
}

// EmbedField is rendered side by side with its neighbours when Inline is set.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type EmbedFooter struct {
	Text string `json:"text"`
}

const (
	maxTitleLength   = 256
	truncationSuffix = "..."

	// #ED4245
	discordRedColor = 15548997
)

func (d *DiscordNotifier) buildEmbedPayload(inc entity.Incident) DiscordWebhookPayload {
	embed := DiscordEmbed{
		Title: truncateText(inc.Headline, maxTitleLength, truncationSuffix),
		URL:   inc.Link,
		Color: discordRedColor,
		Fields: []EmbedField{
			{Name: "Distrito", Value: inc.District, Inline: true},
			{Name: "Categoría", Value: inc.Category, Inline: true},
		},
		Footer: EmbedFooter{Text: inc.Source},
	}
	if !inc.FirstSeenAt.IsZero() {
		embed.Timestamp = inc.FirstSeenAt.UTC().Format(time.RFC3339)
	}
	return DiscordWebhookPayload{Embeds: []DiscordEmbed{embed}}
}

func (d *DiscordNotifier) NotifyIncident(ctx context.Context, inc entity.Incident) error {
	return d.webhook.deliver(ctx, inc, d.buildEmbedPayload(inc))
}
