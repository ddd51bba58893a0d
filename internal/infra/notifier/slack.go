package notifier

import (
	"context"
	"fmt"
	"time"

	"lima-segura/internal/domain/entity"
)

// SlackNotifier posts incidents through a Slack Incoming Webhook.
type SlackNotifier struct {
	webhook *webhook
}

func NewSlackNotifier(cfg WebhookConfig) *SlackNotifier {
	return &SlackNotifier{webhook: newWebhook("Slack", cfg.WebhookURL, cfg.Timeout, slackLimit)}
}

// SlackWebhookPayload is a Block Kit message with fallback text.
type SlackWebhookPayload struct {
	Text   string       `json:"text"`
	Blocks []SlackBlock `json:"blocks"`
}

type SlackBlock struct {
	Type     string            `json:"type"`
	Text     *SlackTextObject  `json:"text,omitempty"`
	Elements []SlackTextObject `json:"elements,omitempty"`
}

type SlackTextObject struct {
	Type string `json:"type"` // "mrkdwn" or "plain_text"
	Text string `json:"text"`
}

const (
	maxSectionTextLength = 3000
	maxFallbackLength    = 150
)

func (s *SlackNotifier) buildBlockKitPayload(inc entity.Incident) SlackWebhookPayload {
	fallback := truncateText(fmt.Sprintf("[%s] %s - %s", inc.District, inc.Headline, inc.Source),
		maxFallbackLength, truncationSuffix)

	section := fmt.Sprintf("*<%s|%s>*\nDistrito: %s · Categoría: %s",
		inc.Link, inc.Headline, inc.District, inc.Category)
	section = truncateText(section, maxSectionTextLength, truncationSuffix)

	contextText := inc.Source
	if !inc.FirstSeenAt.IsZero() {
		contextText = fmt.Sprintf("%s • %s", inc.Source, inc.FirstSeenAt.UTC().Format(time.RFC3339))
	}

	return SlackWebhookPayload{
		Text: fallback,
		Blocks: []SlackBlock{
			{Type: "section", Text: &SlackTextObject{Type: "mrkdwn", Text: section}},
			{Type: "context", Elements: []SlackTextObject{{Type: "mrkdwn", Text: contextText}}},
		},
	}
}

func (s *SlackNotifier) NotifyIncident(ctx context.Context, inc entity.Incident) error {
	return s.webhook.deliver(ctx, inc, s.buildBlockKitPayload(inc))
}
