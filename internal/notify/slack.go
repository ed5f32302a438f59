package notify

import (
	"context"
	"fmt"
	"net/http"

	"github.com/slack-go/slack"
)

// SlackSender posts to a Slack incoming webhook.
type SlackSender struct {
	webhookURL string
	client     *http.Client
}

// NewSlackSender creates a SlackSender.
func NewSlackSender(webhookURL string) *SlackSender {
	return &SlackSender{webhookURL: webhookURL, client: defaultHTTPClient()}
}

// Send posts a single attachment with the title and message.
func (s *SlackSender) Send(ctx context.Context, title, message string) error {
	msg := &slack.WebhookMessage{
		Text: title,
		Attachments: []slack.Attachment{{
			Title: title,
			Text:  message,
		}},
	}
	if err := slack.PostWebhookCustomHTTPContext(ctx, s.webhookURL, s.client, msg); err != nil {
		return fmt.Errorf("slack: %w", err)
	}
	return nil
}

func (s *SlackSender) Name() string { return "slack" }
