package notify

import (
	"fmt"

	slackapi "github.com/slack-go/slack"
)

// webhookPoster abstracts the Slack webhook call, enabling test mocks.
type webhookPoster func(url string, msg *slackapi.WebhookMessage) error

// SlackChannel posts reminders to a Slack incoming webhook.
type SlackChannel struct {
	webhookURL string
	post       webhookPoster
}

// NewSlack creates a Slack channel for an incoming webhook URL.
func NewSlack(webhookURL string) *SlackChannel {
	return &SlackChannel{
		webhookURL: webhookURL,
		post:       slackapi.PostWebhook,
	}
}

// Name implements Channel.
func (s *SlackChannel) Name() string { return "slack" }

// Send implements Channel.
func (s *SlackChannel) Send(text string) error {
	if err := s.post(s.webhookURL, &slackapi.WebhookMessage{Text: text}); err != nil {
		return fmt.Errorf("slack: post webhook: %w", err)
	}
	return nil
}
