package notify

import (
	"context"
	"fmt"

	slackapi "github.com/slack-go/slack"
)

type slackPoster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

// SlackPublisher mirrors every topic into one Slack channel.
type SlackPublisher struct {
	client    slackPoster
	channelID string
}

func NewSlackPublisher(botToken, channelID string) *SlackPublisher {
	return &SlackPublisher{client: slackapi.New(botToken), channelID: channelID}
}

func (p *SlackPublisher) Publish(ctx context.Context, topic, subject, message string) error {
	_, _, err := p.client.PostMessageContext(ctx, p.channelID,
		slackapi.MsgOptionText(FormatText(topic, subject, message), false))
	if err != nil {
		return fmt.Errorf("slack post to %s: %w", p.channelID, err)
	}
	return nil
}

// FormatText renders a notification as Slack mrkdwn.
func FormatText(topic, subject, message string) string {
	if subject == "" {
		return fmt.Sprintf("[%s] %s", topic, message)
	}
	return fmt.Sprintf("[%s] *%s*\n%s", topic, subject, message)
}
