// Package notify fans human readable alerts out to subscribers.
package notify

import (
	"context"
	"errors"
)

// ErrNoTopic is returned when a message has nowhere to go.
var ErrNoTopic = errors.New("notification topic not configured")

// Publisher delivers one message to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic, subject, message string) error
}

// Fanout publishes to every sink and reports all failures.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, topic, subject, message string) error {
	if topic == "" {
		return ErrNoTopic
	}
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, topic, subject, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
