package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type channelPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// Message is the JSON document published on a topic channel.
type Message struct {
	Topic       string    `json:"topic"`
	Subject     string    `json:"subject,omitempty"`
	Message     string    `json:"message"`
	PublishedAt time.Time `json:"published_at"`
}

// RedisPublisher maps each topic to a Redis pub/sub channel of the same name.
type RedisPublisher struct {
	client channelPublisher
	now    func() time.Time
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client, now: time.Now}
}

func (p *RedisPublisher) Publish(ctx context.Context, topic, subject, message string) error {
	if topic == "" {
		return ErrNoTopic
	}
	payload, err := json.Marshal(Message{
		Topic:       topic,
		Subject:     subject,
		Message:     message,
		PublishedAt: p.now().UTC(),
	})
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, topic, payload).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}
