// Package secrets resolves named secrets stored in Redis.
package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned for unknown secret ids.
var ErrNotFound = errors.New("secret not found")

const keyPrefix = "secret:"

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisStore reads secrets from keys named secret:<id>.
type RedisStore struct {
	client stringGetter
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// GetSecret returns the raw secret string.
func (s *RedisStore) GetSecret(ctx context.Context, id string) (string, error) {
	val, err := s.client.Get(ctx, keyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return "", fmt.Errorf("read secret %s: %w", id, err)
	}
	return val, nil
}
