package secrets

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
)

type fakeGetter struct {
	values map[string]string
	err    error
	keys   []string
}

func (f *fakeGetter) Get(_ context.Context, key string) *redis.StringCmd {
	f.keys = append(f.keys, key)
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func TestGetSecret(t *testing.T) {
	getter := &fakeGetter{values: map[string]string{"secret:ticket-api": `{"url":"x"}`}}
	store := &RedisStore{client: getter}

	got, err := store.GetSecret(context.Background(), "ticket-api")
	if err != nil || got != `{"url":"x"}` {
		t.Fatalf("GetSecret = %q, %v", got, err)
	}
	if getter.keys[0] != "secret:ticket-api" {
		t.Errorf("key = %q", getter.keys[0])
	}
}

func TestGetSecretMissing(t *testing.T) {
	store := &RedisStore{client: &fakeGetter{values: map[string]string{}}}
	if _, err := store.GetSecret(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestGetSecretBackendError(t *testing.T) {
	boom := errors.New("connection reset")
	store := &RedisStore{client: &fakeGetter{err: boom}}
	_, err := store.GetSecret(context.Background(), "ticket-api")
	if !errors.Is(err, boom) || errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v", err)
	}
}
