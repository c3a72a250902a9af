package ticketapi

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

type fakeSecretStore struct {
	secrets map[string]string
	err     error
	calls   int
}

func (f *fakeSecretStore) GetSecret(_ context.Context, id string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	s, ok := f.secrets[id]
	if !ok {
		return "", errors.New("secret not found")
	}
	return s, nil
}

func TestResolvePrefersSecret(t *testing.T) {
	store := &fakeSecretStore{secrets: map[string]string{
		"ticket-api": `{"url":"https://tickets.example.com/api","auth_type":"basic","username":"svc","password":"pw"}`,
	}}
	r := NewResolver(zap.NewNop(),
		NewSecretSource(store, "ticket-api"),
		NewEnvSource("https://fallback.example.com", "bearer", "env-key"))

	cfg := r.Resolve(context.Background())
	if cfg.URL != "https://tickets.example.com/api" || cfg.AuthType != AuthBasic {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Username != "svc" || cfg.Password != "pw" {
		t.Errorf("credentials not parsed: %+v", cfg)
	}
}

func TestResolveSecretDefaultsAndTokenAlias(t *testing.T) {
	store := &fakeSecretStore{secrets: map[string]string{
		"ticket-api": `{"url":"https://tickets.example.com","token":"tok-1"}`,
	}}
	cfg := NewResolver(zap.NewNop(), NewSecretSource(store, "ticket-api")).Resolve(context.Background())
	if cfg.AuthType != AuthBearer {
		t.Errorf("AuthType = %q, want bearer default", cfg.AuthType)
	}
	if cfg.APIKey != "tok-1" {
		t.Errorf("APIKey = %q, want token alias", cfg.APIKey)
	}
}

func TestResolveFallsBackToEnv(t *testing.T) {
	cases := map[string]*fakeSecretStore{
		"retrieval failure": {err: errors.New("access denied")},
		"parse failure":     {secrets: map[string]string{"ticket-api": "not json"}},
	}
	for name, store := range cases {
		t.Run(name, func(t *testing.T) {
			r := NewResolver(zap.NewNop(),
				NewSecretSource(store, "ticket-api"),
				NewEnvSource("https://fallback.example.com", "", "env-key"))
			cfg := r.Resolve(context.Background())
			want := APIConfig{URL: "https://fallback.example.com", AuthType: AuthBearer, APIKey: "env-key"}
			if cfg != want {
				t.Errorf("cfg = %+v, want %+v", cfg, want)
			}
			if store.calls != 1 {
				t.Errorf("secret store calls = %d, want 1", store.calls)
			}
		})
	}
}

func TestResolveSkipsSecretWithoutID(t *testing.T) {
	store := &fakeSecretStore{}
	cfg := NewResolver(zap.NewNop(),
		NewSecretSource(store, ""),
		NewEnvSource("", "apikey", "")).Resolve(context.Background())
	if store.calls != 0 {
		t.Errorf("secret store should not be called without an id")
	}
	if cfg.URL != "" || cfg.AuthType != AuthAPIKey {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestResolveWithoutSourcesReturnsEmptyConfig(t *testing.T) {
	cfg := NewResolver(zap.NewNop()).Resolve(context.Background())
	if cfg.URL != "" {
		t.Errorf("URL = %q, want empty", cfg.URL)
	}
}
