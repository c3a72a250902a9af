package ticketapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Supported auth schemes.
const (
	AuthBearer = "bearer"
	AuthAPIKey = "apikey"
	AuthBasic  = "basic"
)

// APIConfig locates and authenticates against the external ticket API.
type APIConfig struct {
	URL      string
	AuthType string
	APIKey   string
	Username string
	Password string
}

// SecretStore resolves a named secret to its raw JSON string.
type SecretStore interface {
	GetSecret(ctx context.Context, id string) (string, error)
}

// ConfigSource is one step of the resolution chain.
type ConfigSource interface {
	Name() string
	Load(ctx context.Context) (APIConfig, error)
}

// Resolver walks its sources in order and returns the first that loads.
type Resolver struct {
	sources []ConfigSource
	logger  *zap.Logger
}

// NewResolver builds a resolver; source order is precedence order.
func NewResolver(logger *zap.Logger, sources ...ConfigSource) *Resolver {
	return &Resolver{sources: sources, logger: logger}
}

// Resolve never fails. A config without URL is for the caller to reject.
func (r *Resolver) Resolve(ctx context.Context) APIConfig {
	for _, source := range r.sources {
		cfg, err := source.Load(ctx)
		if err != nil {
			r.logger.Warn("ticket api config source failed",
				zap.String("source", source.Name()), zap.Error(err))
			continue
		}
		return cfg
	}
	return APIConfig{AuthType: AuthBearer}
}

type secretDocument struct {
	URL      string `json:"url"`
	AuthType string `json:"auth_type"`
	APIKey   string `json:"api_key"`
	Token    string `json:"token"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// SecretSource reads the configuration from the secret store.
type SecretSource struct {
	store    SecretStore
	secretID string
}

func NewSecretSource(store SecretStore, secretID string) *SecretSource {
	return &SecretSource{store: store, secretID: secretID}
}

func (s *SecretSource) Name() string { return "secret" }

func (s *SecretSource) Load(ctx context.Context) (APIConfig, error) {
	if s.store == nil || strings.TrimSpace(s.secretID) == "" {
		return APIConfig{}, errors.New("no secret configured")
	}
	raw, err := s.store.GetSecret(ctx, s.secretID)
	if err != nil {
		return APIConfig{}, fmt.Errorf("fetch secret %s: %w", s.secretID, err)
	}
	if strings.TrimSpace(raw) == "" {
		raw = "{}"
	}
	var doc secretDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return APIConfig{}, fmt.Errorf("parse secret %s: %w", s.secretID, err)
	}
	cfg := APIConfig{
		URL:      doc.URL,
		AuthType: doc.AuthType,
		APIKey:   doc.APIKey,
		Username: doc.Username,
		Password: doc.Password,
	}
	if cfg.AuthType == "" {
		cfg.AuthType = AuthBearer
	}
	if cfg.APIKey == "" {
		cfg.APIKey = doc.Token
	}
	return cfg, nil
}

// EnvSource serves the values read from the environment at startup.
type EnvSource struct {
	cfg APIConfig
}

func NewEnvSource(url, authType, apiKey string) *EnvSource {
	if authType == "" {
		authType = AuthBearer
	}
	return &EnvSource{cfg: APIConfig{URL: url, AuthType: authType, APIKey: apiKey}}
}

func (s *EnvSource) Name() string { return "env" }

func (s *EnvSource) Load(context.Context) (APIConfig, error) {
	return s.cfg, nil
}
