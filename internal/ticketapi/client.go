package ticketapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/voice2ticket/internal/retry"
	apperrors "github.com/spec-kit/voice2ticket/pkg/util/errorutil"
)

const (
	// DefaultAttemptTimeout bounds one HTTP attempt.
	DefaultAttemptTimeout = 10 * time.Second
)

// DefaultPolicy is three attempts with 1s then 2s waits.
var DefaultPolicy = retry.Policy{MaxAttempts: 3, BaseDelay: time.Second, Multiplier: 2}

// Credentials are HTTP basic auth credentials.
type Credentials struct {
	Username string
	Password string
}

// Request is one outbound POST.
type Request struct {
	URL       string
	Headers   map[string]string
	BasicAuth *Credentials
	Body      []byte
	Timeout   time.Duration
}

// Response is any HTTP reply, including 4xx/5xx.
type Response struct {
	StatusCode int
	Body       string
}

// Transport performs a single attempt. An error means no HTTP response was
// received (connection failure, timeout).
type Transport interface {
	Do(ctx context.Context, req Request) (Response, error)
}

// FiberTransport sends requests with the fasthttp backed Fiber client.
type FiberTransport struct{}

func (FiberTransport) Do(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	agent := fiber.Post(req.URL)
	for k, v := range req.Headers {
		agent.Set(k, v)
	}
	if req.BasicAuth != nil {
		agent.BasicAuth(req.BasicAuth.Username, req.BasicAuth.Password)
	}
	if req.Timeout > 0 {
		agent.Timeout(req.Timeout)
	}
	agent.Body(req.Body)

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return Response{}, errors.Join(errs...)
	}
	return Response{StatusCode: code, Body: string(body)}, nil
}

// Client delivers ticket payloads to the external ticket API.
type Client struct {
	transport Transport
	policy    retry.Policy
	sleep     retry.SleepFunc
	timeout   time.Duration
	logger    *zap.Logger
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

func WithTransport(t Transport) ClientOption {
	return func(c *Client) { c.transport = t }
}

func WithPolicy(p retry.Policy) ClientOption {
	return func(c *Client) { c.policy = p }
}

func WithSleep(sleep retry.SleepFunc) ClientOption {
	return func(c *Client) { c.sleep = sleep }
}

// NewClient builds a delivery client with the default retry policy.
func NewClient(logger *zap.Logger, opts ...ClientOption) *Client {
	c := &Client{
		transport: FiberTransport{},
		policy:    DefaultPolicy,
		sleep:     retry.Sleep,
		timeout:   DefaultAttemptTimeout,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Post sends payload as JSON. Only transport failures are retried; an HTTP
// response of any status is returned as data.
func (c *Client) Post(ctx context.Context, cfg APIConfig, payload any) (Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Response{}, fmt.Errorf("encode ticket payload: %w", err)
	}
	req := BuildRequest(cfg, body)
	req.Timeout = c.timeout

	resp, err := retry.Do(ctx, c.policy, c.sleep,
		func(attempt int, err error) {
			c.logger.Warn("API request attempt failed", zap.Int("attempt", attempt), zap.Error(err))
		},
		func(ctx context.Context, _ int) (Response, error) {
			return c.transport.Do(ctx, req)
		})
	if err != nil {
		attempts := c.policy.MaxAttempts
		var exhausted *retry.ExhaustedError
		if errors.As(err, &exhausted) {
			attempts = exhausted.Attempts
		}
		c.logger.Error("API request failed", zap.Int("attempts", attempts), zap.Error(err))
		return Response{}, apperrors.NewDeliveryFailure(attempts, err)
	}
	c.logger.Info("API call status", zap.Int("status_code", resp.StatusCode))
	return resp, nil
}

// BuildRequest applies the auth scheme of cfg to a JSON POST.
func BuildRequest(cfg APIConfig, body []byte) Request {
	req := Request{
		URL:     cfg.URL,
		Headers: map[string]string{fiber.HeaderContentType: fiber.MIMEApplicationJSON},
		Body:    body,
	}
	switch cfg.AuthType {
	case AuthBearer, AuthAPIKey:
		req.Headers[fiber.HeaderAuthorization] = "Bearer " + cfg.APIKey
	case AuthBasic:
		if cfg.Username != "" && cfg.Password != "" {
			req.BasicAuth = &Credentials{Username: cfg.Username, Password: cfg.Password}
		}
	}
	return req
}
