// Package identity talks to the external identity provider. The
// handshake mechanics are the provider's business; this client only
// asks three questions: is there a session, who is it, and start a
// login. Login is asynchronous and reports completion through a
// callback, never by mutating shared state itself.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/vietddude/boxoffice/internal/core/domain"
)

// Config holds identity provider settings.
type Config struct {
	// Endpoint is the session endpoint queried for the current state.
	Endpoint string `yaml:"endpoint"`
	// Provider is the authorization endpoint used to start a login.
	Provider string        `yaml:"provider"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Client queries the identity provider over HTTP.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates an identity provider client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		log:        slog.Default(),
	}
}

type sessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	Principal     string `json:"principal"`
}

// IsAuthenticated reports whether the provider already holds a session.
func (c *Client) IsAuthenticated(ctx context.Context) (bool, error) {
	resp, err := c.getSession(ctx)
	if err != nil {
		return false, err
	}
	return resp.Authenticated, nil
}

// Identity returns the principal of the current session.
func (c *Client) Identity(ctx context.Context) (domain.Principal, error) {
	resp, err := c.getSession(ctx)
	if err != nil {
		return "", err
	}
	if !resp.Authenticated {
		return "", domain.ErrNotAuthenticated
	}
	return domain.ParsePrincipal(resp.Principal)
}

// Login starts an asynchronous login against the given provider
// endpoint. On success the callback receives the authenticated
// principal; failures are logged and the session stays unauthenticated.
func (c *Client) Login(ctx context.Context, providerEndpoint string, onSuccess func(domain.Principal)) {
	if providerEndpoint == "" {
		providerEndpoint = c.cfg.Provider
	}
	go func() {
		principal, err := c.authorize(ctx, providerEndpoint)
		if err != nil {
			c.log.Error("Login failed", "provider", providerEndpoint, "error", err)
			return
		}
		onSuccess(principal)
	}()
}

func (c *Client) authorize(ctx context.Context, endpoint string) (domain.Principal, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("authorize: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("authorize: http %d", resp.StatusCode)
	}

	var body sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode authorize response: %w", err)
	}
	if !body.Authenticated {
		return "", domain.ErrNotAuthenticated
	}
	return domain.ParsePrincipal(body.Principal)
}

func (c *Client) getSession(ctx context.Context) (*sessionResponse, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.cfg.Endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("session query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("session query: http %d", resp.StatusCode)
	}

	var body sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode session response: %w", err)
	}
	return &body, nil
}
