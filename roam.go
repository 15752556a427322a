// Package roam is a client for the Roam chat API. It sends messages as a
// bot identity, lists the channels the bot can reach, and can wrap
// arbitrary operations so that their success or failure is reported to a
// channel.
package roam

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultBaseURL is the production Roam API endpoint.
	DefaultBaseURL = "https://api.ro.am/v1"

	// defaultTimeout is the HTTP client timeout.
	defaultTimeout = 30 * time.Second
)

// HTTPClient is the transport used for outbound requests.
// It exists so tests can substitute a mock for http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Sender holds the bot identity attached to every outbound message.
type Sender struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

// Client is a Roam API client bound to one bot identity.
//
// A Client is read-only after New returns and safe to share across
// sequential calls. It performs no locking of its own; callers sharing one
// Client across goroutines need external synchronization.
type Client struct {
	sender          Sender
	token           string
	baseURL         string
	headers         map[string]string
	defaultChannels []string
	httpClient      HTTPClient
	logger          *slog.Logger
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, e.g. for a staging deployment.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient substitutes the transport used for outbound requests.
func WithHTTPClient(hc HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHeaders merges extra headers on top of the defaults.
// An entry with the same key as a default header replaces it.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

// WithDefaultChannels sets channels included in every message the client
// sends. Call-site channels are merged with these, duplicates removed.
func WithDefaultChannels(channels ...string) Option {
	return func(c *Client) {
		c.defaultChannels = append([]string(nil), channels...)
	}
}

// New creates a Roam client for the given bot identity.
// token is the API key used for the Bearer Authorization header.
func New(botName, botID, imageURL, token string, opts ...Option) *Client {
	c := &Client{
		sender: Sender{
			ID:       botID,
			Name:     botName,
			ImageURL: imageURL,
		},
		token:   token,
		baseURL: DefaultBaseURL,
		headers: map[string]string{
			"Content-Type":  "application/json",
			"Accept":        "application/json",
			"Authorization": "Bearer " + token,
		},
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.logger = c.logger.With("component", "roam")
	return c
}

// DefaultChannels returns a copy of the channels configured at
// construction time, or nil if none were set.
func (c *Client) DefaultChannels() []string {
	if c.defaultChannels == nil {
		return nil
	}
	return append([]string(nil), c.defaultChannels...)
}

// newRequest builds a request with the configured headers and a fresh
// request ID.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("X-Request-Id", uuid.New().String())
	return req, nil
}

// do issues req and returns the response body after checking the HTTP
// status. Non-2xx statuses are reported as errors with a body excerpt.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

// postJSON encodes payload and POSTs it to path.
func (c *Client) postJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

// getJSON GETs path and returns the raw body.
func (c *Client) getJSON(ctx context.Context, path string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}
