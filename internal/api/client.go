// Package api provides the LangGraph runs stream client implementation.
package api

import (
	"context"
	"fmt"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"go.uber.org/zap"

	"github.com/diogo/lgclient/internal/models"
)

// DefaultTimeout is the transport timeout of the default HTTP client
const DefaultTimeout = 300 * time.Second

// HTTPDoer is the subset of tls_client.HttpClient used by Client
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Requester performs one runs request and reports the outcome as a Result.
// Implementations never return errors or panic past this boundary.
type Requester interface {
	MakeRequest(ctx context.Context, assistantID string, messages []models.Message) models.Result
}

// Client is the client for the LangGraph runs stream endpoint
type Client struct {
	httpClient     HTTPDoer
	apiKey         string
	endpoint       string
	timeout         time.Duration
	strictDecoding  bool
	followRedirects bool
	logger          *zap.Logger
}

// Ensure Client implements Requester
var _ Requester = (*Client)(nil)

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithEndpoint overrides the runs stream endpoint URL
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithHTTPClient sets the HTTP transport. When unset, NewClient builds a
// tls-client with a Chrome profile.
func WithHTTPClient(doer HTTPDoer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithTimeout sets the timeout of the default transport
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithStrictDecoding makes malformed UTF-8 in the response stream a decode
// error instead of replacing it with U+FFFD
func WithStrictDecoding(strict bool) ClientOption {
	return func(c *Client) {
		c.strictDecoding = strict
	}
}

// WithFollowRedirects controls whether the default transport follows
// redirects. It is on by default and the final response decides the outcome.
func WithFollowRedirects(follow bool) ClientOption {
	return func(c *Client) {
		c.followRedirects = follow
	}
}

// WithLogger sets the logger used for request lifecycle events
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a new Client that authenticates with apiKey
func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	client := &Client{
		apiKey:          apiKey,
		endpoint:        models.EndpointRunsStream,
		timeout:         DefaultTimeout,
		followRedirects: true,
		logger:          zap.NewNop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(int(client.timeout / time.Second)),
			tls_client.WithClientProfile(profiles.Chrome_120),
		}
		if !client.followRedirects {
			options = append(options, tls_client.WithNotFollowRedirects())
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// Endpoint returns the URL requests are sent to
func (c *Client) Endpoint() string {
	return c.endpoint
}

// StrictDecoding reports whether malformed UTF-8 fails the request
func (c *Client) StrictDecoding() bool {
	return c.strictDecoding
}
