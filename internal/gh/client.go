// Package gh provides a GraphQL client for the GitHub Projects v2 API.
// It implements a deep module interface - simple methods hiding complex GraphQL queries.
package gh

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/machinebox/graphql"
)

// DefaultEndpoint is the GitHub GraphQL API endpoint.
const DefaultEndpoint = "https://api.github.com/graphql"

// DefaultUserAgent is sent with every request unless overridden.
const DefaultUserAgent = "ghboards"

// Client is a GitHub GraphQL API client for Projects v2.
// A Client is bound to one access token; create one per token.
type Client struct {
	gql    *graphql.Client
	logger *log.Logger
}

type options struct {
	endpoint  string
	userAgent string
	transport http.RoundTripper
	logger    *log.Logger
	verbose   bool
}

// Option configures a Client.
type Option func(*options)

// WithEndpoint overrides the GraphQL endpoint (useful for testing).
func WithEndpoint(endpoint string) Option {
	return func(o *options) {
		o.endpoint = endpoint
	}
}

// WithUserAgent sets the User-Agent header sent to GitHub.
func WithUserAgent(userAgent string) Option {
	return func(o *options) {
		if userAgent != "" {
			o.userAgent = userAgent
		}
	}
}

// WithTransport sets the underlying HTTP transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) {
		o.transport = rt
	}
}

// WithLogger sets the logger. When verbose is true, request and response
// bodies are traced through it.
func WithLogger(logger *log.Logger, verbose bool) Option {
	return func(o *options) {
		o.logger = logger
		o.verbose = verbose
	}
}

// New creates a new GitHub GraphQL client authenticated with token.
func New(token string, opts ...Option) *Client {
	o := options{
		endpoint:  DefaultEndpoint,
		userAgent: DefaultUserAgent,
		transport: http.DefaultTransport,
		logger:    log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := &http.Client{
		Transport: &envelopeTransport{
			token:     token,
			userAgent: o.userAgent,
			wrapped:   o.transport,
		},
	}

	gql := graphql.NewClient(o.endpoint, graphql.WithHTTPClient(httpClient))
	if o.verbose {
		gql.Log = func(s string) {
			o.logger.Println(s)
		}
	}

	return &Client{
		gql:    gql,
		logger: o.logger,
	}
}

// Factory builds clients for per-request tokens.
type Factory struct {
	opts []Option
}

// NewFactory returns a Factory applying opts to every client it builds.
func NewFactory(opts ...Option) *Factory {
	return &Factory{opts: opts}
}

// Client returns a client authenticated with token.
func (f *Factory) Client(token string) *Client {
	return New(token, f.opts...)
}

// makeRequest executes a GraphQL request. Envelope failures (non-2xx status,
// an errors array, missing data) come back as *RemoteAPIError.
func (c *Client) makeRequest(ctx context.Context, req *graphql.Request, resp interface{}) error {
	err := c.gql.Run(ctx, req, resp)
	if err == nil {
		return nil
	}

	var apiErr *RemoteAPIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	return fmt.Errorf("GitHub GraphQL request failed: %w", err)
}
