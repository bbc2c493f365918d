// Package zendra is the public client for the Zendra ticketing platform
// API. It wires typed resource services over the resilient HTTP core in
// package rest; all requests are retried, classified, and observable per
// the core's contract.
package zendra

import (
	"github.com/zendra/zendra-go/config"
	"github.com/zendra/zendra-go/logger"
	"github.com/zendra/zendra-go/rest"
)

// Client is the Zendra API client. Construct it with New or NewFromConfig;
// the zero value is not usable.
type Client struct {
	rest *rest.Client

	Tickets  *TicketService
	Comments *CommentService
	Brands   *BrandService
	Users    *UserService
	Search   *SearchService
}

// New creates a client with default timeout and retry configuration.
func New(baseURL, apiKey string, log logger.Logger) (*Client, error) {
	rc, err := rest.NewClient(baseURL, apiKey, log)
	if err != nil {
		return nil, err
	}
	return NewWithCore(rc), nil
}

// NewFromConfig creates a fully configured client from a loaded
// configuration, including its own logger.
func NewFromConfig(cfg *config.Config) (*Client, error) {
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	builder := rest.NewBuilder(cfg.API.URL, cfg.API.Key, log).
		WithTimeout(cfg.Timeout).
		WithDebug(cfg.Debug).
		WithRetryConfig(rest.RetryConfig{
			MaxRetries:          cfg.Retry.MaxRetries,
			RetryableStatuses:   cfg.Retry.Statuses,
			RetryOnNetworkError: cfg.Retry.OnNetworkError,
			RetryOnTimeout:      cfg.Retry.OnTimeout,
			RetryOnCancel:       cfg.Retry.OnCancel,
			InitialDelay:        cfg.Retry.InitialDelay,
			MaxDelay:            cfg.Retry.MaxDelay,
			BackoffMultiplier:   cfg.Retry.Multiplier,
			Jitter:              cfg.Retry.Jitter,
		})
	if cfg.Rate.RequestsPerSecond > 0 {
		burst := cfg.Rate.Burst
		if burst <= 0 {
			burst = 1
		}
		builder = builder.WithRateLimit(cfg.Rate.RequestsPerSecond, burst)
	}

	rc, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return NewWithCore(rc), nil
}

// NewWithCore wraps an already configured core client. Useful when the host
// wants full control over hooks, transport, or retry behavior.
func NewWithCore(rc *rest.Client) *Client {
	c := &Client{rest: rc}
	c.Tickets = &TicketService{client: rc}
	c.Comments = &CommentService{client: rc}
	c.Brands = &BrandService{client: rc}
	c.Users = &UserService{client: rc}
	c.Search = &SearchService{client: rc}
	return c
}

// Core exposes the underlying HTTP core for custom calls.
func (c *Client) Core() *rest.Client {
	return c.rest
}

// LastRateLimit returns the most recently observed rate-limit state.
func (c *Client) LastRateLimit() *rest.RateLimitInfo {
	return c.rest.LastRateLimit()
}

// LastRequestID returns the most recently observed request ID.
func (c *Client) LastRequestID() string {
	return c.rest.LastRequestID()
}

// annotateNotFound attaches the resource identity to a not-found error so
// callers can branch without parsing messages.
func annotateNotFound(err error, resourceType, resourceID string) error {
	if e, ok := rest.AsError(err); ok && e.Kind == rest.KindNotFound {
		e.ResourceType = resourceType
		e.ResourceID = resourceID
	}
	return err
}
