package rest

import (
	"context"
	nethttp "net/http"
	"time"
)

// Request describes one logical API call. It is immutable per call;
// resource services construct a fresh value for every invocation.
type Request struct {
	// Method is the HTTP method (GET, POST, PATCH, PUT, DELETE).
	Method string
	// Path is the URL path relative to the client base URL, e.g. "/tickets/123".
	Path string
	// Query holds query parameters. Nil values (including typed nil
	// pointers) are omitted entirely rather than sent as empty strings.
	Query map[string]any
	// Body is serialized to JSON when non-nil.
	Body any
	// Headers are additional request headers; they override the client
	// defaults on key collision.
	Headers map[string]string
	// IdempotencyKey, when set, is sent as X-Idempotency-Key with the same
	// value on every retried attempt so the server can deduplicate writes.
	IdempotencyKey string
}

// RequestContext captures one attempt of a request as it went on the wire.
// It is created fresh per attempt, passed to hooks, and never mutated after
// construction.
type RequestContext struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
	// Attempt is the zero-based attempt index.
	Attempt int
}

// ResponseContext describes a successful (2xx) response. It is created once
// per response and handed to the OnResponse hook.
type ResponseContext struct {
	Request   *RequestContext
	Status    int
	Headers   nethttp.Header
	RequestID string
	RateLimit *RateLimitInfo
	Duration  time.Duration
}

// RateLimitInfo is the server-reported quota state for the current window,
// derived from the x-ratelimit-limit/-remaining/-reset response headers.
// It is only present when all three headers exist and parse as integers.
type RateLimitInfo struct {
	// Limit is the request ceiling for the window.
	Limit int
	// Remaining is the number of requests left in the window.
	Remaining int
	// Reset is the unix timestamp (seconds) at which the window resets.
	Reset int64
}

// ResetTime returns the window reset moment as a time.Time.
func (r *RateLimitInfo) ResetTime() time.Time {
	return time.Unix(r.Reset, 0)
}

// Hooks are optional lifecycle callbacks invoked by the client around each
// attempt. For a single attempt the order is fixed: OnRequest, then either
// OnResponse (success) or OnError (failure), then OnRetry if the failure
// will be retried. An error returned by OnRequest aborts the call
// immediately and is returned to the caller as-is.
type Hooks struct {
	OnRequest  func(ctx context.Context, req *RequestContext) error
	OnResponse func(ctx context.Context, resp *ResponseContext)
	OnError    func(ctx context.Context, err error, req *RequestContext)
	OnRetry    func(ctx context.Context, req *RequestContext, err error, delay time.Duration)
}
