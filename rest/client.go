package rest

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/zendra/zendra-go/logger"
)

const (
	// DefaultTimeout is the default per-attempt request timeout.
	DefaultTimeout = 30 * time.Second

	defaultUserAgent = "zendra-go"
)

// ErrMissingAPIKey is returned at construction time when no API key is
// configured. It never enters the retry loop.
var ErrMissingAPIKey = NewValidationError("API key is required", 0, nil)

// ErrMissingBaseURL is returned at construction time when no base URL is
// configured.
var ErrMissingBaseURL = NewValidationError("base URL is required", 0, nil)

// Client executes API requests with retries, backoff, and lifecycle hooks.
// It is safe for concurrent use; the only mutable state is the best-effort
// last rate limit and last request ID diagnostics.
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	retry      RetryConfig
	hooks      Hooks
	debug      bool
	userAgent  string
	httpClient *nethttp.Client
	limiter    *rate.Limiter
	log        logger.Logger

	mu            sync.Mutex
	lastRateLimit *RateLimitInfo
	lastRequestID string
}

// NewClient creates a client with default configuration.
func NewClient(baseURL, apiKey string, log logger.Logger) (*Client, error) {
	return NewBuilder(baseURL, apiKey, log).Build()
}

// Builder provides a fluent interface for configuring the client.
type Builder struct {
	baseURL   string
	apiKey    string
	timeout   time.Duration
	retry     RetryConfig
	hooks     Hooks
	debug     bool
	userAgent string
	transport nethttp.RoundTripper
	limiter   *rate.Limiter
	log       logger.Logger
}

// NewBuilder creates a client builder with default timeout and retry
// configuration.
func NewBuilder(baseURL, apiKey string, log logger.Logger) *Builder {
	return &Builder{
		baseURL:   baseURL,
		apiKey:    apiKey,
		timeout:   DefaultTimeout,
		retry:     DefaultRetryConfig(),
		userAgent: defaultUserAgent,
		log:       log,
	}
}

// WithTimeout sets the per-attempt request timeout.
func (b *Builder) WithTimeout(timeout time.Duration) *Builder {
	b.timeout = timeout
	return b
}

// WithRetryConfig replaces the retry configuration.
func (b *Builder) WithRetryConfig(cfg RetryConfig) *Builder {
	b.retry = cfg
	return b
}

// WithHooks installs the lifecycle hooks.
func (b *Builder) WithHooks(hooks Hooks) *Builder {
	b.hooks = hooks
	return b
}

// WithDebug enables debug-level request tracing.
func (b *Builder) WithDebug(debug bool) *Builder {
	b.debug = debug
	return b
}

// WithUserAgent overrides the User-Agent header.
func (b *Builder) WithUserAgent(ua string) *Builder {
	b.userAgent = ua
	return b
}

// WithTransport injects the HTTP transport, substitutable for testing.
func (b *Builder) WithTransport(rt nethttp.RoundTripper) *Builder {
	b.transport = rt
	return b
}

// WithRateLimit installs a client-side throttle: each attempt waits for a
// token at the given sustained rate and burst before going on the wire.
func (b *Builder) WithRateLimit(perSecond float64, burst int) *Builder {
	b.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	return b
}

// Build creates the client. Misconfiguration (missing API key or base URL)
// fails here, synchronously, never at request time.
func (b *Builder) Build() (*Client, error) {
	if b.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if b.baseURL == "" {
		return nil, ErrMissingBaseURL
	}
	log := b.log
	if log == nil {
		log = logger.NoOp()
	}
	timeout := b.timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:   b.baseURL,
		apiKey:    b.apiKey,
		timeout:   timeout,
		retry:     b.retry.normalize(),
		hooks:     b.hooks,
		debug:     b.debug,
		userAgent: b.userAgent,
		httpClient: &nethttp.Client{
			Transport: b.transport,
		},
		limiter: b.limiter,
		log:     log,
	}, nil
}

// Do executes one logical API request: it drives attempts through the
// retry policy until a terminal outcome, then either decodes the success
// body into out (when out is non-nil and the response carries JSON) or
// returns exactly one *Error. Hooks fire per attempt in the fixed order
// OnRequest, then OnResponse or OnError, then OnRetry when another attempt
// follows. A decode failure on a 2xx body is reported after OnResponse has
// already fired and does not pass through OnError; the attempt itself
// succeeded.
func (c *Client) Do(ctx context.Context, req *Request, out any) error {
	if req == nil {
		return NewValidationError("request cannot be nil", 0, nil)
	}
	if req.Path == "" {
		return NewValidationError("request path cannot be empty", 0, nil)
	}
	if req.Method == "" {
		return NewValidationError("request method cannot be empty", 0, nil)
	}

	var body []byte
	if req.Body != nil {
		var err error
		if body, err = json.Marshal(req.Body); err != nil {
			return NewValidationError("request body is not serializable: "+err.Error(), 0, nil)
		}
	}

	fullURL := c.buildURL(req)
	headers := c.buildHeaders(ctx, req)

	for attempt := 0; ; attempt++ {
		rctx := &RequestContext{
			Method:  req.Method,
			URL:     fullURL,
			Headers: headers,
			Body:    body,
			Attempt: attempt,
		}

		// An OnRequest failure aborts the call immediately and is returned
		// to the caller untouched.
		if c.hooks.OnRequest != nil {
			if err := c.hooks.OnRequest(ctx, rctx); err != nil {
				return err
			}
		}

		// A limiter failure still pairs the attempt's OnRequest with an
		// OnError before surfacing.
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				cerr := NewAbortedError(err)
				cerr.Message = "Request aborted awaiting rate limiter"
				if c.hooks.OnError != nil {
					c.hooks.OnError(ctx, cerr, rctx)
				}
				return cerr
			}
		}

		start := time.Now()
		resp, respBody, attemptErr := c.doAttempt(ctx, rctx)
		duration := time.Since(start)

		var cerr *Error
		if attemptErr != nil {
			cerr = attemptErr
		} else {
			requestID := resp.Header.Get(headerRequestID)
			rateLimit := parseRateLimit(resp.Header)
			c.recordSession(requestID, rateLimit)

			if isSuccessStatus(resp.StatusCode) {
				return c.finishSuccess(ctx, rctx, resp, respBody, out, requestID, rateLimit, duration)
			}
			cerr = classify(resp.StatusCode, resp.Header, respBody)
		}

		if c.hooks.OnError != nil {
			c.hooks.OnError(ctx, cerr, rctx)
		}

		if !ShouldRetry(cerr, attempt, c.retry) {
			c.log.Debug().
				Err(cerr).
				Str("method", rctx.Method).
				Str("url", rctx.URL).
				Int("attempt", attempt).
				Msg("api request failed")
			return cerr
		}

		delay := RetryDelay(cerr, attempt, c.retry)
		if c.hooks.OnRetry != nil {
			c.hooks.OnRetry(ctx, rctx, cerr, delay)
		}
		c.log.Debug().
			Err(cerr).
			Str("method", rctx.Method).
			Str("url", rctx.URL).
			Int("attempt", attempt).
			Dur("delay", delay).
			Msg("retrying api request")

		if err := sleep(ctx, delay); err != nil {
			return NewAbortedError(err)
		}
	}
}

// finishSuccess fires the OnResponse hook and decodes the body. A 204 or a
// non-JSON content type yields no value; out is left untouched.
func (c *Client) finishSuccess(ctx context.Context, rctx *RequestContext, resp *nethttp.Response, body []byte, out any, requestID string, rateLimit *RateLimitInfo, duration time.Duration) error {
	respCtx := &ResponseContext{
		Request:   rctx,
		Status:    resp.StatusCode,
		Headers:   resp.Header,
		RequestID: requestID,
		RateLimit: rateLimit,
		Duration:  duration,
	}
	if c.hooks.OnResponse != nil {
		c.hooks.OnResponse(ctx, respCtx)
	}
	c.log.Debug().
		Str("method", rctx.Method).
		Str("url", rctx.URL).
		Int("status", resp.StatusCode).
		Int("attempt", rctx.Attempt).
		Dur("duration", duration).
		Msg("api response")

	if resp.StatusCode == nethttp.StatusNoContent || !isJSONContent(resp.Header) || len(body) == 0 {
		return nil
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		apiErr := NewAPIError("failed to decode response body: "+err.Error(), resp.StatusCode, nil)
		apiErr.Code = "invalid_response_body"
		apiErr.RequestID = requestID
		return apiErr
	}
	return nil
}

// recordSession updates the best-effort diagnostics after a completed
// attempt. Last write wins.
func (c *Client) recordSession(requestID string, rateLimit *RateLimitInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if requestID != "" {
		c.lastRequestID = requestID
	}
	if rateLimit != nil {
		c.lastRateLimit = rateLimit
	}
}

// LastRateLimit returns the most recently observed rate-limit state, nil
// before any response carried the headers.
func (c *Client) LastRateLimit() *RateLimitInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastRateLimit == nil {
		return nil
	}
	info := *c.lastRateLimit
	return &info
}

// LastRequestID returns the most recently observed request ID, empty before
// any response carried one.
func (c *Client) LastRequestID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRequestID
}

// sleep waits for the retry delay, bailing out early when the context is
// cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
