package rest

import (
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// Default retry parameters, applied by DefaultRetryConfig and by normalize
// for unset numeric fields.
const (
	DefaultMaxRetries        = 3
	DefaultInitialDelay      = 1 * time.Second
	DefaultMaxDelay          = 30 * time.Second
	DefaultBackoffMultiplier = 2.0
	DefaultJitter            = 0.25
)

// RetryConfig controls the retry behavior of the client. Construct it with
// DefaultRetryConfig and adjust fields; the zero value disables all
// retrying of network errors and timeouts.
type RetryConfig struct {
	// MaxRetries is the number of additional attempts after the first.
	MaxRetries int
	// RetryableStatuses is the set of 5xx status codes eligible for retry.
	RetryableStatuses []int
	// RetryOnNetworkError enables retrying transport failures.
	RetryOnNetworkError bool
	// RetryOnTimeout enables retrying client-side timeouts.
	RetryOnTimeout bool
	// RetryOnCancel keeps caller-cancelled attempts eligible under
	// RetryOnNetworkError. Disable it to make cancellation terminal.
	RetryOnCancel bool
	// InitialDelay is the backoff base for the first retry.
	InitialDelay time.Duration
	// MaxDelay caps the computed backoff delay. A server-directed
	// Retry-After is used verbatim and is not capped by this value; bound
	// the wall clock with a context deadline if the server is not trusted.
	MaxDelay time.Duration
	// BackoffMultiplier is the exponential growth factor per attempt.
	BackoffMultiplier float64
	// Jitter is the additive jitter fraction in [0,1]. The drawn jitter
	// only ever extends the base delay, so concurrent retries desynchronize
	// without ever retrying faster than the base backoff.
	Jitter float64
}

// DefaultRetryConfig returns the retry configuration used when none is
// supplied: 3 retries on {429,500,502,503,504}, network errors and
// timeouts, exponential backoff 1s..30s with multiplier 2 and 25% jitter.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:          DefaultMaxRetries,
		RetryableStatuses:   []int{429, 500, 502, 503, 504},
		RetryOnNetworkError: true,
		RetryOnTimeout:      true,
		RetryOnCancel:       true,
		InitialDelay:        DefaultInitialDelay,
		MaxDelay:            DefaultMaxDelay,
		BackoffMultiplier:   DefaultBackoffMultiplier,
		Jitter:              DefaultJitter,
	}
}

// normalize resolves unset or invalid numeric fields to their defaults so
// every value is concrete before use. Boolean fields are taken as-is.
func (c RetryConfig) normalize() RetryConfig {
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.RetryableStatuses == nil {
		c.RetryableStatuses = []int{429, 500, 502, 503, 504}
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = DefaultInitialDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = DefaultMaxDelay
	}
	if c.BackoffMultiplier <= 0 {
		c.BackoffMultiplier = DefaultBackoffMultiplier
	}
	if c.Jitter < 0 {
		c.Jitter = 0
	}
	if c.Jitter > 1 {
		c.Jitter = 1
	}
	return c
}

// jitterRand draws the uniform jitter fraction; swapped out in tests.
var jitterRand = rand.Float64

// ShouldRetry is the pure retry decision: it reports whether err, observed
// on the given zero-based attempt, is eligible for another attempt under
// cfg. Client-caused errors (authentication, validation, not-found,
// conflict) are never retried; rate limits always are; server errors only
// when their status is in cfg.RetryableStatuses; network errors and
// timeouts per their flags. Eligibility is always gated by the attempt
// budget.
func ShouldRetry(err error, attempt int, cfg RetryConfig) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	if attempt >= cfg.MaxRetries {
		return false
	}

	switch e.Kind {
	case KindAuthentication, KindValidation, KindNotFound, KindConflict:
		return false
	case KindRateLimit:
		return true
	case KindServer:
		for _, s := range cfg.RetryableStatuses {
			if s == e.StatusCode {
				return true
			}
		}
		return false
	case KindNetwork:
		if e.Aborted {
			return cfg.RetryOnNetworkError && cfg.RetryOnCancel
		}
		return cfg.RetryOnNetworkError
	case KindTimeout:
		return cfg.RetryOnTimeout
	default:
		return false
	}
}

// RetryDelay computes the delay before the retry that follows the given
// zero-based attempt. A rate-limit error with a server-directed Retry-After
// wins verbatim; otherwise exponential backoff
// min(InitialDelay*Multiplier^attempt, MaxDelay) plus an additive jitter
// draw of up to Jitter times the base delay.
func RetryDelay(err error, attempt int, cfg RetryConfig) time.Duration {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindRateLimit && e.RetryAfter > 0 {
		return time.Duration(e.RetryAfter) * time.Second
	}

	d := float64(cfg.InitialDelay) * math.Pow(cfg.BackoffMultiplier, float64(attempt))
	if max := float64(cfg.MaxDelay); d > max {
		d = max
	}
	d += d * cfg.Jitter * jitterRand()
	return time.Duration(d)
}
