package rest

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShouldRetryByKind(t *testing.T) {
	cfg := DefaultRetryConfig()

	tests := []struct {
		name string
		err  *Error
		want bool
	}{
		{"authentication never retries", NewAuthenticationError(""), false},
		{"validation never retries", NewValidationError("", 422, nil), false},
		{"not found never retries", NewNotFoundError(""), false},
		{"conflict never retries", NewConflictError(""), false},
		{"rate limit always retries", NewRateLimitError("", 0, nil), true},
		{"retryable server status", NewServerError("", 503), true},
		{"non-retryable server status", NewServerError("", 501), false},
		{"network error retries", NewNetworkError("", nil), true},
		{"timeout retries", NewTimeoutError(time.Second), true},
		{"generic api error never retries", NewAPIError("", 418, nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldRetry(tt.err, 0, cfg))
		})
	}
}

func TestShouldRetryAttemptBudget(t *testing.T) {
	cfg := DefaultRetryConfig()
	cfg.MaxRetries = 2

	err := NewServerError("", 500)
	assert.True(t, ShouldRetry(err, 0, cfg))
	assert.True(t, ShouldRetry(err, 1, cfg))
	assert.False(t, ShouldRetry(err, 2, cfg))
	assert.False(t, ShouldRetry(err, 3, cfg))
}

func TestShouldRetryFlags(t *testing.T) {
	cfg := DefaultRetryConfig()

	t.Run("network errors gated by flag", func(t *testing.T) {
		cfg.RetryOnNetworkError = false
		assert.False(t, ShouldRetry(NewNetworkError("", nil), 0, cfg))
		cfg.RetryOnNetworkError = true
		assert.True(t, ShouldRetry(NewNetworkError("", nil), 0, cfg))
	})

	t.Run("timeouts gated by flag", func(t *testing.T) {
		cfg.RetryOnTimeout = false
		assert.False(t, ShouldRetry(NewTimeoutError(time.Second), 0, cfg))
		cfg.RetryOnTimeout = true
		assert.True(t, ShouldRetry(NewTimeoutError(time.Second), 0, cfg))
	})

	t.Run("aborts gated by cancel flag", func(t *testing.T) {
		aborted := NewAbortedError(nil)
		cfg.RetryOnNetworkError = true
		cfg.RetryOnCancel = true
		assert.True(t, ShouldRetry(aborted, 0, cfg))
		cfg.RetryOnCancel = false
		assert.False(t, ShouldRetry(aborted, 0, cfg))
	})
}

func TestShouldRetryForeignError(t *testing.T) {
	assert.False(t, ShouldRetry(errors.New("not a client error"), 0, DefaultRetryConfig()))
}

func TestRetryDelayBackoff(t *testing.T) {
	cfg := DefaultRetryConfig()
	cfg.InitialDelay = 100 * time.Millisecond
	cfg.MaxDelay = 1 * time.Second
	cfg.BackoffMultiplier = 2
	cfg.Jitter = 0

	err := NewServerError("", 500)
	assert.Equal(t, 100*time.Millisecond, RetryDelay(err, 0, cfg))
	assert.Equal(t, 200*time.Millisecond, RetryDelay(err, 1, cfg))
	assert.Equal(t, 400*time.Millisecond, RetryDelay(err, 2, cfg))
	assert.Equal(t, 800*time.Millisecond, RetryDelay(err, 3, cfg))
	// Capped at MaxDelay from attempt 4 on.
	assert.Equal(t, 1*time.Second, RetryDelay(err, 4, cfg))
	assert.Equal(t, 1*time.Second, RetryDelay(err, 10, cfg))
}

func TestRetryDelayRetryAfterWinsVerbatim(t *testing.T) {
	cfg := DefaultRetryConfig()
	cfg.InitialDelay = 1 * time.Millisecond
	cfg.MaxDelay = 5 * time.Millisecond

	err := NewRateLimitError("", 60, nil)
	// Server-directed delay ignores the backoff parameters, including the
	// MaxDelay cap.
	assert.Equal(t, 60*time.Second, RetryDelay(err, 0, cfg))
	assert.Equal(t, 60*time.Second, RetryDelay(err, 3, cfg))
}

func TestRetryDelayRateLimitWithoutHeaderBacksOff(t *testing.T) {
	cfg := DefaultRetryConfig()
	cfg.InitialDelay = 100 * time.Millisecond
	cfg.Jitter = 0

	err := NewRateLimitError("", 0, nil)
	assert.Equal(t, 100*time.Millisecond, RetryDelay(err, 0, cfg))
}

func TestRetryDelayJitterIsAdditiveOnly(t *testing.T) {
	cfg := DefaultRetryConfig()
	cfg.InitialDelay = 100 * time.Millisecond
	cfg.Jitter = 0.25

	orig := jitterRand
	defer func() { jitterRand = orig }()

	err := NewServerError("", 500)

	jitterRand = func() float64 { return 0 }
	assert.Equal(t, 100*time.Millisecond, RetryDelay(err, 0, cfg))

	jitterRand = func() float64 { return 0.5 }
	assert.Equal(t, 112500*time.Microsecond, RetryDelay(err, 0, cfg))

	// Even the maximum draw never exceeds base*(1+jitter).
	jitterRand = func() float64 { return 0.999999 }
	d := RetryDelay(err, 0, cfg)
	assert.GreaterOrEqual(t, d, 100*time.Millisecond)
	assert.LessOrEqual(t, d, 125*time.Millisecond)
}

func TestRetryConfigNormalize(t *testing.T) {
	cfg := RetryConfig{
		MaxRetries:        -1,
		InitialDelay:      -time.Second,
		BackoffMultiplier: -3,
		Jitter:            2,
	}
	resolved := cfg.normalize()

	assert.Equal(t, 0, resolved.MaxRetries)
	assert.Equal(t, DefaultInitialDelay, resolved.InitialDelay)
	assert.Equal(t, DefaultMaxDelay, resolved.MaxDelay)
	assert.Equal(t, DefaultBackoffMultiplier, resolved.BackoffMultiplier)
	assert.Equal(t, 1.0, resolved.Jitter)
	assert.Equal(t, []int{429, 500, 502, 503, 504}, resolved.RetryableStatuses)
}
