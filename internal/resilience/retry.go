// Package resilience provides the retry and circuit breaker primitives used
// by the API client. Which failures are worth retrying is decided by the
// caller; this package only computes delays and suspends between attempts.
package resilience

import (
	"context"
	"math/rand"
	"time"
)

// RetryConfig bounds the retry behavior of one logical API call.
type RetryConfig struct {
	// MaxRetries is the number of retries after the initial attempt.
	// Zero disables retries entirely.
	MaxRetries int

	// BaseDelay is the delay before the first retry. Each subsequent
	// retry doubles it.
	BaseDelay time.Duration

	// MaxDelay caps the computed delay, jitter included.
	MaxDelay time.Duration

	// JitterDelay is the upper bound of the random additive jitter.
	// Zero disables jitter.
	JitterDelay time.Duration
}

// DefaultRetryConfig returns the retry settings used when the client is not
// configured otherwise.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:  2,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    30 * time.Second,
		JitterDelay: 250 * time.Millisecond,
	}
}

// Backoff computes the delay before retry number attempt (starting at 0):
// BaseDelay doubled per attempt, plus random jitter, capped at MaxDelay.
func Backoff(attempt int, cfg RetryConfig) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	// Cap the shift so pathological attempt counts cannot overflow.
	if attempt > 32 {
		attempt = 32
	}
	delay := cfg.BaseDelay * time.Duration(1<<uint(attempt))
	if delay > cfg.MaxDelay || delay <= 0 {
		delay = cfg.MaxDelay
	}
	if cfg.JitterDelay > 0 {
		delay += time.Duration(rand.Int63n(int64(cfg.JitterDelay)))
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}
	return delay
}

// Wait suspends for delay or until ctx is done, whichever comes first.
// It returns the context error on cancellation so callers can stop retrying.
func Wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
