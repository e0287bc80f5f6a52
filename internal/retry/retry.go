// Package retry implements the shared retry policy for provider calls.
//
// The policy is an explicit value: attempt limit, exponential backoff and a
// retryable-error predicate. Both the generation and evaluation stages apply
// the same policy, so failure handling behaves identically everywhere.
package retry

import (
	"context"
	"fmt"
	"time"
)

const defaultMaxDelay = 30 * time.Second

// Policy describes how an operation is retried. The zero value retries
// nothing; use sensible MaxAttempts/BaseDelay from configuration.
type Policy struct {
	// MaxAttempts is the total number of attempts including the first.
	MaxAttempts int

	// BaseDelay is the delay before the second attempt; it doubles each
	// further attempt.
	BaseDelay time.Duration

	// MaxDelay caps the backoff. Zero means 30s.
	MaxDelay time.Duration

	// Retryable decides whether an error is worth another attempt.
	// Nil means every error is retryable.
	Retryable func(error) bool
}

// Do runs op until it succeeds, fails permanently, exhausts MaxAttempts or
// the context is cancelled. It returns the number of attempts made and the
// last error.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) (int, error) {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempt - 1, err
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return attempt, nil
		}
		if p.Retryable != nil && !p.Retryable(lastErr) {
			return attempt, lastErr
		}
		if attempt == maxAttempts {
			break
		}

		select {
		case <-time.After(p.delay(attempt)):
		case <-ctx.Done():
			return attempt, ctx.Err()
		}
	}

	return maxAttempts, fmt.Errorf("after %d attempts: %w", maxAttempts, lastErr)
}

// delay returns the backoff before the attempt following attempt n:
// BaseDelay doubled n-1 times, capped at MaxDelay.
func (p Policy) delay(attempt int) time.Duration {
	d := p.BaseDelay
	if d <= 0 {
		d = 100 * time.Millisecond
	}
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= p.maxDelay() {
			return p.maxDelay()
		}
	}
	if d > p.maxDelay() {
		return p.maxDelay()
	}
	return d
}

func (p Policy) maxDelay() time.Duration {
	if p.MaxDelay > 0 {
		return p.MaxDelay
	}
	return defaultMaxDelay
}
