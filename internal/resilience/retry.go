// Package resilience provides bounded retry with backoff.
package resilience

import (
	"context"
	"math/rand"
	"time"
)

// RetryEvent describes a scheduled retry for observability hooks.
type RetryEvent struct {
	Attempt int
	Wait    time.Duration
	Err     error
}

// RetryPolicy configures the retry executor for a single call.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
	OnRetry   func(RetryEvent)

	// Jitter overrides the fraction of randomization applied to each
	// wait. Zero means the default of 0.2.
	Jitter float64
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.Attempts < 1 {
		p.Attempts = 1
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = 100 * time.Millisecond
	}
	if p.Jitter <= 0 || p.Jitter >= 1 {
		p.Jitter = 0.2
	}
	return p
}

// Delay returns the backoff for the given 1-based attempt, jittered.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	p = p.normalized()
	wait := p.BaseDelay
	for i := 1; i < attempt; i++ {
		wait *= 2
	}
	// Spread concurrent retries so they do not land in lockstep.
	spread := 1 + p.Jitter*(2*rand.Float64()-1)
	return time.Duration(float64(wait) * spread)
}

// Retry runs op up to policy.Attempts times. A non-retryable error, or
// the final attempt's error, propagates unchanged. The sleep between
// attempts honors context cancellation.
func Retry[T any](ctx context.Context, policy RetryPolicy, op func(ctx context.Context, attempt int) (T, error)) (T, error) {
	var zero T
	if ctx == nil {
		ctx = context.Background()
	}
	policy = policy.normalized()

	var lastErr error
	for attempt := 1; attempt <= policy.Attempts; attempt++ {
		value, err := op(ctx, attempt)
		if err == nil {
			return value, nil
		}
		lastErr = err
		if attempt == policy.Attempts || !Retryable(err) {
			break
		}
		wait := policy.Delay(attempt)
		if policy.OnRetry != nil {
			policy.OnRetry(RetryEvent{Attempt: attempt, Wait: wait, Err: err})
		}
		if err := sleep(ctx, wait); err != nil {
			return zero, Wrap(CodeSupplierTimeout, "retry interrupted", err)
		}
	}
	return zero, lastErr
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
