// Package retry implements the backoff-and-retry coordinator shared by
// the tool dispatcher (step attempt/fallback retries) and the state store
// (atomic write retry).
package retry

import (
	"context"
	"math/rand"
	"time"
)

// BackoffStrategy selects how Delay grows between attempts.
type BackoffStrategy string

const (
	FixedBackoff       BackoffStrategy = "fixed"
	ExponentialBackoff BackoffStrategy = "exponential"
)

// Policy configures a Coordinator's retry behaviour.
type Policy struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	BackoffStrategy BackoffStrategy
	Multiplier      float64
	Jitter          bool
}

// DefaultPolicy matches the spec's "apply an inter-attempt back-off of
// 500ms" default for step retries.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:     3,
		InitialDelay:    500 * time.Millisecond,
		MaxDelay:        5 * time.Second,
		BackoffStrategy: FixedBackoff,
		Multiplier:      2,
	}
}

// Coordinator executes a function under a Policy, retrying on error until
// attempts are exhausted, the context is cancelled, or shouldRetry (if
// provided to ExecuteIf) declines a further attempt.
type Coordinator struct {
	policy Policy
}

// New constructs a Coordinator with the given policy.
func New(policy Policy) *Coordinator {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 1
	}
	return &Coordinator{policy: policy}
}

// Execute runs fn, retrying according to policy on any non-nil error.
func (c *Coordinator) Execute(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	return c.ExecuteIf(ctx, op, fn, func(error) bool { return true })
}

// ExecuteIf runs fn, retrying while shouldRetry(err) is true and attempts
// remain. It returns the last error once attempts are exhausted or the
// context is cancelled.
func (c *Coordinator) ExecuteIf(ctx context.Context, op string, fn func(ctx context.Context) error, shouldRetry func(error) bool) error {
	var lastErr error
	delay := c.policy.InitialDelay
	for attempt := 1; attempt <= c.policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !shouldRetry(lastErr) || attempt == c.policy.MaxAttempts {
			break
		}
		wait := delay
		if c.policy.Jitter {
			wait += time.Duration(rand.Int63n(int64(delay) / 2))
		}
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
		if c.policy.BackoffStrategy == ExponentialBackoff {
			delay = time.Duration(float64(delay) * c.policy.Multiplier)
			if c.policy.MaxDelay > 0 && delay > c.policy.MaxDelay {
				delay = c.policy.MaxDelay
			}
		}
	}
	return lastErr
}
