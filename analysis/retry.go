package analysis

import (
	"context"
	"fmt"
	"time"
)

const (
	DefaultMaxAttempts    = 5
	DefaultInitialBackoff = 2 * time.Second
	DefaultMaxBackoff     = 16 * time.Second
)

// RetryPolicy retries rate-limited calls with doubling backoff. Non-rate-limit
// errors fail immediately, exhausting all attempts on rate limits yields a
// BatchFailedError.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// sleep is swappable in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts:    DefaultMaxAttempts,
		InitialBackoff: DefaultInitialBackoff,
		MaxBackoff:     DefaultMaxBackoff,
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Do runs call until it succeeds, fails hard, or runs out of attempts.
// onStatus, when non-nil, receives human-readable progress lines.
func (p *RetryPolicy) Do(ctx context.Context, call func(ctx context.Context) (string, error), onStatus func(status string)) (string, error) {
	report := func(status string) {
		if onStatus != nil {
			onStatus(status)
		}
	}
	sleep := p.sleep
	if sleep == nil {
		sleep = sleepWithContext
	}

	backoff := p.InitialBackoff
	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		report(fmt.Sprintf("calling model, attempt %d/%d", attempt, p.MaxAttempts))
		response, err := call(ctx)
		if err == nil {
			return response, nil
		}
		if !IsRateLimit(err) {
			return "", err
		}
		lastErr = err

		if attempt == p.MaxAttempts {
			break
		}
		report(fmt.Sprintf("rate limited, waiting %s before attempt %d/%d", backoff, attempt+1, p.MaxAttempts))
		if err := sleep(ctx, backoff); err != nil {
			return "", err
		}
		backoff *= 2
		if backoff > p.MaxBackoff {
			backoff = p.MaxBackoff
		}
	}
	return "", &BatchFailedError{Attempts: p.MaxAttempts, LastErr: lastErr}
}
