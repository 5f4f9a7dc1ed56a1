package analysis

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// Client generates one model completion for a batch prompt.
type Client interface {
	GenerateAnalysis(ctx context.Context, prompt string) (string, error)
}

// RateLimitError wraps a provider rate-limit rejection so the retry loop can
// tell throttling apart from hard failures.
type RateLimitError struct {
	Inner error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited by model provider: %v", e.Inner)
}

func (e *RateLimitError) Unwrap() error {
	return e.Inner
}

// IsRateLimit reports whether err is, or wraps, a rate-limit rejection.
func IsRateLimit(err error) bool {
	var rle *RateLimitError
	return errors.As(err, &rle)
}

// BatchFailedError is the terminal outcome of a batch whose retries were
// exhausted. Every post in the batch gets marked errored when this surfaces.
type BatchFailedError struct {
	Attempts int
	LastErr  error
}

func (e *BatchFailedError) Error() string {
	return fmt.Sprintf("batch failed after %d attempts: %v", e.Attempts, e.LastErr)
}

func (e *BatchFailedError) Unwrap() error {
	return e.LastErr
}
