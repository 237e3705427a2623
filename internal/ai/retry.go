package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const maxAttempts = 3

// retryInterval is the first backoff delay between attempts.
var retryInterval = 2 * time.Second

// statusError is an API failure with an HTTP status.
type statusError struct {
	status  int
	message string
}

func (e *statusError) Error() string {
	if e.message == "" {
		return fmt.Sprintf("unexpected status code: %d", e.status)
	}
	return fmt.Sprintf("API error (status %d): %s", e.status, e.message)
}

// retryable reports whether a failed call is worth repeating: transport
// errors, rate limits and server errors are; client errors are not.
func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.status == 429 || se.status >= 500
	}
	return true
}

// withRetry runs call up to maxAttempts times with exponential backoff.
func withRetry(ctx context.Context, provider string, call func() (string, error)) (string, error) {
	var (
		text    string
		attempt int
	)
	op := func() error {
		attempt++
		var err error
		text, err = call()
		if err == nil {
			return nil
		}
		if ctx.Err() != nil || !retryable(err) {
			return backoff.Permanent(err)
		}
		slog.Warn("completion attempt failed", "provider", provider, "attempt", attempt, "error", err)
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = retryInterval
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 0

	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, maxAttempts-1), ctx)); err != nil {
		return "", err
	}
	return text, nil
}
