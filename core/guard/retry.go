// Package guard wraps outbound capability calls with bounded retries and a
// per-user sliding-window request cap.
package guard

import (
	"context"
	"errors"
	"time"

	"github.com/kovalevdev/chatmate/core/logger"
	"log/slog"
)

type nonRetryableError struct{ err error }

func (e *nonRetryableError) Error() string { return e.err.Error() }
func (e *nonRetryableError) Unwrap() error { return e.err }

// NonRetryable marks err so Retry gives up on it immediately. Use it for
// invalid-input failures where repeating the call cannot help.
func NonRetryable(err error) error {
	if err == nil {
		return nil
	}
	return &nonRetryableError{err: err}
}

// IsNonRetryable reports whether err was marked non-retryable or is a rate
// limit rejection.
func IsNonRetryable(err error) bool {
	var nr *nonRetryableError
	if errors.As(err, &nr) {
		return true
	}
	var le *LimitError
	return errors.As(err, &le)
}

// Retry runs fn up to attempts times with a fixed delay between tries. Any
// error is retried unless it is marked non-retryable; after the last attempt
// the final error is returned as-is.
func Retry[T any](ctx context.Context, attempts int, delay time.Duration, op string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		out, err := fn(ctx)
		if err == nil {
			if attempt > 1 {
				logger.Info(ctx, "guard", "retry.recovered",
					slog.String("op", op),
					slog.Int("attempt", attempt),
				)
			}
			return out, nil
		}

		lastErr = err
		logger.Warn(ctx, "guard", "retry.attempt",
			slog.String("op", op),
			slog.Int("attempt", attempt),
			slog.Int("attempts", attempts),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		if IsNonRetryable(err) || attempt == attempts {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
	return zero, lastErr
}
