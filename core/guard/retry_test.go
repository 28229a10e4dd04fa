package guard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0
	out, err := Retry(context.Background(), 3, time.Millisecond, "op",
		func(ctx context.Context) (string, error) {
			calls++
			if calls < 3 {
				return "", errors.New("boom")
			}
			return "ok", nil
		})

	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 3, calls)
}

func TestRetryExhaustionReturnsLastError(t *testing.T) {
	calls := 0
	last := errors.New("third failure")
	_, err := Retry(context.Background(), 3, time.Millisecond, "op",
		func(ctx context.Context) (int, error) {
			calls++
			if calls == 3 {
				return 0, last
			}
			return 0, errors.New("earlier failure")
		})

	require.ErrorIs(t, err, last)
	assert.Equal(t, 3, calls)
}

func TestRetryStopsOnNonRetryable(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), 3, time.Millisecond, "op",
		func(ctx context.Context) (int, error) {
			calls++
			return 0, NonRetryable(errors.New("bad input"))
		})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryStopsOnLimitError(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), 3, time.Millisecond, "op",
		func(ctx context.Context) (int, error) {
			calls++
			return 0, &LimitError{Max: 5, Window: time.Minute}
		})

	var limitErr *LimitError
	require.True(t, errors.As(err, &limitErr))
	assert.Equal(t, 1, calls)
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := Retry(ctx, 3, time.Hour, "op",
		func(ctx context.Context) (int, error) {
			calls++
			return 0, errors.New("boom")
		})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestIsNonRetryable(t *testing.T) {
	assert.False(t, IsNonRetryable(errors.New("plain")))
	assert.True(t, IsNonRetryable(NonRetryable(errors.New("marked"))))
	assert.True(t, IsNonRetryable(&LimitError{}))
	assert.NoError(t, NonRetryable(nil))

	// The mark survives wrapping.
	wrapped := errors.Join(errors.New("outer"), NonRetryable(errors.New("inner")))
	assert.True(t, IsNonRetryable(wrapped))
}
