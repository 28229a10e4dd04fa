package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kovalevdev/chatmate/core/guard"
)

func capabilityKind(t *testing.T, err error) Kind {
	t.Helper()
	var cerr *CapabilityError
	require.True(t, errors.As(err, &cerr))
	return cerr.Kind
}

func TestWrapErrClassification(t *testing.T) {
	assert.NoError(t, wrapErr("op", nil))

	err := wrapErr("op", &openai.Error{StatusCode: 401})
	assert.Equal(t, KindAuth, capabilityKind(t, err))
	assert.True(t, guard.IsNonRetryable(err))

	err = wrapErr("op", &openai.Error{StatusCode: 429})
	assert.Equal(t, KindRateLimited, capabilityKind(t, err))
	assert.False(t, guard.IsNonRetryable(err))

	err = wrapErr("op", &openai.Error{StatusCode: 400})
	assert.Equal(t, KindInvalidInput, capabilityKind(t, err))
	assert.True(t, guard.IsNonRetryable(err))

	err = wrapErr("op", &openai.Error{StatusCode: 500})
	assert.Equal(t, KindProvider, capabilityKind(t, err))
	assert.False(t, guard.IsNonRetryable(err))

	err = wrapErr("op", context.DeadlineExceeded)
	assert.Equal(t, KindTimeout, capabilityKind(t, err))

	err = wrapErr("op", errors.New("connection refused"))
	assert.Equal(t, KindProvider, capabilityKind(t, err))
}

func TestCapabilityErrorMessage(t *testing.T) {
	err := &CapabilityError{Op: "complete", Kind: KindTimeout, Err: context.DeadlineExceeded}
	assert.Contains(t, err.Error(), "complete")
	assert.Contains(t, err.Error(), "timeout")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
