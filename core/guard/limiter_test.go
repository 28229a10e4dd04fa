package guard

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterAllowsUpToMax(t *testing.T) {
	l := NewLimiter(5, time.Minute)

	for i := 0; i < 5; i++ {
		require.NoError(t, l.Allow(42), "request %d should pass", i+1)
	}

	err := l.Allow(42)
	require.Error(t, err)

	var limitErr *LimitError
	require.True(t, errors.As(err, &limitErr))
	assert.Equal(t, 5, limitErr.Max)
	assert.Equal(t, time.Minute, limitErr.Window)
}

func TestLimiterWindowResetsToOne(t *testing.T) {
	now := time.Now()
	l := NewLimiter(5, time.Minute)
	l.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		require.NoError(t, l.Allow(7))
	}
	require.Error(t, l.Allow(7))

	// The window is anchored at the first request, not rolling per request.
	now = now.Add(61 * time.Second)
	require.NoError(t, l.Allow(7))

	// The triggering request counted as 1, so four more fit.
	for i := 0; i < 4; i++ {
		require.NoError(t, l.Allow(7))
	}
	require.Error(t, l.Allow(7))
}

func TestLimiterUsersAreIndependent(t *testing.T) {
	l := NewLimiter(1, time.Minute)

	require.NoError(t, l.Allow(1))
	require.NoError(t, l.Allow(2))
	require.Error(t, l.Allow(1))
	require.Error(t, l.Allow(2))
}

func TestLimiterDisabled(t *testing.T) {
	l := NewLimiter(0, time.Minute)
	for i := 0; i < 100; i++ {
		require.NoError(t, l.Allow(1))
	}

	var nilLimiter *Limiter
	assert.NoError(t, nilLimiter.Allow(1))
}

func TestLimiterCollectsExpiredRecords(t *testing.T) {
	now := time.Now()
	l := NewLimiter(5, time.Minute)
	l.now = func() time.Time { return now }

	require.NoError(t, l.Allow(1))
	require.NoError(t, l.Allow(2))
	assert.Len(t, l.records, 2)

	now = now.Add(2 * time.Minute)
	require.NoError(t, l.Allow(3))
	assert.Len(t, l.records, 1)
}
