package guard

import (
	"fmt"
	"sync"
	"time"
)

// LimitError reports that a user exhausted the request budget for the
// current window. It is never retried.
type LimitError struct {
	Max    int
	Window time.Duration
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded: max %d requests per %s", e.Max, e.Window)
}

type windowRecord struct {
	start time.Time
	count int
}

// Limiter caps requests per user inside a fixed window. The window opens on
// the user's first request and the counter resets only after the window has
// fully elapsed since that first request, not on a rolling per-request
// basis. The request that triggers a reset is itself counted, so a fresh
// window always starts at 1. Records live in memory only and expired ones
// are collected lazily on the next call.
type Limiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	now     func() time.Time
	records map[int64]*windowRecord
}

// NewLimiter builds a limiter allowing max requests per window.
func NewLimiter(max int, window time.Duration) *Limiter {
	return &Limiter{
		max:     max,
		window:  window,
		now:     time.Now,
		records: make(map[int64]*windowRecord),
	}
}

// Allow records one request for the user and returns a *LimitError once the
// budget is exhausted. A max of zero disables limiting.
func (l *Limiter) Allow(userID int64) error {
	if l == nil || l.max <= 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.collectLocked(now)

	rec, ok := l.records[userID]
	if !ok || now.Sub(rec.start) > l.window {
		l.records[userID] = &windowRecord{start: now, count: 1}
		return nil
	}
	if rec.count >= l.max {
		return &LimitError{Max: l.max, Window: l.window}
	}
	rec.count++
	return nil
}

func (l *Limiter) collectLocked(now time.Time) {
	for id, rec := range l.records {
		if now.Sub(rec.start) > l.window {
			delete(l.records, id)
		}
	}
}
