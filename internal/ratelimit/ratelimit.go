// Package ratelimit implements a per-user sliding-window request limiter.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter tracks request timestamps per user and rejects callers that
// exceed max requests within the window.
type Limiter struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	hits   map[int64][]time.Time
	now    func() time.Time
}

// New builds a limiter allowing max requests per user within window.
func New(max int, window time.Duration) *Limiter {
	return &Limiter{
		max:    max,
		window: window,
		hits:   make(map[int64][]time.Time),
		now:    time.Now,
	}
}

// Allow records an attempt and reports whether the user is within budget.
// Rejected attempts are not recorded, so a throttled user recovers as soon
// as old hits age out.
func (l *Limiter) Allow(userID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	kept := l.trim(userID, now)
	if len(kept) >= l.max {
		l.hits[userID] = kept
		return false
	}
	l.hits[userID] = append(kept, now)
	return true
}

// RetryAfter returns how long the user must wait for the oldest hit in the
// window to expire. Zero when the user is within budget.
func (l *Limiter) RetryAfter(userID int64) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	kept := l.trim(userID, now)
	l.hits[userID] = kept
	if len(kept) < l.max {
		return 0
	}
	return kept[0].Add(l.window).Sub(now)
}

// Reset drops all recorded hits for a user.
func (l *Limiter) Reset(userID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.hits, userID)
}

func (l *Limiter) trim(userID int64, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)
	old := l.hits[userID]
	i := 0
	for i < len(old) && !old[i].After(cutoff) {
		i++
	}
	kept := old[i:]
	if len(kept) == 0 && len(old) > 0 {
		delete(l.hits, userID)
	}
	return kept
}
