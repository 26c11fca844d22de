package ratelimit

import (
	"testing"
	"time"
)

func newTestLimiter(max int, window time.Duration) (*Limiter, *time.Time) {
	l := New(max, window)
	now := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestLimiterAllowsWithinBudget(t *testing.T) {
	l, _ := newTestLimiter(3, time.Minute)
	for i := 0; i < 3; i++ {
		if !l.Allow(1) {
			t.Fatalf("request %d rejected, want allowed", i+1)
		}
	}
	if l.Allow(1) {
		t.Fatal("request over budget allowed")
	}
}

func TestLimiterWindowSlides(t *testing.T) {
	l, now := newTestLimiter(2, time.Minute)
	l.Allow(1)
	*now = now.Add(30 * time.Second)
	l.Allow(1)
	if l.Allow(1) {
		t.Fatal("third request within window allowed")
	}
	*now = now.Add(31 * time.Second)
	if !l.Allow(1) {
		t.Fatal("request rejected after oldest hit expired")
	}
}

func TestLimiterRejectionsNotRecorded(t *testing.T) {
	l, now := newTestLimiter(1, time.Minute)
	l.Allow(1)
	for i := 0; i < 10; i++ {
		l.Allow(1)
	}
	*now = now.Add(61 * time.Second)
	if !l.Allow(1) {
		t.Fatal("rejected attempts extended the window")
	}
}

func TestLimiterPerUserIsolation(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)
	l.Allow(1)
	if !l.Allow(2) {
		t.Fatal("limit of user 1 leaked into user 2")
	}
}

func TestRetryAfter(t *testing.T) {
	l, now := newTestLimiter(1, time.Minute)
	if got := l.RetryAfter(1); got != 0 {
		t.Fatalf("RetryAfter before any hits = %v, want 0", got)
	}
	l.Allow(1)
	*now = now.Add(20 * time.Second)
	if got := l.RetryAfter(1); got != 40*time.Second {
		t.Fatalf("RetryAfter = %v, want 40s", got)
	}
	*now = now.Add(41 * time.Second)
	if got := l.RetryAfter(1); got != 0 {
		t.Fatalf("RetryAfter after window = %v, want 0", got)
	}
}

func TestReset(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)
	l.Allow(1)
	l.Reset(1)
	if !l.Allow(1) {
		t.Fatal("request rejected after reset")
	}
}
