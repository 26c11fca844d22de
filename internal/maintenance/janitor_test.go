package maintenance

import (
	"context"
	"testing"
	"time"

	"relaybot/internal/storage"
)

type fakeStore struct {
	pruneCalls int
	result     storage.PruneResult
}

func (f *fakeStore) Prune(_ context.Context, _ time.Duration) (storage.PruneResult, error) {
	f.pruneCalls++
	return f.result, nil
}

func (f *fakeStore) Optimize(context.Context) error { return nil }

func at(hour int, day int) time.Time {
	return time.Date(2026, 8, day, hour, 15, 0, 0, time.UTC)
}

func TestTickFiresOnlyAtPruneHour(t *testing.T) {
	fs := &fakeStore{}
	clock := at(1, 1)
	j := New(Options{Store: fs, now: func() time.Time { return clock }})

	j.tick(context.Background())
	if fs.pruneCalls != 0 {
		t.Fatalf("prune ran at hour 1")
	}

	clock = at(pruneHour, 1)
	j.tick(context.Background())
	if fs.pruneCalls != 1 {
		t.Fatalf("prune calls = %d, want 1", fs.pruneCalls)
	}
}

func TestTickRunsOncePerDay(t *testing.T) {
	fs := &fakeStore{}
	clock := at(pruneHour, 1)
	j := New(Options{Store: fs, now: func() time.Time { return clock }})

	j.tick(context.Background())
	j.tick(context.Background())
	if fs.pruneCalls != 1 {
		t.Fatalf("prune calls = %d, want 1 for same day", fs.pruneCalls)
	}

	clock = at(pruneHour, 2)
	j.tick(context.Background())
	if fs.pruneCalls != 2 {
		t.Fatalf("prune calls = %d, want 2 after day change", fs.pruneCalls)
	}
}

func TestNotifySkippedWhenNothingDeleted(t *testing.T) {
	notified := 0
	fs := &fakeStore{}
	clock := at(pruneHour, 1)
	j := New(Options{
		Store:  fs,
		Notify: func(string) { notified++ },
		now:    func() time.Time { return clock },
	})

	j.tick(context.Background())
	if notified != 0 {
		t.Fatalf("notified on empty prune")
	}

	fs.result = storage.PruneResult{NotificationsDeleted: 3}
	clock = at(pruneHour, 2)
	j.tick(context.Background())
	if notified != 1 {
		t.Fatalf("notify calls = %d, want 1", notified)
	}
}
