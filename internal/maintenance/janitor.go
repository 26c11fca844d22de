// Package maintenance runs the nightly database cleanup and the owner
// report that follows it.
package maintenance

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"relaybot/internal/logger"
	"relaybot/internal/storage"
)

// pruneHour is the local hour the nightly pass fires at.
const pruneHour = 2

// Store is the slice of the storage layer the janitor needs.
type Store interface {
	Prune(ctx context.Context, maxAge time.Duration) (storage.PruneResult, error)
	Optimize(ctx context.Context) error
}

// Options configures a Janitor.
type Options struct {
	Store  Store
	MaxAge time.Duration

	// Notify delivers the post-cleanup report, usually to the owner chat.
	// Optional.
	Notify func(text string)

	// now is swapped in tests.
	now func() time.Time
}

// Janitor owns the periodic cleanup loop.
type Janitor struct {
	store  Store
	maxAge time.Duration
	notify func(text string)
	now    func() time.Time

	lastRun string // YYYY-MM-DD of the last nightly pass
}

// New builds a janitor. MaxAge defaults to 30 days.
func New(opts Options) *Janitor {
	maxAge := opts.MaxAge
	if maxAge <= 0 {
		maxAge = 30 * 24 * time.Hour
	}
	now := opts.now
	if now == nil {
		now = time.Now
	}
	return &Janitor{
		store:  opts.Store,
		maxAge: maxAge,
		notify: opts.Notify,
		now:    now,
	}
}

// Run refreshes planner statistics once, then wakes hourly and fires the
// cleanup when the prune hour comes around. A tick landing on an hour
// that already ran today is a no-op, so missed or duplicate ticks are
// harmless. Returns when ctx is done.
func (j *Janitor) Run(ctx context.Context) {
	if err := j.store.Optimize(ctx); err != nil {
		logger.Maint.Warn("analyze failed",
			slog.String("event", "optimize"),
			slog.String("err", err.Error()),
		)
	}

	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	logger.Maint.Info("janitor started",
		slog.String("event", "start"),
		slog.Int("prune_hour", pruneHour),
		slog.Duration("max_age", j.maxAge),
	)

	for {
		select {
		case <-ctx.Done():
			logger.Maint.Info("janitor stopped", slog.String("event", "stop"))
			return
		case <-ticker.C:
			j.tick(ctx)
		}
	}
}

// tick runs the cleanup if the current hour matches and today's pass has
// not happened yet.
func (j *Janitor) tick(ctx context.Context) {
	now := j.now()
	if now.Hour() != pruneHour {
		return
	}
	day := now.Format("2006-01-02")
	if day == j.lastRun {
		return
	}
	j.lastRun = day

	start := time.Now()
	res, err := j.store.Prune(ctx, j.maxAge)
	if err != nil {
		logger.Maint.Error("nightly cleanup failed",
			slog.String("event", "prune"),
			slog.String("err", err.Error()),
		)
		return
	}

	logger.Maint.Info("nightly cleanup done",
		slog.String("event", "prune"),
		slog.Int64("notifications", res.NotificationsDeleted),
		slog.Int64("rejected", res.RejectedDeleted),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)

	if j.notify != nil && (res.NotificationsDeleted > 0 || res.RejectedDeleted > 0) {
		j.notify(fmt.Sprintf("🧹 Ночная очистка БД\nУведомлений удалено: %d\nОтклонённых откликов удалено: %d",
			res.NotificationsDeleted, res.RejectedDeleted))
	}
}
