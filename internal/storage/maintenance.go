package storage

import (
	"context"
	"fmt"
	"time"
)

// Prune removes aged owner notifications and rejected feedback. Accepted
// feedback is retained indefinitely as the deal history.
func (s *Store) Prune(ctx context.Context, maxAge time.Duration) (PruneResult, error) {
	var out PruneResult
	cutoff := fmt.Sprintf("%d seconds", int(maxAge.Seconds()))

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM owner_notifications WHERE created_at < now() - $1::interval`, cutoff)
	if err != nil {
		return out, fmt.Errorf("prune notifications: %w", err)
	}
	out.NotificationsDeleted, _ = res.RowsAffected()

	res, err = s.db.ExecContext(ctx,
		`DELETE FROM feedback WHERE feedback_type = 'no' AND created_at < now() - $1::interval`, cutoff)
	if err != nil {
		return out, fmt.Errorf("prune rejected feedback: %w", err)
	}
	out.RejectedDeleted, _ = res.RowsAffected()

	return out, nil
}

// Optimize refreshes planner statistics on the hot tables.
func (s *Store) Optimize(ctx context.Context) error {
	for _, table := range []string{"client_applications", "ready_offers", "feedback", "owner_notifications"} {
		if _, err := s.db.ExecContext(ctx, "ANALYZE "+table); err != nil {
			return fmt.Errorf("analyze %s: %w", table, err)
		}
	}
	return nil
}

// Stats gathers table counts and the physical database size.
func (s *Store) Stats(ctx context.Context) (DBStats, error) {
	var st DBStats
	queries := []struct {
		dst *int64
		q   string
	}{
		{&st.Applications, `SELECT count(*) FROM client_applications`},
		{&st.FeedbackYes, `SELECT count(*) FROM feedback WHERE feedback_type = 'yes'`},
		{&st.FeedbackNo, `SELECT count(*) FROM feedback WHERE feedback_type = 'no'`},
		{&st.Notifications, `SELECT count(*) FROM owner_notifications`},
		{&st.Users, `SELECT count(*) FROM users`},
		{&st.SizeBytes, `SELECT pg_database_size(current_database())`},
	}
	for _, it := range queries {
		if err := s.db.GetContext(ctx, it.dst, it.q); err != nil {
			return st, fmt.Errorf("db stats: %w", err)
		}
	}
	return st, nil
}

// Daily summarizes today's activity for the owner report.
func (s *Store) Daily(ctx context.Context) (DailyStats, error) {
	st := DailyStats{
		Date:        time.Now().Format("2006-01-02"),
		ByDirection: make(map[string]int64),
	}

	err := s.db.GetContext(ctx, &st.Applications,
		`SELECT count(*) FROM client_applications WHERE created_at >= date_trunc('day', now())`)
	if err != nil {
		return st, fmt.Errorf("daily stats: %w", err)
	}
	err = s.db.GetContext(ctx, &st.FeedbackYes,
		`SELECT count(*) FROM feedback WHERE feedback_type = 'yes' AND created_at >= date_trunc('day', now())`)
	if err != nil {
		return st, fmt.Errorf("daily stats: %w", err)
	}
	err = s.db.GetContext(ctx, &st.FeedbackNo,
		`SELECT count(*) FROM feedback WHERE feedback_type = 'no' AND created_at >= date_trunc('day', now())`)
	if err != nil {
		return st, fmt.Errorf("daily stats: %w", err)
	}

	rows, err := s.db.QueryxContext(ctx,
		`SELECT direction, count(*) FROM client_applications
		 WHERE created_at >= date_trunc('day', now())
		 GROUP BY direction`)
	if err != nil {
		return st, fmt.Errorf("daily stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var dir string
		var n int64
		if err := rows.Scan(&dir, &n); err != nil {
			return st, fmt.Errorf("daily stats: %w", err)
		}
		st.ByDirection[dir] = n
	}
	return st, rows.Err()
}
