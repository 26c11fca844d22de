package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UpsertUser records a user interaction, creating the row on first contact
// and refreshing last_activity otherwise. The blocked flag is never touched.
func (s *Store) UpsertUser(ctx context.Context, u User) error {
	const q = `
		INSERT INTO users (user_id, username, first_name, last_name, first_seen, last_activity)
		VALUES ($1, $2, $3, $4, now(), now())
		ON CONFLICT (user_id) DO UPDATE SET
			username      = EXCLUDED.username,
			first_name    = EXCLUDED.first_name,
			last_name     = EXCLUDED.last_name,
			last_activity = now()`
	if _, err := s.db.ExecContext(ctx, q, u.UserID, u.Username, u.FirstName, u.LastName); err != nil {
		return fmt.Errorf("upsert user %d: %w", u.UserID, err)
	}
	return nil
}

// IsBlocked reports whether the user is banned. Unknown users are not blocked.
func (s *Store) IsBlocked(ctx context.Context, userID int64) (bool, error) {
	var blocked bool
	err := s.db.GetContext(ctx, &blocked,
		`SELECT is_blocked FROM users WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check blocked %d: %w", userID, err)
	}
	return blocked, nil
}

// SetBlocked toggles the ban flag for a user.
func (s *Store) SetBlocked(ctx context.Context, userID int64, blocked bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET is_blocked = $2 WHERE user_id = $1`, userID, blocked)
	if err != nil {
		return fmt.Errorf("set blocked %d: %w", userID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListUsers returns all users ordered by most recent activity.
func (s *Store) ListUsers(ctx context.Context, limit int) ([]User, error) {
	var users []User
	err := s.db.SelectContext(ctx, &users,
		`SELECT * FROM users ORDER BY last_activity DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// ListNewUsers returns users first seen within the given window.
func (s *Store) ListNewUsers(ctx context.Context, since time.Duration) ([]User, error) {
	var users []User
	err := s.db.SelectContext(ctx, &users,
		`SELECT * FROM users WHERE first_seen >= now() - $1::interval ORDER BY first_seen DESC`,
		fmt.Sprintf("%d seconds", int(since.Seconds())))
	if err != nil {
		return nil, fmt.Errorf("list new users: %w", err)
	}
	return users, nil
}

// CountUsers returns the total number of known users.
func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, `SELECT count(*) FROM users`); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
