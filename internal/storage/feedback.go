package storage

import (
	"context"
	"fmt"
)

// InsertFeedback records a client's verdict on an offer message.
func (s *Store) InsertFeedback(ctx context.Context, f Feedback) error {
	const q = `
		INSERT INTO feedback (user_id, offer_ref, feedback_type, direction)
		VALUES ($1, $2, $3, $4)`
	if _, err := s.db.ExecContext(ctx, q, f.UserID, f.OfferRef, f.Kind, f.Direction); err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

// InsertOwnerNotification keeps a denormalized event copy for the owner chat.
func (s *Store) InsertOwnerNotification(ctx context.Context, n OwnerNotification) error {
	const q = `
		INSERT INTO owner_notifications (
			kind, user_id, application_id, offer_id, direction,
			company_name, admin_chat_id, feedback_type, message
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := s.db.ExecContext(ctx, q,
		n.Kind, n.UserID, n.ApplicationID, n.OfferID, n.Direction,
		n.CompanyName, n.AdminChatID, n.FeedbackType, n.Message)
	if err != nil {
		return fmt.Errorf("insert owner notification: %w", err)
	}
	return nil
}
