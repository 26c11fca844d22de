package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// InsertApplication stores a parsed application and returns its id.
func (s *Store) InsertApplication(ctx context.Context, a ClientApplication) (int64, error) {
	const q = `
		INSERT INTO client_applications (
			user_id, direction, operation_type,
			company_name, tax_id, bank, vat_rate, category,
			payment_purpose, amount, equipment_type, description
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	var id int64
	err := s.db.GetContext(ctx, &id, q,
		a.UserID, a.Direction, a.OperationType,
		a.CompanyName, a.TaxID, a.Bank, a.VATRate, a.Category,
		a.PaymentPurpose, a.Amount, a.EquipmentType, a.Description,
	)
	if err != nil {
		return 0, fmt.Errorf("insert application: %w", err)
	}
	return id, nil
}

// SetAdminMessage binds the application to the admin-chat message that
// announced it, enabling reply reconciliation by message id.
func (s *Store) SetAdminMessage(ctx context.Context, appID, adminChatID int64, adminMessageID int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE client_applications SET admin_chat_id = $2, admin_message_id = $3 WHERE id = $1`,
		appID, adminChatID, adminMessageID)
	if err != nil {
		return fmt.Errorf("set admin message for application %d: %w", appID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetApplication fetches an application by id.
func (s *Store) GetApplication(ctx context.Context, id int64) (*ClientApplication, error) {
	var a ClientApplication
	err := s.db.GetContext(ctx, &a,
		`SELECT * FROM client_applications WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get application %d: %w", id, err)
	}
	return &a, nil
}

// GetApplicationByAdminMessage resolves the application that a given
// admin-chat message announced.
func (s *Store) GetApplicationByAdminMessage(ctx context.Context, adminChatID int64, adminMessageID int) (*ClientApplication, error) {
	var a ClientApplication
	err := s.db.GetContext(ctx, &a,
		`SELECT * FROM client_applications WHERE admin_chat_id = $1 AND admin_message_id = $2
		 ORDER BY id DESC LIMIT 1`,
		adminChatID, adminMessageID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get application by admin message %d/%d: %w", adminChatID, adminMessageID, err)
	}
	return &a, nil
}

// RebindAdminChat moves all application bindings from an old admin chat to
// its successor after a group-to-supergroup migration.
func (s *Store) RebindAdminChat(ctx context.Context, oldChatID, newChatID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE client_applications SET admin_chat_id = $2 WHERE admin_chat_id = $1`,
		oldChatID, newChatID)
	if err != nil {
		return 0, fmt.Errorf("rebind admin chat %d -> %d: %w", oldChatID, newChatID, err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
