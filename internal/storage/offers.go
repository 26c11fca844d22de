package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// InsertOffer stores a new ready-made offer and returns its id.
func (s *Store) InsertOffer(ctx context.Context, o ReadyOffer) (int64, error) {
	const q = `
		INSERT INTO ready_offers (
			direction, company_name, tax_id, bank,
			payment_purpose, min_amount, max_amount, commission
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	var id int64
	err := s.db.GetContext(ctx, &id, q,
		o.Direction, o.CompanyName, o.TaxID, o.Bank,
		o.PaymentPurpose, o.MinAmount, o.MaxAmount, o.Commission,
	)
	if err != nil {
		return 0, fmt.Errorf("insert offer: %w", err)
	}
	return id, nil
}

// GetOffer fetches an offer by id.
func (s *Store) GetOffer(ctx context.Context, id int64) (*ReadyOffer, error) {
	var o ReadyOffer
	err := s.db.GetContext(ctx, &o, `SELECT * FROM ready_offers WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get offer %d: %w", id, err)
	}
	return &o, nil
}

// ListOffers returns one page of offers for a direction, newest first.
// Page numbering starts at zero.
func (s *Store) ListOffers(ctx context.Context, direction string, page, pageSize int) ([]ReadyOffer, error) {
	var offers []ReadyOffer
	err := s.db.SelectContext(ctx, &offers,
		`SELECT * FROM ready_offers WHERE direction = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2 OFFSET $3`,
		direction, pageSize, page*pageSize)
	if err != nil {
		return nil, fmt.Errorf("list offers %q page %d: %w", direction, page, err)
	}
	return offers, nil
}

// ListAllOffers returns every offer grouped by direction for the admin listing.
func (s *Store) ListAllOffers(ctx context.Context) ([]ReadyOffer, error) {
	var offers []ReadyOffer
	err := s.db.SelectContext(ctx, &offers,
		`SELECT * FROM ready_offers ORDER BY direction, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list all offers: %w", err)
	}
	return offers, nil
}

// UpdateOffer overwrites the editable fields of an existing offer. Callers
// merge kept-as-is fields into o before calling.
func (s *Store) UpdateOffer(ctx context.Context, o ReadyOffer) error {
	const q = `
		UPDATE ready_offers SET
			company_name    = $2,
			tax_id          = $3,
			bank            = $4,
			payment_purpose = $5,
			min_amount      = $6,
			max_amount      = $7,
			commission      = $8,
			updated_at      = now()
		WHERE id = $1`
	res, err := s.db.ExecContext(ctx, q,
		o.ID, o.CompanyName, o.TaxID, o.Bank,
		o.PaymentPurpose, o.MinAmount, o.MaxAmount, o.Commission)
	if err != nil {
		return fmt.Errorf("update offer %d: %w", o.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteOffer removes an offer by id.
func (s *Store) DeleteOffer(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM ready_offers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete offer %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
