package sqlite

import (
	"context"
	"fmt"

	"resale-ledger/internal/core"
)

const sellerColumns = `id, email, password_hash, store_name, store_slug, storefront_enabled, created_at`

func scanSeller(row scanner) (*core.Seller, error) {
	var s core.Seller
	if err := row.Scan(&s.ID, &s.Email, &s.PasswordHash, &s.StoreName, &s.StoreSlug,
		&s.StorefrontEnabled, &s.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (s *Store) CreateSeller(ctx context.Context, seller *core.Seller) error {
	id, err := s.insert(ctx, `
		INSERT INTO sellers (email, password_hash, store_name, store_slug, storefront_enabled)
		VALUES (?, ?, ?, ?, ?)`,
		seller.Email, seller.PasswordHash, seller.StoreName, seller.StoreSlug, seller.StorefrontEnabled)
	if err != nil {
		return fmt.Errorf("inserting seller: %w", err)
	}
	stored, err := s.GetSellerByID(ctx, id)
	if err != nil {
		return err
	}
	*seller = *stored
	return nil
}

func (s *Store) GetSellerByID(ctx context.Context, id int64) (*core.Seller, error) {
	return scanSeller(s.q.QueryRowContext(ctx, `SELECT `+sellerColumns+` FROM sellers WHERE id = ?`, id))
}

func (s *Store) GetSellerByEmail(ctx context.Context, email string) (*core.Seller, error) {
	return scanSeller(s.q.QueryRowContext(ctx, `SELECT `+sellerColumns+` FROM sellers WHERE email = ?`, email))
}

func (s *Store) GetSellerBySlug(ctx context.Context, slug string) (*core.Seller, error) {
	return scanSeller(s.q.QueryRowContext(ctx, `SELECT `+sellerColumns+` FROM sellers WHERE store_slug = ?`, slug))
}

func (s *Store) ListSellers(ctx context.Context) ([]core.Seller, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT `+sellerColumns+` FROM sellers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing sellers: %w", err)
	}
	defer rows.Close()

	var sellers []core.Seller
	for rows.Next() {
		seller, err := scanSeller(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning seller: %w", err)
		}
		sellers = append(sellers, *seller)
	}
	return sellers, rows.Err()
}

func (s *Store) SetStorefrontEnabled(ctx context.Context, sellerID int64, enabled bool) error {
	return s.execOne(ctx, `UPDATE sellers SET storefront_enabled = ? WHERE id = ?`, enabled, sellerID)
}
