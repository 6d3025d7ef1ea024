package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"resale-ledger/internal/core"
)

const sellerColumns = `id, email, password_hash, store_name, store_slug, storefront_enabled, created_at`

func scanSeller(row pgx.Row) (*core.Seller, error) {
	var s core.Seller
	if err := row.Scan(&s.ID, &s.Email, &s.PasswordHash, &s.StoreName, &s.StoreSlug,
		&s.StorefrontEnabled, &s.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (s *Store) CreateSeller(ctx context.Context, seller *core.Seller) error {
	err := s.q.QueryRow(ctx, `
		INSERT INTO sellers (email, password_hash, store_name, store_slug, storefront_enabled)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		seller.Email, seller.PasswordHash, seller.StoreName, seller.StoreSlug, seller.StorefrontEnabled,
	).Scan(&seller.ID, &seller.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrAlreadyExists
		}
		return fmt.Errorf("failed to insert seller: %w", err)
	}
	return nil
}

func (s *Store) GetSellerByID(ctx context.Context, id int64) (*core.Seller, error) {
	return scanSeller(s.q.QueryRow(ctx, `SELECT `+sellerColumns+` FROM sellers WHERE id = $1`, id))
}

func (s *Store) GetSellerByEmail(ctx context.Context, email string) (*core.Seller, error) {
	return scanSeller(s.q.QueryRow(ctx, `SELECT `+sellerColumns+` FROM sellers WHERE email = $1`, email))
}

func (s *Store) GetSellerBySlug(ctx context.Context, slug string) (*core.Seller, error) {
	return scanSeller(s.q.QueryRow(ctx, `SELECT `+sellerColumns+` FROM sellers WHERE store_slug = $1`, slug))
}

func (s *Store) ListSellers(ctx context.Context) ([]core.Seller, error) {
	rows, err := s.q.Query(ctx, `SELECT `+sellerColumns+` FROM sellers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sellers: %w", err)
	}
	defer rows.Close()

	var sellers []core.Seller
	for rows.Next() {
		seller, err := scanSeller(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan seller: %w", err)
		}
		sellers = append(sellers, *seller)
	}
	return sellers, rows.Err()
}

func (s *Store) SetStorefrontEnabled(ctx context.Context, sellerID int64, enabled bool) error {
	return s.execOne(ctx, `UPDATE sellers SET storefront_enabled = $1 WHERE id = $2`, enabled, sellerID)
}
