package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"resale-ledger/internal/core"
)

const itemColumns = `id, seller_id, title, sku, description, purchase_price,
	quantity_purchased, quantity_on_hand, quantity_sold, archived, listed, list_price,
	created_at, updated_at`

func scanItem(row pgx.Row) (*core.StockItem, error) {
	var it core.StockItem
	err := row.Scan(&it.ID, &it.SellerID, &it.Title, &it.SKU, &it.Description, &it.PurchasePrice,
		&it.QuantityPurchased, &it.QuantityOnHand, &it.QuantitySold, &it.Archived, &it.Listed,
		&it.ListPrice, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (s *Store) CreateStockItem(ctx context.Context, item *core.StockItem) error {
	err := s.q.QueryRow(ctx, `
		INSERT INTO stock_items (seller_id, title, sku, description, purchase_price,
			quantity_purchased, quantity_on_hand, quantity_sold, listed, list_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`,
		item.SellerID, item.Title, item.SKU, item.Description, item.PurchasePrice,
		item.QuantityPurchased, item.QuantityOnHand, item.QuantitySold, item.Listed, item.ListPrice,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert stock item: %w", err)
	}
	return nil
}

func (s *Store) GetStockItem(ctx context.Context, sellerID, itemID int64) (*core.StockItem, error) {
	it, err := scanItem(s.q.QueryRow(ctx,
		`SELECT `+itemColumns+` FROM stock_items WHERE id = $1 AND seller_id = $2`, itemID, sellerID))
	if err != nil {
		return nil, notFound(err)
	}
	return it, nil
}

// LockStockItem reads the item with a row lock held until the transaction ends.
func (s *Store) LockStockItem(ctx context.Context, sellerID, itemID int64) (*core.StockItem, error) {
	it, err := scanItem(s.q.QueryRow(ctx,
		`SELECT `+itemColumns+` FROM stock_items WHERE id = $1 AND seller_id = $2 FOR UPDATE`,
		itemID, sellerID))
	if err != nil {
		return nil, notFound(err)
	}
	return it, nil
}

func (s *Store) ListStockItems(ctx context.Context, sellerID int64, includeArchived bool) ([]core.StockItem, error) {
	return s.listItems(ctx,
		`SELECT `+itemColumns+` FROM stock_items
		 WHERE seller_id = $1 AND ($2 OR NOT archived)
		 ORDER BY title, id`, sellerID, includeArchived)
}

func (s *Store) ListListedItems(ctx context.Context, sellerID int64) ([]core.StockItem, error) {
	return s.listItems(ctx,
		`SELECT `+itemColumns+` FROM stock_items
		 WHERE seller_id = $1 AND listed AND NOT archived AND quantity_on_hand > 0
		 ORDER BY title, id`, sellerID)
}

func (s *Store) listItems(ctx context.Context, sql string, args ...any) ([]core.StockItem, error) {
	rows, err := s.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock items: %w", err)
	}
	defer rows.Close()

	var items []core.StockItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

func (s *Store) UpdateStockItem(ctx context.Context, item *core.StockItem) error {
	return s.execOne(ctx, `
		UPDATE stock_items
		SET title = $1, sku = $2, description = $3, purchase_price = $4, listed = $5,
			list_price = $6, updated_at = now()
		WHERE id = $7 AND seller_id = $8`,
		item.Title, item.SKU, item.Description, item.PurchasePrice, item.Listed, item.ListPrice,
		item.ID, item.SellerID)
}

// UpdateStockCounters is a compare-and-set on both counters.
func (s *Store) UpdateStockCounters(ctx context.Context, sellerID, itemID int64, prev, next core.Counters) error {
	err := s.execOne(ctx, `
		UPDATE stock_items
		SET quantity_on_hand = $1, quantity_sold = $2, updated_at = now()
		WHERE id = $3 AND seller_id = $4 AND quantity_on_hand = $5 AND quantity_sold = $6`,
		next.OnHand, next.Sold, itemID, sellerID, prev.OnHand, prev.Sold)
	if errors.Is(err, core.ErrNotFound) {
		return core.ErrCounterConflict
	}
	return err
}

func (s *Store) ArchiveStockItem(ctx context.Context, sellerID, itemID int64) error {
	return s.execOne(ctx, `
		UPDATE stock_items SET archived = true, listed = false, updated_at = now()
		WHERE id = $1 AND seller_id = $2`, itemID, sellerID)
}

func (s *Store) DeleteStockItem(ctx context.Context, sellerID, itemID int64) error {
	return s.execOne(ctx, `DELETE FROM stock_items WHERE id = $1 AND seller_id = $2`, itemID, sellerID)
}

func (s *Store) CountSalesForItem(ctx context.Context, sellerID, itemID int64) (int, error) {
	var n int
	err := s.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM sales WHERE item_id = $1 AND seller_id = $2`, itemID, sellerID).Scan(&n)
	return n, err
}

func (s *Store) ListDrift(ctx context.Context, sellerID int64) ([]core.DriftReport, error) {
	rows, err := s.q.Query(ctx, `
		SELECT i.seller_id, i.id, i.title, i.quantity_purchased, i.quantity_on_hand,
			i.quantity_sold, COALESCE(s.sold, 0)
		FROM stock_items i
		LEFT JOIN (
			SELECT item_id, SUM(quantity_sold) AS sold FROM sales
			WHERE item_id IS NOT NULL GROUP BY item_id
		) s ON s.item_id = i.id
		WHERE ($1::bigint = 0 OR i.seller_id = $1)
		  AND (i.quantity_on_hand + i.quantity_sold <> i.quantity_purchased
		       OR (NOT i.archived AND i.quantity_sold <> COALESCE(s.sold, 0)))
		ORDER BY i.seller_id, i.id`, sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory drift: %w", err)
	}
	defer rows.Close()

	var out []core.DriftReport
	for rows.Next() {
		var d core.DriftReport
		if err := rows.Scan(&d.SellerID, &d.ItemID, &d.Title, &d.QuantityPurchased,
			&d.QuantityOnHand, &d.QuantitySold, &d.SoldPerSales); err != nil {
			return nil, fmt.Errorf("failed to scan drift row: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
