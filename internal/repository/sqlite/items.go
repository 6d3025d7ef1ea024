package sqlite

import (
	"context"
	"errors"
	"fmt"

	"resale-ledger/internal/core"
)

const itemColumns = `id, seller_id, title, sku, description, purchase_price,
	quantity_purchased, quantity_on_hand, quantity_sold, archived, listed, list_price,
	created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (*core.StockItem, error) {
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
	id, err := s.insert(ctx, `
		INSERT INTO stock_items (seller_id, title, sku, description, purchase_price,
			quantity_purchased, quantity_on_hand, quantity_sold, listed, list_price)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.SellerID, item.Title, item.SKU, item.Description, item.PurchasePrice,
		item.QuantityPurchased, item.QuantityOnHand, item.QuantitySold, item.Listed, item.ListPrice)
	if err != nil {
		return fmt.Errorf("inserting item: %w", err)
	}
	stored, err := s.GetStockItem(ctx, item.SellerID, id)
	if err != nil {
		return err
	}
	*item = *stored
	return nil
}

func (s *Store) GetStockItem(ctx context.Context, sellerID, itemID int64) (*core.StockItem, error) {
	it, err := scanItem(s.q.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM stock_items WHERE id = ? AND seller_id = ?`, itemID, sellerID))
	if err != nil {
		return nil, notFound(err)
	}
	return it, nil
}

// LockStockItem reads the item. SQLite transactions lock the whole database on
// first write, and the counter compare-and-set detects interleaved writers.
func (s *Store) LockStockItem(ctx context.Context, sellerID, itemID int64) (*core.StockItem, error) {
	return s.GetStockItem(ctx, sellerID, itemID)
}

func (s *Store) ListStockItems(ctx context.Context, sellerID int64, includeArchived bool) ([]core.StockItem, error) {
	return s.listItems(ctx,
		`SELECT `+itemColumns+` FROM stock_items
		 WHERE seller_id = ? AND (? OR archived = 0)
		 ORDER BY title, id`, sellerID, includeArchived)
}

func (s *Store) ListListedItems(ctx context.Context, sellerID int64) ([]core.StockItem, error) {
	return s.listItems(ctx,
		`SELECT `+itemColumns+` FROM stock_items
		 WHERE seller_id = ? AND listed = 1 AND archived = 0 AND quantity_on_hand > 0
		 ORDER BY title, id`, sellerID)
}

func (s *Store) listItems(ctx context.Context, query string, args ...any) ([]core.StockItem, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []core.StockItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

func (s *Store) UpdateStockItem(ctx context.Context, item *core.StockItem) error {
	return s.execOne(ctx, `
		UPDATE stock_items
		SET title = ?, sku = ?, description = ?, purchase_price = ?, listed = ?, list_price = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND seller_id = ?`,
		item.Title, item.SKU, item.Description, item.PurchasePrice, item.Listed, item.ListPrice,
		item.ID, item.SellerID)
}

func (s *Store) UpdateStockCounters(ctx context.Context, sellerID, itemID int64, prev, next core.Counters) error {
	err := s.execOne(ctx, `
		UPDATE stock_items
		SET quantity_on_hand = ?, quantity_sold = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND seller_id = ? AND quantity_on_hand = ? AND quantity_sold = ?`,
		next.OnHand, next.Sold, itemID, sellerID, prev.OnHand, prev.Sold)
	if errors.Is(err, core.ErrNotFound) {
		return core.ErrCounterConflict
	}
	return err
}

func (s *Store) ArchiveStockItem(ctx context.Context, sellerID, itemID int64) error {
	return s.execOne(ctx, `
		UPDATE stock_items SET archived = 1, listed = 0, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND seller_id = ?`, itemID, sellerID)
}

func (s *Store) DeleteStockItem(ctx context.Context, sellerID, itemID int64) error {
	return s.execOne(ctx, `DELETE FROM stock_items WHERE id = ? AND seller_id = ?`, itemID, sellerID)
}

func (s *Store) CountSalesForItem(ctx context.Context, sellerID, itemID int64) (int, error) {
	var n int
	err := s.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sales WHERE item_id = ? AND seller_id = ?`, itemID, sellerID).Scan(&n)
	return n, err
}

func (s *Store) ListDrift(ctx context.Context, sellerID int64) ([]core.DriftReport, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT i.seller_id, i.id, i.title, i.quantity_purchased, i.quantity_on_hand,
			i.quantity_sold, COALESCE(s.sold, 0)
		FROM stock_items i
		LEFT JOIN (
			SELECT item_id, SUM(quantity_sold) AS sold FROM sales
			WHERE item_id IS NOT NULL GROUP BY item_id
		) s ON s.item_id = i.id
		WHERE (? = 0 OR i.seller_id = ?)
		  AND (i.quantity_on_hand + i.quantity_sold <> i.quantity_purchased
		       OR (i.archived = 0 AND i.quantity_sold <> COALESCE(s.sold, 0)))
		ORDER BY i.seller_id, i.id`, sellerID, sellerID)
	if err != nil {
		return nil, fmt.Errorf("checking drift: %w", err)
	}
	defer rows.Close()

	var out []core.DriftReport
	for rows.Next() {
		var d core.DriftReport
		if err := rows.Scan(&d.SellerID, &d.ItemID, &d.Title, &d.QuantityPurchased,
			&d.QuantityOnHand, &d.QuantitySold, &d.SoldPerSales); err != nil {
			return nil, fmt.Errorf("scanning drift: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
