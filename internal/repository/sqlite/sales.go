package sqlite

import (
	"context"
	"fmt"
	"strings"

	"resale-ledger/internal/core"
)

const saleColumns = `id, seller_id, COALESCE(item_id, 0), COALESCE(order_id, 0), platform,
	sale_price, quantity_sold, sale_date, purchase_price, platform_fees, shipping_cost,
	other_fees, gross_profit, net_profit, profit_margin, notes, created_at, updated_at`

func scanSale(row scanner) (*core.SaleRecord, error) {
	var s core.SaleRecord
	err := row.Scan(&s.ID, &s.SellerID, &s.ItemID, &s.OrderID, &s.Platform,
		&s.SalePrice, &s.QuantitySold, &s.SaleDate, &s.PurchasePrice, &s.PlatformFees,
		&s.ShippingCost, &s.OtherFees, &s.GrossProfit, &s.NetProfit, &s.ProfitMargin,
		&s.Notes, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Store) InsertSale(ctx context.Context, sale *core.SaleRecord) error {
	id, err := s.insert(ctx, `
		INSERT INTO sales (seller_id, item_id, order_id, platform, sale_price, quantity_sold,
			sale_date, purchase_price, platform_fees, shipping_cost, other_fees,
			gross_profit, net_profit, profit_margin, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sale.SellerID, nullID(sale.ItemID), nullID(sale.OrderID), sale.Platform, sale.SalePrice,
		sale.QuantitySold, sale.SaleDate, sale.PurchasePrice, sale.PlatformFees, sale.ShippingCost,
		sale.OtherFees, sale.GrossProfit, sale.NetProfit, sale.ProfitMargin, sale.Notes)
	if err != nil {
		return fmt.Errorf("inserting sale: %w", err)
	}
	stored, err := s.GetSale(ctx, sale.SellerID, id)
	if err != nil {
		return err
	}
	*sale = *stored
	return nil
}

func (s *Store) GetSale(ctx context.Context, sellerID, saleID int64) (*core.SaleRecord, error) {
	sale, err := scanSale(s.q.QueryRowContext(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE id = ? AND seller_id = ?`, saleID, sellerID))
	if err != nil {
		return nil, notFound(err)
	}
	return sale, nil
}

func (s *Store) ListSales(ctx context.Context, sellerID int64, filter core.SaleFilter) ([]core.SaleRecord, error) {
	where := []string{"seller_id = ?"}
	args := []any{sellerID}
	if filter.ItemID != 0 {
		where = append(where, "item_id = ?")
		args = append(args, filter.ItemID)
	}
	if filter.From != "" {
		where = append(where, "sale_date >= ?")
		args = append(args, filter.From)
	}
	if filter.To != "" {
		where = append(where, "sale_date <= ?")
		args = append(args, filter.To)
	}

	rows, err := s.q.QueryContext(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE `+strings.Join(where, " AND ")+
			` ORDER BY sale_date DESC, id DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sales: %w", err)
	}
	defer rows.Close()

	var sales []core.SaleRecord
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning sale: %w", err)
		}
		sales = append(sales, *sale)
	}
	return sales, rows.Err()
}

func (s *Store) UpdateSale(ctx context.Context, sale *core.SaleRecord) error {
	return s.execOne(ctx, `
		UPDATE sales
		SET platform = ?, sale_price = ?, quantity_sold = ?, sale_date = ?, purchase_price = ?,
			platform_fees = ?, shipping_cost = ?, other_fees = ?, gross_profit = ?,
			net_profit = ?, profit_margin = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND seller_id = ?`,
		sale.Platform, sale.SalePrice, sale.QuantitySold, sale.SaleDate, sale.PurchasePrice,
		sale.PlatformFees, sale.ShippingCost, sale.OtherFees, sale.GrossProfit,
		sale.NetProfit, sale.ProfitMargin, sale.Notes, sale.ID, sale.SellerID)
}

func (s *Store) DeleteSale(ctx context.Context, sellerID, saleID int64) error {
	return s.execOne(ctx, `DELETE FROM sales WHERE id = ? AND seller_id = ?`, saleID, sellerID)
}
