package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"resale-ledger/internal/core"
)

const saleColumns = `id, seller_id, COALESCE(item_id, 0), COALESCE(order_id, 0), platform,
	sale_price, quantity_sold, sale_date::text, purchase_price, platform_fees, shipping_cost,
	other_fees, gross_profit, net_profit, profit_margin, notes, created_at, updated_at`

func scanSale(row pgx.Row) (*core.SaleRecord, error) {
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
	err := s.q.QueryRow(ctx, `
		INSERT INTO sales (seller_id, item_id, order_id, platform, sale_price, quantity_sold,
			sale_date, purchase_price, platform_fees, shipping_cost, other_fees,
			gross_profit, net_profit, profit_margin, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at`,
		sale.SellerID, nullID(sale.ItemID), nullID(sale.OrderID), string(sale.Platform),
		sale.SalePrice, sale.QuantitySold, sale.SaleDate, sale.PurchasePrice, sale.PlatformFees,
		sale.ShippingCost, sale.OtherFees, sale.GrossProfit, sale.NetProfit, sale.ProfitMargin,
		sale.Notes,
	).Scan(&sale.ID, &sale.CreatedAt, &sale.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert sale: %w", err)
	}
	return nil
}

func (s *Store) GetSale(ctx context.Context, sellerID, saleID int64) (*core.SaleRecord, error) {
	sale, err := scanSale(s.q.QueryRow(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE id = $1 AND seller_id = $2`, saleID, sellerID))
	if err != nil {
		return nil, notFound(err)
	}
	return sale, nil
}

func (s *Store) ListSales(ctx context.Context, sellerID int64, filter core.SaleFilter) ([]core.SaleRecord, error) {
	where := []string{"seller_id = $1"}
	args := []any{sellerID}
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if filter.ItemID != 0 {
		add("item_id = $%d", filter.ItemID)
	}
	if filter.From != "" {
		add("sale_date >= $%d", filter.From)
	}
	if filter.To != "" {
		add("sale_date <= $%d", filter.To)
	}

	rows, err := s.q.Query(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE `+strings.Join(where, " AND ")+
			` ORDER BY sale_date DESC, id DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	var sales []core.SaleRecord
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, *sale)
	}
	return sales, rows.Err()
}

func (s *Store) UpdateSale(ctx context.Context, sale *core.SaleRecord) error {
	return s.execOne(ctx, `
		UPDATE sales
		SET platform = $1, sale_price = $2, quantity_sold = $3, sale_date = $4,
			purchase_price = $5, platform_fees = $6, shipping_cost = $7, other_fees = $8,
			gross_profit = $9, net_profit = $10, profit_margin = $11, notes = $12,
			updated_at = now()
		WHERE id = $13 AND seller_id = $14`,
		string(sale.Platform), sale.SalePrice, sale.QuantitySold, sale.SaleDate,
		sale.PurchasePrice, sale.PlatformFees, sale.ShippingCost, sale.OtherFees,
		sale.GrossProfit, sale.NetProfit, sale.ProfitMargin, sale.Notes,
		sale.ID, sale.SellerID)
}

func (s *Store) DeleteSale(ctx context.Context, sellerID, saleID int64) error {
	return s.execOne(ctx, `DELETE FROM sales WHERE id = $1 AND seller_id = $2`, saleID, sellerID)
}
