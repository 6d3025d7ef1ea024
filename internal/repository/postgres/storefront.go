package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"resale-ledger/internal/core"
)

const customerColumns = `id, seller_id, email, name, password_hash, created_at`

func scanCustomer(row pgx.Row) (*core.Customer, error) {
	var c core.Customer
	if err := row.Scan(&c.ID, &c.SellerID, &c.Email, &c.Name, &c.PasswordHash, &c.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (s *Store) CreateCustomer(ctx context.Context, c *core.Customer) error {
	err := s.q.QueryRow(ctx, `
		INSERT INTO customers (seller_id, email, name, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		c.SellerID, c.Email, c.Name, c.PasswordHash,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrAlreadyExists
		}
		return fmt.Errorf("failed to insert customer: %w", err)
	}
	return nil
}

func (s *Store) GetCustomer(ctx context.Context, sellerID, customerID int64) (*core.Customer, error) {
	return scanCustomer(s.q.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1 AND seller_id = $2`, customerID, sellerID))
}

func (s *Store) GetCustomerByEmail(ctx context.Context, sellerID int64, email string) (*core.Customer, error) {
	return scanCustomer(s.q.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE seller_id = $1 AND email = $2`, sellerID, email))
}

func (s *Store) SetCustomerPassword(ctx context.Context, sellerID, customerID int64, name, passwordHash string) error {
	return s.execOne(ctx,
		`UPDATE customers SET name = $1, password_hash = $2 WHERE id = $3 AND seller_id = $4`,
		name, passwordHash, customerID, sellerID)
}

const orderColumns = `id, seller_id, customer_id, COALESCE(item_id, 0), item_title, quantity,
	unit_price, total, email, status, COALESCE(sale_id, 0), tracking_number, created_at, updated_at`

func scanOrder(row pgx.Row) (*core.Order, error) {
	var o core.Order
	if err := row.Scan(&o.ID, &o.SellerID, &o.CustomerID, &o.ItemID, &o.ItemTitle, &o.Quantity,
		&o.UnitPrice, &o.Total, &o.Email, &o.Status, &o.SaleID, &o.TrackingNumber,
		&o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Store) CreateOrder(ctx context.Context, o *core.Order) error {
	err := s.q.QueryRow(ctx, `
		INSERT INTO orders (seller_id, customer_id, item_id, item_title, quantity, unit_price,
			total, email, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`,
		o.SellerID, o.CustomerID, nullID(o.ItemID), o.ItemTitle, o.Quantity, o.UnitPrice,
		o.Total, o.Email, string(o.Status),
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (s *Store) GetOrder(ctx context.Context, sellerID, orderID int64) (*core.Order, error) {
	o, err := scanOrder(s.q.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1 AND seller_id = $2`, orderID, sellerID))
	if err != nil {
		return nil, notFound(err)
	}
	return o, nil
}

func (s *Store) ListOrders(ctx context.Context, sellerID, customerID int64) ([]core.Order, error) {
	rows, err := s.q.Query(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE seller_id = $1 AND ($2::bigint = 0 OR customer_id = $2)
		 ORDER BY created_at DESC, id DESC`, sellerID, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []core.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (s *Store) UpdateOrder(ctx context.Context, o *core.Order) error {
	return s.execOne(ctx, `
		UPDATE orders SET status = $1, sale_id = $2, tracking_number = $3, updated_at = now()
		WHERE id = $4 AND seller_id = $5`,
		string(o.Status), nullID(o.SaleID), o.TrackingNumber, o.ID, o.SellerID)
}
