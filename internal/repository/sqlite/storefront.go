package sqlite

import (
	"context"
	"fmt"

	"resale-ledger/internal/core"
)

const customerColumns = `id, seller_id, email, name, password_hash, created_at`

func scanCustomer(row scanner) (*core.Customer, error) {
	var c core.Customer
	if err := row.Scan(&c.ID, &c.SellerID, &c.Email, &c.Name, &c.PasswordHash, &c.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (s *Store) CreateCustomer(ctx context.Context, c *core.Customer) error {
	id, err := s.insert(ctx, `
		INSERT INTO customers (seller_id, email, name, password_hash) VALUES (?, ?, ?, ?)`,
		c.SellerID, c.Email, c.Name, c.PasswordHash)
	if err != nil {
		return fmt.Errorf("inserting customer: %w", err)
	}
	stored, err := s.GetCustomer(ctx, c.SellerID, id)
	if err != nil {
		return err
	}
	*c = *stored
	return nil
}

func (s *Store) GetCustomer(ctx context.Context, sellerID, customerID int64) (*core.Customer, error) {
	return scanCustomer(s.q.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = ? AND seller_id = ?`, customerID, sellerID))
}

func (s *Store) GetCustomerByEmail(ctx context.Context, sellerID int64, email string) (*core.Customer, error) {
	return scanCustomer(s.q.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE seller_id = ? AND email = ?`, sellerID, email))
}

func (s *Store) SetCustomerPassword(ctx context.Context, sellerID, customerID int64, name, passwordHash string) error {
	return s.execOne(ctx,
		`UPDATE customers SET name = ?, password_hash = ? WHERE id = ? AND seller_id = ?`,
		name, passwordHash, customerID, sellerID)
}

const orderColumns = `id, seller_id, customer_id, COALESCE(item_id, 0), item_title, quantity,
	unit_price, total, email, status, COALESCE(sale_id, 0), tracking_number, created_at, updated_at`

func scanOrder(row scanner) (*core.Order, error) {
	var o core.Order
	if err := row.Scan(&o.ID, &o.SellerID, &o.CustomerID, &o.ItemID, &o.ItemTitle, &o.Quantity,
		&o.UnitPrice, &o.Total, &o.Email, &o.Status, &o.SaleID, &o.TrackingNumber,
		&o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Store) CreateOrder(ctx context.Context, o *core.Order) error {
	id, err := s.insert(ctx, `
		INSERT INTO orders (seller_id, customer_id, item_id, item_title, quantity, unit_price,
			total, email, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.SellerID, o.CustomerID, nullID(o.ItemID), o.ItemTitle, o.Quantity, o.UnitPrice,
		o.Total, o.Email, o.Status)
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}
	stored, err := s.GetOrder(ctx, o.SellerID, id)
	if err != nil {
		return err
	}
	*o = *stored
	return nil
}

func (s *Store) GetOrder(ctx context.Context, sellerID, orderID int64) (*core.Order, error) {
	o, err := scanOrder(s.q.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = ? AND seller_id = ?`, orderID, sellerID))
	if err != nil {
		return nil, notFound(err)
	}
	return o, nil
}

func (s *Store) ListOrders(ctx context.Context, sellerID, customerID int64) ([]core.Order, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE seller_id = ? AND (? = 0 OR customer_id = ?)
		 ORDER BY created_at DESC, id DESC`, sellerID, customerID, customerID)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	var orders []core.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (s *Store) UpdateOrder(ctx context.Context, o *core.Order) error {
	return s.execOne(ctx, `
		UPDATE orders SET status = ?, sale_id = ?, tracking_number = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND seller_id = ?`,
		o.Status, nullID(o.SaleID), o.TrackingNumber, o.ID, o.SellerID)
}
