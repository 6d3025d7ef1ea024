package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a storefront shopper of one seller. Guests have no password hash.
type Customer struct {
	ID           int64     `json:"id"`
	SellerID     int64     `json:"seller_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsGuest reports whether the customer never registered a password.
func (c *Customer) IsGuest() bool { return c.PasswordHash == "" }

// OrderStatus is the storefront order state.
//
//	pending → paid → shipped
//	pending → cancelled
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderShipped   OrderStatus = "shipped"
	OrderCancelled OrderStatus = "cancelled"
)

// Order is a single-item storefront order.
type Order struct {
	ID             int64           `json:"id"`
	SellerID       int64           `json:"seller_id"`
	CustomerID     int64           `json:"customer_id"`
	ItemID         int64           `json:"item_id"`
	ItemTitle      string          `json:"item_title"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Total          decimal.Decimal `json:"total"`
	Email          string          `json:"email"`
	Status         OrderStatus     `json:"status"`
	SaleID         int64           `json:"sale_id,omitempty"`
	TrackingNumber string          `json:"tracking_number,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// PlaceOrderInput is a storefront order request.
type PlaceOrderInput struct {
	ItemID   int64
	Quantity int
	Email    string
	Name     string
}

// Validate checks the input before any write.
func (in *PlaceOrderInput) Validate() error {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.ItemID <= 0 {
		return invalid("item_id", "is required")
	}
	if in.Quantity <= 0 {
		return invalid("quantity", "must be positive, got %d", in.Quantity)
	}
	if !strings.Contains(in.Email, "@") {
		return invalid("email", "must be a valid email address")
	}
	return nil
}

// RegisterCustomerInput is a storefront sign-up request.
type RegisterCustomerInput struct {
	Email    string
	Password string
	Name     string
}

// Validate checks the input before any write.
func (in *RegisterCustomerInput) Validate() error {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if !strings.Contains(in.Email, "@") {
		return invalid("email", "must be a valid email address")
	}
	if len(in.Password) < 8 {
		return invalid("password", "must be at least 8 characters")
	}
	return nil
}

// PlacedOrder is returned when a storefront order is created.
type PlacedOrder struct {
	Order    *Order    `json:"order"`
	Customer *Customer `json:"customer"`
}
