package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// StorefrontService runs a seller's public shop: listed items, customer accounts,
// and single-item orders. Fulfilling an order records a storefront sale through
// SaleService in the same transaction as the order transition.
type StorefrontService interface {
	// OpenStore returns the seller behind slug, or ErrNotFound when the store is
	// unknown or its storefront is disabled.
	OpenStore(ctx context.Context, slug string) (*Seller, error)
	ListItems(ctx context.Context, sellerID int64) ([]StockItem, error)

	RegisterCustomer(ctx context.Context, sellerID int64, in RegisterCustomerInput) (*Customer, error)
	AuthenticateCustomer(ctx context.Context, sellerID int64, email, password string) (*Customer, error)
	GetCustomer(ctx context.Context, sellerID, customerID int64) (*Customer, error)

	// PlaceOrder creates a pending order. customerID 0 places it as a guest keyed by
	// the order email.
	PlaceOrder(ctx context.Context, sellerID, customerID int64, in PlaceOrderInput) (*PlacedOrder, error)
	// TrackOrder returns the order when email matches the one it was placed with.
	TrackOrder(ctx context.Context, sellerID, orderID int64, email string) (*Order, error)
	GetOrder(ctx context.Context, sellerID, orderID int64) (*Order, error)
	ListCustomerOrders(ctx context.Context, sellerID, customerID int64) ([]Order, error)

	// Seller operations.
	ListOrders(ctx context.Context, sellerID int64) ([]Order, error)
	FulfilOrder(ctx context.Context, sellerID, orderID int64) (*Order, *SaleResult, error)
	ShipOrder(ctx context.Context, sellerID, orderID int64, trackingNumber string) (*Order, error)
	CancelOrder(ctx context.Context, sellerID, orderID int64) (*Order, error)
}

type storefrontService struct {
	store Store
	sales SaleService
	cost  int
	now   func() time.Time
}

// NewStorefrontService constructs a StorefrontService. cost is the bcrypt work
// factor for customer passwords; zero selects bcrypt.DefaultCost.
func NewStorefrontService(store Store, sales SaleService, cost int) StorefrontService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &storefrontService{store: store, sales: sales, cost: cost, now: time.Now}
}

// ── Catalogue and customers ───────────────────────────────────────────────────

func (s *storefrontService) OpenStore(ctx context.Context, slug string) (*Seller, error) {
	seller, err := s.store.GetSellerBySlug(ctx, strings.ToLower(slug))
	if err != nil {
		return nil, fmt.Errorf("store %q: %w", slug, err)
	}
	if !seller.StorefrontEnabled {
		return nil, fmt.Errorf("store %q is closed: %w", slug, ErrNotFound)
	}
	return seller, nil
}

func (s *storefrontService) ListItems(ctx context.Context, sellerID int64) ([]StockItem, error) {
	items, err := s.store.ListListedItems(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list storefront items: %w", err)
	}
	return items, nil
}

func (s *storefrontService) RegisterCustomer(ctx context.Context, sellerID int64, in RegisterCustomerInput) (*Customer, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var customer *Customer
	err = s.store.WithinTx(ctx, func(tx Store) error {
		existing, err := tx.GetCustomerByEmail(ctx, sellerID, in.Email)
		switch {
		case errors.Is(err, ErrNotFound):
			customer = &Customer{SellerID: sellerID, Email: in.Email, Name: in.Name, PasswordHash: string(hash)}
			if err := tx.CreateCustomer(ctx, customer); err != nil {
				return fmt.Errorf("failed to create customer: %w", err)
			}
			return nil
		case err != nil:
			return fmt.Errorf("failed to load customer: %w", err)
		case !existing.IsGuest():
			return fmt.Errorf("customer %q: %w", in.Email, ErrAlreadyExists)
		}

		// A guest who checked out before keeps their orders when registering.
		name := in.Name
		if name == "" {
			name = existing.Name
		}
		if err := tx.SetCustomerPassword(ctx, sellerID, existing.ID, name, string(hash)); err != nil {
			return fmt.Errorf("failed to register guest customer %d: %w", existing.ID, err)
		}
		existing.Name = name
		existing.PasswordHash = string(hash)
		customer = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *storefrontService) AuthenticateCustomer(ctx context.Context, sellerID int64, email, password string) (*Customer, error) {
	c, err := s.store.GetCustomerByEmail(ctx, sellerID, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}
	if c.IsGuest() {
		return nil, ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)); err != nil {
		return nil, ErrUnauthorized
	}
	return c, nil
}

func (s *storefrontService) GetCustomer(ctx context.Context, sellerID, customerID int64) (*Customer, error) {
	c, err := s.store.GetCustomer(ctx, sellerID, customerID)
	if err != nil {
		return nil, fmt.Errorf("customer %d: %w", customerID, err)
	}
	return c, nil
}

// ── Orders ────────────────────────────────────────────────────────────────────

func (s *storefrontService) PlaceOrder(ctx context.Context, sellerID, customerID int64, in PlaceOrderInput) (*PlacedOrder, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var placed *PlacedOrder
	err := s.store.WithinTx(ctx, func(tx Store) error {
		item, err := loadActiveItem(ctx, tx, sellerID, in.ItemID)
		if err != nil {
			return err
		}
		if !item.Listed {
			return fmt.Errorf("item %d is not listed: %w", in.ItemID, ErrNotFound)
		}
		// Stock is checked here and reserved only when the seller fulfils the order.
		if in.Quantity > item.QuantityOnHand {
			return &InsufficientStockError{Requested: in.Quantity, OnHand: item.QuantityOnHand}
		}

		customer, err := s.orderCustomer(ctx, tx, sellerID, customerID, in)
		if err != nil {
			return err
		}

		qty := decimal.NewFromInt(int64(in.Quantity))
		order := &Order{
			SellerID:   sellerID,
			CustomerID: customer.ID,
			ItemID:     item.ID,
			ItemTitle:  item.Title,
			Quantity:   in.Quantity,
			UnitPrice:  item.ListPrice,
			Total:      item.ListPrice.Mul(qty),
			Email:      in.Email,
			Status:     OrderPending,
		}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		placed = &PlacedOrder{Order: order, Customer: customer}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}

// orderCustomer returns the signed-in customer, or finds or creates a guest row for
// the order email.
func (s *storefrontService) orderCustomer(ctx context.Context, tx Store, sellerID, customerID int64, in PlaceOrderInput) (*Customer, error) {
	if customerID > 0 {
		c, err := tx.GetCustomer(ctx, sellerID, customerID)
		if err != nil {
			return nil, fmt.Errorf("customer %d: %w", customerID, err)
		}
		return c, nil
	}

	c, err := tx.GetCustomerByEmail(ctx, sellerID, in.Email)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}
	c = &Customer{SellerID: sellerID, Email: in.Email, Name: in.Name}
	if err := tx.CreateCustomer(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create guest customer: %w", err)
	}
	return c, nil
}

func (s *storefrontService) TrackOrder(ctx context.Context, sellerID, orderID int64, email string) (*Order, error) {
	o, err := s.GetOrder(ctx, sellerID, orderID)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(o.Email, strings.TrimSpace(email)) {
		return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
	}
	return o, nil
}

func (s *storefrontService) GetOrder(ctx context.Context, sellerID, orderID int64) (*Order, error) {
	o, err := s.store.GetOrder(ctx, sellerID, orderID)
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", orderID, err)
	}
	return o, nil
}

func (s *storefrontService) ListCustomerOrders(ctx context.Context, sellerID, customerID int64) ([]Order, error) {
	if customerID <= 0 {
		return nil, ErrUnauthorized
	}
	orders, err := s.store.ListOrders(ctx, sellerID, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for customer %d: %w", customerID, err)
	}
	return orders, nil
}

func (s *storefrontService) ListOrders(ctx context.Context, sellerID int64) ([]Order, error) {
	orders, err := s.store.ListOrders(ctx, sellerID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// FulfilOrder marks a pending order paid and records its storefront sale. The order
// transition and the sale commit together.
func (s *storefrontService) FulfilOrder(ctx context.Context, sellerID, orderID int64) (*Order, *SaleResult, error) {
	var (
		order *Order
		sale  *SaleResult
	)
	err := retryOnConflict("create", func() error {
		return s.store.WithinTx(ctx, func(tx Store) error {
			o, err := tx.GetOrder(ctx, sellerID, orderID)
			if err != nil {
				return fmt.Errorf("order %d: %w", orderID, err)
			}
			if o.Status != OrderPending {
				return invalid("status", "order %d is %s, only pending orders can be fulfilled", orderID, o.Status)
			}

			r, err := s.sales.CreateSaleTx(ctx, tx, sellerID, SaleInput{
				ItemID:       o.ItemID,
				OrderID:      o.ID,
				Platform:     PlatformStorefront,
				SalePrice:    o.UnitPrice,
				QuantitySold: o.Quantity,
				SaleDate:     s.now().Format(dateLayout),
				Notes:        fmt.Sprintf("storefront order #%d", o.ID),
			})
			if err != nil {
				return err
			}

			o.Status = OrderPaid
			o.SaleID = r.Sale.ID
			if err := tx.UpdateOrder(ctx, o); err != nil {
				return fmt.Errorf("failed to update order %d: %w", orderID, err)
			}
			order, sale = o, r
			return nil
		})
	})
	if err != nil {
		return nil, nil, commitFailure("create", sale != nil, err)
	}
	return order, sale, nil
}

func (s *storefrontService) ShipOrder(ctx context.Context, sellerID, orderID int64, trackingNumber string) (*Order, error) {
	return s.transition(ctx, sellerID, orderID, OrderPaid, func(o *Order) {
		o.Status = OrderShipped
		o.TrackingNumber = strings.TrimSpace(trackingNumber)
	})
}

func (s *storefrontService) CancelOrder(ctx context.Context, sellerID, orderID int64) (*Order, error) {
	return s.transition(ctx, sellerID, orderID, OrderPending, func(o *Order) {
		o.Status = OrderCancelled
	})
}

// transition applies change to an order currently in status from.
func (s *storefrontService) transition(ctx context.Context, sellerID, orderID int64, from OrderStatus, change func(*Order)) (*Order, error) {
	var order *Order
	err := s.store.WithinTx(ctx, func(tx Store) error {
		o, err := tx.GetOrder(ctx, sellerID, orderID)
		if err != nil {
			return fmt.Errorf("order %d: %w", orderID, err)
		}
		if o.Status != from {
			return invalid("status", "order %d is %s, expected %s", orderID, o.Status, from)
		}
		change(o)
		if err := tx.UpdateOrder(ctx, o); err != nil {
			return fmt.Errorf("failed to update order %d: %w", orderID, err)
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}
