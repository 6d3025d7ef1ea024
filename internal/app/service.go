package app

import (
	"context"

	"resale-ledger/internal/core"
	"resale-ledger/internal/session"
)

// ApplicationService is the single interface all UI adapters (REPL, CLI, Web) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
// Every seller-side method is scoped to sellerID.
type ApplicationService interface {
	// ── Sellers ──

	RegisterSeller(ctx context.Context, req RegisterSellerRequest) (*core.Seller, error)
	// AuthenticateSeller verifies credentials and returns the seller, or core.ErrUnauthorized.
	AuthenticateSeller(ctx context.Context, email, password string) (*core.Seller, error)
	GetSeller(ctx context.Context, sellerID int64) (*core.Seller, error)
	// LoadDefaultSeller loads the seller the CLI acts as. Uses SELLER_SLUG if set;
	// otherwise expects exactly one seller in the database.
	LoadDefaultSeller(ctx context.Context) (*core.Seller, error)
	SetStorefrontEnabled(ctx context.Context, sellerID int64, enabled bool) (*core.Seller, error)

	// ── Inventory ──

	CreateItem(ctx context.Context, sellerID int64, req CreateItemRequest) (*core.StockItem, error)
	GetItem(ctx context.Context, sellerID, itemID int64) (*core.StockItem, error)
	ListItems(ctx context.Context, sellerID int64, includeArchived bool) (*ItemListResult, error)
	UpdateItem(ctx context.Context, sellerID, itemID int64, req UpdateItemRequest) (*core.StockItem, error)
	// DeleteItem archives items with sale history and removes the rest.
	DeleteItem(ctx context.Context, sellerID, itemID int64) (*core.DeleteItemResult, error)
	// CheckDrift reports unbalanced items. sellerID 0 checks every seller.
	CheckDrift(ctx context.Context, sellerID int64) (*DriftResult, error)

	// ── Sales ──

	GetSale(ctx context.Context, sellerID, saleID int64) (*core.SaleResult, error)
	ListSales(ctx context.Context, sellerID int64, filter core.SaleFilter) (*SaleListResult, error)
	CreateSale(ctx context.Context, sellerID int64, req SaleRequest) (*core.SaleResult, error)
	// UpdateSale applies the non-nil fields of req to sale req.ID.
	UpdateSale(ctx context.Context, sellerID int64, req UpdateSaleRequest) (*core.SaleResult, error)
	DeleteSale(ctx context.Context, sellerID, saleID int64) (*core.DeleteSaleResult, error)

	// GetProfitReport totals sales between from and to (inclusive, YYYY-MM-DD, optional).
	GetProfitReport(ctx context.Context, sellerID int64, from, to string) (*core.ProfitReport, error)

	// ProposeSale asks the intake assistant to read text as a sale. The proposal is
	// validated but never recorded.
	ProposeSale(ctx context.Context, sellerID int64, text string) (*IntakeResult, error)

	// ── Storefront ──

	// OpenStore returns the seller behind a public store slug.
	OpenStore(ctx context.Context, slug string) (*core.Seller, error)
	ListStoreItems(ctx context.Context, sellerID int64) (*StoreItemListResult, error)
	RegisterCustomer(ctx context.Context, sellerID int64, req RegisterCustomerRequest) (*core.Customer, error)
	AuthenticateCustomer(ctx context.Context, sellerID int64, email, password string) (*core.Customer, error)
	// PlaceOrder creates a pending order. customerID 0 checks out as a guest.
	PlaceOrder(ctx context.Context, sellerID, customerID int64, req PlaceOrderRequest) (*core.PlacedOrder, error)
	TrackOrder(ctx context.Context, sellerID, orderID int64, email string) (*core.Order, error)
	ListCustomerOrders(ctx context.Context, sellerID, customerID int64) (*OrderListResult, error)
	// SessionLookups returns the storage lookups the session resolver needs for one store.
	SessionLookups(sellerID int64) session.Lookups

	ListOrders(ctx context.Context, sellerID int64) (*OrderListResult, error)
	FulfilOrder(ctx context.Context, sellerID, orderID int64) (*FulfilResult, error)
	ShipOrder(ctx context.Context, sellerID, orderID int64, trackingNumber string) (*core.Order, error)
	CancelOrder(ctx context.Context, sellerID, orderID int64) (*core.Order, error)
}
