package core

import "context"

// InventoryStore persists stock items. Every method is scoped to one seller;
// rows of other sellers are reported as ErrNotFound.
type InventoryStore interface {
	CreateStockItem(ctx context.Context, item *StockItem) error
	GetStockItem(ctx context.Context, sellerID, itemID int64) (*StockItem, error)
	// LockStockItem reads the item and, where the backend supports it, holds a row lock
	// until the surrounding transaction ends.
	LockStockItem(ctx context.Context, sellerID, itemID int64) (*StockItem, error)
	ListStockItems(ctx context.Context, sellerID int64, includeArchived bool) ([]StockItem, error)
	ListListedItems(ctx context.Context, sellerID int64) ([]StockItem, error)
	// UpdateStockItem writes descriptive and pricing fields only.
	UpdateStockItem(ctx context.Context, item *StockItem) error
	// UpdateStockCounters writes next only if the stored counters still equal prev;
	// otherwise it returns ErrCounterConflict.
	UpdateStockCounters(ctx context.Context, sellerID, itemID int64, prev, next Counters) error
	ArchiveStockItem(ctx context.Context, sellerID, itemID int64) error
	DeleteStockItem(ctx context.Context, sellerID, itemID int64) error
	CountSalesForItem(ctx context.Context, sellerID, itemID int64) (int, error)
	// ListDrift returns items whose counters are unbalanced or, for active items,
	// disagree with their sales. sellerID 0 scans every seller.
	ListDrift(ctx context.Context, sellerID int64) ([]DriftReport, error)
}

// SaleStore persists sale records.
type SaleStore interface {
	InsertSale(ctx context.Context, sale *SaleRecord) error
	GetSale(ctx context.Context, sellerID, saleID int64) (*SaleRecord, error)
	ListSales(ctx context.Context, sellerID int64, filter SaleFilter) ([]SaleRecord, error)
	UpdateSale(ctx context.Context, sale *SaleRecord) error
	DeleteSale(ctx context.Context, sellerID, saleID int64) error
}

// SellerStore persists seller accounts.
type SellerStore interface {
	CreateSeller(ctx context.Context, seller *Seller) error
	GetSellerByID(ctx context.Context, id int64) (*Seller, error)
	GetSellerByEmail(ctx context.Context, email string) (*Seller, error)
	GetSellerBySlug(ctx context.Context, slug string) (*Seller, error)
	ListSellers(ctx context.Context) ([]Seller, error)
	SetStorefrontEnabled(ctx context.Context, sellerID int64, enabled bool) error
}

// StorefrontStore persists storefront customers and orders.
type StorefrontStore interface {
	CreateCustomer(ctx context.Context, c *Customer) error
	GetCustomer(ctx context.Context, sellerID, customerID int64) (*Customer, error)
	GetCustomerByEmail(ctx context.Context, sellerID int64, email string) (*Customer, error)
	SetCustomerPassword(ctx context.Context, sellerID, customerID int64, name, passwordHash string) error
	CreateOrder(ctx context.Context, o *Order) error
	GetOrder(ctx context.Context, sellerID, orderID int64) (*Order, error)
	// ListOrders returns a seller's orders; customerID 0 returns all of them.
	ListOrders(ctx context.Context, sellerID, customerID int64) ([]Order, error)
	UpdateOrder(ctx context.Context, o *Order) error
}

// Store is the full persistence surface used by the services.
type Store interface {
	InventoryStore
	SaleStore
	SellerStore
	StorefrontStore

	// WithinTx runs fn inside one transaction. fn receives a Store bound to that
	// transaction; returning an error rolls everything back.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
