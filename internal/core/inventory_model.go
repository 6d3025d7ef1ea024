package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemState is the lifecycle state of a stock item.
//
//	active → archived   (delete with sale history)
//	active → deleted    (delete without sale history; the row is gone)
type ItemState string

const (
	ItemActive   ItemState = "active"
	ItemArchived ItemState = "archived"
	ItemDeleted  ItemState = "deleted"
)

// StockItem is a batch of purchased inventory owned by one seller.
// QuantityOnHand + QuantitySold == QuantityPurchased after every sale mutation.
type StockItem struct {
	ID                int64           `json:"id"`
	SellerID          int64           `json:"seller_id"`
	Title             string          `json:"title"`
	SKU               string          `json:"sku,omitempty"`
	Description       string          `json:"description,omitempty"`
	PurchasePrice     decimal.Decimal `json:"purchase_price"` // per unit
	QuantityPurchased int             `json:"quantity_purchased"`
	QuantityOnHand    int             `json:"quantity_on_hand"`
	QuantitySold      int             `json:"quantity_sold"`
	Archived          bool            `json:"archived"`
	Listed            bool            `json:"listed"` // visible on the storefront
	ListPrice         decimal.Decimal `json:"list_price"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// Counters is the mutable stock pair of an item.
type Counters struct {
	OnHand int `json:"quantity_on_hand"`
	Sold   int `json:"quantity_sold"`
}

// Counters returns the item's current counter pair.
func (i *StockItem) Counters() Counters {
	return Counters{OnHand: i.QuantityOnHand, Sold: i.QuantitySold}
}

// Apply sets the item's counters.
func (i *StockItem) Apply(c Counters) {
	i.QuantityOnHand = c.OnHand
	i.QuantitySold = c.Sold
}

// State reports the item's lifecycle state. A nil item has been deleted.
func (i *StockItem) State() ItemState {
	switch {
	case i == nil:
		return ItemDeleted
	case i.Archived:
		return ItemArchived
	default:
		return ItemActive
	}
}

// Balanced reports whether the counters satisfy the purchase invariant.
func (i *StockItem) Balanced() bool {
	return i.QuantityOnHand+i.QuantitySold == i.QuantityPurchased
}

// ItemSummary is the compact item view embedded in sale responses.
type ItemSummary struct {
	ID             int64           `json:"id"`
	Title          string          `json:"title"`
	SKU            string          `json:"sku,omitempty"`
	PurchasePrice  decimal.Decimal `json:"purchase_price"`
	QuantityOnHand int             `json:"quantity_on_hand"`
	QuantitySold   int             `json:"quantity_sold"`
	Archived       bool            `json:"archived"`
}

// Summary returns the compact view of the item.
func (i *StockItem) Summary() *ItemSummary {
	if i == nil {
		return nil
	}
	return &ItemSummary{
		ID:             i.ID,
		Title:          i.Title,
		SKU:            i.SKU,
		PurchasePrice:  i.PurchasePrice,
		QuantityOnHand: i.QuantityOnHand,
		QuantitySold:   i.QuantitySold,
		Archived:       i.Archived,
	}
}

// DriftReport describes an item whose counters disagree with the invariant or with
// the sales recorded against it. Archived items are only checked against the
// invariant: deleting one of their sales leaves the frozen counters untouched.
type DriftReport struct {
	SellerID          int64  `json:"seller_id"`
	ItemID            int64  `json:"item_id"`
	Title             string `json:"title"`
	QuantityPurchased int    `json:"quantity_purchased"`
	QuantityOnHand    int    `json:"quantity_on_hand"`
	QuantitySold      int    `json:"quantity_sold"`
	SoldPerSales      int    `json:"sold_per_sales"` // SUM(quantity_sold) over the item's sales
}

// CounterDrift is purchased − (on_hand + sold); zero for a balanced item.
func (d DriftReport) CounterDrift() int {
	return d.QuantityPurchased - (d.QuantityOnHand + d.QuantitySold)
}

// CreateItemInput is the validated input for a new stock item.
type CreateItemInput struct {
	Title             string
	SKU               string
	Description       string
	PurchasePrice     decimal.Decimal
	QuantityPurchased int
	Listed            bool
	ListPrice         decimal.Decimal
}

// Validate checks the input before any write.
func (in CreateItemInput) Validate() error {
	if in.Title == "" {
		return invalid("title", "is required")
	}
	if in.PurchasePrice.IsNegative() {
		return invalid("purchase_price", "cannot be negative, got %s", in.PurchasePrice)
	}
	if in.QuantityPurchased <= 0 {
		return invalid("quantity_purchased", "must be positive, got %d", in.QuantityPurchased)
	}
	if in.ListPrice.IsNegative() {
		return invalid("list_price", "cannot be negative, got %s", in.ListPrice)
	}
	return nil
}

// UpdateItemInput changes descriptive and pricing fields. Nil fields are left as is.
// Quantities are never editable here.
type UpdateItemInput struct {
	Title         *string
	SKU           *string
	Description   *string
	PurchasePrice *decimal.Decimal
	Listed        *bool
	ListPrice     *decimal.Decimal
}

// Validate checks the input before any write.
func (in UpdateItemInput) Validate() error {
	if in.Title != nil && *in.Title == "" {
		return invalid("title", "cannot be empty")
	}
	if in.PurchasePrice != nil && in.PurchasePrice.IsNegative() {
		return invalid("purchase_price", "cannot be negative, got %s", *in.PurchasePrice)
	}
	if in.ListPrice != nil && in.ListPrice.IsNegative() {
		return invalid("list_price", "cannot be negative, got %s", *in.ListPrice)
	}
	return nil
}

// DeleteItemResult reports how an item delete was carried out.
type DeleteItemResult struct {
	ItemID int64     `json:"item_id"`
	State  ItemState `json:"state"` // archived or deleted
}
