package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Platform is the marketplace a sale happened on.
type Platform string

const (
	PlatformEbay       Platform = "ebay"
	PlatformMercari    Platform = "mercari"
	PlatformPoshmark   Platform = "poshmark"
	PlatformDepop      Platform = "depop"
	PlatformEtsy       Platform = "etsy"
	PlatformAmazon     Platform = "amazon"
	PlatformFacebook   Platform = "facebook"
	PlatformStorefront Platform = "storefront"
	PlatformOther      Platform = "other"
)

// Platforms lists every accepted platform tag.
var Platforms = []Platform{
	PlatformEbay, PlatformMercari, PlatformPoshmark, PlatformDepop, PlatformEtsy,
	PlatformAmazon, PlatformFacebook, PlatformStorefront, PlatformOther,
}

// Valid reports whether p is a known platform.
func (p Platform) Valid() bool {
	for _, known := range Platforms {
		if p == known {
			return true
		}
	}
	return false
}

// Fees is the per-sale cost breakdown. Absent fees are zero.
type Fees struct {
	PlatformFees decimal.Decimal `json:"platform_fees"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	OtherFees    decimal.Decimal `json:"other_fees"`
}

// Total returns the sum of all fees.
func (f Fees) Total() decimal.Decimal {
	return f.PlatformFees.Add(f.ShippingCost).Add(f.OtherFees)
}

// SaleRecord is one recorded sale of units from a stock item.
// ItemID is zero once the linked item row has been removed.
// PurchasePrice is the item's unit cost captured when the profit was computed.
type SaleRecord struct {
	ID            int64           `json:"id"`
	SellerID      int64           `json:"seller_id"`
	ItemID        int64           `json:"item_id"`
	OrderID       int64           `json:"order_id,omitempty"` // storefront order, if any
	Platform      Platform        `json:"platform"`
	SalePrice     decimal.Decimal `json:"sale_price"` // per unit
	QuantitySold  int             `json:"quantity_sold"`
	SaleDate      string          `json:"sale_date"` // YYYY-MM-DD
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	Fees
	Profit
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Revenue returns sale price × quantity.
func (s *SaleRecord) Revenue() decimal.Decimal {
	return s.SalePrice.Mul(decimal.NewFromInt(int64(s.QuantitySold)))
}

// recompute refreshes the derived profit fields from the stored inputs.
func (s *SaleRecord) recompute() {
	s.Profit = ComputeProfit(s.SalePrice, s.PurchasePrice, s.QuantitySold, s.Fees)
}

// SaleInput carries the mutable fields of a sale. ID is set for updates only.
type SaleInput struct {
	ID           int64
	ItemID       int64
	OrderID      int64
	Platform     Platform
	SalePrice    decimal.Decimal
	QuantitySold int
	SaleDate     string
	Fees         Fees
	Notes        string
}

const dateLayout = "2006-01-02"

// Validate checks the input before any write.
func (in SaleInput) Validate() error {
	if in.ItemID <= 0 {
		return invalid("item_id", "is required")
	}
	if !in.Platform.Valid() {
		return invalid("platform", "unknown platform %q", in.Platform)
	}
	if in.SalePrice.IsNegative() {
		return invalid("sale_price", "cannot be negative, got %s", in.SalePrice)
	}
	if in.QuantitySold <= 0 {
		return invalid("quantity_sold", "must be positive, got %d", in.QuantitySold)
	}
	if in.SaleDate == "" {
		return invalid("sale_date", "is required")
	}
	if _, err := time.Parse(dateLayout, in.SaleDate); err != nil {
		return invalid("sale_date", "must be YYYY-MM-DD, got %q", in.SaleDate)
	}
	fees := []struct {
		field string
		value decimal.Decimal
	}{
		{"platform_fees", in.Fees.PlatformFees},
		{"shipping_cost", in.Fees.ShippingCost},
		{"other_fees", in.Fees.OtherFees},
	}
	for _, f := range fees {
		if f.value.IsNegative() {
			return invalid(f.field, "cannot be negative, got %s", f.value)
		}
	}
	return nil
}

// SaleFilter narrows sale listings. Zero values mean no bound.
type SaleFilter struct {
	ItemID int64
	From   string // YYYY-MM-DD inclusive
	To     string // YYYY-MM-DD inclusive
}

// SaleResult is returned by sale mutations.
type SaleResult struct {
	Sale *SaleRecord  `json:"sale"`
	Item *ItemSummary `json:"item,omitempty"`
}

// DeleteSaleResult reports the outcome of a sale delete.
// ItemRemoved is true when the linked item no longer existed, so only the sale record
// was removed. InventoryRestored is false for removed and archived items.
type DeleteSaleResult struct {
	SaleID            int64 `json:"sale_id"`
	ItemRemoved       bool  `json:"item_removed"`
	InventoryRestored bool  `json:"inventory_restored"`
}
