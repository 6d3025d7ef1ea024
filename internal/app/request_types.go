package app

import (
	"github.com/shopspring/decimal"

	"resale-ledger/internal/core"
)

// RegisterSellerRequest is the input for creating a seller account.
type RegisterSellerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	StoreName string `json:"store_name"`
	StoreSlug string `json:"store_slug"`
}

// CreateItemRequest is the input for a new stock item.
type CreateItemRequest struct {
	Title             string          `json:"title"`
	SKU               string          `json:"sku"`
	Description       string          `json:"description"`
	PurchasePrice     decimal.Decimal `json:"purchase_price"`
	QuantityPurchased int             `json:"quantity_purchased"`
	Listed            bool            `json:"listed"`
	ListPrice         decimal.Decimal `json:"list_price"`
}

// UpdateItemRequest changes item fields; nil fields are left alone.
type UpdateItemRequest struct {
	Title         *string          `json:"title"`
	SKU           *string          `json:"sku"`
	Description   *string          `json:"description"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	Listed        *bool            `json:"listed"`
	ListPrice     *decimal.Decimal `json:"list_price"`
}

// SaleRequest is the input for recording a sale. Fees default to zero and
// SaleDate to today.
type SaleRequest struct {
	ItemID       int64           `json:"item_id"`
	Platform     core.Platform   `json:"platform"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	QuantitySold int             `json:"quantity_sold"`
	SaleDate     string          `json:"sale_date"`
	PlatformFees decimal.Decimal `json:"platform_fees"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	OtherFees    decimal.Decimal `json:"other_fees"`
	Notes        string          `json:"notes"`
}

// UpdateSaleRequest carries the sale id and the fields to change.
type UpdateSaleRequest struct {
	ID           int64            `json:"id"`
	ItemID       *int64           `json:"item_id"`
	Platform     *core.Platform   `json:"platform"`
	SalePrice    *decimal.Decimal `json:"sale_price"`
	QuantitySold *int             `json:"quantity_sold"`
	SaleDate     *string          `json:"sale_date"`
	PlatformFees *decimal.Decimal `json:"platform_fees"`
	ShippingCost *decimal.Decimal `json:"shipping_cost"`
	OtherFees    *decimal.Decimal `json:"other_fees"`
	Notes        *string          `json:"notes"`
}

// RegisterCustomerRequest is a storefront sign-up.
type RegisterCustomerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// PlaceOrderRequest is a storefront checkout.
type PlaceOrderRequest struct {
	ItemID   int64  `json:"item_id"`
	Quantity int    `json:"quantity"`
	Email    string `json:"email"`
	Name     string `json:"name"`
}
