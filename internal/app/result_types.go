package app

import (
	"resale-ledger/internal/ai"
	"resale-ledger/internal/core"
)

// ItemListResult is returned by ListItems.
type ItemListResult struct {
	Items []core.StockItem `json:"items"`
}

// StoreItemListResult is the public catalogue of a store.
type StoreItemListResult struct {
	Store string          `json:"store"`
	Items []StorefrontItem `json:"items"`
}

// StorefrontItem is the public view of a listed item; costs stay private.
type StorefrontItem struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price"`
	Available   int    `json:"available"`
}

// DriftResult is returned by CheckDrift.
type DriftResult struct {
	Items []core.DriftReport `json:"items"`
}

// SaleListResult is returned by ListSales.
type SaleListResult struct {
	Sales []core.SaleRecord `json:"sales"`
}

// OrderListResult is returned by the order listings.
type OrderListResult struct {
	Orders []core.Order `json:"orders"`
}

// FulfilResult is returned by FulfilOrder.
type FulfilResult struct {
	Order *core.Order      `json:"order"`
	Sale  *core.SaleResult `json:"sale"`
}

// IntakeResult is returned by ProposeSale. Input is nil when the assistant asked
// for clarification or its proposal failed validation; Problem then says why.
type IntakeResult struct {
	Proposal             *ai.SaleProposal `json:"proposal"`
	Input                *SaleRequest     `json:"input,omitempty"`
	ClarificationMessage string           `json:"clarification,omitempty"`
	IsClarification      bool             `json:"is_clarification"`
	Problem              string           `json:"problem,omitempty"`
}
