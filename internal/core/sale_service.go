package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// maxCounterAttempts bounds the re-read/recompute loop when a counter
// compare-and-set loses to a concurrent writer.
const maxCounterAttempts = 3

// SaleService is the only writer of sale records and the only caller of the
// inventory ledger. Every mutation writes the sale and the item counters in one
// transaction.
type SaleService interface {
	GetSale(ctx context.Context, sellerID, saleID int64) (*SaleResult, error)
	ListSales(ctx context.Context, sellerID int64, filter SaleFilter) ([]SaleRecord, error)

	// CreateSale validates the input, reserves stock, and records the sale with
	// profit computed from the item's purchase price at this moment.
	CreateSale(ctx context.Context, sellerID int64, in SaleInput) (*SaleResult, error)
	// UpdateSale applies patch to an existing sale, re-checks stock headroom, and
	// recomputes profit from the new values and the item's current purchase price.
	UpdateSale(ctx context.Context, sellerID, saleID int64, patch SalePatch) (*SaleResult, error)
	// DeleteSale removes a sale and returns its units to stock when the item is still
	// active. A removed or archived item never blocks the delete.
	DeleteSale(ctx context.Context, sellerID, saleID int64) (*DeleteSaleResult, error)

	// CreateSaleTx records a sale within the caller's transaction. A lost counter
	// compare-and-set is returned as ErrCounterConflict for the caller to retry.
	CreateSaleTx(ctx context.Context, tx Store, sellerID int64, in SaleInput) (*SaleResult, error)
}

// SalePatch holds the fields of a sale update. Nil fields keep their stored value.
type SalePatch struct {
	ItemID       *int64
	Platform     *Platform
	SalePrice    *decimal.Decimal
	QuantitySold *int
	SaleDate     *string
	PlatformFees *decimal.Decimal
	ShippingCost *decimal.Decimal
	OtherFees    *decimal.Decimal
	Notes        *string
}

// Merge overlays the patch on an existing sale and returns the full input.
func (p SalePatch) Merge(existing *SaleRecord) SaleInput {
	in := SaleInput{
		ID:           existing.ID,
		ItemID:       existing.ItemID,
		OrderID:      existing.OrderID,
		Platform:     existing.Platform,
		SalePrice:    existing.SalePrice,
		QuantitySold: existing.QuantitySold,
		SaleDate:     existing.SaleDate,
		Fees:         existing.Fees,
		Notes:        existing.Notes,
	}
	if p.ItemID != nil {
		in.ItemID = *p.ItemID
	}
	if p.Platform != nil {
		in.Platform = *p.Platform
	}
	if p.SalePrice != nil {
		in.SalePrice = *p.SalePrice
	}
	if p.QuantitySold != nil {
		in.QuantitySold = *p.QuantitySold
	}
	if p.SaleDate != nil {
		in.SaleDate = *p.SaleDate
	}
	if p.PlatformFees != nil {
		in.Fees.PlatformFees = *p.PlatformFees
	}
	if p.ShippingCost != nil {
		in.Fees.ShippingCost = *p.ShippingCost
	}
	if p.OtherFees != nil {
		in.Fees.OtherFees = *p.OtherFees
	}
	if p.Notes != nil {
		in.Notes = *p.Notes
	}
	return in
}

type saleService struct {
	store Store
}

// NewSaleService constructs a SaleService over store.
func NewSaleService(store Store) SaleService {
	return &saleService{store: store}
}

func (s *saleService) GetSale(ctx context.Context, sellerID, saleID int64) (*SaleResult, error) {
	sale, err := s.store.GetSale(ctx, sellerID, saleID)
	if err != nil {
		return nil, fmt.Errorf("sale %d: %w", saleID, err)
	}
	result := &SaleResult{Sale: sale}
	if sale.ItemID != 0 {
		item, err := s.store.GetStockItem(ctx, sellerID, sale.ItemID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("failed to load item for sale %d: %w", saleID, err)
		}
		result.Item = item.Summary()
	}
	return result, nil
}

func (s *saleService) ListSales(ctx context.Context, sellerID int64, filter SaleFilter) ([]SaleRecord, error) {
	sales, err := s.store.ListSales(ctx, sellerID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return sales, nil
}

func (s *saleService) CreateSale(ctx context.Context, sellerID int64, in SaleInput) (*SaleResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var result *SaleResult
	err := retryOnConflict("create", func() error {
		return s.store.WithinTx(ctx, func(tx Store) error {
			r, err := s.CreateSaleTx(ctx, tx, sellerID, in)
			if err != nil {
				return err
			}
			result = r
			return nil
		})
	})
	if err != nil {
		return nil, commitFailure("create", result != nil, err)
	}
	return result, nil
}

func (s *saleService) CreateSaleTx(ctx context.Context, tx Store, sellerID int64, in SaleInput) (*SaleResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	item, err := loadActiveItem(ctx, tx, sellerID, in.ItemID)
	if err != nil {
		return nil, err
	}

	next, err := ReserveForSale(item, in.QuantitySold)
	if err != nil {
		return nil, err
	}

	sale := &SaleRecord{
		SellerID:      sellerID,
		ItemID:        item.ID,
		OrderID:       in.OrderID,
		Platform:      in.Platform,
		SalePrice:     in.SalePrice,
		QuantitySold:  in.QuantitySold,
		SaleDate:      in.SaleDate,
		PurchasePrice: item.PurchasePrice,
		Fees:          in.Fees,
		Notes:         in.Notes,
	}
	sale.recompute()

	if err := tx.InsertSale(ctx, sale); err != nil {
		return nil, &PersistenceError{Op: "create", Stage: StageSale, Err: err}
	}
	if err := writeCounters(ctx, tx, "create", item, next); err != nil {
		return nil, err
	}
	return &SaleResult{Sale: sale, Item: item.Summary()}, nil
}

func (s *saleService) UpdateSale(ctx context.Context, sellerID, saleID int64, patch SalePatch) (*SaleResult, error) {
	if saleID <= 0 {
		return nil, invalid("id", "is required")
	}

	var result *SaleResult
	err := retryOnConflict("update", func() error {
		return s.store.WithinTx(ctx, func(tx Store) error {
			existing, err := tx.GetSale(ctx, sellerID, saleID)
			if err != nil {
				return fmt.Errorf("sale %d: %w", saleID, err)
			}

			if existing.ItemID == 0 {
				return fmt.Errorf("item for sale %d was removed: %w", saleID, ErrNotFound)
			}
			in := patch.Merge(existing)
			if err := in.Validate(); err != nil {
				return err
			}
			if in.ItemID != existing.ItemID {
				return invalid("item_id", "a sale cannot be moved to another item")
			}

			item, err := loadActiveItem(ctx, tx, sellerID, existing.ItemID)
			if err != nil {
				return err
			}

			next, err := ReviseSale(item, existing.QuantitySold, in.QuantitySold)
			if err != nil {
				return err
			}

			updated := *existing
			updated.Platform = in.Platform
			updated.SalePrice = in.SalePrice
			updated.QuantitySold = in.QuantitySold
			updated.SaleDate = in.SaleDate
			updated.Fees = in.Fees
			updated.Notes = in.Notes
			updated.PurchasePrice = item.PurchasePrice
			updated.recompute()

			if err := tx.UpdateSale(ctx, &updated); err != nil {
				return &PersistenceError{Op: "update", Stage: StageSale, Err: err}
			}
			if next != item.Counters() {
				if err := writeCounters(ctx, tx, "update", item, next); err != nil {
					return err
				}
			}
			result = &SaleResult{Sale: &updated, Item: item.Summary()}
			return nil
		})
	})
	if err != nil {
		return nil, commitFailure("update", result != nil, err)
	}
	return result, nil
}

func (s *saleService) DeleteSale(ctx context.Context, sellerID, saleID int64) (*DeleteSaleResult, error) {
	if saleID <= 0 {
		return nil, invalid("id", "is required")
	}

	var result *DeleteSaleResult
	err := retryOnConflict("delete", func() error {
		return s.store.WithinTx(ctx, func(tx Store) error {
			sale, err := tx.GetSale(ctx, sellerID, saleID)
			if err != nil {
				return fmt.Errorf("sale %d: %w", saleID, err)
			}

			r := &DeleteSaleResult{SaleID: sale.ID}

			var item *StockItem
			if sale.ItemID != 0 {
				item, err = tx.LockStockItem(ctx, sellerID, sale.ItemID)
				if err != nil && !errors.Is(err, ErrNotFound) {
					return fmt.Errorf("failed to load item %d: %w", sale.ItemID, err)
				}
			}

			switch item.State() {
			case ItemDeleted:
				r.ItemRemoved = true
			case ItemActive:
				next := ReleaseFromSale(item, sale.QuantitySold)
				if err := writeCounters(ctx, tx, "delete", item, next); err != nil {
					return err
				}
				r.InventoryRestored = true
			}

			if err := tx.DeleteSale(ctx, sellerID, sale.ID); err != nil {
				return &PersistenceError{Op: "delete", Stage: StageSale, Err: err}
			}
			result = r
			return nil
		})
	})
	if err != nil {
		return nil, commitFailure("delete", result != nil, err)
	}
	return result, nil
}

// loadActiveItem locks the item and rejects archived ones.
func loadActiveItem(ctx context.Context, tx Store, sellerID, itemID int64) (*StockItem, error) {
	item, err := tx.LockStockItem(ctx, sellerID, itemID)
	if err != nil {
		return nil, fmt.Errorf("item %d: %w", itemID, err)
	}
	if item.Archived {
		return nil, invalid("item_id", "item %d is archived", itemID)
	}
	return item, nil
}

// writeCounters persists next with a compare-and-set against the item's read counters
// and updates item on success.
func writeCounters(ctx context.Context, tx Store, op string, item *StockItem, next Counters) error {
	if err := tx.UpdateStockCounters(ctx, item.SellerID, item.ID, item.Counters(), next); err != nil {
		if errors.Is(err, ErrCounterConflict) {
			return err
		}
		return &PersistenceError{Op: op, Stage: StageInventory, Err: err}
	}
	item.Apply(next)
	return nil
}

// retryOnConflict reruns fn while it loses counter compare-and-sets.
func retryOnConflict(op string, fn func() error) error {
	var err error
	for attempt := 0; attempt < maxCounterAttempts; attempt++ {
		err = fn()
		if !errors.Is(err, ErrCounterConflict) {
			return err
		}
	}
	return &PersistenceError{Op: op, Stage: StageInventory, Err: err}
}

// commitFailure classifies an error returned after the transaction body finished
// as a commit failure; everything else passes through.
func commitFailure(op string, bodyDone bool, err error) error {
	var pe *PersistenceError
	if !bodyDone || errors.As(err, &pe) || IsDomainError(err) {
		return err
	}
	return &PersistenceError{Op: op, Stage: StageCommit, Err: err}
}
