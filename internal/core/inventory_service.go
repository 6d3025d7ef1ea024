package core

import (
	"context"
	"fmt"
)

// InventoryService manages a seller's stock items. Counter changes caused by sales
// go through SaleService; this service never edits quantities after creation.
type InventoryService interface {
	CreateItem(ctx context.Context, sellerID int64, in CreateItemInput) (*StockItem, error)
	GetItem(ctx context.Context, sellerID, itemID int64) (*StockItem, error)
	ListItems(ctx context.Context, sellerID int64, includeArchived bool) ([]StockItem, error)
	// UpdateItem changes descriptive and pricing fields. Archived items are read-only.
	UpdateItem(ctx context.Context, sellerID, itemID int64, in UpdateItemInput) (*StockItem, error)
	// DeleteItem archives an item that has sales against it and removes it otherwise.
	DeleteItem(ctx context.Context, sellerID, itemID int64) (*DeleteItemResult, error)
	// CheckDrift reports items whose counters are unbalanced or, while active,
	// disagree with their recorded sales. sellerID 0 checks every seller.
	CheckDrift(ctx context.Context, sellerID int64) ([]DriftReport, error)
}

type inventoryService struct {
	store Store
}

// NewInventoryService constructs an InventoryService over store.
func NewInventoryService(store Store) InventoryService {
	return &inventoryService{store: store}
}

func (s *inventoryService) CreateItem(ctx context.Context, sellerID int64, in CreateItemInput) (*StockItem, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	item := &StockItem{
		SellerID:          sellerID,
		Title:             in.Title,
		SKU:               in.SKU,
		Description:       in.Description,
		PurchasePrice:     in.PurchasePrice,
		QuantityPurchased: in.QuantityPurchased,
		QuantityOnHand:    in.QuantityPurchased,
		Listed:            in.Listed,
		ListPrice:         in.ListPrice,
	}
	if err := s.store.CreateStockItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item %q: %w", in.Title, err)
	}
	return item, nil
}

func (s *inventoryService) GetItem(ctx context.Context, sellerID, itemID int64) (*StockItem, error) {
	item, err := s.store.GetStockItem(ctx, sellerID, itemID)
	if err != nil {
		return nil, fmt.Errorf("item %d: %w", itemID, err)
	}
	return item, nil
}

func (s *inventoryService) ListItems(ctx context.Context, sellerID int64, includeArchived bool) ([]StockItem, error) {
	items, err := s.store.ListStockItems(ctx, sellerID, includeArchived)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

func (s *inventoryService) UpdateItem(ctx context.Context, sellerID, itemID int64, in UpdateItemInput) (*StockItem, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var updated *StockItem
	err := s.store.WithinTx(ctx, func(tx Store) error {
		item, err := loadActiveItem(ctx, tx, sellerID, itemID)
		if err != nil {
			return err
		}
		if in.Title != nil {
			item.Title = *in.Title
		}
		if in.SKU != nil {
			item.SKU = *in.SKU
		}
		if in.Description != nil {
			item.Description = *in.Description
		}
		if in.PurchasePrice != nil {
			item.PurchasePrice = *in.PurchasePrice
		}
		if in.Listed != nil {
			item.Listed = *in.Listed
		}
		if in.ListPrice != nil {
			item.ListPrice = *in.ListPrice
		}
		if err := tx.UpdateStockItem(ctx, item); err != nil {
			return fmt.Errorf("failed to update item %d: %w", itemID, err)
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *inventoryService) DeleteItem(ctx context.Context, sellerID, itemID int64) (*DeleteItemResult, error) {
	result := &DeleteItemResult{ItemID: itemID}
	err := s.store.WithinTx(ctx, func(tx Store) error {
		item, err := tx.LockStockItem(ctx, sellerID, itemID)
		if err != nil {
			return fmt.Errorf("item %d: %w", itemID, err)
		}

		// Archived is terminal, even once every sale against the item is gone.
		if item.Archived {
			result.State = ItemArchived
			return nil
		}

		n, err := tx.CountSalesForItem(ctx, sellerID, itemID)
		if err != nil {
			return fmt.Errorf("failed to count sales for item %d: %w", itemID, err)
		}

		// Items with sale history stay readable so their sales keep a valid link.
		if n > 0 {
			result.State = ItemArchived
			if err := tx.ArchiveStockItem(ctx, sellerID, itemID); err != nil {
				return fmt.Errorf("failed to archive item %d: %w", itemID, err)
			}
			return nil
		}

		result.State = ItemDeleted
		if err := tx.DeleteStockItem(ctx, sellerID, itemID); err != nil {
			return fmt.Errorf("failed to delete item %d: %w", itemID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *inventoryService) CheckDrift(ctx context.Context, sellerID int64) ([]DriftReport, error) {
	reports, err := s.store.ListDrift(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check inventory drift: %w", err)
	}
	return reports, nil
}
