package core

// The inventory ledger functions compute new counters for a stock item without
// touching storage. Callers persist the result with a compare-and-set against the
// counters they read.

// ReserveForSale takes quantity units off hand for a new sale.
func ReserveForSale(item *StockItem, quantity int) (Counters, error) {
	if quantity <= 0 {
		return Counters{}, invalid("quantity_sold", "must be positive, got %d", quantity)
	}
	if quantity > item.QuantityOnHand {
		return Counters{}, &InsufficientStockError{Requested: quantity, OnHand: item.QuantityOnHand}
	}
	return Counters{
		OnHand: item.QuantityOnHand - quantity,
		Sold:   item.QuantitySold + quantity,
	}, nil
}

// ReviseSale changes the quantity held by an existing sale from oldQuantity to
// newQuantity. The old quantity is returned to stock before the new one is checked,
// so lowering a sale's quantity always succeeds.
func ReviseSale(item *StockItem, oldQuantity, newQuantity int) (Counters, error) {
	if newQuantity <= 0 {
		return Counters{}, invalid("quantity_sold", "must be positive, got %d", newQuantity)
	}
	headroom := item.QuantityOnHand + oldQuantity
	if newQuantity > headroom {
		return Counters{}, &InsufficientStockError{
			Requested: newQuantity,
			OnHand:    item.QuantityOnHand,
			FromSale:  oldQuantity,
		}
	}
	return Counters{
		OnHand: item.QuantityOnHand + oldQuantity - newQuantity,
		Sold:   item.QuantitySold - oldQuantity + newQuantity,
	}, nil
}

// ReleaseFromSale returns quantity units to stock when a sale is deleted.
// Sold is re-derived from the purchase invariant so drifted counters heal on release.
// Each call adds the quantity back again; it is not idempotent.
func ReleaseFromSale(item *StockItem, quantity int) Counters {
	onHand := item.QuantityOnHand + quantity
	sold := max(0, item.QuantitySold-quantity)
	if derived := item.QuantityPurchased - onHand; derived != sold {
		sold = max(0, derived)
	}
	return Counters{OnHand: onHand, Sold: sold}
}
