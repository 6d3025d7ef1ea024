package core_test

import (
	"errors"
	"strings"
	"testing"

	"resale-ledger/internal/core"
)

func stockItem(purchased, onHand, sold int) *core.StockItem {
	return &core.StockItem{QuantityPurchased: purchased, QuantityOnHand: onHand, QuantitySold: sold}
}

func TestReserveForSale(t *testing.T) {
	item := stockItem(10, 10, 0)

	c, err := core.ReserveForSale(item, 10)
	if err != nil {
		t.Fatalf("selling all stock: %v", err)
	}
	if c != (core.Counters{OnHand: 0, Sold: 10}) {
		t.Errorf("counters = %+v, want on_hand 0 sold 10", c)
	}

	_, err = core.ReserveForSale(item, 11)
	var se *core.InsufficientStockError
	if !errors.As(err, &se) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if !strings.Contains(err.Error(), "10") {
		t.Errorf("message %q does not name the available quantity", err.Error())
	}

	var ve *core.ValidationError
	if _, err := core.ReserveForSale(item, 0); !errors.As(err, &ve) {
		t.Errorf("zero quantity: expected ValidationError, got %v", err)
	}
}

func TestReviseSale(t *testing.T) {
	// 10 purchased, a sale holds 3.
	item := stockItem(10, 7, 3)

	c, err := core.ReviseSale(item, 3, 5)
	if err != nil {
		t.Fatalf("ReviseSale up: %v", err)
	}
	if c != (core.Counters{OnHand: 5, Sold: 5}) {
		t.Errorf("counters = %+v, want 5/5", c)
	}

	c, err = core.ReviseSale(item, 3, 1)
	if err != nil {
		t.Fatalf("ReviseSale down: %v", err)
	}
	if c != (core.Counters{OnHand: 9, Sold: 1}) {
		t.Errorf("counters = %+v, want 9/1", c)
	}

	c, err = core.ReviseSale(item, 3, 10)
	if err != nil {
		t.Fatalf("ReviseSale to full headroom: %v", err)
	}
	if c.OnHand != 0 {
		t.Errorf("on_hand = %d, want 0", c.OnHand)
	}

	_, err = core.ReviseSale(item, 3, 11)
	if err == nil {
		t.Fatal("expected insufficient stock")
	}
	want := "Only 10 units available (7 in stock + 3 from this sale)"
	if err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
}

func TestReviseSale_DownwardAlwaysFits(t *testing.T) {
	for onHand := 0; onHand <= 5; onHand++ {
		for old := 1; old <= 5; old++ {
			item := stockItem(onHand+old, onHand, old)
			for next := 1; next <= old; next++ {
				c, err := core.ReviseSale(item, old, next)
				if err != nil {
					t.Fatalf("on_hand=%d old=%d new=%d: %v", onHand, old, next, err)
				}
				if c.OnHand+c.Sold != item.QuantityPurchased {
					t.Errorf("invariant broken: %+v vs purchased %d", c, item.QuantityPurchased)
				}
			}
		}
	}
}

func TestReleaseFromSale(t *testing.T) {
	item := stockItem(10, 7, 3)
	c := core.ReleaseFromSale(item, 3)
	if c != (core.Counters{OnHand: 10, Sold: 0}) {
		t.Errorf("counters = %+v, want 10/0", c)
	}
}

func TestReleaseFromSale_NotIdempotent(t *testing.T) {
	item := stockItem(10, 5, 5)

	first := core.ReleaseFromSale(item, 2)
	item.Apply(first)
	second := core.ReleaseFromSale(item, 2)

	if first == second {
		t.Fatalf("second release returned the same counters %+v; release must add back each time", first)
	}
	if second.OnHand != 9 {
		t.Errorf("on_hand after two releases = %d, want 9", second.OnHand)
	}
}

func TestReleaseFromSale_HealsDriftedSold(t *testing.T) {
	// sold drifted high: 10 purchased, 4 on hand, 8 sold.
	item := stockItem(10, 4, 8)
	c := core.ReleaseFromSale(item, 2)
	if c.OnHand != 6 || c.Sold != 4 {
		t.Errorf("counters = %+v, want on_hand 6 sold 4 re-derived from purchased", c)
	}
	if c.OnHand+c.Sold != item.QuantityPurchased {
		t.Errorf("invariant broken: %+v", c)
	}
}
