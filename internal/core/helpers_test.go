package core_test

import (
	"context"
	"testing"

	"resale-ledger/internal/core"
	"resale-ledger/internal/db"
	"resale-ledger/internal/repository/sqlite"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	ctx        context.Context
	store      core.Store
	sellers    core.SellerService
	inventory  core.InventoryService
	sales      core.SaleService
	storefront core.StorefrontService
	reports    core.ReportingService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithStore(t, sqlite.New(db.NewTestDB(t)))
}

func newFixtureWithStore(t *testing.T, store core.Store) *fixture {
	t.Helper()
	sales := core.NewSaleService(store)
	return &fixture{
		ctx:        context.Background(),
		store:      store,
		sellers:    core.NewSellerService(store, bcrypt.MinCost),
		inventory:  core.NewInventoryService(store),
		sales:      sales,
		storefront: core.NewStorefrontService(store, sales, bcrypt.MinCost),
		reports:    core.NewReportingService(store),
	}
}

func (f *fixture) seller(t *testing.T, slug string) *core.Seller {
	t.Helper()
	s, err := f.sellers.Register(f.ctx, core.RegisterSellerInput{
		Email:     slug + "@example.com",
		Password:  "correct-horse",
		StoreName: "Store " + slug,
		StoreSlug: slug,
	})
	require.NoError(t, err)
	return s
}

func (f *fixture) item(t *testing.T, sellerID int64, qty int, purchasePrice string) *core.StockItem {
	t.Helper()
	it, err := f.inventory.CreateItem(f.ctx, sellerID, core.CreateItemInput{
		Title:             "Blue jacket",
		PurchasePrice:     d(purchasePrice),
		QuantityPurchased: qty,
		Listed:            true,
		ListPrice:         d("25.00"),
	})
	require.NoError(t, err)
	return it
}

func (f *fixture) reload(t *testing.T, sellerID, itemID int64) *core.StockItem {
	t.Helper()
	it, err := f.inventory.GetItem(f.ctx, sellerID, itemID)
	require.NoError(t, err)
	return it
}

func saleInput(itemID int64, qty int, price string) core.SaleInput {
	return core.SaleInput{
		ItemID:       itemID,
		Platform:     core.PlatformEbay,
		SalePrice:    d(price),
		QuantitySold: qty,
		SaleDate:     "2024-05-01",
	}
}

func requireBalanced(t *testing.T, it *core.StockItem) {
	t.Helper()
	require.Equal(t, it.QuantityPurchased, it.QuantityOnHand+it.QuantitySold,
		"on_hand %d + sold %d != purchased %d", it.QuantityOnHand, it.QuantitySold, it.QuantityPurchased)
}

// faultyStore injects counter conflicts and write failures into a real store.
type faultyStore struct {
	core.Store
	f *faults
}

type faults struct {
	conflicts  int
	insertErr  error
	counterErr error
}

func (s faultyStore) WithinTx(ctx context.Context, fn func(tx core.Store) error) error {
	return s.Store.WithinTx(ctx, func(tx core.Store) error {
		return fn(faultyStore{Store: tx, f: s.f})
	})
}

func (s faultyStore) InsertSale(ctx context.Context, sale *core.SaleRecord) error {
	if s.f.insertErr != nil {
		return s.f.insertErr
	}
	return s.Store.InsertSale(ctx, sale)
}

func (s faultyStore) UpdateStockCounters(ctx context.Context, sellerID, itemID int64, prev, next core.Counters) error {
	if s.f.conflicts > 0 {
		s.f.conflicts--
		return core.ErrCounterConflict
	}
	if s.f.counterErr != nil {
		return s.f.counterErr
	}
	return s.Store.UpdateStockCounters(ctx, sellerID, itemID, prev, next)
}
