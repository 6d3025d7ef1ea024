package postgres_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"resale-ledger/internal/core"
	"resale-ledger/internal/db"
	"resale-ledger/internal/migrate"
	"resale-ledger/internal/repository/postgres"
)

func setupTestDB(t *testing.T) *postgres.Store {
	t.Helper()
	_ = godotenv.Load("../../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration test to protect live database")
	}

	ctx := context.Background()
	require.NoError(t, migrate.UpPostgres(ctx, dbURL))
	pool, err := db.NewPool(ctx, dbURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE TABLE sales, orders, customers, stock_items, sellers RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return postgres.New(pool)
}

func TestIntegration_ConcurrentSalesNeverOversell(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	seller, err := core.NewSellerService(store, bcrypt.MinCost).Register(ctx, core.RegisterSellerInput{
		Email: "pg@example.com", Password: "correct-horse", StoreName: "PG", StoreSlug: "pg-shop",
	})
	require.NoError(t, err)
	item, err := core.NewInventoryService(store).CreateItem(ctx, seller.ID, core.CreateItemInput{
		Title: "Lamp", PurchasePrice: decimal.NewFromInt(5), QuantityPurchased: 3,
	})
	require.NoError(t, err)

	sales := core.NewSaleService(store)
	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		ok, rejected int
	)
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := sales.CreateSale(ctx, seller.ID, core.SaleInput{
				ItemID: item.ID, Platform: core.PlatformEbay, SalePrice: decimal.NewFromInt(20),
				QuantitySold: 1, SaleDate: "2026-06-01",
			})
			mu.Lock()
			defer mu.Unlock()
			var se *core.InsufficientStockError
			switch {
			case err == nil:
				ok++
			case errors.As(err, &se):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, ok)
	assert.Equal(t, 3, rejected)

	got, err := store.GetStockItem(ctx, seller.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.QuantityOnHand)
	assert.Equal(t, 3, got.QuantitySold)

	drift, err := store.ListDrift(ctx, seller.ID)
	require.NoError(t, err)
	assert.Empty(t, drift)
}
