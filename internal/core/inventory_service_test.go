package core_test

import (
	"testing"

	"resale-ledger/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryService_CreateItem(t *testing.T) {
	f := newFixture(t)
	seller := f.seller(t, "shop")

	it := f.item(t, seller.ID, 6, "3.50")
	assert.Equal(t, 6, it.QuantityOnHand)
	assert.Equal(t, 0, it.QuantitySold)
	assert.Equal(t, core.ItemActive, it.State())
	requireBalanced(t, it)

	_, err := f.inventory.CreateItem(f.ctx, seller.ID, core.CreateItemInput{Title: "x", QuantityPurchased: 0})
	var ve *core.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "quantity_purchased", ve.Field)

	_, err = f.inventory.CreateItem(f.ctx, seller.ID, core.CreateItemInput{
		Title: "x", QuantityPurchased: 1, PurchasePrice: d("-1"),
	})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "purchase_price", ve.Field)
}

func TestInventoryService_DeleteHardWithoutSales(t *testing.T) {
	f := newFixture(t)
	seller := f.seller(t, "shop")
	it := f.item(t, seller.ID, 3, "1")

	res, err := f.inventory.DeleteItem(f.ctx, seller.ID, it.ID)
	require.NoError(t, err)
	assert.Equal(t, core.ItemDeleted, res.State)

	_, err = f.inventory.GetItem(f.ctx, seller.ID, it.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestInventoryService_DeleteArchivesWithSales(t *testing.T) {
	f := newFixture(t)
	seller := f.seller(t, "shop")
	it := f.item(t, seller.ID, 3, "1")

	_, err := f.sales.CreateSale(f.ctx, seller.ID, saleInput(it.ID, 1, "4"))
	require.NoError(t, err)

	res, err := f.inventory.DeleteItem(f.ctx, seller.ID, it.ID)
	require.NoError(t, err)
	assert.Equal(t, core.ItemArchived, res.State)

	// Deleting again keeps it archived.
	res, err = f.inventory.DeleteItem(f.ctx, seller.ID, it.ID)
	require.NoError(t, err)
	assert.Equal(t, core.ItemArchived, res.State)

	stored := f.reload(t, seller.ID, it.ID)
	assert.True(t, stored.Archived)
	assert.False(t, stored.Listed)

	active, err := f.inventory.ListItems(f.ctx, seller.ID, false)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := f.inventory.ListItems(f.ctx, seller.ID, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	title := "renamed"
	_, err = f.inventory.UpdateItem(f.ctx, seller.ID, it.ID, core.UpdateItemInput{Title: &title})
	var ve *core.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestInventoryService_ArchivedItemIsNeverHardDeleted(t *testing.T) {
	f := newFixture(t)
	seller := f.seller(t, "shop")
	it := f.item(t, seller.ID, 3, "1")

	sale, err := f.sales.CreateSale(f.ctx, seller.ID, saleInput(it.ID, 1, "4"))
	require.NoError(t, err)

	res, err := f.inventory.DeleteItem(f.ctx, seller.ID, it.ID)
	require.NoError(t, err)
	require.Equal(t, core.ItemArchived, res.State)

	_, err = f.sales.DeleteSale(f.ctx, seller.ID, sale.Sale.ID)
	require.NoError(t, err)

	res, err = f.inventory.DeleteItem(f.ctx, seller.ID, it.ID)
	require.NoError(t, err)
	assert.Equal(t, core.ItemArchived, res.State)

	stored := f.reload(t, seller.ID, it.ID)
	assert.True(t, stored.Archived)
}

func TestInventoryService_UpdateItemNeverTouchesCounters(t *testing.T) {
	f := newFixture(t)
	seller := f.seller(t, "shop")
	it := f.item(t, seller.ID, 5, "2")

	_, err := f.sales.CreateSale(f.ctx, seller.ID, saleInput(it.ID, 2, "4"))
	require.NoError(t, err)

	title, listed := "Green jacket", false
	updated, err := f.inventory.UpdateItem(f.ctx, seller.ID, it.ID, core.UpdateItemInput{Title: &title, Listed: &listed})
	require.NoError(t, err)
	assert.Equal(t, "Green jacket", updated.Title)
	assert.Equal(t, 3, updated.QuantityOnHand)
	assert.Equal(t, 2, updated.QuantitySold)
}

func TestInventoryService_CheckDrift(t *testing.T) {
	f := newFixture(t)
	seller := f.seller(t, "shop")
	clean := f.item(t, seller.ID, 5, "2")
	drifted := f.item(t, seller.ID, 5, "2")

	_, err := f.sales.CreateSale(f.ctx, seller.ID, saleInput(clean.ID, 2, "4"))
	require.NoError(t, err)

	// Simulate a lost write from before counters were compare-and-set.
	require.NoError(t, f.store.UpdateStockCounters(f.ctx, seller.ID, drifted.ID,
		core.Counters{OnHand: 5}, core.Counters{OnHand: 4, Sold: 0}))

	reports, err := f.inventory.CheckDrift(f.ctx, seller.ID)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, drifted.ID, reports[0].ItemID)
	assert.Equal(t, 1, reports[0].CounterDrift())

	all, err := f.inventory.CheckDrift(f.ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
