package core_test

import (
	"testing"

	"resale-ledger/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, f *fixture, slug string) *core.Seller {
	t.Helper()
	s := f.seller(t, slug)
	_, err := f.storefront.OpenStore(f.ctx, slug)
	require.ErrorIs(t, err, core.ErrNotFound, "storefront is off by default")

	s, err = f.sellers.SetStorefrontEnabled(f.ctx, s.ID, true)
	require.NoError(t, err)
	return s
}

func TestStorefront_OpenStoreAndListing(t *testing.T) {
	f := newFixture(t)
	s := openStore(t, f, "attic")

	got, err := f.storefront.OpenStore(f.ctx, "ATTIC")
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)

	listed := f.item(t, s.ID, 2, "1")
	hidden, err := f.inventory.CreateItem(f.ctx, s.ID, core.CreateItemInput{Title: "Back room", QuantityPurchased: 1})
	require.NoError(t, err)

	items, err := f.storefront.ListItems(f.ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, listed.ID, items[0].ID)

	_, err = f.storefront.PlaceOrder(f.ctx, s.ID, 0, core.PlaceOrderInput{ItemID: hidden.ID, Quantity: 1, Email: "a@b.co"})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestStorefront_GuestOrderLifecycle(t *testing.T) {
	f := newFixture(t)
	s := openStore(t, f, "attic")
	it := f.item(t, s.ID, 3, "10.00")

	placed, err := f.storefront.PlaceOrder(f.ctx, s.ID, 0, core.PlaceOrderInput{
		ItemID: it.ID, Quantity: 2, Email: " Guest@Example.com", Name: "Guest",
	})
	require.NoError(t, err)
	o := placed.Order
	assert.Equal(t, core.OrderPending, o.Status)
	assert.Equal(t, "guest@example.com", o.Email)
	assert.True(t, o.Total.Equal(d("50")), "total %s", o.Total)
	assert.True(t, placed.Customer.IsGuest())

	// Placing reserves nothing.
	assert.Equal(t, 3, f.reload(t, s.ID, it.ID).QuantityOnHand)

	tracked, err := f.storefront.TrackOrder(f.ctx, s.ID, o.ID, "GUEST@example.com")
	require.NoError(t, err)
	assert.Equal(t, o.ID, tracked.ID)
	_, err = f.storefront.TrackOrder(f.ctx, s.ID, o.ID, "someone@else.com")
	assert.ErrorIs(t, err, core.ErrNotFound)

	paid, sale, err := f.storefront.FulfilOrder(f.ctx, s.ID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, core.OrderPaid, paid.Status)
	assert.Equal(t, sale.Sale.ID, paid.SaleID)
	assert.Equal(t, core.PlatformStorefront, sale.Sale.Platform)
	assert.Equal(t, o.ID, sale.Sale.OrderID)
	assert.True(t, sale.Sale.NetProfit.Equal(d("30")), "net %s", sale.Sale.NetProfit)

	stored := f.reload(t, s.ID, it.ID)
	assert.Equal(t, 1, stored.QuantityOnHand)
	assert.Equal(t, 2, stored.QuantitySold)
	requireBalanced(t, stored)

	_, _, err = f.storefront.FulfilOrder(f.ctx, s.ID, o.ID)
	var ve *core.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "status", ve.Field)

	shipped, err := f.storefront.ShipOrder(f.ctx, s.ID, o.ID, " 1Z999 ")
	require.NoError(t, err)
	assert.Equal(t, core.OrderShipped, shipped.Status)
	assert.Equal(t, "1Z999", shipped.TrackingNumber)

	_, err = f.storefront.CancelOrder(f.ctx, s.ID, o.ID)
	assert.ErrorAs(t, err, &ve)
}

func TestStorefront_FulfilFailsWhenStockWasSoldElsewhere(t *testing.T) {
	f := newFixture(t)
	s := openStore(t, f, "attic")
	it := f.item(t, s.ID, 2, "1")

	placed, err := f.storefront.PlaceOrder(f.ctx, s.ID, 0, core.PlaceOrderInput{ItemID: it.ID, Quantity: 2, Email: "g@x.io"})
	require.NoError(t, err)

	_, err = f.sales.CreateSale(f.ctx, s.ID, saleInput(it.ID, 1, "5"))
	require.NoError(t, err)

	_, _, err = f.storefront.FulfilOrder(f.ctx, s.ID, placed.Order.ID)
	var se *core.InsufficientStockError
	require.ErrorAs(t, err, &se)

	o, err := f.storefront.GetOrder(f.ctx, s.ID, placed.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, core.OrderPending, o.Status, "order stays pending when the sale is rejected")
	assert.Zero(t, o.SaleID)
}

func TestStorefront_PlaceOrderChecksStock(t *testing.T) {
	f := newFixture(t)
	s := openStore(t, f, "attic")
	it := f.item(t, s.ID, 1, "1")

	_, err := f.storefront.PlaceOrder(f.ctx, s.ID, 0, core.PlaceOrderInput{ItemID: it.ID, Quantity: 2, Email: "g@x.io"})
	var se *core.InsufficientStockError
	assert.ErrorAs(t, err, &se)
}

func TestStorefront_CancelPending(t *testing.T) {
	f := newFixture(t)
	s := openStore(t, f, "attic")
	it := f.item(t, s.ID, 1, "1")

	placed, err := f.storefront.PlaceOrder(f.ctx, s.ID, 0, core.PlaceOrderInput{ItemID: it.ID, Quantity: 1, Email: "g@x.io"})
	require.NoError(t, err)

	cancelled, err := f.storefront.CancelOrder(f.ctx, s.ID, placed.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, core.OrderCancelled, cancelled.Status)

	_, _, err = f.storefront.FulfilOrder(f.ctx, s.ID, placed.Order.ID)
	var ve *core.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestStorefront_CustomersAndGuestUpgrade(t *testing.T) {
	f := newFixture(t)
	s := openStore(t, f, "attic")
	it := f.item(t, s.ID, 5, "1")

	guest, err := f.storefront.PlaceOrder(f.ctx, s.ID, 0, core.PlaceOrderInput{ItemID: it.ID, Quantity: 1, Email: "kim@x.io", Name: "Kim"})
	require.NoError(t, err)

	c, err := f.storefront.RegisterCustomer(f.ctx, s.ID, core.RegisterCustomerInput{Email: "KIM@x.io", Password: "long-password"})
	require.NoError(t, err)
	assert.Equal(t, guest.Customer.ID, c.ID, "registering upgrades the guest row")
	assert.Equal(t, "Kim", c.Name)

	_, err = f.storefront.RegisterCustomer(f.ctx, s.ID, core.RegisterCustomerInput{Email: "kim@x.io", Password: "long-password"})
	assert.ErrorIs(t, err, core.ErrAlreadyExists)

	authed, err := f.storefront.AuthenticateCustomer(f.ctx, s.ID, "kim@x.io", "long-password")
	require.NoError(t, err)
	assert.Equal(t, c.ID, authed.ID)
	_, err = f.storefront.AuthenticateCustomer(f.ctx, s.ID, "kim@x.io", "nope-nope")
	assert.ErrorIs(t, err, core.ErrUnauthorized)

	_, err = f.storefront.PlaceOrder(f.ctx, s.ID, c.ID, core.PlaceOrderInput{ItemID: it.ID, Quantity: 1, Email: "kim@x.io"})
	require.NoError(t, err)

	orders, err := f.storefront.ListCustomerOrders(f.ctx, s.ID, c.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	_, err = f.storefront.ListCustomerOrders(f.ctx, s.ID, 0)
	assert.ErrorIs(t, err, core.ErrUnauthorized)

	// Customers are per store.
	other := openStore(t, f, "cellar")
	_, err = f.storefront.AuthenticateCustomer(f.ctx, other.ID, "kim@x.io", "long-password")
	assert.ErrorIs(t, err, core.ErrUnauthorized)
	_, err = f.storefront.GetOrder(f.ctx, other.ID, guest.Order.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}
