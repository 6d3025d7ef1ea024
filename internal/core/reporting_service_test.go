package core_test

import (
	"testing"

	"resale-ledger/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportingService_ProfitReport(t *testing.T) {
	f := newFixture(t)
	seller := f.seller(t, "shop")
	it := f.item(t, seller.ID, 10, "5.00")

	in := saleInput(it.ID, 3, "20.00")
	in.Fees = core.Fees{PlatformFees: d("1"), ShippingCost: d("2")}
	_, err := f.sales.CreateSale(f.ctx, seller.ID, in)
	require.NoError(t, err)

	in = saleInput(it.ID, 1, "10.00")
	in.Platform = core.PlatformMercari
	in.SaleDate = "2024-06-15"
	_, err = f.sales.CreateSale(f.ctx, seller.ID, in)
	require.NoError(t, err)

	report, err := f.reports.GetProfitReport(f.ctx, seller.ID, "", "")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Total.Sales)
	assert.Equal(t, 4, report.Total.UnitsSold)
	assert.True(t, report.Total.Revenue.Equal(d("70")), "revenue %s", report.Total.Revenue)
	assert.True(t, report.Total.CostOfGoods.Equal(d("20")), "cogs %s", report.Total.CostOfGoods)
	assert.True(t, report.Total.NetProfit.Equal(d("47")), "net %s", report.Total.NetProfit)
	assert.True(t, report.Total.ProfitMargin.Equal(d("67.14")), "margin %s", report.Total.ProfitMargin)

	require.Len(t, report.ByPlatform, 2)
	assert.Equal(t, core.PlatformEbay, report.ByPlatform[0].Platform)
	assert.Equal(t, core.PlatformMercari, report.ByPlatform[1].Platform)

	june, err := f.reports.GetProfitReport(f.ctx, seller.ID, "2024-06-01", "2024-06-30")
	require.NoError(t, err)
	assert.Equal(t, 1, june.Total.Sales)
	assert.True(t, june.Total.NetProfit.Equal(d("5")))
}

func TestReportingService_RejectsBadRange(t *testing.T) {
	f := newFixture(t)
	seller := f.seller(t, "shop")

	var ve *core.ValidationError
	_, err := f.reports.GetProfitReport(f.ctx, seller.ID, "June", "")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "from", ve.Field)

	_, err = f.reports.GetProfitReport(f.ctx, seller.ID, "2024-07-01", "2024-06-01")
	require.ErrorAs(t, err, &ve)

	empty, err := f.reports.GetProfitReport(f.ctx, seller.ID, "", "")
	require.NoError(t, err)
	assert.True(t, empty.Total.ProfitMargin.IsZero())
	assert.Empty(t, empty.ByPlatform)
}
