package core

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Profit holds the derived figures of one sale.
type Profit struct {
	GrossProfit  decimal.Decimal `json:"gross_profit"`
	NetProfit    decimal.Decimal `json:"net_profit"`
	ProfitMargin decimal.Decimal `json:"profit_margin"` // percent of revenue
}

// GrossProfit returns (salePrice − purchasePrice) × quantity. Negative values are losses.
func GrossProfit(salePrice, purchasePrice decimal.Decimal, quantity int) decimal.Decimal {
	return salePrice.Sub(purchasePrice).Mul(decimal.NewFromInt(int64(quantity)))
}

// NetProfit subtracts all fees from the gross profit.
func NetProfit(gross, platformFees, shippingCost, otherFees decimal.Decimal) decimal.Decimal {
	return gross.Sub(platformFees.Add(shippingCost).Add(otherFees))
}

// ProfitMargin returns net / (salePrice × quantity) × 100, rounded to two places.
// A zero revenue yields a zero margin.
func ProfitMargin(net, salePrice decimal.Decimal, quantity int) decimal.Decimal {
	revenue := salePrice.Mul(decimal.NewFromInt(int64(quantity)))
	return MarginOf(net, revenue)
}

// MarginOf returns net as a percentage of revenue, zero when revenue is zero.
func MarginOf(net, revenue decimal.Decimal) decimal.Decimal {
	if revenue.IsZero() {
		return decimal.Zero
	}
	return net.Div(revenue).Mul(hundred).Round(2)
}

// ComputeProfit derives all profit figures for a sale of quantity units.
func ComputeProfit(salePrice, purchasePrice decimal.Decimal, quantity int, fees Fees) Profit {
	gross := GrossProfit(salePrice, purchasePrice, quantity)
	net := NetProfit(gross, fees.PlatformFees, fees.ShippingCost, fees.OtherFees)
	return Profit{
		GrossProfit:  gross,
		NetProfit:    net,
		ProfitMargin: ProfitMargin(net, salePrice, quantity),
	}
}
