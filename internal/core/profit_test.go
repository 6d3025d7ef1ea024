package core_test

import (
	"testing"

	"resale-ledger/internal/core"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeProfit(t *testing.T) {
	tests := []struct {
		name                string
		salePrice, purchase string
		qty                 int
		fees                core.Fees
		gross, net, margin  string
	}{
		{
			name:      "three units with fees",
			salePrice: "20.00", purchase: "5.00", qty: 3,
			fees:  core.Fees{PlatformFees: d("1.00"), ShippingCost: d("2.00")},
			gross: "45", net: "42", margin: "70",
		},
		{
			name:      "loss",
			salePrice: "4.00", purchase: "5.00", qty: 2,
			fees:  core.Fees{OtherFees: d("0.50")},
			gross: "-2", net: "-2.5", margin: "-31.25",
		},
		{
			name:      "free item has zero margin",
			salePrice: "0", purchase: "5.00", qty: 1,
			fees:  core.Fees{ShippingCost: d("3")},
			gross: "-5", net: "-8", margin: "0",
		},
		{
			name:      "margin rounds to two places",
			salePrice: "3.00", purchase: "1.00", qty: 1,
			gross: "2", net: "2", margin: "66.67",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := core.ComputeProfit(d(tt.salePrice), d(tt.purchase), tt.qty, tt.fees)
			if !p.GrossProfit.Equal(d(tt.gross)) {
				t.Errorf("gross = %s, want %s", p.GrossProfit, tt.gross)
			}
			if !p.NetProfit.Equal(d(tt.net)) {
				t.Errorf("net = %s, want %s", p.NetProfit, tt.net)
			}
			if !p.ProfitMargin.Equal(d(tt.margin)) {
				t.Errorf("margin = %s, want %s", p.ProfitMargin, tt.margin)
			}
			// net == gross − fees for every input.
			if !p.NetProfit.Equal(p.GrossProfit.Sub(tt.fees.Total())) {
				t.Errorf("net %s != gross %s − fees %s", p.NetProfit, p.GrossProfit, tt.fees.Total())
			}
		})
	}
}

func TestProfitMargin_ZeroRevenue(t *testing.T) {
	if m := core.ProfitMargin(d("-3"), d("10"), 0); !m.IsZero() {
		t.Errorf("margin with zero quantity = %s, want 0", m)
	}
	if m := core.MarginOf(d("5"), decimal.Zero); !m.IsZero() {
		t.Errorf("margin with zero revenue = %s, want 0", m)
	}
}
