package repl

import (
	"fmt"
	"strings"

	"resale-ledger/internal/ai"
	"resale-ledger/internal/app"
	"resale-ledger/internal/core"
)

func printItems(result *app.ItemListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 84))
	fmt.Printf("  %-82s\n", "INVENTORY")
	fmt.Println(strings.Repeat("=", 84))
	if len(result.Items) == 0 {
		fmt.Println("  No items found.")
		fmt.Println(strings.Repeat("=", 84))
		return
	}
	fmt.Printf("  %-5s %-28s %-10s %10s %8s %8s %8s  %s\n",
		"ID", "TITLE", "SKU", "UNIT COST", "BOUGHT", "ON HAND", "SOLD", "STATE")
	fmt.Println(strings.Repeat("-", 84))
	for _, it := range result.Items {
		title := it.Title
		if len(title) > 27 {
			title = title[:24] + "..."
		}
		state := string(it.State())
		if it.Listed && !it.Archived {
			state += ", listed"
		}
		fmt.Printf("  %-5d %-28s %-10s %10s %8d %8d %8d  %s\n",
			it.ID, title, it.SKU, it.PurchasePrice.StringFixed(2),
			it.QuantityPurchased, it.QuantityOnHand, it.QuantitySold, state)
	}
	fmt.Println(strings.Repeat("=", 84))
}

func printItem(it *core.StockItem) {
	fmt.Println()
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("  Item:       %d  %s\n", it.ID, it.Title)
	if it.SKU != "" {
		fmt.Printf("  SKU:        %s\n", it.SKU)
	}
	fmt.Printf("  Unit cost:  %s\n", it.PurchasePrice.StringFixed(2))
	fmt.Printf("  Purchased:  %d\n", it.QuantityPurchased)
	fmt.Printf("  On hand:    %d\n", it.QuantityOnHand)
	fmt.Printf("  Sold:       %d\n", it.QuantitySold)
	fmt.Printf("  State:      %s\n", it.State())
	if it.Listed {
		fmt.Printf("  Listed at:  %s\n", it.ListPrice.StringFixed(2))
	}
	fmt.Println(strings.Repeat("-", 60))
}

func printSales(result *app.SaleListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 86))
	fmt.Printf("  %-84s\n", "SALES")
	fmt.Println(strings.Repeat("=", 86))
	if len(result.Sales) == 0 {
		fmt.Println("  No sales found.")
		fmt.Println(strings.Repeat("=", 86))
		return
	}
	fmt.Printf("  %-5s %-11s %-6s %-11s %4s %10s %10s %10s %8s\n",
		"ID", "DATE", "ITEM", "PLATFORM", "QTY", "PRICE", "FEES", "NET", "MARGIN")
	fmt.Println(strings.Repeat("-", 86))
	for _, s := range result.Sales {
		item := "-"
		if s.ItemID != 0 {
			item = fmt.Sprintf("%d", s.ItemID)
		}
		fmt.Printf("  %-5d %-11s %-6s %-11s %4d %10s %10s %10s %7s%%\n",
			s.ID, s.SaleDate, item, s.Platform, s.QuantitySold,
			s.SalePrice.StringFixed(2), s.Fees.Total().StringFixed(2),
			s.NetProfit.StringFixed(2), s.ProfitMargin.StringFixed(2))
	}
	fmt.Println(strings.Repeat("=", 86))
}

func printSaleResult(verb string, r *core.SaleResult) {
	s := r.Sale
	fmt.Printf("Sale %d %s: %d × %s on %s (%s)\n",
		s.ID, verb, s.QuantitySold, s.SalePrice.StringFixed(2), s.Platform, s.SaleDate)
	fmt.Printf("  Gross %s  Net %s  Margin %s%%\n",
		s.GrossProfit.StringFixed(2), s.NetProfit.StringFixed(2), s.ProfitMargin.StringFixed(2))
	if r.Item != nil {
		fmt.Printf("  Item %d now %d on hand, %d sold\n", r.Item.ID, r.Item.QuantityOnHand, r.Item.QuantitySold)
	}
}

func printProfit(r *core.ProfitReport) {
	period := "all time"
	switch {
	case r.From != "" && r.To != "":
		period = r.From + " to " + r.To
	case r.From != "":
		period = "from " + r.From
	case r.To != "":
		period = "up to " + r.To
	}

	fmt.Println()
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("  PROFIT REPORT  (%s)\n", period)
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("  %-12s %6s %6s %11s %11s %10s %11s %8s\n",
		"PLATFORM", "SALES", "UNITS", "REVENUE", "COGS", "FEES", "NET", "MARGIN")
	fmt.Println(strings.Repeat("-", 80))
	for _, p := range r.ByPlatform {
		printProfitLine(string(p.Platform), p.ProfitLine)
	}
	fmt.Println(strings.Repeat("-", 80))
	printProfitLine("TOTAL", r.Total)
	fmt.Println(strings.Repeat("=", 80))
}

func printProfitLine(label string, l core.ProfitLine) {
	fmt.Printf("  %-12s %6d %6d %11s %11s %10s %11s %7s%%\n",
		label, l.Sales, l.UnitsSold, l.Revenue.StringFixed(2), l.CostOfGoods.StringFixed(2),
		l.Fees.StringFixed(2), l.NetProfit.StringFixed(2), l.ProfitMargin.StringFixed(2))
}

func printDrift(result *app.DriftResult) {
	if len(result.Items) == 0 {
		fmt.Println("Inventory counters are consistent.")
		return
	}
	fmt.Println()
	fmt.Println(strings.Repeat("=", 72))
	fmt.Printf("  DRIFTED ITEMS (%d)\n", len(result.Items))
	fmt.Println(strings.Repeat("=", 72))
	fmt.Printf("  %-5s %-24s %7s %8s %6s %12s %6s\n", "ID", "TITLE", "BOUGHT", "ON HAND", "SOLD", "PER SALES", "DRIFT")
	fmt.Println(strings.Repeat("-", 72))
	for _, d := range result.Items {
		fmt.Printf("  %-5d %-24s %7d %8d %6d %12d %6d\n",
			d.ItemID, d.Title, d.QuantityPurchased, d.QuantityOnHand, d.QuantitySold, d.SoldPerSales, d.CounterDrift())
	}
	fmt.Println(strings.Repeat("=", 72))
}

func printOrders(result *app.OrderListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("  %-78s\n", "STOREFRONT ORDERS")
	fmt.Println(strings.Repeat("=", 80))
	if len(result.Orders) == 0 {
		fmt.Println("  No orders found.")
		fmt.Println(strings.Repeat("=", 80))
		return
	}
	fmt.Printf("  %-5s %-24s %4s %10s %-10s %-24s\n", "ID", "ITEM", "QTY", "TOTAL", "STATUS", "EMAIL")
	fmt.Println(strings.Repeat("-", 80))
	for _, o := range result.Orders {
		title := o.ItemTitle
		if len(title) > 23 {
			title = title[:20] + "..."
		}
		fmt.Printf("  %-5d %-24s %4d %10s %-10s %-24s\n",
			o.ID, title, o.Quantity, o.Total.StringFixed(2), o.Status, o.Email)
	}
	fmt.Println(strings.Repeat("=", 80))
}

func printProposal(p *ai.SaleProposal, in *app.SaleRequest) {
	fmt.Printf("\nITEM:       %d\n", in.ItemID)
	fmt.Printf("PLATFORM:   %s\n", in.Platform)
	fmt.Printf("PRICE:      %s × %d\n", in.SalePrice.StringFixed(2), in.QuantitySold)
	fmt.Printf("DATE:       %s\n", in.SaleDate)
	fmt.Printf("FEES:       platform %s, shipping %s, other %s\n",
		in.PlatformFees.StringFixed(2), in.ShippingCost.StringFixed(2), in.OtherFees.StringFixed(2))
	if in.Notes != "" {
		fmt.Printf("NOTES:      %s\n", in.Notes)
	}
	fmt.Printf("REASONING:  %s\n", p.Reasoning)
	fmt.Printf("CONFIDENCE: %.2f\n", p.Confidence)
}

func printHelp() {
	fmt.Println()
	fmt.Println("RESALE LEDGER COMMANDS")
	fmt.Println(strings.Repeat("=", 62))
	fmt.Println()
	fmt.Println("  INVENTORY")
	fmt.Println("  /items [all]                     List items (all = include archived)")
	fmt.Println("  /item <id>                       Show one item")
	fmt.Println("  /new-item                        Add a purchase batch (interactive)")
	fmt.Println("  /remove-item <id>                Delete, or archive if it has sales")
	fmt.Println("  /drift                           Check counters against recorded sales")
	fmt.Println()
	fmt.Println("  SALES")
	fmt.Println("  /sales [item-id]                 List sales")
	fmt.Println("  /sell                            Record a sale (interactive)")
	fmt.Println("  /unsell <sale-id>                Delete a sale and restore stock")
	fmt.Println("  /profit [from] [to]              Profit report (YYYY-MM-DD)")
	fmt.Println()
	fmt.Println("  STOREFRONT")
	fmt.Println("  /store on|off                    Open or close the storefront")
	fmt.Println("  /orders                          List storefront orders")
	fmt.Println("  /fulfil <order-id>               Record the order as a sale")
	fmt.Println("  /ship <order-id> [tracking]      Mark a paid order shipped")
	fmt.Println("  /cancel <order-id>               Cancel a pending order")
	fmt.Println()
	fmt.Println("  SESSION")
	fmt.Println("  /help                            Show this help")
	fmt.Println("  /exit                            Exit")
	fmt.Println()
	fmt.Println("  INTAKE MODE  (no / prefix)")
	fmt.Println("  Describe a sale in plain words.")
	fmt.Println("  Example: \"sold 2 of the lamps on ebay for 30 each, 4.50 fees\"")
	fmt.Println(strings.Repeat("=", 62))
}
