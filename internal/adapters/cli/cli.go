package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"resale-ledger/internal/app"
	"resale-ledger/internal/core"
)

// Run executes a one-shot CLI command and exits.
// args is os.Args[1:]; the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, args []string) {
	seller, err := svc.LoadDefaultSeller(ctx)
	if err != nil {
		log.Fatalf("Failed to load seller: %v", err)
	}

	switch args[0] {
	case "items", "inv":
		all := len(args) > 1 && args[1] == "--all"
		result, err := svc.ListItems(ctx, seller.ID, all)
		if err != nil {
			log.Fatalf("Failed to list items: %v", err)
		}
		printJSON(result)

	case "sales":
		result, err := svc.ListSales(ctx, seller.ID, core.SaleFilter{})
		if err != nil {
			log.Fatalf("Failed to list sales: %v", err)
		}
		printJSON(result)

	case "sell", "s":
		if len(args) < 4 {
			log.Fatal("Usage: app sell <item-id> <platform> <price> [qty] [YYYY-MM-DD]")
		}
		req, err := parseSell(args[1:])
		if err != nil {
			log.Fatal(err)
		}
		result, err := svc.CreateSale(ctx, seller.ID, req)
		if err != nil {
			log.Fatalf("Sale not recorded: %v", err)
		}
		printJSON(result)

	case "record":
		var req app.SaleRequest
		if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
			log.Fatalf("Invalid JSON: %v", err)
		}
		result, err := svc.CreateSale(ctx, seller.ID, req)
		if err != nil {
			log.Fatalf("Sale not recorded: %v", err)
		}
		printJSON(result)

	case "unsell":
		if len(args) < 2 {
			log.Fatal("Usage: app unsell <sale-id>")
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			log.Fatalf("Invalid sale id: %s", args[1])
		}
		result, err := svc.DeleteSale(ctx, seller.ID, id)
		if err != nil {
			log.Fatalf("Delete failed: %v", err)
		}
		printJSON(result)

	case "propose", "prop", "p":
		if len(args) < 2 {
			log.Fatal("Usage: app propose \"<sale description>\"")
		}
		result, err := svc.ProposeSale(ctx, seller.ID, strings.Join(args[1:], " "))
		if err != nil {
			log.Fatalf("Intake error: %v", err)
		}
		if result.IsClarification {
			fmt.Fprintln(os.Stderr, "AI needs clarification:", result.ClarificationMessage)
			os.Exit(1)
		}
		if result.Input == nil {
			fmt.Fprintln(os.Stderr, "Proposal rejected:", result.Problem)
			os.Exit(1)
		}
		// Output is accepted by `app record`.
		printJSON(result.Input)

	case "profit":
		var from, to string
		if len(args) > 1 {
			from = args[1]
		}
		if len(args) > 2 {
			to = args[2]
		}
		report, err := svc.GetProfitReport(ctx, seller.ID, from, to)
		if err != nil {
			log.Fatalf("Failed to build report: %v", err)
		}
		printProfit(report)

	case "drift":
		result, err := svc.CheckDrift(ctx, seller.ID)
		if err != nil {
			log.Fatalf("Drift check failed: %v", err)
		}
		printJSON(result)
		if len(result.Items) > 0 {
			os.Exit(2)
		}

	default:
		log.Fatalf("Unknown command: %s\nAvailable: items, sales, sell, record, unsell, propose, profit, drift", args[0])
	}
}

// parseSell reads <item-id> <platform> <price> [qty] [date].
func parseSell(args []string) (app.SaleRequest, error) {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return app.SaleRequest{}, fmt.Errorf("invalid item id: %s", args[0])
	}
	price, err := decimal.NewFromString(strings.TrimPrefix(args[2], "$"))
	if err != nil {
		return app.SaleRequest{}, fmt.Errorf("invalid price: %s", args[2])
	}
	req := app.SaleRequest{
		ItemID:       id,
		Platform:     core.Platform(strings.ToLower(args[1])),
		SalePrice:    price,
		QuantitySold: 1,
	}
	if len(args) > 3 {
		qty, err := strconv.Atoi(args[3])
		if err != nil {
			return app.SaleRequest{}, fmt.Errorf("invalid quantity: %s", args[3])
		}
		req.QuantitySold = qty
	}
	if len(args) > 4 {
		req.SaleDate = args[4]
	}
	return req, nil
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func printProfit(r *core.ProfitReport) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 62))
	fmt.Printf("  %-58s\n", "PROFIT REPORT")
	if r.From != "" || r.To != "" {
		fmt.Printf("  Period : %s .. %s\n", r.From, r.To)
	}
	fmt.Println(strings.Repeat("=", 62))
	fmt.Printf("  %-14s %6s %12s %12s %12s\n", "PLATFORM", "SALES", "REVENUE", "NET", "MARGIN %")
	fmt.Println(strings.Repeat("-", 62))
	for _, p := range r.ByPlatform {
		fmt.Printf("  %-14s %6d %12s %12s %12s\n", p.Platform, p.Sales,
			p.Revenue.StringFixed(2), p.NetProfit.StringFixed(2), p.ProfitMargin.StringFixed(2))
	}
	fmt.Println(strings.Repeat("-", 62))
	fmt.Printf("  %-14s %6d %12s %12s %12s\n", "TOTAL", r.Total.Sales,
		r.Total.Revenue.StringFixed(2), r.Total.NetProfit.StringFixed(2), r.Total.ProfitMargin.StringFixed(2))
	fmt.Println(strings.Repeat("=", 62))
}
