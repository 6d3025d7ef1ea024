package repl

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"resale-ledger/internal/app"
	"resale-ledger/internal/core"
)

// prompt prints label and returns the trimmed answer. ok is false when the user
// typed cancel.
func prompt(reader *bufio.Reader, label string) (string, bool) {
	fmt.Print(label)
	raw, _ := reader.ReadString('\n')
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, "cancel") {
		return "", false
	}
	return raw, true
}

// promptDecimal reads an amount; blank means zero unless required.
func promptDecimal(reader *bufio.Reader, label string, required bool) (decimal.Decimal, bool) {
	for {
		raw, ok := prompt(reader, label)
		if !ok {
			return decimal.Zero, false
		}
		raw = strings.TrimPrefix(raw, "$")
		if raw == "" && !required {
			return decimal.Zero, true
		}
		v, err := decimal.NewFromString(raw)
		if err != nil || v.IsNegative() {
			fmt.Println("  Enter a non-negative amount.")
			continue
		}
		return v, true
	}
}

func promptInt(reader *bufio.Reader, label string, def int) (int, bool) {
	for {
		raw, ok := prompt(reader, label)
		if !ok {
			return 0, false
		}
		if raw == "" && def > 0 {
			return def, true
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			fmt.Println("  Enter a positive whole number.")
			continue
		}
		return n, true
	}
}

// handleNewItem runs an interactive item creation session.
func handleNewItem(ctx context.Context, reader *bufio.Reader, svc app.ApplicationService, sellerID int64) {
	fmt.Println("Adding a purchase batch. Type 'cancel' at any prompt to abort.")

	title, ok := prompt(reader, "  Title: ")
	if !ok || title == "" {
		fmt.Println("Item creation cancelled.")
		return
	}
	sku, ok := prompt(reader, "  SKU (optional): ")
	if !ok {
		fmt.Println("Item creation cancelled.")
		return
	}
	cost, ok := promptDecimal(reader, "  Unit cost: ", true)
	if !ok {
		fmt.Println("Item creation cancelled.")
		return
	}
	qty, ok := promptInt(reader, "  Quantity [1]: ", 1)
	if !ok {
		fmt.Println("Item creation cancelled.")
		return
	}
	listPrice, ok := promptDecimal(reader, "  Storefront price (blank to keep unlisted): ", false)
	if !ok {
		fmt.Println("Item creation cancelled.")
		return
	}

	item, err := svc.CreateItem(ctx, sellerID, app.CreateItemRequest{
		Title:             title,
		SKU:               sku,
		PurchasePrice:     cost,
		QuantityPurchased: qty,
		Listed:            listPrice.IsPositive(),
		ListPrice:         listPrice,
	})
	if err != nil {
		fmt.Printf("[REPL] Error creating item: %v\n", err)
		return
	}
	fmt.Printf("\nItem created (ID: %d)\n", item.ID)
	printItem(item)
}

// handleSell runs an interactive sale entry session.
func handleSell(ctx context.Context, reader *bufio.Reader, svc app.ApplicationService, sellerID int64) {
	fmt.Println("Recording a sale. Type 'cancel' at any prompt to abort.")

	var req app.SaleRequest
	for {
		raw, ok := prompt(reader, "  Item ID: ")
		if !ok {
			fmt.Println("Sale cancelled.")
			return
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			fmt.Println("  Enter an item ID (see /items).")
			continue
		}
		item, err := svc.GetItem(ctx, sellerID, id)
		if err != nil {
			fmt.Printf("  %v\n", err)
			continue
		}
		fmt.Printf("  %s: %d on hand at %s\n", item.Title, item.QuantityOnHand, item.PurchasePrice.StringFixed(2))
		req.ItemID = id
		break
	}

	platforms := make([]string, len(core.Platforms))
	for i, p := range core.Platforms {
		platforms[i] = string(p)
	}
	for {
		raw, ok := prompt(reader, fmt.Sprintf("  Platform (%s): ", strings.Join(platforms, ", ")))
		if !ok {
			fmt.Println("Sale cancelled.")
			return
		}
		p := core.Platform(strings.ToLower(raw))
		if !p.Valid() {
			fmt.Println("  Unknown platform.")
			continue
		}
		req.Platform = p
		break
	}

	var ok bool
	if req.SalePrice, ok = promptDecimal(reader, "  Sale price per unit: ", true); !ok {
		fmt.Println("Sale cancelled.")
		return
	}
	if req.QuantitySold, ok = promptInt(reader, "  Quantity [1]: ", 1); !ok {
		fmt.Println("Sale cancelled.")
		return
	}
	if req.SaleDate, ok = prompt(reader, "  Sale date (YYYY-MM-DD, blank for today): "); !ok {
		fmt.Println("Sale cancelled.")
		return
	}
	if req.PlatformFees, ok = promptDecimal(reader, "  Platform fees [0]: ", false); !ok {
		fmt.Println("Sale cancelled.")
		return
	}
	if req.ShippingCost, ok = promptDecimal(reader, "  Shipping cost [0]: ", false); !ok {
		fmt.Println("Sale cancelled.")
		return
	}
	if req.OtherFees, ok = promptDecimal(reader, "  Other fees [0]: ", false); !ok {
		fmt.Println("Sale cancelled.")
		return
	}
	if req.Notes, ok = prompt(reader, "  Notes (optional): "); !ok {
		fmt.Println("Sale cancelled.")
		return
	}

	result, err := svc.CreateSale(ctx, sellerID, req)
	if err != nil {
		fmt.Printf("[REPL] Sale not recorded: %v\n", err)
		return
	}
	fmt.Println()
	printSaleResult("recorded", result)
}
