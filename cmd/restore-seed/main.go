// restore-seed is a one-shot tool that restores the demo seller, its inventory,
// and a handful of sales. Run it against an empty or wiped database.
//
// Usage: go run ./cmd/restore-seed
package main

import (
	"context"
	"errors"
	"log"

	"github.com/shopspring/decimal"

	"resale-ledger/internal/app"
	"resale-ledger/internal/bootstrap"
	"resale-ledger/internal/config"
	"resale-ledger/internal/core"
	"resale-ledger/internal/logging"
)

const (
	demoEmail    = "demo@resale.local"
	demoPassword = "demo-password"
)

type seedItem struct {
	title     string
	sku       string
	cost      string
	qty       int
	listPrice string
	sales     []app.SaleRequest
}

var seed = []seedItem{
	{
		title: "Levi's 501 jeans", sku: "DEN-501", cost: "8.00", qty: 4, listPrice: "45.00",
		sales: []app.SaleRequest{
			{Platform: core.PlatformEbay, SalePrice: decimal.RequireFromString("42.00"), QuantitySold: 1, SaleDate: "2026-01-12",
				PlatformFees: decimal.RequireFromString("5.46"), ShippingCost: decimal.RequireFromString("6.20")},
			{Platform: core.PlatformDepop, SalePrice: decimal.RequireFromString("38.00"), QuantitySold: 1, SaleDate: "2026-02-03",
				PlatformFees: decimal.RequireFromString("3.80")},
		},
	},
	{
		title: "Pyrex mixing bowl set", sku: "KIT-PYX", cost: "6.50", qty: 2, listPrice: "30.00",
		sales: []app.SaleRequest{
			{Platform: core.PlatformMercari, SalePrice: decimal.RequireFromString("28.00"), QuantitySold: 1, SaleDate: "2026-01-20",
				PlatformFees: decimal.RequireFromString("2.80"), ShippingCost: decimal.RequireFromString("9.10")},
		},
	},
	{
		title: "Brass desk lamp", sku: "HOM-LMP", cost: "12.00", qty: 1, listPrice: "55.00",
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.ValidateStore(); err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.Must("warn", "console")
	defer logger.Sync()

	ctx := context.Background()
	store, closeStore, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer closeStore()
	svc := bootstrap.NewAppService(cfg, store, nil, logger)

	seller, err := svc.RegisterSeller(ctx, app.RegisterSellerRequest{
		Email: demoEmail, Password: demoPassword, StoreName: "Demo Resale", StoreSlug: "demo",
	})
	switch {
	case errors.Is(err, core.ErrAlreadyExists):
		seller, err = svc.AuthenticateSeller(ctx, demoEmail, demoPassword)
		if err != nil {
			log.Fatalf("Demo seller exists but its password was changed: %v", err)
		}
		log.Println("Demo seller already present.")
	case err != nil:
		log.Fatalf("Failed to restore demo seller: %v", err)
	default:
		log.Println("Restored demo seller.")
	}

	existing, err := svc.ListItems(ctx, seller.ID, true)
	if err != nil {
		log.Fatalf("Failed to list items: %v", err)
	}
	if len(existing.Items) > 0 {
		log.Printf("Demo inventory already present (%d items); leaving it alone.", len(existing.Items))
	} else {
		restoreInventory(ctx, svc, seller.ID)
	}

	if _, err := svc.SetStorefrontEnabled(ctx, seller.ID, true); err != nil {
		log.Fatalf("Failed to open storefront: %v", err)
	}
	log.Println("Seed data restored successfully. Sign in as " + demoEmail)
}

func restoreInventory(ctx context.Context, svc app.ApplicationService, sellerID int64) {
	for _, s := range seed {
		item, err := svc.CreateItem(ctx, sellerID, app.CreateItemRequest{
			Title:             s.title,
			SKU:               s.sku,
			PurchasePrice:     decimal.RequireFromString(s.cost),
			QuantityPurchased: s.qty,
			Listed:            true,
			ListPrice:         decimal.RequireFromString(s.listPrice),
		})
		if err != nil {
			log.Fatalf("Failed to restore item %q: %v", s.title, err)
		}
		for _, sale := range s.sales {
			sale.ItemID = item.ID
			if _, err := svc.CreateSale(ctx, sellerID, sale); err != nil {
				log.Fatalf("Failed to restore sale of %q: %v", s.title, err)
			}
		}
		log.Printf("Restored %s (%d sales)", s.title, len(s.sales))
	}
}
