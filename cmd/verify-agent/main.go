package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"resale-ledger/internal/ai"
	"resale-ledger/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.OpenAI.APIKey == "" {
		log.Fatal("OPENAI_API_KEY not set")
	}

	agent := ai.NewAgent(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	ctx := context.Background()

	catalogue := `1 | Levi's 501 jeans | DEN-501 | 3 | 8.00
2 | Pyrex mixing bowl set | KIT-PYX | 1 | 6.50
3 | Brass desk lamp | HOM-LMP | 1 | 12.00`

	text := "Sold the brass lamp on eBay yesterday for $55, fees were 7.15 and I paid 11.40 to ship it."

	fmt.Printf("READING SALE: %s\n", text)
	proposal, err := agent.ProposeSale(ctx, text, catalogue, time.Now().Format("2006-01-02"))
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	fmt.Printf("\n--- PROPOSAL ---\n")
	fmt.Printf("Confidence: %.2f\n", proposal.Confidence)
	fmt.Printf("Reasoning: %s\n", proposal.Reasoning)
	if proposal.NeedsClarification() {
		fmt.Printf("Clarification: %s\n", proposal.Clarification)
		return
	}

	in, err := proposal.Input()
	if err != nil {
		log.Fatalf("Proposal rejected: %v", err)
	}
	fmt.Printf("\nItem %d on %s: %d × %s on %s\n", in.ItemID, in.Platform, in.QuantitySold, in.SalePrice.StringFixed(2), in.SaleDate)
	fmt.Printf("Fees: platform %s, shipping %s, other %s\n",
		in.Fees.PlatformFees.StringFixed(2), in.Fees.ShippingCost.StringFixed(2), in.Fees.OtherFees.StringFixed(2))
}
