package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"resale-ledger/internal/app"
	"resale-ledger/internal/core"
)

// Run starts the interactive REPL loop.
// It reads commands from reader, dispatches slash commands deterministically,
// and routes plain text through the sale intake assistant.
func Run(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader) {
	seller, err := svc.LoadDefaultSeller(ctx)
	if err != nil {
		log.Fatalf("Failed to load seller: %v", err)
	}
	sellerID := seller.ID

	fmt.Println("Resale Ledger")
	fmt.Printf("Store: %s (%s)\n", seller.StoreName, seller.StoreSlug)
	fmt.Println("Describe a sale in plain words, or use /help for commands.")
	fmt.Println(strings.Repeat("-", 70))

	errExit := errors.New("exit")

	id := func(args []string, usage string) (int64, bool) {
		if len(args) < 1 {
			fmt.Println("Usage: " + usage)
			return 0, false
		}
		n, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || n <= 0 {
			fmt.Printf("Invalid id: %s\n", args[0])
			return 0, false
		}
		return n, true
	}

	dispatchSlash := func(input string) error {
		tokens := strings.Fields(strings.TrimPrefix(input, "/"))
		if len(tokens) == 0 {
			return nil
		}
		cmd := strings.ToLower(tokens[0])
		args := tokens[1:]

		switch cmd {
		case "items", "inv":
			all := len(args) > 0 && strings.EqualFold(args[0], "all")
			result, err := svc.ListItems(ctx, sellerID, all)
			if err != nil {
				return err
			}
			printItems(result)

		case "item":
			itemID, ok := id(args, "/item <id>")
			if !ok {
				return nil
			}
			item, err := svc.GetItem(ctx, sellerID, itemID)
			if err != nil {
				return err
			}
			printItem(item)

		case "new-item":
			handleNewItem(ctx, reader, svc, sellerID)

		case "remove-item":
			itemID, ok := id(args, "/remove-item <id>")
			if !ok {
				return nil
			}
			result, err := svc.DeleteItem(ctx, sellerID, itemID)
			if err != nil {
				return err
			}
			fmt.Printf("Item %d %s.\n", result.ItemID, result.State)

		case "drift":
			result, err := svc.CheckDrift(ctx, sellerID)
			if err != nil {
				return err
			}
			printDrift(result)

		case "sales":
			var filter core.SaleFilter
			if len(args) > 0 {
				n, ok := id(args, "/sales [item-id]")
				if !ok {
					return nil
				}
				filter.ItemID = n
			}
			result, err := svc.ListSales(ctx, sellerID, filter)
			if err != nil {
				return err
			}
			printSales(result)

		case "sell":
			handleSell(ctx, reader, svc, sellerID)

		case "unsell":
			saleID, ok := id(args, "/unsell <sale-id>")
			if !ok {
				return nil
			}
			result, err := svc.DeleteSale(ctx, sellerID, saleID)
			if err != nil {
				return err
			}
			switch {
			case result.ItemRemoved:
				fmt.Printf("Sale %d deleted. The item no longer exists; no stock restored.\n", saleID)
			case !result.InventoryRestored:
				fmt.Printf("Sale %d deleted. The item is archived; counters left unchanged.\n", saleID)
			default:
				fmt.Printf("Sale %d deleted and stock restored.\n", saleID)
			}

		case "profit":
			var from, to string
			if len(args) > 0 {
				from = args[0]
			}
			if len(args) > 1 {
				to = args[1]
			}
			report, err := svc.GetProfitReport(ctx, sellerID, from, to)
			if err != nil {
				return err
			}
			printProfit(report)

		case "store":
			if len(args) < 1 || (args[0] != "on" && args[0] != "off") {
				fmt.Println("Usage: /store on|off")
				return nil
			}
			s, err := svc.SetStorefrontEnabled(ctx, sellerID, args[0] == "on")
			if err != nil {
				return err
			}
			if s.StorefrontEnabled {
				fmt.Printf("Storefront open at /api/storefront/%s\n", s.StoreSlug)
			} else {
				fmt.Println("Storefront closed.")
			}

		case "orders":
			result, err := svc.ListOrders(ctx, sellerID)
			if err != nil {
				return err
			}
			printOrders(result)

		case "fulfil", "fulfill":
			orderID, ok := id(args, "/fulfil <order-id>")
			if !ok {
				return nil
			}
			result, err := svc.FulfilOrder(ctx, sellerID, orderID)
			if err != nil {
				return err
			}
			fmt.Printf("Order %d PAID.\n", result.Order.ID)
			printSaleResult("recorded", result.Sale)

		case "ship":
			orderID, ok := id(args, "/ship <order-id> [tracking]")
			if !ok {
				return nil
			}
			tracking := strings.Join(args[1:], " ")
			order, err := svc.ShipOrder(ctx, sellerID, orderID, tracking)
			if err != nil {
				return err
			}
			fmt.Printf("Order %d marked as SHIPPED.\n", order.ID)

		case "cancel":
			orderID, ok := id(args, "/cancel <order-id>")
			if !ok {
				return nil
			}
			order, err := svc.CancelOrder(ctx, sellerID, orderID)
			if err != nil {
				return err
			}
			fmt.Printf("Order %d CANCELLED.\n", order.ID)

		case "help", "h":
			printHelp()

		case "exit", "quit", "e", "q":
			return errExit

		default:
			fmt.Printf("Unknown command: /%s  (type /help for all commands)\n", cmd)
		}
		return nil
	}

	for {
		fmt.Print("\n> ")
		input, err := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "" {
			if err != nil {
				return
			}
			continue
		}

		// Slash prefix → deterministic command dispatcher, no AI invoked.
		if strings.HasPrefix(input, "/") {
			if err := dispatchSlash(input); err != nil {
				if errors.Is(err, errExit) {
					fmt.Println("Goodbye!")
					return
				}
				fmt.Printf("Error: %v\n", err)
			}
			continue
		}

		fmt.Println("[AI] Reading sale...")
		accumulated := input

		for rounds := 1; ; rounds++ {
			if rounds > 3 {
				fmt.Println("Could not produce a sale. Try /sell instead.")
				break
			}

			result, err := svc.ProposeSale(ctx, sellerID, accumulated)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				break
			}

			if result.IsClarification {
				fmt.Printf("\n[AI]: %s\n", result.ClarificationMessage)
				fmt.Print("> ")
				followUp, _ := reader.ReadString('\n')
				followUp = strings.TrimSpace(followUp)

				// Slash command during clarification cancels intake and runs it.
				if strings.HasPrefix(followUp, "/") {
					fmt.Println("(intake cancelled)")
					if dispErr := dispatchSlash(followUp); dispErr != nil {
						if errors.Is(dispErr, errExit) {
							fmt.Println("Goodbye!")
							return
						}
						fmt.Printf("Error: %v\n", dispErr)
					}
					break
				}
				if followUp == "" || strings.EqualFold(followUp, "cancel") {
					fmt.Println("Cancelled.")
					break
				}
				accumulated = fmt.Sprintf("Original description: %s\nQuestion asked: %s\nSeller answer: %s",
					accumulated, result.ClarificationMessage, followUp)
				fmt.Println("[AI] Thinking...")
				continue
			}

			if result.Input == nil {
				fmt.Printf("Could not use the proposal: %s\n", result.Problem)
				break
			}

			printProposal(result.Proposal, result.Input)
			if result.Proposal.Confidence < 0.6 {
				fmt.Println("\nWARNING: Low confidence proposal.")
			}

			fmt.Print("\nRecord this sale? (y/n): ")
			choice, _ := reader.ReadString('\n')
			choice = strings.TrimSpace(strings.ToLower(choice))
			if choice == "y" || choice == "yes" {
				sale, err := svc.CreateSale(ctx, sellerID, *result.Input)
				if err != nil {
					fmt.Printf("Sale NOT recorded: %v\n", err)
				} else {
					printSaleResult("recorded", sale)
				}
			} else {
				fmt.Println("Sale discarded.")
			}
			break
		}
	}
}
