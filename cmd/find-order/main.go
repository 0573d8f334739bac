package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/mbozhik/pickmy/internal/config"
	"github.com/mbozhik/pickmy/internal/repository/postgres"
	"github.com/mbozhik/pickmy/internal/token"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/find-order/main.go <order_token>")
		fmt.Println("Example: go run cmd/find-order/main.go K7M2P9")
		os.Exit(1)
	}

	tok := strings.ToUpper(strings.TrimSpace(os.Args[1]))
	if !token.Valid(tok) {
		fmt.Fprintf(os.Stderr, "Invalid token %q: must be 6 characters A-Z or 0-9\n", os.Args[1])
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	repos := postgres.NewRepositories(db, logger)

	order, err := repos.Order.GetByToken(context.Background(), tok)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to find order: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Order %s\n", order.OrderToken)
	fmt.Printf("  ID:             %s\n", order.ID.String())
	fmt.Printf("  Status:         %s\n", order.Status)
	fmt.Printf("  Payment:        %s\n", order.PaymentStatus)
	fmt.Printf("  Customer:       %s <%s>\n", order.CustomerInfo.Name, order.CustomerInfo.Email)
	fmt.Printf("  Base price:     %s\n", order.Pricing.BasePrice.String())
	fmt.Printf("  Commission:     %s\n", order.Pricing.ExpertCommission.String())
	fmt.Printf("  Delivery fee:   %s\n", order.Pricing.DeliveryFee.String())
	fmt.Printf("  Final price:    %s\n", order.Pricing.FinalPrice.String())
	fmt.Printf("  Created:        %s\n", order.CreatedAt.Format("2006-01-02 15:04:05"))
	if order.Notes != nil {
		fmt.Printf("  Notes:          %s\n", *order.Notes)
	}

	fmt.Printf("\nItems (%d):\n", len(order.Items))
	for _, item := range order.Items {
		fmt.Printf("  - %s x%d @ %s (expert: %s)\n", item.Name, item.Quantity, item.Price.String(), item.ExpertUsername)
	}

	events, err := repos.OrderEvent.GetByOrderID(context.Background(), order.ID)
	if err == nil && len(events) > 0 {
		fmt.Printf("\nEvents:\n")
		for _, event := range events {
			fmt.Printf("  - %s at %s\n", event.EventType, event.CreatedAt.Format("2006-01-02 15:04:05"))
		}
	}
}
