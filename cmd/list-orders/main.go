package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/mbozhik/pickmy/internal/config"
	"github.com/mbozhik/pickmy/internal/repository/postgres"
)

func main() {
	limitFlag := flag.Int("limit", 20, "Maximum number of orders to list")
	offsetFlag := flag.Int("offset", 0, "Number of orders to skip")
	flag.Parse()

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

	orders, err := repos.Order.ListAll(context.Background(), *limitFlag, *offsetFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list orders: %v\n", err)
		os.Exit(1)
	}

	if len(orders) == 0 {
		fmt.Println("No orders found")
		return
	}

	fmt.Printf("Orders (%d):\n\n", len(orders))
	for _, order := range orders {
		fmt.Printf("%s  %-10s %-8s %-24s %8s  %s\n",
			order.OrderToken,
			order.Status,
			order.PaymentStatus,
			order.CustomerInfo.Name,
			order.Pricing.FinalPrice.String(),
			order.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
}
