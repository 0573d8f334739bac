package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/mbozhik/pickmy/internal/config"
	"github.com/mbozhik/pickmy/internal/domain"
	"github.com/mbozhik/pickmy/internal/repository/postgres"
)

func main() {
	nameFlag := flag.String("name", "", "Expert display name")
	usernameFlag := flag.String("username", "", "Expert handle, unique, e.g. sofia")
	roleFlag := flag.String("role", "", "Expert role shown in the catalog")
	linkFlag := flag.String("link", "", "External profile link")
	featuredFlag := flag.Bool("featured", false, "Show the expert on the featured list")
	flag.Parse()

	name := strings.TrimSpace(*nameFlag)
	username := strings.TrimSpace(*usernameFlag)
	if name == "" || username == "" {
		fmt.Println("Usage:")
		fmt.Println("  go run cmd/create-expert/main.go --name \"Sofia Ivanova\" --username sofia [--role \"Ceramics\"] [--link https://...] [--featured]")
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

	expert := &domain.Expert{
		Name:     name,
		Username: username,
		Role:     strings.TrimSpace(*roleFlag),
		Link:     strings.TrimSpace(*linkFlag),
		Featured: *featuredFlag,
	}

	if err := repos.Expert.Create(context.Background(), expert); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create expert: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Expert created successfully!\n\n")
	fmt.Printf("Expert ID: %s\n", expert.ID.String())
	fmt.Printf("Name:      %s\n", expert.Name)
	fmt.Printf("Username:  %s\n", expert.Username)
	if expert.Featured {
		fmt.Printf("Featured:  yes\n")
	}
}
