package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/revloop/loyaltyapi/internal/config"
	"github.com/revloop/loyaltyapi/internal/repository/sqlstore"
	"github.com/revloop/loyaltyapi/pkg/crypto"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	db, err := sqlstore.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	repos := sqlstore.NewRepositories(db, crypto.NewSealer(cfg.Database.TokenSecret), logger)

	shops, err := repos.Shop.List(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list shops: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Installed shops:")
	fmt.Println()
	if len(shops) == 0 {
		fmt.Println("  No shops installed. Start the server and visit /auth?shop=your-shop.myshopify.com")
		os.Exit(0)
	}

	for _, s := range shops {
		fmt.Printf("  %s  installed: %s\n", s.ShopDomain, s.InstalledAt.Format("2006-01-02 15:04"))
	}
}
