package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/revloop/loyaltyapi/internal/config"
	"github.com/revloop/loyaltyapi/internal/repository/sqlstore"
	"github.com/revloop/loyaltyapi/internal/service"
	"github.com/revloop/loyaltyapi/internal/shopify"
	"github.com/revloop/loyaltyapi/pkg/crypto"
)

// Usage: go run cmd/create-discount/main.go <shop-domain> <percentage> [code]
// Generates a code when none is given.
func main() {
	_ = godotenv.Load()

	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Usage: create-discount <shop-domain> <percentage> [code]")
		os.Exit(1)
	}
	shop := os.Args[1]
	percentage, err := strconv.ParseFloat(os.Args[2], 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "percentage must be a number: %v\n", err)
		os.Exit(1)
	}

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
	gateway := shopify.DefaultGatewayFactory(cfg.Shopify.APIVersion, logger)
	discounts := service.NewDiscountService(repos, gateway, logger)

	code := discounts.GeneratePromoCode()
	if len(os.Args) > 3 {
		code = os.Args[3]
	}

	result, err := discounts.CreateDiscountCode(context.Background(), service.CreateDiscountRequest{
		Shop:       shopify.NormalizeShopDomain(shop),
		Code:       code,
		Percentage: percentage,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create discount: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Created discount code %s (%.0f%% off)\n", result.DiscountCode.Code, percentage)
	fmt.Printf("  price rule id: %d\n", result.PriceRule.ID)
	fmt.Printf("  discount code id: %d\n", result.DiscountCode.ID)
}
