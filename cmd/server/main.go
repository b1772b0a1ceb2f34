package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/revloop/loyaltyapi/internal/api"
	"github.com/revloop/loyaltyapi/internal/config"
	"github.com/revloop/loyaltyapi/internal/oauth"
	"github.com/revloop/loyaltyapi/internal/repository/sqlstore"
	"github.com/revloop/loyaltyapi/internal/service"
	"github.com/revloop/loyaltyapi/internal/shopify"
	"github.com/revloop/loyaltyapi/pkg/crypto"
)

func main() {
	// Load .env into the process environment before config reads it
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, _ = zap.NewProduction()
	} else {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	logger.Info("Starting loyalty campaign API server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.String("db_driver", cfg.Database.Driver),
	)

	// Initialize database
	db, err := sqlstore.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := sqlstore.EnsureSchema(db); err != nil {
		logger.Fatal("Failed to create schema", zap.Error(err))
	}

	// Token sealer for shop credentials at rest
	sealer := crypto.NewSealer(cfg.Database.TokenSecret)

	// Initialize repositories
	repos := sqlstore.NewRepositories(db, sealer, logger)

	// OAuth state nonces: 5 minute validity, swept every 10 minutes
	states := oauth.NewStateStore(5 * time.Minute)
	states.StartSweep(10 * time.Minute)
	defer states.Stop()

	// Initialize services
	gateway := shopify.DefaultGatewayFactory(cfg.Shopify.APIVersion, logger)
	discounts := service.NewDiscountService(repos, gateway, logger)
	restocker := service.NewRestockService(repos, gateway, logger)
	orders := service.NewOrderService(repos, gateway, discounts, restocker, logger)
	svcs := api.Services{
		Discounts: discounts,
		Orders:    orders,
		Products:  service.NewProductService(repos, gateway, logger),
		Shops:     service.NewShopService(repos, gateway, logger),
	}

	// Initialize router
	router := api.NewRouter(cfg, repos, svcs, states, gateway, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Server started successfully", zap.String("address", srv.Addr))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
