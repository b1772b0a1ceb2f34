package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	AppURL      string
	Database    DatabaseConfig
	Shopify     ShopifyAppConfig
	LogLevel    string
}

// ShopifyAppConfig holds app-level Shopify credentials used during OAuth.
// Per-shop access tokens live in the shops table, not here.
type ShopifyAppConfig struct {
	APIKey      string
	APISecret   string
	Scopes      string
	CallbackURL string
	APIVersion  string
}

type DatabaseConfig struct {
	Driver   string // "sqlite3" (default) or "postgres"
	Path     string // sqlite file path
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	// TokenSecret derives the AES key that seals shop access tokens at rest.
	TokenSecret string
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "3000")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_DRIVER", "sqlite3")
	viper.SetDefault("DB_PATH", "./data/shops.db")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SHOPIFY_API_VERSION", "2024-10")
	viper.SetDefault("SHOPIFY_SCOPES", "read_products,write_price_rules,read_orders,write_orders,write_inventory")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	appURL := strings.TrimSuffix(getEnvOrViper("APP_URL", "http://localhost:3000"), "/")

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "3000"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		AppURL:      appURL,
		Database: DatabaseConfig{
			Driver:      getEnvOrViper("DB_DRIVER", "sqlite3"),
			Path:        getEnvOrViper("DB_PATH", "./data/shops.db"),
			Host:        getEnvOrViper("DB_HOST", "localhost"),
			Port:        getEnvOrViper("DB_PORT", "5432"),
			User:        getEnvOrViper("DB_USER", "postgres"),
			Password:    getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:      getEnvOrViper("DB_NAME", "loyaltyapi"),
			SSLMode:     getEnvOrViper("DB_SSLMODE", "disable"),
			TokenSecret: getEnvOrViper("TOKEN_ENCRYPTION_KEY", ""),
		},
		Shopify: ShopifyAppConfig{
			APIKey:      strings.TrimSpace(getEnvOrViper("SHOPIFY_API_KEY", "")),
			APISecret:   strings.TrimSpace(getEnvOrViper("SHOPIFY_API_SECRET", "")),
			Scopes:      getEnvOrViper("SHOPIFY_SCOPES", "read_products,write_price_rules,read_orders,write_orders,write_inventory"),
			CallbackURL: getEnvOrViper("CALLBACK_URL", appURL+"/auth/callback"),
			APIVersion:  getEnvOrViper("SHOPIFY_API_VERSION", "2024-10"),
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.Shopify.APIKey == "" {
		return nil, fmt.Errorf("SHOPIFY_API_KEY is required")
	}
	if cfg.Shopify.APISecret == "" {
		return nil, fmt.Errorf("SHOPIFY_API_SECRET is required")
	}
	if cfg.Database.TokenSecret == "" {
		return nil, fmt.Errorf("TOKEN_ENCRYPTION_KEY is required")
	}
	if cfg.Database.Driver != "sqlite3" && cfg.Database.Driver != "postgres" {
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s", cfg.Database.Driver)
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
