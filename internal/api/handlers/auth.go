package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/revloop/loyaltyapi/internal/config"
	"github.com/revloop/loyaltyapi/internal/oauth"
	"github.com/revloop/loyaltyapi/internal/repository"
	"github.com/revloop/loyaltyapi/internal/shopify"
)

// HandleAuthBegin handles GET /auth, redirecting the merchant to Shopify's
// consent screen with a fresh state nonce.
func HandleAuthBegin(cfg *config.Config, states *oauth.StateStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		shop, ok := requireShopQuery(c)
		if !ok {
			return
		}

		state := states.Issue()
		authURL := shopify.AuthorizeURL(shop, cfg.Shopify.APIKey, cfg.Shopify.Scopes, cfg.Shopify.CallbackURL, state)

		logger.Info("Starting OAuth flow", zap.String("shop_domain", shop))
		c.Redirect(http.StatusFound, authURL)
	}
}

// HandleAuthCallback handles GET /auth/callback. It verifies the HMAC and
// the state nonce, trades the code for a permanent token, and stores the
// shop's credentials.
func HandleAuthCallback(cfg *config.Config, repos *repository.Repositories, states *oauth.StateStore, gateway shopify.GatewayFactory, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Request.URL.Query()

		if !shopify.VerifyHMAC(query, cfg.Shopify.APISecret) {
			logger.Warn("OAuth callback with invalid HMAC", zap.String("shop", query.Get("shop")))
			c.JSON(http.StatusBadRequest, gin.H{"error": "hmac verification failed"})
			return
		}
		if !states.Consume(query.Get("state")) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired state"})
			return
		}

		shop := shopify.NormalizeShopDomain(query.Get("shop"))
		if !shopify.IsValidShopDomain(shop) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "shop must be a .myshopify.com domain"})
			return
		}
		code := query.Get("code")
		if code == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "code parameter is required"})
			return
		}

		token, err := shopify.ExchangeAccessToken(c.Request.Context(), shop, cfg.Shopify.APIKey, cfg.Shopify.APISecret, code)
		if err != nil {
			logger.Error("Access token exchange failed", zap.String("shop_domain", shop), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to exchange access token"})
			return
		}

		// Snapshot the shop blob at install time. Not worth failing the
		// install over; the record is refreshed on demand via /api/shop.
		shopData, err := gateway(shop, token).GetShopDetails(c.Request.Context())
		if err != nil {
			logger.Warn("Could not fetch shop details during install", zap.String("shop_domain", shop), zap.Error(err))
			shopData = map[string]interface{}{}
		}

		if err := repos.Shop.Save(c.Request.Context(), shop, token, shopData); err != nil {
			logger.Error("Failed to save shop credentials", zap.String("shop_domain", shop), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save shop"})
			return
		}

		logger.Info("App installed", zap.String("shop_domain", shop))
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"shop":    shop,
			"message": "App installed successfully",
		})
	}
}
