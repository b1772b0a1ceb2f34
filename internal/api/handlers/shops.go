package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/revloop/loyaltyapi/internal/repository"
	"github.com/revloop/loyaltyapi/internal/service"
	"github.com/revloop/loyaltyapi/internal/shopify"
)

// HandleListShops handles GET /api/shops
func HandleListShops(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		shops, err := repos.Shop.List(c.Request.Context())
		if err != nil {
			logger.Error("Failed to list shops", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"shops": shops,
			"count": len(shops),
		})
	}
}

// HandleGetShop handles GET /api/shop/:shop, returning the live shop details
// from Shopify rather than the stored install-time snapshot.
func HandleGetShop(shops service.ShopService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		shop := shopify.NormalizeShopDomain(c.Param("shop"))

		details, err := shops.FetchShopDetails(c.Request.Context(), shop)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"shop": details})
	}
}

// HandleDeleteShop handles DELETE /api/shops/:shop
func HandleDeleteShop(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		shop := shopify.NormalizeShopDomain(c.Param("shop"))

		if _, err := repos.Shop.Get(c.Request.Context(), shop); err != nil {
			respondError(c, logger, err)
			return
		}
		if err := repos.Shop.Delete(c.Request.Context(), shop); err != nil {
			logger.Error("Failed to delete shop", zap.String("shop_domain", shop), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		logger.Info("Shop uninstalled", zap.String("shop_domain", shop))
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
