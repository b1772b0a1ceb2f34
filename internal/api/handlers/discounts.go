package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/revloop/loyaltyapi/internal/service"
	"github.com/revloop/loyaltyapi/internal/shopify"
)

// HandleListDiscounts handles GET /api/discounts
func HandleListDiscounts(discounts service.DiscountService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		shop, ok := requireShopQuery(c)
		if !ok {
			return
		}

		rows, err := discounts.ListDiscountCodes(c.Request.Context(), shop)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"discounts": rows,
			"count":     len(rows),
		})
	}
}

// HandleCreateDiscount handles POST /api/discounts/create
func HandleCreateDiscount(discounts service.DiscountService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.CreateDiscountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		req.Shop = shopify.NormalizeShopDomain(req.Shop)

		result, err := discounts.CreateDiscountCode(c.Request.Context(), req)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusCreated, result)
	}
}

// HandleGeneratePromoCode handles GET /api/discounts/generate-code
func HandleGeneratePromoCode(discounts service.DiscountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"code": discounts.GeneratePromoCode()})
	}
}
