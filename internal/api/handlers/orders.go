package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/revloop/loyaltyapi/internal/service"
	"github.com/revloop/loyaltyapi/internal/shopify"
)

// HandleGetAllOrders handles GET /api/orders
func HandleGetAllOrders(orders service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		shop, ok := requireShopQuery(c)
		if !ok {
			return
		}

		views, err := orders.GetAllOrders(c.Request.Context(), shop)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"orders":  views,
			"count":   len(views),
		})
	}
}

// HandleMarkCampaignPromiseMet handles POST /api/orders/mark-campaign-promise-met
func HandleMarkCampaignPromiseMet(orders service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.MarkCampaignPromiseMetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		req.Shop = shopify.NormalizeShopDomain(req.Shop)

		result, err := orders.MarkCampaignPromiseMet(c.Request.Context(), req)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}
