package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/revloop/loyaltyapi/internal/shopify"
	"github.com/revloop/loyaltyapi/pkg/errors"
)

// respondError maps service errors to HTTP statuses. Upstream failures keep
// Shopify's error text in the body so merchants see the real reason.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch e := err.(type) {
	case *errors.ErrShopNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": e.Error()})
	case *errors.ErrValidation:
		c.JSON(http.StatusBadRequest, gin.H{"error": e.Error()})
	case *errors.ErrPrecondition:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": e.Error()})
	case *errors.ErrUpstream:
		logger.Error("Upstream call failed",
			zap.String("operation", e.Operation),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": e.Error()})
	default:
		logger.Error("Unhandled error", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// requireShopQuery reads and normalizes the shop query parameter, writing a
// 400 itself when the parameter is missing or malformed.
func requireShopQuery(c *gin.Context) (string, bool) {
	shop := shopify.NormalizeShopDomain(c.Query("shop"))
	if shop == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "shop query parameter is required"})
		return "", false
	}
	if !shopify.IsValidShopDomain(shop) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "shop must be a .myshopify.com domain"})
		return "", false
	}
	return shop, true
}
