package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/revloop/loyaltyapi/internal/service"
)

// HandleListProducts handles GET /api/products
func HandleListProducts(products service.ProductService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		shop, ok := requireShopQuery(c)
		if !ok {
			return
		}

		opts := service.ProductListOptions{Search: c.Query("search")}
		if raw := c.Query("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
				return
			}
			opts.Limit = limit
		}
		if raw := c.Query("since_id"); raw != "" {
			sinceID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "since_id must be an integer"})
				return
			}
			opts.SinceID = sinceID
		}

		page, err := products.ListProducts(c.Request.Context(), shop, opts)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, page)
	}
}

// HandleGetProduct handles GET /api/products/:id
func HandleGetProduct(products service.ProductService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		shop, ok := requireShopQuery(c)
		if !ok {
			return
		}

		productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "product id must be an integer"})
			return
		}

		product, err := products.GetProduct(c.Request.Context(), shop, productID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"product": product})
	}
}
