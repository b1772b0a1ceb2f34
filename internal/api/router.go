package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/revloop/loyaltyapi/internal/api/handlers"
	"github.com/revloop/loyaltyapi/internal/config"
	"github.com/revloop/loyaltyapi/internal/oauth"
	"github.com/revloop/loyaltyapi/internal/repository"
	"github.com/revloop/loyaltyapi/internal/service"
	"github.com/revloop/loyaltyapi/internal/shopify"
)

// Services bundles the service layer for route wiring
type Services struct {
	Discounts service.DiscountService
	Orders    service.OrderService
	Products  service.ProductService
	Shops     service.ShopService
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, repos *repository.Repositories, svcs Services, states *oauth.StateStore, gateway shopify.GatewayFactory, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(customRecovery(logger))
	router.Use(loggingMiddleware(logger))

	// Root: friendly response so GET / returns 200 instead of 404
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Loyalty Campaign API",
			"endpoints": []string{
				"GET /health",
				"GET /auth?shop=",
				"GET /api/products?shop=",
				"GET /api/discounts?shop=",
				"POST /api/discounts/create",
				"GET /api/orders?shop=",
				"POST /api/orders/mark-campaign-promise-met",
				"GET /api/shops",
			},
		})
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// OAuth install flow
	router.GET("/auth", handlers.HandleAuthBegin(cfg, states, logger))
	router.GET("/auth/callback", handlers.HandleAuthCallback(cfg, repos, states, gateway, logger))

	apiRoutes := router.Group("/api")
	{
		apiRoutes.GET("/products", handlers.HandleListProducts(svcs.Products, logger))
		apiRoutes.GET("/products/:id", handlers.HandleGetProduct(svcs.Products, logger))

		apiRoutes.GET("/discounts", handlers.HandleListDiscounts(svcs.Discounts, logger))
		apiRoutes.POST("/discounts/create", handlers.HandleCreateDiscount(svcs.Discounts, logger))
		apiRoutes.GET("/discounts/generate-code", handlers.HandleGeneratePromoCode(svcs.Discounts))

		apiRoutes.GET("/orders", handlers.HandleGetAllOrders(svcs.Orders, logger))
		apiRoutes.POST("/orders/mark-campaign-promise-met", handlers.HandleMarkCampaignPromiseMet(svcs.Orders, logger))

		apiRoutes.GET("/shops", handlers.HandleListShops(repos, logger))
		apiRoutes.GET("/shop/:shop", handlers.HandleGetShop(svcs.Shops, logger))
		apiRoutes.DELETE("/shops/:shop", handlers.HandleDeleteShop(repos, logger))
	}

	return router
}

// customRecovery is a custom recovery middleware that logs panics
func customRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal server error",
			"details": fmt.Sprintf("%v", recovered),
		})
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method
		start := time.Now()

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
