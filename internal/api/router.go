package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mbozhik/pickmy/internal/api/handlers"
	"github.com/mbozhik/pickmy/internal/api/middleware"
	"github.com/mbozhik/pickmy/internal/cart"
	"github.com/mbozhik/pickmy/internal/config"
	"github.com/mbozhik/pickmy/internal/pricing"
	"github.com/mbozhik/pickmy/internal/repository"
	"github.com/mbozhik/pickmy/internal/service"
)

// Services bundles the wired application services for the router
type Services struct {
	Catalog  *service.CatalogService
	Checkout *service.CheckoutService
	Orders   *service.OrderService
	Carts    *cart.Store
	Pricing  *pricing.Calculator
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, repos *repository.Repositories, svcs *Services, logger *zap.Logger) *gin.Engine {
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
			"service": "PickMy Storefront API",
			"endpoints": []string{
				"GET /health",
				"GET /v1/catalog/products",
				"GET /v1/catalog/experts",
				"GET /v1/cart",
				"GET /v1/cart/pricing",
				"POST /v1/checkout",
				"GET /v1/orders",
				"GET /v1/orders/:token",
				"GET /v1/admin/orders",
			},
		})
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/v1")
	{
		// Public catalog
		catalog := v1.Group("/catalog")
		{
			catalog.GET("/products", handlers.HandleListProducts(svcs.Catalog, logger))
			catalog.GET("/products/:slug", handlers.HandleGetProduct(svcs.Catalog, logger))
			catalog.GET("/experts", handlers.HandleListExperts(svcs.Catalog, logger))
			catalog.GET("/experts/:username", handlers.HandleGetExpert(svcs.Catalog, logger))
			catalog.GET("/categories", handlers.HandleListCategories(svcs.Catalog, logger))
		}

		// Session cart routes (require X-Session-ID)
		cartRoutes := v1.Group("/cart")
		cartRoutes.Use(middleware.SessionMiddleware())
		{
			cartRoutes.GET("", handlers.HandleGetCart(svcs.Carts, logger))
			cartRoutes.DELETE("", handlers.HandleClearCart(svcs.Carts, logger))
			cartRoutes.POST("/items", handlers.HandleAddItem(svcs.Carts, svcs.Catalog, logger))
			cartRoutes.PATCH("/items/:productID", handlers.HandleUpdateQuantity(svcs.Carts, logger))
			cartRoutes.DELETE("/items/:productID", handlers.HandleRemoveItem(svcs.Carts, logger))
			cartRoutes.GET("/pricing", handlers.HandleCartPricing(svcs.Carts, svcs.Pricing, logger))
		}

		// Authenticated routes
		userRoutes := v1.Group("")
		userRoutes.Use(middleware.AuthMiddleware(repos, logger))
		{
			userRoutes.POST("/checkout", middleware.SessionMiddleware(), handlers.HandleCheckout(svcs.Checkout, logger))
			userRoutes.GET("/orders", handlers.HandleListOrders(svcs.Orders, logger))
			userRoutes.GET("/orders/:token", handlers.HandleGetOrderByToken(svcs.Orders, logger))
		}

		// Admin routes
		adminRoutes := v1.Group("/admin")
		adminRoutes.Use(middleware.AdminMiddleware(cfg, repos, logger))
		{
			adminRoutes.GET("/orders", handlers.HandleAdminListOrders(svcs.Orders, logger))
			adminRoutes.PATCH("/orders/:id/status", handlers.HandleUpdateOrderStatus(svcs.Orders, logger))
			adminRoutes.PATCH("/orders/:id/payment-status", handlers.HandleUpdatePaymentStatus(svcs.Orders, logger))
			adminRoutes.PATCH("/orders/:id/notes", handlers.HandleUpdateOrderNotes(svcs.Orders, logger))
			adminRoutes.GET("/orders/:id/events", handlers.HandleGetOrderEvents(svcs.Orders, logger))
		}
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

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
