package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mbozhik/pickmy/internal/api/middleware"
	"github.com/mbozhik/pickmy/internal/cart"
	"github.com/mbozhik/pickmy/internal/pricing"
	"github.com/mbozhik/pickmy/internal/service"
)

// AddItemRequest adds one unit of a product to the cart
type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// UpdateQuantityRequest sets a cart line's quantity
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// HandleGetCart handles GET /v1/cart
func HandleGetCart(carts *cart.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionCart, err := carts.Get(c.Request.Context(), middleware.GetSessionID(c))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, sessionCart)
	}
}

// HandleAddItem handles POST /v1/cart/items. The catalog row is frozen into
// the cart line at this point; later catalog edits never change it.
func HandleAddItem(carts *cart.Store, catalog *service.CatalogService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required"})
			return
		}

		line, err := catalog.BuildLineItem(c.Request.Context(), req.ProductID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		sessionCart, err := carts.AddItem(c.Request.Context(), middleware.GetSessionID(c), line)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, sessionCart)
	}
}

// HandleUpdateQuantity handles PATCH /v1/cart/items/:productID.
// A quantity of zero or below removes the line.
func HandleUpdateQuantity(carts *cart.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity is required"})
			return
		}

		sessionCart, err := carts.UpdateQuantity(c.Request.Context(), middleware.GetSessionID(c), c.Param("productID"), req.Quantity)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, sessionCart)
	}
}

// HandleRemoveItem handles DELETE /v1/cart/items/:productID
func HandleRemoveItem(carts *cart.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionCart, err := carts.RemoveItem(c.Request.Context(), middleware.GetSessionID(c), c.Param("productID"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, sessionCart)
	}
}

// HandleClearCart handles DELETE /v1/cart
func HandleClearCart(carts *cart.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := carts.Clear(c.Request.Context(), middleware.GetSessionID(c)); err != nil {
			respondError(c, logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// HandleCartPricing handles GET /v1/cart/pricing, the on-demand breakdown
// preview. Nothing is persisted; checkout recomputes from scratch.
func HandleCartPricing(carts *cart.Store, calculator *pricing.Calculator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionCart, err := carts.Get(c.Request.Context(), middleware.GetSessionID(c))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		breakdown := calculator.Calculate(sessionCart.Items)
		c.JSON(http.StatusOK, gin.H{
			"cart":    sessionCart,
			"pricing": breakdown,
		})
	}
}
