package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mbozhik/pickmy/internal/api/middleware"
	"github.com/mbozhik/pickmy/internal/domain"
	"github.com/mbozhik/pickmy/internal/service"
)

// CheckoutRequest submits the session cart as an order. The pricing field is
// optional; it is never trusted, the breakdown is always recomputed from the
// live cart.
type CheckoutRequest struct {
	CustomerInfo domain.CustomerInfo      `json:"customer_info" binding:"required"`
	Pricing      *domain.PricingBreakdown `json:"pricing,omitempty"`
}

// HandleCheckout handles POST /v1/checkout
func HandleCheckout(checkout *service.CheckoutService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "customer_info is required"})
			return
		}

		order, err := checkout.Submit(c.Request.Context(), user.ID, middleware.GetSessionID(c), req.CustomerInfo, req.Pricing)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, toOrderResponse(order))
	}
}
