package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mbozhik/pickmy/internal/api/middleware"
	"github.com/mbozhik/pickmy/internal/domain"
	"github.com/mbozhik/pickmy/internal/service"
)

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID            string                  `json:"id"`
	OrderToken    string                  `json:"order_token"`
	Status        domain.OrderStatus      `json:"status"`
	PaymentStatus domain.PaymentStatus    `json:"payment_status"`
	CustomerInfo  domain.CustomerInfo     `json:"customer_info"`
	Pricing       domain.PricingBreakdown `json:"pricing"`
	Items         []OrderItemResponse     `json:"items"`
	Notes         *string                 `json:"notes,omitempty"`
	CreatedAt     string                  `json:"created_at"`
	UpdatedAt     string                  `json:"updated_at"`
}

// OrderItemResponse represents a frozen order line
type OrderItemResponse struct {
	ProductID      string  `json:"product_id"`
	Name           string  `json:"name"`
	Price          string  `json:"price"`
	Quantity       int     `json:"quantity"`
	ExpertUsername string  `json:"expert_username"`
	ImageURL       *string `json:"image_url,omitempty"`
	Slug           string  `json:"slug,omitempty"`
}

func toOrderResponse(order *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemResponse{
			ProductID:      item.ProductID,
			Name:           item.Name,
			Price:          item.Price.String(),
			Quantity:       item.Quantity,
			ExpertUsername: item.ExpertUsername,
			ImageURL:       item.ImageURL,
			Slug:           item.Slug,
		}
	}

	return OrderResponse{
		ID:            order.ID.String(),
		OrderToken:    order.OrderToken,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		CustomerInfo:  order.CustomerInfo,
		Pricing:       order.Pricing,
		Items:         items,
		Notes:         order.Notes,
		CreatedAt:     order.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     order.UpdatedAt.Format(time.RFC3339),
	}
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// HandleListOrders handles GET /v1/orders, the authenticated user's history
func HandleListOrders(orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		limit, offset := pagination(c)
		list, err := orders.ListByUser(c.Request.Context(), user.ID, limit, offset)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		responses := make([]OrderResponse, 0, len(list))
		for _, order := range list {
			responses = append(responses, toOrderResponse(order))
		}
		c.JSON(http.StatusOK, gin.H{"orders": responses})
	}
}

// HandleGetOrderByToken handles GET /v1/orders/:token. Malformed tokens are
// rejected with 400 before any lookup; the owning user or an admin may read.
func HandleGetOrderByToken(orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		order, err := orders.GetByToken(c.Request.Context(), c.Param("token"))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		if order.UserID != user.ID && !user.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		c.JSON(http.StatusOK, toOrderResponse(order))
	}
}
