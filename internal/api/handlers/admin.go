package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mbozhik/pickmy/internal/domain"
	"github.com/mbozhik/pickmy/internal/service"
)

// UpdateStatusRequest moves an order along the fulfillment machine
type UpdateStatusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required"`
}

// UpdatePaymentStatusRequest moves an order along the payment machine
type UpdatePaymentStatusRequest struct {
	PaymentStatus domain.PaymentStatus `json:"payment_status" binding:"required"`
}

// UpdateNotesRequest replaces the admin notes on an order
type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

func orderIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return uuid.Nil, false
	}
	return id, true
}

// HandleAdminListOrders handles GET /v1/admin/orders
func HandleAdminListOrders(orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := pagination(c)
		list, err := orders.ListAll(c.Request.Context(), limit, offset)
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

// HandleUpdateOrderStatus handles PATCH /v1/admin/orders/:id/status
func HandleUpdateOrderStatus(orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := orderIDParam(c)
		if !ok {
			return
		}

		var req UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
			return
		}

		order, err := orders.UpdateStatus(c.Request.Context(), id, req.Status)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, toOrderResponse(order))
	}
}

// HandleUpdatePaymentStatus handles PATCH /v1/admin/orders/:id/payment-status
func HandleUpdatePaymentStatus(orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := orderIDParam(c)
		if !ok {
			return
		}

		var req UpdatePaymentStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "payment_status is required"})
			return
		}

		order, err := orders.UpdatePaymentStatus(c.Request.Context(), id, req.PaymentStatus)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, toOrderResponse(order))
	}
}

// HandleUpdateOrderNotes handles PATCH /v1/admin/orders/:id/notes
func HandleUpdateOrderNotes(orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := orderIDParam(c)
		if !ok {
			return
		}

		var req UpdateNotesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		order, err := orders.SetNotes(c.Request.Context(), id, req.Notes)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, toOrderResponse(order))
	}
}

// HandleGetOrderEvents handles GET /v1/admin/orders/:id/events
func HandleGetOrderEvents(orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := orderIDParam(c)
		if !ok {
			return
		}

		events, err := orders.Events(c.Request.Context(), id)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		type eventResponse struct {
			EventType string                 `json:"event_type"`
			EventData map[string]interface{} `json:"event_data,omitempty"`
			CreatedAt string                 `json:"created_at"`
		}
		responses := make([]eventResponse, 0, len(events))
		for _, event := range events {
			responses = append(responses, eventResponse{
				EventType: event.EventType,
				EventData: event.EventData,
				CreatedAt: event.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			})
		}
		c.JSON(http.StatusOK, gin.H{"events": responses})
	}
}
