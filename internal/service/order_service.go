package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mbozhik/pickmy/internal/domain"
	"github.com/mbozhik/pickmy/internal/repository"
	"github.com/mbozhik/pickmy/internal/token"
	apperrors "github.com/mbozhik/pickmy/pkg/errors"
)

// OrderService reads orders and drives the status machines. Orders are
// immutable after submission except for status, payment status and notes.
type OrderService struct {
	orders repository.OrderRepository
	events repository.OrderEventRepository
	logger *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(orders repository.OrderRepository, events repository.OrderEventRepository, logger *zap.Logger) *OrderService {
	return &OrderService{
		orders: orders,
		events: events,
		logger: logger,
	}
}

// GetByToken returns the order behind a shareable token. Malformed tokens
// are rejected without touching storage.
func (s *OrderService) GetByToken(ctx context.Context, tok string) (*domain.Order, error) {
	if !token.Valid(tok) {
		return nil, &apperrors.ErrMalformedToken{Token: tok}
	}
	return s.orders.GetByToken(ctx, tok)
}

// ListByUser returns the user's orders, newest first
func (s *OrderService) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Order, error) {
	if userID == uuid.Nil {
		return nil, &apperrors.ErrUnauthorized{Message: "authentication required"}
	}
	return s.orders.ListByUserID(ctx, userID, normalizeLimit(limit), offset)
}

// ListAll returns all orders, newest first. Admin surface only.
func (s *OrderService) ListAll(ctx context.Context, limit, offset int) ([]*domain.Order, error) {
	return s.orders.ListAll(ctx, normalizeLimit(limit), offset)
}

// Events returns the audit trail for an order
func (s *OrderService) Events(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderEvent, error) {
	return s.events.GetByOrderID(ctx, orderID)
}

// UpdateStatus moves the order along the fulfillment machine. Setting the
// status it already has is a no-op; invalid transitions are rejected. Every
// real change is recorded as an audit event.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus domain.OrderStatus) (*domain.Order, error) {
	if !newStatus.IsValid() {
		return nil, &apperrors.ErrValidation{Message: "unknown order status: " + string(newStatus)}
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Snapshot the old status: the repository may hand back an aliased order
	// that the update mutates in place.
	from := order.Status
	if from == newStatus {
		return order, nil
	}
	if !from.CanTransitionTo(newStatus) {
		return nil, &apperrors.ErrInvalidStateTransition{From: from, To: newStatus}
	}

	if err := s.orders.UpdateStatus(ctx, id, newStatus); err != nil {
		return nil, err
	}
	s.recordEvent(ctx, id, "status_changed", map[string]interface{}{
		"from": string(from),
		"to":   string(newStatus),
	})

	s.logger.Info("Order status updated",
		zap.String("order_id", id.String()),
		zap.String("from", string(from)),
		zap.String("to", string(newStatus)),
	)
	order.Status = newStatus
	return order, nil
}

// UpdatePaymentStatus moves the order along the payment machine
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, newStatus domain.PaymentStatus) (*domain.Order, error) {
	if !newStatus.IsValid() {
		return nil, &apperrors.ErrValidation{Message: "unknown payment status: " + string(newStatus)}
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := order.PaymentStatus
	if from == newStatus {
		return order, nil
	}
	if !from.CanTransitionTo(newStatus) {
		return nil, &apperrors.ErrInvalidPaymentTransition{From: from, To: newStatus}
	}

	if err := s.orders.UpdatePaymentStatus(ctx, id, newStatus); err != nil {
		return nil, err
	}
	s.recordEvent(ctx, id, "payment_status_changed", map[string]interface{}{
		"from": string(from),
		"to":   string(newStatus),
	})

	s.logger.Info("Payment status updated",
		zap.String("order_id", id.String()),
		zap.String("from", string(from)),
		zap.String("to", string(newStatus)),
	)
	order.PaymentStatus = newStatus
	return order, nil
}

// SetNotes replaces the free-form admin notes on the order
func (s *OrderService) SetNotes(ctx context.Context, id uuid.UUID, notes string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.orders.UpdateNotes(ctx, id, notes); err != nil {
		return nil, err
	}
	s.recordEvent(ctx, id, "notes_updated", map[string]interface{}{})

	order.Notes = &notes
	return order, nil
}

// recordEvent appends an audit event. Audit failures never fail the operation.
func (s *OrderService) recordEvent(ctx context.Context, orderID uuid.UUID, eventType string, data map[string]interface{}) {
	event := &domain.OrderEvent{
		OrderID:   orderID,
		EventType: eventType,
		EventData: data,
	}
	if err := s.events.Create(ctx, event); err != nil {
		s.logger.Warn("Failed to record order event",
			zap.String("order_id", orderID.String()),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 50
	}
	return limit
}
