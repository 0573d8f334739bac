package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mbozhik/pickmy/internal/domain"
	apperrors "github.com/mbozhik/pickmy/pkg/errors"
)

type fakeEventRepo struct {
	events []*domain.OrderEvent
}

func (f *fakeEventRepo) Create(ctx context.Context, event *domain.OrderEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeEventRepo) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderEvent, error) {
	var out []*domain.OrderEvent
	for _, e := range f.events {
		if e.OrderID == orderID {
			out = append(out, e)
		}
	}
	return out, nil
}

func seedOrder(repo *fakeOrderRepo, status domain.OrderStatus, payment domain.PaymentStatus) *domain.Order {
	order := &domain.Order{
		ID:            uuid.New(),
		OrderToken:    "ABC123",
		UserID:        uuid.New(),
		Status:        status,
		PaymentStatus: payment,
	}
	repo.orders[order.OrderToken] = order
	return order
}

func TestGetByTokenRejectsMalformedToken(t *testing.T) {
	svc := NewOrderService(newFakeOrderRepo(), &fakeEventRepo{}, zap.NewNop())

	for _, tok := range []string{"", "abc123", "ABC12", "ABC1234", "AB-123"} {
		_, err := svc.GetByToken(context.Background(), tok)

		var malformed *apperrors.ErrMalformedToken
		assert.ErrorAs(t, err, &malformed, "token %q", tok)
	}
}

func TestGetByTokenReturnsOrder(t *testing.T) {
	repo := newFakeOrderRepo()
	order := seedOrder(repo, domain.OrderStatusPending, domain.PaymentStatusPending)
	svc := NewOrderService(repo, &fakeEventRepo{}, zap.NewNop())

	found, err := svc.GetByToken(context.Background(), "ABC123")
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
}

func TestUpdateStatusHappyPath(t *testing.T) {
	repo := newFakeOrderRepo()
	events := &fakeEventRepo{}
	order := seedOrder(repo, domain.OrderStatusPending, domain.PaymentStatusPending)
	svc := NewOrderService(repo, events, zap.NewNop())

	updated, err := svc.UpdateStatus(context.Background(), order.ID, domain.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, updated.Status)

	require.Len(t, events.events, 1)
	assert.Equal(t, "status_changed", events.events[0].EventType)
	assert.Equal(t, "PENDING", events.events[0].EventData["from"])
	assert.Equal(t, "CONFIRMED", events.events[0].EventData["to"])
}

func TestUpdateStatusIsIdempotent(t *testing.T) {
	repo := newFakeOrderRepo()
	events := &fakeEventRepo{}
	order := seedOrder(repo, domain.OrderStatusConfirmed, domain.PaymentStatusPending)
	svc := NewOrderService(repo, events, zap.NewNop())

	updated, err := svc.UpdateStatus(context.Background(), order.ID, domain.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, updated.Status)
	assert.Empty(t, events.events, "repeat of the current status must not emit an event")
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	repo := newFakeOrderRepo()
	order := seedOrder(repo, domain.OrderStatusPending, domain.PaymentStatusPending)
	svc := NewOrderService(repo, &fakeEventRepo{}, zap.NewNop())

	_, err := svc.UpdateStatus(context.Background(), order.ID, domain.OrderStatusShipped)

	var invalid *apperrors.ErrInvalidStateTransition
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, domain.OrderStatusPending, invalid.From)
	assert.Equal(t, domain.OrderStatusShipped, invalid.To)
}

func TestUpdateStatusCancelFromAnyNonTerminal(t *testing.T) {
	svcFor := func(status domain.OrderStatus) (*OrderService, *domain.Order) {
		repo := newFakeOrderRepo()
		order := seedOrder(repo, status, domain.PaymentStatusPending)
		return NewOrderService(repo, &fakeEventRepo{}, zap.NewNop()), order
	}

	for _, status := range []domain.OrderStatus{
		domain.OrderStatusPending,
		domain.OrderStatusConfirmed,
		domain.OrderStatusProcessing,
		domain.OrderStatusShipped,
	} {
		svc, order := svcFor(status)
		updated, err := svc.UpdateStatus(context.Background(), order.ID, domain.OrderStatusCancelled)
		require.NoError(t, err, "cancel from %s", status)
		assert.Equal(t, domain.OrderStatusCancelled, updated.Status)
	}

	svc, order := svcFor(domain.OrderStatusDelivered)
	_, err := svc.UpdateStatus(context.Background(), order.ID, domain.OrderStatusCancelled)
	var invalid *apperrors.ErrInvalidStateTransition
	assert.ErrorAs(t, err, &invalid, "cancel from a terminal state must fail")
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc := NewOrderService(newFakeOrderRepo(), &fakeEventRepo{}, zap.NewNop())

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), domain.OrderStatus("SOMEWHERE"))

	var validation *apperrors.ErrValidation
	assert.ErrorAs(t, err, &validation)
}

func TestUpdatePaymentStatusTransitions(t *testing.T) {
	repo := newFakeOrderRepo()
	events := &fakeEventRepo{}
	order := seedOrder(repo, domain.OrderStatusPending, domain.PaymentStatusPending)
	svc := NewOrderService(repo, events, zap.NewNop())

	updated, err := svc.UpdatePaymentStatus(context.Background(), order.ID, domain.PaymentStatusFailed)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusFailed, updated.PaymentStatus)

	// The audit event must record the status held before the update, even
	// though the repository hands back an aliased order
	require.Len(t, events.events, 1)
	assert.Equal(t, "payment_status_changed", events.events[0].EventType)
	assert.Equal(t, "PENDING", events.events[0].EventData["from"])
	assert.Equal(t, "FAILED", events.events[0].EventData["to"])

	// Failed payments may be retried
	updated, err = svc.UpdatePaymentStatus(context.Background(), order.ID, domain.PaymentStatusPending)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPending, updated.PaymentStatus)

	updated, err = svc.UpdatePaymentStatus(context.Background(), order.ID, domain.PaymentStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaid, updated.PaymentStatus)

	// Paid orders can only move to refunded
	_, err = svc.UpdatePaymentStatus(context.Background(), order.ID, domain.PaymentStatusFailed)
	var invalid *apperrors.ErrInvalidPaymentTransition
	require.ErrorAs(t, err, &invalid)

	updated, err = svc.UpdatePaymentStatus(context.Background(), order.ID, domain.PaymentStatusRefunded)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusRefunded, updated.PaymentStatus)
}

func TestSetNotes(t *testing.T) {
	repo := newFakeOrderRepo()
	events := &fakeEventRepo{}
	order := seedOrder(repo, domain.OrderStatusPending, domain.PaymentStatusPending)
	svc := NewOrderService(repo, events, zap.NewNop())

	updated, err := svc.SetNotes(context.Background(), order.ID, "call before delivery")
	require.NoError(t, err)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "call before delivery", *updated.Notes)
	require.Len(t, events.events, 1)
	assert.Equal(t, "notes_updated", events.events[0].EventType)
}
