package errors

import (
	"fmt"

	"github.com/mbozhik/pickmy/internal/domain"
)

// ErrNotFound is returned when a resource is not found
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnauthorized is returned when no authenticated identity is present
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrConflict is returned when a submission cannot proceed and the user should retry
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "conflict"
}

// ErrValidation is returned when validation fails
type ErrValidation struct {
	Message string
	Fields  map[string]string
}

func (e *ErrValidation) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

// ErrDuplicateToken is returned when an order token already exists.
// The checkout flow regenerates the token and retries exactly once.
type ErrDuplicateToken struct {
	Token string
}

func (e *ErrDuplicateToken) Error() string {
	return fmt.Sprintf("order token already exists: %s", e.Token)
}

// ErrMalformedToken is returned when a token fails the ^[A-Z0-9]{6}$ check,
// before any persistence attempt.
type ErrMalformedToken struct {
	Token string
}

func (e *ErrMalformedToken) Error() string {
	return fmt.Sprintf("malformed order token: %q", e.Token)
}

// ErrInvalidStateTransition is returned when an invalid order status transition is attempted
type ErrInvalidStateTransition struct {
	From domain.OrderStatus
	To   domain.OrderStatus
}

func (e *ErrInvalidStateTransition) Error() string {
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}

// ErrInvalidPaymentTransition is returned when an invalid payment status transition is attempted
type ErrInvalidPaymentTransition struct {
	From domain.PaymentStatus
	To   domain.PaymentStatus
}

func (e *ErrInvalidPaymentTransition) Error() string {
	return fmt.Sprintf("invalid payment transition from %s to %s", e.From, e.To)
}
