// Package notify dispatches order notifications to the email service.
// Dispatch is best effort: checkout never fails because of it.
package notify

import (
	"context"

	"github.com/mbozhik/pickmy/internal/domain"
)

// Notifier dispatches a notification for a submitted order
type Notifier interface {
	OrderSubmitted(ctx context.Context, order *domain.Order) error
}

// Nop is a Notifier that does nothing, used when dispatch is disabled
type Nop struct{}

func (Nop) OrderSubmitted(ctx context.Context, order *domain.Order) error {
	return nil
}
