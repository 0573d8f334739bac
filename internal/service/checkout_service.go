package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mbozhik/pickmy/internal/cart"
	"github.com/mbozhik/pickmy/internal/domain"
	"github.com/mbozhik/pickmy/internal/notify"
	"github.com/mbozhik/pickmy/internal/pricing"
	"github.com/mbozhik/pickmy/internal/repository"
	"github.com/mbozhik/pickmy/internal/token"
	apperrors "github.com/mbozhik/pickmy/pkg/errors"
)

// CheckoutService turns a session cart into a persisted order
type CheckoutService struct {
	orders     repository.OrderRepository
	carts      *cart.Store
	calculator *pricing.Calculator
	notifier   notify.Notifier
	logger     *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	orders repository.OrderRepository,
	carts *cart.Store,
	calculator *pricing.Calculator,
	notifier notify.Notifier,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		orders:     orders,
		carts:      carts,
		calculator: calculator,
		notifier:   notifier,
		logger:     logger,
	}
}

// Submit validates the cart and customer info, prices the cart, and persists
// the order under a fresh unique token. The pricing is always recomputed from
// the live cart; a prior breakdown, if provided, is only checked for
// staleness and then discarded. On a token collision the token is regenerated
// and the insert retried exactly once. On success the session cart is cleared
// and a notification dispatched best effort; on failure the cart is left
// untouched so the shopper can retry.
func (s *CheckoutService) Submit(
	ctx context.Context,
	userID uuid.UUID,
	sessionID string,
	info domain.CustomerInfo,
	prior *domain.PricingBreakdown,
) (*domain.Order, error) {
	if userID == uuid.Nil {
		return nil, &apperrors.ErrUnauthorized{Message: "authentication required for checkout"}
	}

	if err := validateCustomerInfo(info); err != nil {
		return nil, err
	}

	sessionCart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sessionCart.IsEmpty() {
		return nil, &apperrors.ErrValidation{Message: "cart is empty"}
	}

	if prior != nil && prior.IsStale(time.Now(), s.calculator.MaxAge()) {
		s.logger.Warn("Discarding stale pricing breakdown",
			zap.Time("calculated_at", prior.CalculatedAt),
			zap.Duration("max_age", s.calculator.MaxAge()),
		)
	}
	breakdown := s.calculator.Calculate(sessionCart.Items)

	items := make([]domain.OrderItem, 0, len(sessionCart.Items))
	for _, line := range sessionCart.Items {
		items = append(items, domain.OrderItem{
			ProductID:      line.ProductID,
			Name:           line.Name,
			Price:          line.Price,
			Quantity:       line.Quantity,
			ExpertUsername: line.ExpertUsername,
			ImageURL:       line.ImageURL,
			Slug:           line.Slug,
		})
	}

	order := &domain.Order{
		UserID:        userID,
		Items:         items,
		CustomerInfo:  info,
		Pricing:       breakdown,
		Status:        domain.OrderStatusPending,
		PaymentStatus: domain.PaymentStatusPending,
	}

	// One regeneration on collision; a second collision bubbles up as a
	// retryable conflict.
	const maxAttempts = 2
	for attempt := 1; ; attempt++ {
		order.OrderToken = token.Generate()

		err = s.orders.Create(ctx, order)
		if err == nil {
			break
		}

		var dup *apperrors.ErrDuplicateToken
		if errors.As(err, &dup) && attempt < maxAttempts {
			s.logger.Warn("Order token collision, regenerating",
				zap.String("token", dup.Token),
				zap.Int("attempt", attempt),
			)
			continue
		}
		if errors.As(err, &dup) {
			return nil, &apperrors.ErrConflict{Message: "could not allocate an order token, please try again"}
		}
		return nil, err
	}

	if err := s.carts.Clear(ctx, sessionID); err != nil {
		s.logger.Error("Failed to clear cart after checkout",
			zap.String("session_id", sessionID),
			zap.String("order_token", order.OrderToken),
			zap.Error(err),
		)
	}

	if err := s.notifier.OrderSubmitted(ctx, order); err != nil {
		s.logger.Warn("Order notification failed",
			zap.String("order_token", order.OrderToken),
			zap.Error(err),
		)
	}

	s.logger.Info("Order submitted",
		zap.String("order_token", order.OrderToken),
		zap.String("user_id", userID.String()),
		zap.String("final_price", order.Pricing.FinalPrice.String()),
	)
	return order, nil
}

func validateCustomerInfo(info domain.CustomerInfo) error {
	fields := map[string]string{}
	if strings.TrimSpace(info.Name) == "" {
		fields["name"] = "name is required"
	}
	if strings.TrimSpace(info.Email) == "" {
		fields["email"] = "email is required"
	} else if _, err := mail.ParseAddress(info.Email); err != nil {
		fields["email"] = "email is not a valid address"
	}
	if len(fields) > 0 {
		return &apperrors.ErrValidation{Message: "invalid customer info", Fields: fields}
	}
	return nil
}
