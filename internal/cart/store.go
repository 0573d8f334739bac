// Package cart holds the session cart store: reducer-style transitions over
// durable snapshots. Every mutation loads the snapshot, applies the
// transition, recomputes totals and persists the result.
package cart

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/mbozhik/pickmy/internal/domain"
)

type Store struct {
	storage Storage
	logger  *zap.Logger
}

// NewStore creates a cart store backed by the given storage
func NewStore(storage Storage, logger *zap.Logger) *Store {
	return &Store{
		storage: storage,
		logger:  logger,
	}
}

// Get returns the session's cart, rehydrating it from storage. A missing
// snapshot yields a fresh empty cart. Totals are always recomputed from the
// lines, never read from the snapshot.
func (s *Store) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := s.storage.Load(ctx, sessionID)
	if errors.Is(err, ErrCartNotFound) {
		return domain.NewCart(sessionID), nil
	}
	if err != nil {
		return nil, err
	}

	cart.SessionID = sessionID
	cart.RecomputeTotals()
	return cart, nil
}

// AddItem adds one unit of the given line item to the session's cart
func (s *Store) AddItem(ctx context.Context, sessionID string, item domain.CartItem) (*domain.Cart, error) {
	return s.mutate(ctx, sessionID, func(c *domain.Cart) {
		c.AddItem(item)
	})
}

// RemoveItem deletes the product's line from the session's cart
func (s *Store) RemoveItem(ctx context.Context, sessionID, productID string) (*domain.Cart, error) {
	return s.mutate(ctx, sessionID, func(c *domain.Cart) {
		c.RemoveItem(productID)
	})
}

// UpdateQuantity sets the line's quantity; zero or below removes the line
func (s *Store) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (*domain.Cart, error) {
	return s.mutate(ctx, sessionID, func(c *domain.Cart) {
		c.UpdateQuantity(productID, quantity)
	})
}

// Clear empties the session's cart and drops its snapshot
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	if err := s.storage.Delete(ctx, sessionID); err != nil {
		s.logger.Error("Failed to clear cart", zap.String("session_id", sessionID), zap.Error(err))
		return err
	}
	return nil
}

func (s *Store) mutate(ctx context.Context, sessionID string, fn func(*domain.Cart)) (*domain.Cart, error) {
	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	fn(cart)

	if err := s.storage.Save(ctx, cart); err != nil {
		s.logger.Error("Failed to save cart", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}
	return cart, nil
}
