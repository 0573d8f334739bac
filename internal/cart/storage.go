package cart

import (
	"context"
	"errors"

	"github.com/mbozhik/pickmy/internal/domain"
)

// ErrCartNotFound is returned by Storage when no snapshot exists for a session
var ErrCartNotFound = errors.New("cart not found")

// Storage persists cart snapshots between requests. Implementations store a
// full snapshot on every mutation; loaded snapshots are rehydrated by the
// Store, which recomputes totals instead of trusting persisted ones.
type Storage interface {
	Load(ctx context.Context, sessionID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, sessionID string) error
}
