package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/mbozhik/pickmy/internal/domain"
)

// UserRepository defines shopper account data access methods
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*domain.User, error)
	GetByAPIKeyLookup(ctx context.Context, lookup string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
}

// ExpertRepository defines expert data access methods
type ExpertRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Expert, error)
	GetByUsername(ctx context.Context, username string) (*domain.Expert, error)
	List(ctx context.Context) ([]*domain.Expert, error)
	ListFeatured(ctx context.Context, limit int) ([]*domain.Expert, error)
	Create(ctx context.Context, expert *domain.Expert) error
	Update(ctx context.Context, expert *domain.Expert) error
}

// ProductRepository defines catalog product data access methods
type ProductRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	ListFeatured(ctx context.Context, limit int) ([]*domain.Product, error)
	ListByExpert(ctx context.Context, expertID uuid.UUID) ([]*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
}

// CategoryRepository defines category data access methods
type CategoryRepository interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Create(ctx context.Context, category *domain.Category) error
}

// OrderRepository defines order data access methods.
// Create persists the order, its frozen items and a created event in one
// transaction, and fails with ErrDuplicateToken when the token is taken.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetByToken(ctx context.Context, token string) (*domain.Order, error)
	ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Order, error)
	ListAll(ctx context.Context, limit, offset int) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) error
	UpdateNotes(ctx context.Context, id uuid.UUID, notes string) error
}

// OrderEventRepository defines order audit event data access methods
type OrderEventRepository interface {
	Create(ctx context.Context, event *domain.OrderEvent) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderEvent, error)
}

// Repositories aggregates all repositories
type Repositories struct {
	User       UserRepository
	Expert     ExpertRepository
	Product    ProductRepository
	Category   CategoryRepository
	Order      OrderRepository
	OrderEvent OrderEventRepository
}
