package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/mbozhik/pickmy/internal/domain"
	"github.com/mbozhik/pickmy/internal/pricing"
	"github.com/mbozhik/pickmy/internal/repository"
	apperrors "github.com/mbozhik/pickmy/pkg/errors"
)

// CatalogService reads the product catalog and freezes catalog rows into
// cart lines. Frozen lines never change when the catalog is edited later.
type CatalogService struct {
	products   repository.ProductRepository
	experts    repository.ExpertRepository
	categories repository.CategoryRepository
	calculator *pricing.Calculator
	group      singleflight.Group
	logger     *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	products repository.ProductRepository,
	experts repository.ExpertRepository,
	categories repository.CategoryRepository,
	calculator *pricing.Calculator,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		products:   products,
		experts:    experts,
		categories: categories,
		calculator: calculator,
		logger:     logger,
	}
}

// BuildLineItem fetches the product and its owning expert and returns a
// frozen cart line. Concurrent requests for the same product are coalesced
// into a single catalog lookup.
func (s *CatalogService) BuildLineItem(ctx context.Context, productID string) (domain.CartItem, error) {
	id, err := uuid.Parse(productID)
	if err != nil {
		return domain.CartItem{}, &apperrors.ErrValidation{Message: "invalid product id: " + productID}
	}

	v, err, _ := s.group.Do(productID, func() (interface{}, error) {
		product, err := s.products.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		expert, err := s.experts.GetByID(ctx, product.ExpertID)
		if err != nil {
			return nil, err
		}
		return domain.CartItem{
			ProductID:      product.ID.String(),
			Name:           product.Name,
			Price:          product.Price,
			Quantity:       1,
			ExpertID:       expert.ID.String(),
			ExpertUsername: expert.Username,
			ImageURL:       product.ImageURL,
			Slug:           product.Slug,
		}, nil
	})
	if err != nil {
		return domain.CartItem{}, err
	}
	return v.(domain.CartItem), nil
}

// ProductQuote is the single-unit price preview shown on product pages
type ProductQuote struct {
	Product    *domain.Product
	Commission decimal.Decimal
	FinalPrice decimal.Decimal
}

// QuoteBySlug returns the product with its commission and final price
func (s *CatalogService) QuoteBySlug(ctx context.Context, slug string) (*ProductQuote, error) {
	product, err := s.products.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	commission, finalPrice := s.calculator.ProductQuote(product.Price)
	return &ProductQuote{
		Product:    product,
		Commission: commission,
		FinalPrice: finalPrice,
	}, nil
}

// ListProducts returns all products, or only featured ones when limit > 0
func (s *CatalogService) ListProducts(ctx context.Context, featured bool, limit int) ([]*domain.Product, error) {
	if featured {
		return s.products.ListFeatured(ctx, normalizeLimit(limit))
	}
	return s.products.List(ctx)
}

// ListProductsByExpert returns the expert's products by username
func (s *CatalogService) ListProductsByExpert(ctx context.Context, username string) ([]*domain.Product, error) {
	expert, err := s.experts.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.products.ListByExpert(ctx, expert.ID)
}

// ListExperts returns all experts, or only featured ones
func (s *CatalogService) ListExperts(ctx context.Context, featured bool, limit int) ([]*domain.Expert, error) {
	if featured {
		return s.experts.ListFeatured(ctx, normalizeLimit(limit))
	}
	return s.experts.List(ctx)
}

// GetExpert returns a single expert by username
func (s *CatalogService) GetExpert(ctx context.Context, username string) (*domain.Expert, error) {
	return s.experts.GetByUsername(ctx, username)
}

// ListCategories returns all categories
func (s *CatalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}
