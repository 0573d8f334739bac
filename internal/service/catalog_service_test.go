package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mbozhik/pickmy/internal/domain"
	apperrors "github.com/mbozhik/pickmy/pkg/errors"
)

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*domain.Product
	gets     int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[uuid.UUID]*domain.Product{}}
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	f.mu.Lock()
	f.gets++
	product, ok := f.products[id]
	f.mu.Unlock()
	if !ok {
		return nil, &apperrors.ErrNotFound{Resource: "product", ID: id.String()}
	}
	copied := *product
	return &copied, nil
}

func (f *fakeProductRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, product := range f.products {
		if product.Slug == slug {
			copied := *product
			return &copied, nil
		}
	}
	return nil, &apperrors.ErrNotFound{Resource: "product", ID: slug}
}

func (f *fakeProductRepo) List(ctx context.Context) ([]*domain.Product, error) { return nil, nil }
func (f *fakeProductRepo) ListFeatured(ctx context.Context, limit int) ([]*domain.Product, error) {
	return nil, nil
}
func (f *fakeProductRepo) ListByExpert(ctx context.Context, expertID uuid.UUID) ([]*domain.Product, error) {
	return nil, nil
}
func (f *fakeProductRepo) Create(ctx context.Context, product *domain.Product) error { return nil }
func (f *fakeProductRepo) Update(ctx context.Context, product *domain.Product) error { return nil }

type fakeExpertRepo struct {
	experts map[uuid.UUID]*domain.Expert
}

func newFakeExpertRepo() *fakeExpertRepo {
	return &fakeExpertRepo{experts: map[uuid.UUID]*domain.Expert{}}
}

func (f *fakeExpertRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Expert, error) {
	expert, ok := f.experts[id]
	if !ok {
		return nil, &apperrors.ErrNotFound{Resource: "expert", ID: id.String()}
	}
	return expert, nil
}

func (f *fakeExpertRepo) GetByUsername(ctx context.Context, username string) (*domain.Expert, error) {
	for _, expert := range f.experts {
		if expert.Username == username {
			return expert, nil
		}
	}
	return nil, &apperrors.ErrNotFound{Resource: "expert", ID: username}
}

func (f *fakeExpertRepo) List(ctx context.Context) ([]*domain.Expert, error) { return nil, nil }
func (f *fakeExpertRepo) ListFeatured(ctx context.Context, limit int) ([]*domain.Expert, error) {
	return nil, nil
}
func (f *fakeExpertRepo) Create(ctx context.Context, expert *domain.Expert) error { return nil }
func (f *fakeExpertRepo) Update(ctx context.Context, expert *domain.Expert) error { return nil }

type fakeCategoryRepo struct{}

func (fakeCategoryRepo) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return nil, &apperrors.ErrNotFound{Resource: "category", ID: slug}
}
func (fakeCategoryRepo) List(ctx context.Context) ([]*domain.Category, error) { return nil, nil }
func (fakeCategoryRepo) Create(ctx context.Context, category *domain.Category) error {
	return nil
}

func testCatalog(t *testing.T) (*CatalogService, *fakeProductRepo, *domain.Product) {
	t.Helper()
	products := newFakeProductRepo()
	experts := newFakeExpertRepo()

	expert := &domain.Expert{ID: uuid.New(), Name: "Sofia", Username: "sofia"}
	experts.experts[expert.ID] = expert

	product := &domain.Product{
		ID:       uuid.New(),
		Name:     "Ceramic mug",
		ExpertID: expert.ID,
		Slug:     "ceramic-mug",
		Price:    decimal.NewFromInt(25),
	}
	products.products[product.ID] = product

	svc := NewCatalogService(products, experts, fakeCategoryRepo{}, testCalculator(), zap.NewNop())
	return svc, products, product
}

func TestBuildLineItemFreezesCatalogRow(t *testing.T) {
	svc, products, product := testCatalog(t)

	line, err := svc.BuildLineItem(context.Background(), product.ID.String())
	require.NoError(t, err)

	assert.Equal(t, product.ID.String(), line.ProductID)
	assert.Equal(t, "Ceramic mug", line.Name)
	assert.Equal(t, "25", line.Price.String())
	assert.Equal(t, "sofia", line.ExpertUsername)
	assert.Equal(t, "ceramic-mug", line.Slug)

	// Later catalog edits must not affect the frozen line
	products.products[product.ID].Price = decimal.NewFromInt(99)
	assert.Equal(t, "25", line.Price.String())
}

func TestBuildLineItemRejectsBadID(t *testing.T) {
	svc, _, _ := testCatalog(t)

	_, err := svc.BuildLineItem(context.Background(), "not-a-uuid")

	var validation *apperrors.ErrValidation
	assert.ErrorAs(t, err, &validation)
}

func TestBuildLineItemUnknownProduct(t *testing.T) {
	svc, _, _ := testCatalog(t)

	_, err := svc.BuildLineItem(context.Background(), uuid.NewString())

	var notFound *apperrors.ErrNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestQuoteBySlug(t *testing.T) {
	svc, _, _ := testCatalog(t)

	quote, err := svc.QuoteBySlug(context.Background(), "ceramic-mug")
	require.NoError(t, err)

	assert.Equal(t, "3.75", quote.Commission.String())
	assert.Equal(t, "35", quote.FinalPrice.String())
}
