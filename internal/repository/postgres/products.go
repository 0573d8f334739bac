package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mbozhik/pickmy/internal/domain"
	apperrors "github.com/mbozhik/pickmy/pkg/errors"
)

type productRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *sql.DB, logger *zap.Logger) *productRepository {
	return &productRepository{
		db:     db,
		logger: logger,
	}
}

const productColumns = `id, name, category_id, expert_id, caption, slug, price, image_url, featured, created_at, updated_at`

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return r.getOne(ctx, "id = $1", id, id.String())
}

func (r *productRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return r.getOne(ctx, "slug = $1", slug, slug)
}

func (r *productRepository) getOne(ctx context.Context, where string, arg interface{}, label string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE ` + where

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, &apperrors.ErrNotFound{Resource: "product", ID: label}
	}
	if err != nil {
		r.logger.Error("Failed to get product", zap.Error(err))
		return nil, err
	}
	return product, nil
}

func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
}

func (r *productRepository) ListFeatured(ctx context.Context, limit int) ([]*domain.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE featured ORDER BY created_at DESC LIMIT $1`, limit)
}

func (r *productRepository) ListByExpert(ctx context.Context, expertID uuid.UUID) ([]*domain.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE expert_id = $1 ORDER BY created_at DESC`, expertID)
}

func (r *productRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var product domain.Product
	var imageURL sql.NullString

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.CategoryID,
		&product.ExpertID,
		&product.Caption,
		&product.Slug,
		&product.Price,
		&imageURL,
		&product.Featured,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if imageURL.Valid {
		product.ImageURL = &imageURL.String
	}
	return &product, nil
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, name, category_id, expert_id, caption, slug, price, image_url, featured, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	now := time.Now()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	if product.UpdatedAt.IsZero() {
		product.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, query,
		product.ID,
		product.Name,
		product.CategoryID,
		product.ExpertID,
		product.Caption,
		product.Slug,
		product.Price,
		product.ImageURL,
		product.Featured,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "products_slug_key") {
			return &apperrors.ErrConflict{Message: "product slug already taken: " + product.Slug}
		}
		r.logger.Error("Failed to create product", zap.Error(err))
		return err
	}
	return nil
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $1, category_id = $2, expert_id = $3, caption = $4, slug = $5,
			price = $6, image_url = $7, featured = $8, updated_at = $9
		WHERE id = $10
	`

	product.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, query,
		product.Name,
		product.CategoryID,
		product.ExpertID,
		product.Caption,
		product.Slug,
		product.Price,
		product.ImageURL,
		product.Featured,
		product.UpdatedAt,
		product.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update product", zap.Error(err))
		return err
	}
	return requireRowAffected(result, "product", product.ID.String())
}
