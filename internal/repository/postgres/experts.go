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

type expertRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewExpertRepository creates a new expert repository
func NewExpertRepository(db *sql.DB, logger *zap.Logger) *expertRepository {
	return &expertRepository{
		db:     db,
		logger: logger,
	}
}

const expertColumns = `id, name, role, username, link, featured, created_at, updated_at`

func (r *expertRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Expert, error) {
	return r.getOne(ctx, "id = $1", id, id.String())
}

func (r *expertRepository) GetByUsername(ctx context.Context, username string) (*domain.Expert, error) {
	return r.getOne(ctx, "username = $1", username, username)
}

func (r *expertRepository) getOne(ctx context.Context, where string, arg interface{}, label string) (*domain.Expert, error) {
	query := `SELECT ` + expertColumns + ` FROM experts WHERE ` + where

	var expert domain.Expert
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&expert.ID,
		&expert.Name,
		&expert.Role,
		&expert.Username,
		&expert.Link,
		&expert.Featured,
		&expert.CreatedAt,
		&expert.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, &apperrors.ErrNotFound{Resource: "expert", ID: label}
	}
	if err != nil {
		r.logger.Error("Failed to get expert", zap.Error(err))
		return nil, err
	}

	return &expert, nil
}

func (r *expertRepository) List(ctx context.Context) ([]*domain.Expert, error) {
	return r.list(ctx, `SELECT `+expertColumns+` FROM experts ORDER BY created_at DESC`)
}

func (r *expertRepository) ListFeatured(ctx context.Context, limit int) ([]*domain.Expert, error) {
	return r.list(ctx, `SELECT `+expertColumns+` FROM experts WHERE featured ORDER BY created_at DESC LIMIT $1`, limit)
}

func (r *expertRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Expert, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list experts", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var experts []*domain.Expert
	for rows.Next() {
		var expert domain.Expert
		if err := rows.Scan(
			&expert.ID,
			&expert.Name,
			&expert.Role,
			&expert.Username,
			&expert.Link,
			&expert.Featured,
			&expert.CreatedAt,
			&expert.UpdatedAt,
		); err != nil {
			return nil, err
		}
		experts = append(experts, &expert)
	}
	return experts, rows.Err()
}

func (r *expertRepository) Create(ctx context.Context, expert *domain.Expert) error {
	query := `
		INSERT INTO experts (id, name, role, username, link, featured, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	now := time.Now()
	if expert.ID == uuid.Nil {
		expert.ID = uuid.New()
	}
	if expert.CreatedAt.IsZero() {
		expert.CreatedAt = now
	}
	if expert.UpdatedAt.IsZero() {
		expert.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, query,
		expert.ID,
		expert.Name,
		expert.Role,
		expert.Username,
		expert.Link,
		expert.Featured,
		expert.CreatedAt,
		expert.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "experts_username_key") {
			return &apperrors.ErrConflict{Message: "expert username already taken: " + expert.Username}
		}
		r.logger.Error("Failed to create expert", zap.Error(err))
		return err
	}
	return nil
}

func (r *expertRepository) Update(ctx context.Context, expert *domain.Expert) error {
	query := `
		UPDATE experts
		SET name = $1, role = $2, username = $3, link = $4, featured = $5, updated_at = $6
		WHERE id = $7
	`

	expert.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, query,
		expert.Name,
		expert.Role,
		expert.Username,
		expert.Link,
		expert.Featured,
		expert.UpdatedAt,
		expert.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update expert", zap.Error(err))
		return err
	}
	return requireRowAffected(result, "expert", expert.ID.String())
}
