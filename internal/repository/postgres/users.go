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

type userRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *userRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

const userColumns = `id, external_id, email, name, is_admin, api_key_hash, api_key_lookup, created_at, updated_at`

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.getOne(ctx, "id = $1", id, id.String())
}

func (r *userRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	return r.getOne(ctx, "external_id = $1", externalID, externalID)
}

func (r *userRepository) GetByAPIKeyLookup(ctx context.Context, lookup string) (*domain.User, error) {
	return r.getOne(ctx, "api_key_lookup = $1", lookup, "by api key")
}

func (r *userRepository) getOne(ctx context.Context, where string, arg interface{}, label string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where

	var user domain.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.ExternalID,
		&user.Email,
		&user.Name,
		&user.IsAdmin,
		&user.APIKeyHash,
		&user.APIKeyLookup,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, &apperrors.ErrNotFound{Resource: "user", ID: label}
	}
	if err != nil {
		r.logger.Error("Failed to get user", zap.Error(err))
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, external_id, email, name, is_admin, api_key_hash, api_key_lookup, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	now := time.Now()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.ExternalID,
		user.Email,
		user.Name,
		user.IsAdmin,
		user.APIKeyHash,
		user.APIKeyLookup,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create user", zap.Error(err))
		return err
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET email = $1, name = $2, is_admin = $3, api_key_hash = $4, api_key_lookup = $5, updated_at = $6
		WHERE id = $7
	`

	user.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, query,
		user.Email,
		user.Name,
		user.IsAdmin,
		user.APIKeyHash,
		user.APIKeyLookup,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update user", zap.Error(err))
		return err
	}
	return requireRowAffected(result, "user", user.ID.String())
}
