package postgres

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/mbozhik/pickmy/internal/repository"
)

// NewRepositories creates a new set of repositories
func NewRepositories(db *sql.DB, logger *zap.Logger) *repository.Repositories {
	return &repository.Repositories{
		User:       NewUserRepository(db, logger),
		Expert:     NewExpertRepository(db, logger),
		Product:    NewProductRepository(db, logger),
		Category:   NewCategoryRepository(db, logger),
		Order:      NewOrderRepository(db, logger),
		OrderEvent: NewOrderEventRepository(db, logger),
	}
}
