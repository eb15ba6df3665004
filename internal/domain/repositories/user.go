package repositories

import (
	"context"

	"drivebox/internal/domain/models"
)

// UserRepository defines data access operations for users
type UserRepository interface {
	// Create inserts a new user and assigns its id
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// GetByEmail retrieves a user by email, or nil when absent
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
