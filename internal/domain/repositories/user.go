package repositories

import (
	"context"

	"pagesmith/internal/domain/models"
)

// UserRepository persists user accounts.
type UserRepository interface {
	// Create inserts a new user. Returns domain.ErrConflict if the email is
	// already registered.
	Create(ctx context.Context, user *models.User) error

	// GetByEmail retrieves a user by email. Returns domain.ErrNotFound if no
	// such user exists.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID retrieves a user by id.
	GetByID(ctx context.Context, id string) (*models.User, error)
}
