package repositories

import (
	"context"

	"pagesmith/internal/domain/models"
)

// ProjectRepository persists projects. Ownership checks are performed in the
// service layer, so lookups return the project regardless of caller.
type ProjectRepository interface {
	// Create inserts a new project.
	Create(ctx context.Context, project *models.Project) error

	// GetByID retrieves a project by id. Returns domain.ErrNotFound when the
	// id is unknown or the project is soft-deleted.
	GetByID(ctx context.Context, id string) (*models.Project, error)

	// ListByOwner retrieves all projects created by a user, newest first.
	ListByOwner(ctx context.Context, userID string) ([]models.Project, error)

	// Rename updates the project's name and attributes the change to userID.
	Rename(ctx context.Context, id, name, userID string) error

	// SoftDelete marks the project deleted and attributes it to userID.
	SoftDelete(ctx context.Context, id, userID string) error
}
