package services

import (
	"context"

	"pagesmith/internal/domain/models"
)

// CreateProjectRequest carries the payload for project creation.
type CreateProjectRequest struct {
	Name   string `json:"project_name"`
	UserID string `json:"-"`
}

// UpdateProjectRequest carries the payload for a project rename.
type UpdateProjectRequest struct {
	Name string `json:"project_name"`
}

// ProjectService handles project CRUD with ownership enforcement: every
// operation on an existing project distinguishes unknown id (not found) from
// a project owned by another user (forbidden).
type ProjectService interface {
	CreateProject(ctx context.Context, req *CreateProjectRequest) (*models.Project, error)
	GetProject(ctx context.Context, id, userID string) (*models.Project, error)
	ListProjects(ctx context.Context, userID string) ([]models.Project, error)
	UpdateProject(ctx context.Context, id, userID string, req *UpdateProjectRequest) (*models.Project, error)
	DeleteProject(ctx context.Context, id, userID string) error
}
