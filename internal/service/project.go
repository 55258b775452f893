package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"pagesmith/internal/config"
	"pagesmith/internal/domain"
	"pagesmith/internal/domain/models"
	"pagesmith/internal/domain/repositories"
	"pagesmith/internal/domain/services"
)

// projectService implements the ProjectService interface
type projectService struct {
	projectRepo repositories.ProjectRepository
	sitemapRepo repositories.SitemapRepository
	logger      *slog.Logger
}

// NewProjectService creates a new project service
func NewProjectService(
	projectRepo repositories.ProjectRepository,
	sitemapRepo repositories.SitemapRepository,
	logger *slog.Logger,
) services.ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		sitemapRepo: sitemapRepo,
		logger:      logger,
	}
}

// CreateProject creates a new project
func (s *projectService) CreateProject(ctx context.Context, req *services.CreateProjectRequest) (*models.Project, error) {
	if err := s.validateName(req.Name); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := time.Now()
	project := &models.Project{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		CreatedBy: req.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("project created",
		"id", project.ID,
		"name", project.Name,
		"user_id", req.UserID,
	)

	return project, nil
}

// GetProject retrieves a project by id, including its active sitemap version
func (s *projectService) GetProject(ctx context.Context, id, userID string) (*models.Project, error) {
	project, err := s.authorize(ctx, id, userID, "access")
	if err != nil {
		return nil, err
	}

	// The active version is derived at query time; a project without one is
	// not an error
	active, err := s.sitemapRepo.GetActive(ctx, project.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	project.ActiveSitemap = active

	return project, nil
}

// ListProjects retrieves all projects created by a user
func (s *projectService) ListProjects(ctx context.Context, userID string) ([]models.Project, error) {
	return s.projectRepo.ListByOwner(ctx, userID)
}

// UpdateProject renames a project
func (s *projectService) UpdateProject(ctx context.Context, id, userID string, req *services.UpdateProjectRequest) (*models.Project, error) {
	if err := s.validateName(req.Name); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	project, err := s.authorize(ctx, id, userID, "edit")
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if err := s.projectRepo.Rename(ctx, id, name, userID); err != nil {
		return nil, err
	}

	project.Name = name
	project.UpdatedBy = &userID
	project.UpdatedAt = time.Now()

	s.logger.Info("project renamed",
		"id", id,
		"name", name,
		"user_id", userID,
	)

	return project, nil
}

// DeleteProject soft-deletes a project
func (s *projectService) DeleteProject(ctx context.Context, id, userID string) error {
	if _, err := s.authorize(ctx, id, userID, "delete"); err != nil {
		return err
	}

	if err := s.projectRepo.SoftDelete(ctx, id, userID); err != nil {
		return err
	}

	s.logger.Info("project deleted",
		"id", id,
		"user_id", userID,
	)

	return nil
}

// authorize fetches the project and verifies ownership. Unknown id yields
// not-found; a project owned by someone else yields forbidden. The
// distinction is load-bearing for API semantics.
func (s *projectService) authorize(ctx context.Context, id, userID, action string) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if project.CreatedBy != userID {
		s.logger.Warn("authorization failed",
			"project_id", id,
			"owner", project.CreatedBy,
			"user_id", userID,
		)
		return nil, &domain.ForbiddenError{
			Message: fmt.Sprintf("not authorized to %s this project", action),
		}
	}

	return project, nil
}

// validateName validates a project name
func (s *projectService) validateName(name string) error {
	return validation.Validate(name,
		validation.Required,
		validation.Length(1, config.MaxProjectNameLength),
		validation.By(func(value interface{}) error {
			v, _ := value.(string)
			if strings.TrimSpace(v) == "" {
				return fmt.Errorf("name cannot be empty")
			}
			return nil
		}),
	)
}
