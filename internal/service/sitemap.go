package service

import (
	"bytes"
	"context"
	"encoding/json"
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
	"pagesmith/internal/llm"
	"pagesmith/internal/llm/prompts"
)

const defaultPageCount = 4

// sitemapService implements the SitemapService interface
type sitemapService struct {
	projectRepo repositories.ProjectRepository
	sitemapRepo repositories.SitemapRepository
	txManager   repositories.TransactionManager
	gateway     services.Gateway
	catalog     *prompts.Catalog
	logger      *slog.Logger
}

// NewSitemapService creates a new sitemap service
func NewSitemapService(
	projectRepo repositories.ProjectRepository,
	sitemapRepo repositories.SitemapRepository,
	txManager repositories.TransactionManager,
	gateway services.Gateway,
	catalog *prompts.Catalog,
	logger *slog.Logger,
) services.SitemapService {
	return &sitemapService{
		projectRepo: projectRepo,
		sitemapRepo: sitemapRepo,
		txManager:   txManager,
		gateway:     gateway,
		catalog:     catalog,
		logger:      logger,
	}
}

// GenerateSitemap produces a sitemap skeleton and project brief via the LLM
// gateway. Nothing is persisted; the client reviews and edits the result
// before saving a version.
func (s *sitemapService) GenerateSitemap(ctx context.Context, req *services.GenerateSitemapRequest) (*services.GenerateSitemapResult, error) {
	if err := s.validateGenerateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	brief, err := s.generateBrief(ctx, req)
	if err != nil {
		return nil, err
	}

	pageCount := req.PageCount
	if pageCount <= 0 {
		pageCount = defaultPageCount
	}

	userPrompt, err := s.catalog.Render("sitemap_user", map[string]any{
		"BusinessName":        req.BusinessName,
		"BusinessDescription": req.BusinessDescription,
		"PageCount":           pageCount,
		"Extra":               req.Prompt,
	})
	if err != nil {
		return nil, err
	}

	text, err := s.gateway.FreeTextComplete(ctx, userPrompt)
	if err != nil {
		return nil, err
	}

	cleaned := llm.StripJSONFences(text)
	if !json.Valid([]byte(cleaned)) {
		s.logger.Error("sitemap generation returned malformed JSON",
			"business", req.BusinessName,
		)
		return nil, &domain.UpstreamError{Message: "failed to parse JSON response from AI model"}
	}

	s.logger.Info("sitemap generated",
		"business", req.BusinessName,
		"page_count", pageCount,
	)

	return &services.GenerateSitemapResult{
		Sitemap:      json.RawMessage(cleaned),
		ProjectBrief: brief,
	}, nil
}

func (s *sitemapService) generateBrief(ctx context.Context, req *services.GenerateSitemapRequest) (*models.ProjectBrief, error) {
	system, err := s.catalog.Get("project_brief_system")
	if err != nil {
		return nil, err
	}
	userPrompt, err := s.catalog.Render("project_brief_user", map[string]any{
		"BusinessName":        req.BusinessName,
		"BusinessDescription": req.BusinessDescription,
	})
	if err != nil {
		return nil, err
	}
	schema, err := s.catalog.Get("project_brief_schema")
	if err != nil {
		return nil, err
	}

	var brief models.ProjectBrief
	if err := s.gateway.StructuredComplete(ctx, system, userPrompt, schema, &brief); err != nil {
		return nil, err
	}

	return &brief, nil
}

// SaveVersion persists a new active sitemap version, deactivating the prior
// active version inside the same transaction. The row lock taken on the
// active version serializes concurrent saves for one project, so two writers
// can never both end up active; any failure rolls the whole swap back.
func (s *sitemapService) SaveVersion(ctx context.Context, projectID, userID string, req *services.SaveSitemapRequest) (*services.SaveSitemapResult, error) {
	if isEmptyJSON(req.SitemapData) {
		return nil, &domain.ValidationError{Message: "no changes to save"}
	}

	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.CreatedBy != userID {
		return nil, &domain.ForbiddenError{Message: "not authorized to edit this project"}
	}

	now := time.Now()
	version := &models.SitemapVersion{
		ID:          uuid.NewString(),
		ProjectID:   projectID,
		Description: req.ProjectDescription,
		PageCount:   req.PageCount,
		Data:        req.SitemapData,
		IsActive:    true,
		CreatedAt:   now,
		CreatedBy:   userID,
		UpdatedAt:   now,
		UpdatedBy:   &userID,
	}

	projectName := project.Name

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		// Lock the current active version so a concurrent save on the same
		// project waits here
		current, err := s.sitemapRepo.GetActiveForUpdate(txCtx, projectID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		if current != nil {
			if err := s.sitemapRepo.Deactivate(txCtx, current.ID, userID); err != nil {
				return err
			}
		}

		if err := s.sitemapRepo.Insert(txCtx, version); err != nil {
			return err
		}

		if name := strings.TrimSpace(req.ProjectName); name != "" && name != project.Name {
			if err := s.projectRepo.Rename(txCtx, projectID, name, userID); err != nil {
				return err
			}
			projectName = name
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("save sitemap version: %w", err)
	}

	s.logger.Info("sitemap version saved",
		"sitemap_id", version.ID,
		"project_id", projectID,
		"user_id", userID,
	)

	return &services.SaveSitemapResult{
		SitemapID:   version.ID,
		ProjectID:   projectID,
		ProjectName: projectName,
	}, nil
}

// GetActiveVersion returns the project's active sitemap version
func (s *sitemapService) GetActiveVersion(ctx context.Context, projectID, userID string) (*models.SitemapVersion, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.CreatedBy != userID {
		return nil, &domain.ForbiddenError{Message: "not authorized to access this project"}
	}

	return s.sitemapRepo.GetActive(ctx, projectID)
}

// validateGenerateRequest validates a sitemap generation request
func (s *sitemapService) validateGenerateRequest(req *services.GenerateSitemapRequest) error {
	return validation.Errors{
		"businessName": validation.Validate(req.BusinessName, validation.Required),
		"businessDescription": validation.Validate(req.BusinessDescription,
			validation.Required,
			validation.Length(1, config.MaxBusinessDescriptionLength),
		),
	}.Filter()
}

// isEmptyJSON reports whether a raw payload is absent or JSON null
func isEmptyJSON(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
