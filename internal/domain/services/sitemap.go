package services

import (
	"context"
	"encoding/json"

	"pagesmith/internal/domain/models"
)

// GenerateSitemapRequest carries the business description to turn into a
// sitemap skeleton.
type GenerateSitemapRequest struct {
	BusinessName        string `json:"businessName"`
	BusinessDescription string `json:"businessDescription"`
	Prompt              string `json:"prompt,omitempty"`
	PageCount           int    `json:"page,omitempty"`
	Language            string `json:"language,omitempty"`
}

// GenerateSitemapResult bundles the generated sitemap skeleton with the
// structured project brief.
type GenerateSitemapResult struct {
	Sitemap      json.RawMessage      `json:"sitemap"`
	ProjectBrief *models.ProjectBrief `json:"project_brief"`
}

// SaveSitemapRequest carries a client-edited sitemap to persist as a new
// version. All fields except SitemapData are optional.
type SaveSitemapRequest struct {
	ProjectName        string          `json:"project_name,omitempty"`
	ProjectDescription string          `json:"project_description,omitempty"`
	PageCount          int             `json:"no_of_pages,omitempty"`
	SitemapData        json.RawMessage `json:"sitemap_data,omitempty"`
}

// SaveSitemapResult reports the outcome of a version save.
type SaveSitemapResult struct {
	SitemapID   string `json:"sitemap_id"`
	ProjectID   string `json:"project_id"`
	ProjectName string `json:"project_name"`
}

// SitemapService generates sitemap skeletons and manages the append-only
// version history behind the single-active-version invariant.
type SitemapService interface {
	// GenerateSitemap produces a sitemap skeleton and project brief via the
	// LLM gateway. No state is persisted.
	GenerateSitemap(ctx context.Context, req *GenerateSitemapRequest) (*GenerateSitemapResult, error)

	// SaveVersion persists a new active sitemap version for the project,
	// deactivating the prior active version in the same transaction. The
	// caller must own the project.
	SaveVersion(ctx context.Context, projectID, userID string, req *SaveSitemapRequest) (*SaveSitemapResult, error)

	// GetActiveVersion returns the project's active sitemap version. The
	// caller must own the project.
	GetActiveVersion(ctx context.Context, projectID, userID string) (*models.SitemapVersion, error)
}
