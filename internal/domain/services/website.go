package services

import (
	"context"

	"pagesmith/internal/domain/models"
)

// CreateWebsiteRequest carries the sitemap structure to render. SitemapID
// identifies the persisted sitemap version whose project is used for the
// ownership check; BusinessName and ProjectDescription override the stored
// values when present.
type CreateWebsiteRequest struct {
	SitemapID          string                   `json:"project_id"`
	Sitemap            *models.SitemapStructure `json:"sitemap"`
	ProjectDescription string                   `json:"project_description,omitempty"`
	BusinessName       string                   `json:"business_name,omitempty"`
}

// WebsiteResult maps each rendered page id to its complete HTML document.
type WebsiteResult struct {
	PageHTML  map[string]string `json:"page_html_map"`
	ProjectID string            `json:"project_id"`
}

// ProjectContext is the business context threaded into every section prompt.
type ProjectContext struct {
	BusinessName       string
	ProjectDescription string
}

// WebsiteService orchestrates concurrent section generation and deterministic
// per-page reassembly.
type WebsiteService interface {
	// AssembleWebsite fans every (page, section) pair out to the LLM gateway
	// concurrently and reassembles one HTML document per page, preserving
	// the input section order. Individual section failures degrade to
	// placeholder fragments and never fail the batch.
	AssembleWebsite(ctx context.Context, userID string, req *CreateWebsiteRequest) (*WebsiteResult, error)
}
