package handler

import (
	"log/slog"
	"net/http"

	"pagesmith/internal/domain/services"
	"pagesmith/internal/httputil"
)

// SitemapHandler handles sitemap generation and versioning HTTP requests
type SitemapHandler struct {
	sitemapService services.SitemapService
	logger         *slog.Logger
}

// NewSitemapHandler creates a new sitemap handler
func NewSitemapHandler(sitemapService services.SitemapService, logger *slog.Logger) *SitemapHandler {
	return &SitemapHandler{
		sitemapService: sitemapService,
		logger:         logger,
	}
}

// Generate produces a sitemap skeleton from a business description
// POST /sitemap/generate
func (h *SitemapHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	var req services.GenerateSitemapRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.sitemapService.GenerateSitemap(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// Save persists a new active sitemap version for a project
// POST /sitemap/save/{project_id}
func (h *SitemapHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	projectID := r.PathValue("project_id")
	if projectID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "project id is required")
		return
	}

	var req services.SaveSitemapRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.sitemapService.SaveVersion(r.Context(), projectID, userID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, result)
}

// GetActive returns the project's active sitemap version
// GET /sitemap/{project_id}
func (h *SitemapHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	projectID := r.PathValue("project_id")
	if projectID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "project id is required")
		return
	}

	version, err := h.sitemapService.GetActiveVersion(r.Context(), projectID, userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, version)
}
