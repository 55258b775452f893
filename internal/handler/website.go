package handler

import (
	"log/slog"
	"net/http"

	"pagesmith/internal/domain/services"
	"pagesmith/internal/httputil"
)

// WebsiteHandler handles website generation HTTP requests
type WebsiteHandler struct {
	websiteService services.WebsiteService
	logger         *slog.Logger
}

// NewWebsiteHandler creates a new website handler
func NewWebsiteHandler(websiteService services.WebsiteService, logger *slog.Logger) *WebsiteHandler {
	return &WebsiteHandler{
		websiteService: websiteService,
		logger:         logger,
	}
}

// Create renders full HTML pages from a sitemap structure
// POST /website/create-website
func (h *WebsiteHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req services.CreateWebsiteRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.SitemapID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "sitemap id is required")
		return
	}

	result, err := h.websiteService.AssembleWebsite(r.Context(), userID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
