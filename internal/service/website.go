package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"pagesmith/internal/domain"
	"pagesmith/internal/domain/models"
	"pagesmith/internal/domain/repositories"
	"pagesmith/internal/domain/services"
	"pagesmith/internal/llm/prompts"
)

// sectionTask is one (page, section) unit of generation work. Index fixes the
// task's slot in the result slice so reassembly order never depends on
// completion order.
type sectionTask struct {
	index    int
	pageID   string
	pageName string
	section  models.Section
}

type sectionResult struct {
	pageID string
	key    string
	html   string
}

// websiteService implements the WebsiteService interface
type websiteService struct {
	sitemapRepo repositories.SitemapRepository
	projectRepo repositories.ProjectRepository
	gateway     services.Gateway
	catalog     *prompts.Catalog
	concurrency int
	timeout     time.Duration
	logger      *slog.Logger
}

// NewWebsiteService creates a new website service
func NewWebsiteService(
	sitemapRepo repositories.SitemapRepository,
	projectRepo repositories.ProjectRepository,
	gateway services.Gateway,
	catalog *prompts.Catalog,
	concurrency int,
	timeout time.Duration,
	logger *slog.Logger,
) services.WebsiteService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &websiteService{
		sitemapRepo: sitemapRepo,
		projectRepo: projectRepo,
		gateway:     gateway,
		catalog:     catalog,
		concurrency: concurrency,
		timeout:     timeout,
		logger:      logger,
	}
}

// AssembleWebsite renders every page of the submitted sitemap. Sections fan
// out to the gateway concurrently; a failed section degrades to a placeholder
// fragment instead of failing the batch.
func (s *websiteService) AssembleWebsite(ctx context.Context, userID string, req *services.CreateWebsiteRequest) (*services.WebsiteResult, error) {
	version, err := s.sitemapRepo.GetByID(ctx, req.SitemapID)
	if err != nil {
		return nil, err
	}

	project, err := s.projectRepo.GetByID(ctx, version.ProjectID)
	if err != nil {
		return nil, err
	}
	if project.CreatedBy != userID {
		s.logger.Warn("website assembly denied",
			"sitemap_id", req.SitemapID,
			"project_id", project.ID,
			"user_id", userID,
		)
		return nil, &domain.ForbiddenError{
			Message: "you do not have permission to access the project associated with this sitemap",
		}
	}

	if req.Sitemap == nil || len(req.Sitemap.Pages) == 0 {
		return nil, &domain.ValidationError{Message: "sitemap data must contain at least one page"}
	}

	pctx := services.ProjectContext{
		BusinessName:       firstNonEmpty(req.BusinessName, project.Name),
		ProjectDescription: firstNonEmpty(req.ProjectDescription, version.Description),
	}

	tasks := s.collectTasks(req.Sitemap.Pages)
	if len(tasks) == 0 {
		return nil, &domain.ValidationError{
			Message: "no sections found in any page of the provided sitemap data",
		}
	}

	s.logger.Info("website assembly started",
		"project_id", project.ID,
		"pages", len(req.Sitemap.Pages),
		"sections", len(tasks),
	)

	results := make([]sectionResult, len(tasks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, task := range tasks {
		g.Go(func() error {
			results[task.index] = s.generateSection(gctx, pctx, task)
			return nil
		})
	}
	// Workers never return errors; Wait only orders the writes before reads
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fragments := make(map[string]string, len(results))
	for _, r := range results {
		fragments[r.key] = r.html
	}

	pageHTML := make(map[string]string, len(req.Sitemap.Pages))
	for _, page := range req.Sitemap.Pages {
		if len(page.Sections) == 0 {
			continue
		}
		pageHTML[page.ID] = s.assemblePage(pctx.BusinessName, page, fragments)
	}

	if len(pageHTML) == 0 {
		return nil, fmt.Errorf("failed to generate content for any pages")
	}

	s.logger.Info("website assembly finished",
		"project_id", project.ID,
		"pages_rendered", len(pageHTML),
	)

	return &services.WebsiteResult{
		PageHTML:  pageHTML,
		ProjectID: version.ProjectID,
	}, nil
}

// collectTasks flattens the page/section tree into an ordered task list,
// skipping pages with no sections.
func (s *websiteService) collectTasks(pages []models.Page) []sectionTask {
	var tasks []sectionTask
	for _, page := range pages {
		if len(page.Sections) == 0 {
			s.logger.Warn("page has no sections, skipping",
				"page_id", page.ID,
				"page_name", page.Name,
			)
			continue
		}
		for _, section := range page.Sections {
			tasks = append(tasks, sectionTask{
				index:    len(tasks),
				pageID:   page.ID,
				pageName: page.Name,
				section:  section,
			})
		}
	}
	return tasks
}

// generateSection renders one section fragment. Failures are contained here:
// any error or empty completion becomes a visible placeholder so the rest of
// the page still assembles.
func (s *websiteService) generateSection(ctx context.Context, pctx services.ProjectContext, task sectionTask) sectionResult {
	key := sectionKey(task.pageID, task.section.ID.String())
	result := sectionResult{pageID: task.pageID, key: key}

	html, err := s.completeSection(ctx, pctx, task)
	if err != nil || strings.TrimSpace(html) == "" {
		s.logger.Error("section generation failed",
			"page_id", task.pageID,
			"section_id", task.section.ID.String(),
			"error", err,
		)
		result.html = fmt.Sprintf(
			"<section id='section-%s-%s' class='bg-red-100 text-red-700 p-4'>Error generating content for '%s'. Please try again later.</section>",
			task.pageID, task.section.ID.String(), task.section.Name,
		)
		return result
	}

	result.html = strings.TrimSpace(html)
	return result
}

func (s *websiteService) completeSection(ctx context.Context, pctx services.ProjectContext, task sectionTask) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	system, err := s.catalog.Render("section_system", map[string]any{
		"PageID":    task.pageID,
		"SectionID": task.section.ID.String(),
	})
	if err != nil {
		return "", err
	}

	user, err := s.catalog.Render("section_user", map[string]any{
		"BusinessName":       pctx.BusinessName,
		"ProjectDescription": pctx.ProjectDescription,
		"PageName":           task.pageName,
		"SectionID":          task.section.ID.String(),
		"SectionName":        task.section.Name,
		"SectionDescription": task.section.Description,
	})
	if err != nil {
		return "", err
	}

	return s.gateway.InstructedComplete(ctx, system, user)
}

// assemblePage stitches section fragments into a full HTML document,
// preserving the section order of the submitted sitemap.
func (s *websiteService) assemblePage(businessName string, page models.Page, fragments map[string]string) string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html lang='en'>\n<head>\n")
	sb.WriteString("<meta charset='UTF-8'>\n")
	sb.WriteString("<meta name='viewport' content='width=device-width, initial-scale=1.0'>\n")
	fmt.Fprintf(&sb, "<title>%s - %s</title>\n", businessName, page.Name)
	sb.WriteString("<script src='https://cdn.tailwindcss.com'></script>\n")
	sb.WriteString("</head>\n<body class='bg-gray-100 font-sans'>\n")

	for _, section := range page.Sections {
		key := sectionKey(page.ID, section.ID.String())
		fragment, ok := fragments[key]
		if !ok {
			// Every task writes its slot, so a missing key means the task
			// list and the page tree disagree
			s.logger.Error("missing fragment during assembly",
				"page_id", page.ID,
				"section_id", section.ID.String(),
			)
			fragment = fmt.Sprintf(
				"<div class='bg-red-200 p-4 border border-red-400 text-red-800'>Internal error assembling content for section '%s'.</div>",
				section.Name,
			)
		}
		sb.WriteString(fragment)
		sb.WriteString("\n")
	}

	sb.WriteString("</body>\n</html>")
	return sb.String()
}

func sectionKey(pageID, sectionID string) string {
	return pageID + ":" + sectionID
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
