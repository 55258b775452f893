package service

import (
	"context"
	"encoding/json"
	"sync"

	"pagesmith/internal/domain"
	"pagesmith/internal/domain/models"
	"pagesmith/internal/domain/repositories"
)

// fakeProjectRepo is an in-memory ProjectRepository for service tests.
type fakeProjectRepo struct {
	mu       sync.Mutex
	projects map[string]*models.Project
	renames  []string
}

func newFakeProjectRepo(projects ...*models.Project) *fakeProjectRepo {
	r := &fakeProjectRepo{projects: make(map[string]*models.Project)}
	for _, p := range projects {
		r.projects[p.ID] = p
	}
	return r
}

func (r *fakeProjectRepo) Create(ctx context.Context, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[project.ID] = project
	return nil
}

func (r *fakeProjectRepo) GetByID(ctx context.Context, id string) (*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok || p.DeletedAt != nil {
		return nil, &domain.NotFoundError{Message: "project not found"}
	}
	clone := *p
	return &clone, nil
}

func (r *fakeProjectRepo) ListByOwner(ctx context.Context, userID string) ([]models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Project
	for _, p := range r.projects {
		if p.CreatedBy == userID && p.DeletedAt == nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) Rename(ctx context.Context, id, name, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return &domain.NotFoundError{Message: "project not found"}
	}
	p.Name = name
	p.UpdatedBy = &userID
	r.renames = append(r.renames, name)
	return nil
}

func (r *fakeProjectRepo) SoftDelete(ctx context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return &domain.NotFoundError{Message: "project not found"}
	}
	now := p.UpdatedAt
	p.DeletedAt = &now
	p.DeletedBy = &userID
	return nil
}

// fakeSitemapRepo is an in-memory SitemapRepository. It records the order of
// mutating calls so tests can assert the deactivate-then-insert sequence.
type fakeSitemapRepo struct {
	mu       sync.Mutex
	versions map[string]*models.SitemapVersion
	calls    []string

	insertErr error
}

func newFakeSitemapRepo(versions ...*models.SitemapVersion) *fakeSitemapRepo {
	r := &fakeSitemapRepo{versions: make(map[string]*models.SitemapVersion)}
	for _, v := range versions {
		r.versions[v.ID] = v
	}
	return r
}

func (r *fakeSitemapRepo) Insert(ctx context.Context, version *models.SitemapVersion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "insert")
	if r.insertErr != nil {
		return r.insertErr
	}
	clone := *version
	r.versions[version.ID] = &clone
	return nil
}

func (r *fakeSitemapRepo) GetByID(ctx context.Context, id string) (*models.SitemapVersion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.versions[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "sitemap not found"}
	}
	clone := *v
	return &clone, nil
}

func (r *fakeSitemapRepo) GetActive(ctx context.Context, projectID string) (*models.SitemapVersion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeLocked(projectID)
}

func (r *fakeSitemapRepo) GetActiveForUpdate(ctx context.Context, projectID string) (*models.SitemapVersion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "lock")
	return r.activeLocked(projectID)
}

func (r *fakeSitemapRepo) Deactivate(ctx context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "deactivate")
	v, ok := r.versions[id]
	if !ok {
		return &domain.NotFoundError{Message: "sitemap not found"}
	}
	v.IsActive = false
	v.UpdatedBy = &userID
	return nil
}

func (r *fakeSitemapRepo) activeLocked(projectID string) (*models.SitemapVersion, error) {
	for _, v := range r.versions {
		if v.ProjectID == projectID && v.IsActive {
			clone := *v
			return &clone, nil
		}
	}
	return nil, &domain.NotFoundError{Message: "no active sitemap"}
}

func (r *fakeSitemapRepo) activeCount(projectID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, v := range r.versions {
		if v.ProjectID == projectID && v.IsActive {
			n++
		}
	}
	return n
}

// fakeTxManager runs the function directly. A failed function restores the
// repo snapshot taken before the call, mimicking a rollback.
type fakeTxManager struct {
	sitemaps *fakeSitemapRepo
	projects *fakeProjectRepo
}

func (m *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	versionSnap := make(map[string]models.SitemapVersion)
	m.sitemaps.mu.Lock()
	for id, v := range m.sitemaps.versions {
		versionSnap[id] = *v
	}
	m.sitemaps.mu.Unlock()

	projectSnap := make(map[string]models.Project)
	m.projects.mu.Lock()
	for id, p := range m.projects.projects {
		projectSnap[id] = *p
	}
	m.projects.mu.Unlock()

	if err := fn(ctx); err != nil {
		m.sitemaps.mu.Lock()
		m.sitemaps.versions = make(map[string]*models.SitemapVersion, len(versionSnap))
		for id, v := range versionSnap {
			clone := v
			m.sitemaps.versions[id] = &clone
		}
		m.sitemaps.mu.Unlock()

		m.projects.mu.Lock()
		m.projects.projects = make(map[string]*models.Project, len(projectSnap))
		for id, p := range projectSnap {
			clone := p
			m.projects.projects[id] = &clone
		}
		m.projects.mu.Unlock()
		return err
	}
	return nil
}

// fakeGateway routes completions to configurable functions and counts calls.
type fakeGateway struct {
	mu    sync.Mutex
	calls int

	structuredFn func(systemPrompt, userPrompt, schemaHint string, out any) error
	freeTextFn   func(userPrompt string) (string, error)
	instructedFn func(systemInstruction, userInput string) (string, error)
}

func (g *fakeGateway) StructuredComplete(ctx context.Context, systemPrompt, userPrompt, schemaHint string, out any) error {
	g.count()
	if g.structuredFn != nil {
		return g.structuredFn(systemPrompt, userPrompt, schemaHint, out)
	}
	return json.Unmarshal([]byte(`{"business_name":"Acme","business_description":"desc"}`), out)
}

func (g *fakeGateway) FreeTextComplete(ctx context.Context, userPrompt string) (string, error) {
	g.count()
	if g.freeTextFn != nil {
		return g.freeTextFn(userPrompt)
	}
	return `{"Pages":[]}`, nil
}

func (g *fakeGateway) InstructedComplete(ctx context.Context, systemInstruction, userInput string) (string, error) {
	g.count()
	if g.instructedFn != nil {
		return g.instructedFn(systemInstruction, userInput)
	}
	return "<section>ok</section>", nil
}

func (g *fakeGateway) count() {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
}

func (g *fakeGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}
