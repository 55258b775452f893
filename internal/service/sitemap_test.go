package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagesmith/internal/domain"
	"pagesmith/internal/domain/models"
	"pagesmith/internal/domain/services"
	"pagesmith/internal/llm/prompts"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCatalog(t *testing.T) *prompts.Catalog {
	t.Helper()
	catalog, err := prompts.NewCatalog()
	require.NoError(t, err)
	return catalog
}

func testProject(id, owner string) *models.Project {
	now := time.Now()
	return &models.Project{
		ID:        id,
		Name:      "Acme Site",
		CreatedBy: owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func testVersion(id, projectID string, active bool) *models.SitemapVersion {
	now := time.Now()
	return &models.SitemapVersion{
		ID:        id,
		ProjectID: projectID,
		Data:      json.RawMessage(`{"Pages":[]}`),
		IsActive:  active,
		CreatedAt: now,
		CreatedBy: "owner",
		UpdatedAt: now,
	}
}

func newSitemapServiceForTest(projects *fakeProjectRepo, sitemaps *fakeSitemapRepo, gateway *fakeGateway, t *testing.T) services.SitemapService {
	return NewSitemapService(
		projects,
		sitemaps,
		&fakeTxManager{sitemaps: sitemaps, projects: projects},
		gateway,
		testCatalog(t),
		testLogger(),
	)
}

func TestSaveVersionSwapsActive(t *testing.T) {
	projects := newFakeProjectRepo(testProject("p1", "owner"))
	sitemaps := newFakeSitemapRepo(testVersion("v1", "p1", true))
	svc := newSitemapServiceForTest(projects, sitemaps, &fakeGateway{}, t)

	result, err := svc.SaveVersion(context.Background(), "p1", "owner", &services.SaveSitemapRequest{
		SitemapData: json.RawMessage(`{"Pages":[{"id":"home","label":"Home"}]}`),
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.SitemapID)
	assert.Equal(t, "p1", result.ProjectID)

	// Exactly one active version remains and it is the new one
	assert.Equal(t, 1, sitemaps.activeCount("p1"))
	active, err := sitemaps.GetActive(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, result.SitemapID, active.ID)

	// The swap locks the old row, deactivates it, then inserts
	assert.Equal(t, []string{"lock", "deactivate", "insert"}, sitemaps.calls)
}

func TestSaveVersionFirstSave(t *testing.T) {
	projects := newFakeProjectRepo(testProject("p1", "owner"))
	sitemaps := newFakeSitemapRepo()
	svc := newSitemapServiceForTest(projects, sitemaps, &fakeGateway{}, t)

	result, err := svc.SaveVersion(context.Background(), "p1", "owner", &services.SaveSitemapRequest{
		SitemapData: json.RawMessage(`{"Pages":[]}`),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, sitemaps.activeCount("p1"))
	assert.Equal(t, "Acme Site", result.ProjectName)

	// No deactivate when there was nothing active
	assert.Equal(t, []string{"lock", "insert"}, sitemaps.calls)
}

func TestSaveVersionRenamesProject(t *testing.T) {
	projects := newFakeProjectRepo(testProject("p1", "owner"))
	sitemaps := newFakeSitemapRepo()
	svc := newSitemapServiceForTest(projects, sitemaps, &fakeGateway{}, t)

	result, err := svc.SaveVersion(context.Background(), "p1", "owner", &services.SaveSitemapRequest{
		ProjectName: "  Renamed Site  ",
		SitemapData: json.RawMessage(`{"Pages":[]}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Site", result.ProjectName)
	assert.Equal(t, []string{"Renamed Site"}, projects.renames)
}

func TestSaveVersionEmptyPayload(t *testing.T) {
	projects := newFakeProjectRepo(testProject("p1", "owner"))
	sitemaps := newFakeSitemapRepo()
	svc := newSitemapServiceForTest(projects, sitemaps, &fakeGateway{}, t)

	for _, payload := range []json.RawMessage{nil, json.RawMessage("  "), json.RawMessage("null")} {
		_, err := svc.SaveVersion(context.Background(), "p1", "owner", &services.SaveSitemapRequest{
			SitemapData: payload,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Contains(t, err.Error(), "no changes to save")
	}

	assert.Empty(t, sitemaps.calls)
}

func TestSaveVersionUnknownProject(t *testing.T) {
	projects := newFakeProjectRepo()
	sitemaps := newFakeSitemapRepo()
	svc := newSitemapServiceForTest(projects, sitemaps, &fakeGateway{}, t)

	_, err := svc.SaveVersion(context.Background(), "missing", "owner", &services.SaveSitemapRequest{
		SitemapData: json.RawMessage(`{"Pages":[]}`),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSaveVersionNotOwner(t *testing.T) {
	projects := newFakeProjectRepo(testProject("p1", "owner"))
	sitemaps := newFakeSitemapRepo(testVersion("v1", "p1", true))
	svc := newSitemapServiceForTest(projects, sitemaps, &fakeGateway{}, t)

	_, err := svc.SaveVersion(context.Background(), "p1", "intruder", &services.SaveSitemapRequest{
		SitemapData: json.RawMessage(`{"Pages":[]}`),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Nothing was written
	assert.Empty(t, sitemaps.calls)
	assert.Equal(t, 1, sitemaps.activeCount("p1"))
}

func TestSaveVersionRollsBackOnInsertFailure(t *testing.T) {
	projects := newFakeProjectRepo(testProject("p1", "owner"))
	sitemaps := newFakeSitemapRepo(testVersion("v1", "p1", true))
	sitemaps.insertErr = errors.New("disk full")
	svc := newSitemapServiceForTest(projects, sitemaps, &fakeGateway{}, t)

	_, err := svc.SaveVersion(context.Background(), "p1", "owner", &services.SaveSitemapRequest{
		SitemapData: json.RawMessage(`{"Pages":[]}`),
	})
	require.Error(t, err)

	// The old version is still the single active one after rollback
	assert.Equal(t, 1, sitemaps.activeCount("p1"))
	active, getErr := sitemaps.GetActive(context.Background(), "p1")
	require.NoError(t, getErr)
	assert.Equal(t, "v1", active.ID)
}

func TestGenerateSitemapStripsFences(t *testing.T) {
	gateway := &fakeGateway{
		freeTextFn: func(string) (string, error) {
			return "```json\n{\"Pages\":[{\"pageId\":\"home\"}]}\n```", nil
		},
	}
	svc := newSitemapServiceForTest(newFakeProjectRepo(), newFakeSitemapRepo(), gateway, t)

	result, err := svc.GenerateSitemap(context.Background(), &services.GenerateSitemapRequest{
		BusinessName:        "Acme",
		BusinessDescription: "Widgets",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"Pages":[{"pageId":"home"}]}`, string(result.Sitemap))
	require.NotNil(t, result.ProjectBrief)
	assert.Equal(t, "Acme", result.ProjectBrief.BusinessName)
}

func TestGenerateSitemapMalformedResponse(t *testing.T) {
	gateway := &fakeGateway{
		freeTextFn: func(string) (string, error) {
			return "Sure! Here is your sitemap: {not json", nil
		},
	}
	svc := newSitemapServiceForTest(newFakeProjectRepo(), newFakeSitemapRepo(), gateway, t)

	_, err := svc.GenerateSitemap(context.Background(), &services.GenerateSitemapRequest{
		BusinessName:        "Acme",
		BusinessDescription: "Widgets",
	})
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestGenerateSitemapValidatesInput(t *testing.T) {
	gateway := &fakeGateway{}
	svc := newSitemapServiceForTest(newFakeProjectRepo(), newFakeSitemapRepo(), gateway, t)

	_, err := svc.GenerateSitemap(context.Background(), &services.GenerateSitemapRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, gateway.callCount())
}

func TestGetActiveVersionOwnership(t *testing.T) {
	projects := newFakeProjectRepo(testProject("p1", "owner"))
	sitemaps := newFakeSitemapRepo(testVersion("v1", "p1", true))
	svc := newSitemapServiceForTest(projects, sitemaps, &fakeGateway{}, t)

	version, err := svc.GetActiveVersion(context.Background(), "p1", "owner")
	require.NoError(t, err)
	assert.Equal(t, "v1", version.ID)

	_, err = svc.GetActiveVersion(context.Background(), "p1", "intruder")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.GetActiveVersion(context.Background(), "missing", "owner")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
