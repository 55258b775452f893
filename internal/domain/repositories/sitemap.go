package repositories

import (
	"context"

	"pagesmith/internal/domain/models"
)

// SitemapRepository persists sitemap versions. The active-version swap must
// run inside a transaction (see TransactionManager): GetActiveForUpdate takes
// a row lock that serializes concurrent saves for the same project.
type SitemapRepository interface {
	// Insert stores a new sitemap version row.
	Insert(ctx context.Context, version *models.SitemapVersion) error

	// GetByID retrieves a version by id. Returns domain.ErrNotFound if the id
	// is unknown.
	GetByID(ctx context.Context, id string) (*models.SitemapVersion, error)

	// GetActive retrieves the project's active version. Returns
	// domain.ErrNotFound when the project has no active version.
	GetActive(ctx context.Context, projectID string) (*models.SitemapVersion, error)

	// GetActiveForUpdate behaves like GetActive but locks the row
	// (SELECT ... FOR UPDATE). Must be called inside a transaction.
	GetActiveForUpdate(ctx context.Context, projectID string) (*models.SitemapVersion, error)

	// Deactivate clears the is_active flag on a version, attributing the
	// change to userID.
	Deactivate(ctx context.Context, id, userID string) error
}
