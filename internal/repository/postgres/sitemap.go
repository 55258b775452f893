package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"pagesmith/internal/domain"
	"pagesmith/internal/domain/models"
	"pagesmith/internal/domain/repositories"
)

// PostgresSitemapRepository implements the SitemapRepository interface
type PostgresSitemapRepository struct {
	pool *pgxpool.Pool
}

// NewSitemapRepository creates a new sitemap version repository
func NewSitemapRepository(config *RepositoryConfig) repositories.SitemapRepository {
	return &PostgresSitemapRepository{pool: config.Pool}
}

const sitemapColumns = `
	id, project_id, description, page_count, sitemap_data, is_active,
	created_at, created_by, updated_at, updated_by, deleted_at, deleted_by
`

// Insert stores a new sitemap version row
func (r *PostgresSitemapRepository) Insert(ctx context.Context, version *models.SitemapVersion) error {
	query := `
		INSERT INTO sitemap_versions
			(id, project_id, description, page_count, sitemap_data, is_active,
			 created_at, created_by, updated_at, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		version.ID,
		version.ProjectID,
		version.Description,
		version.PageCount,
		version.Data,
		version.IsActive,
		version.CreatedAt,
		version.CreatedBy,
		version.UpdatedAt,
		version.UpdatedBy,
	).Scan(&version.CreatedAt, &version.UpdatedAt)

	if err != nil {
		// A FK violation on project_id means the project row vanished (or
		// never existed) between the service's ownership check and the insert
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("project %s: %w", version.ProjectID, domain.ErrNotFound)
		}
		return fmt.Errorf("insert sitemap version: %w", err)
	}

	return nil
}

// GetByID retrieves a version by id
func (r *PostgresSitemapRepository) GetByID(ctx context.Context, id string) (*models.SitemapVersion, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM sitemap_versions
		WHERE id = $1 AND deleted_at IS NULL
	`, sitemapColumns)

	executor := GetExecutor(ctx, r.pool)
	version, err := scanVersion(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("sitemap %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get sitemap version: %w", err)
	}

	return version, nil
}

// GetActive retrieves the project's active version
func (r *PostgresSitemapRepository) GetActive(ctx context.Context, projectID string) (*models.SitemapVersion, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM sitemap_versions
		WHERE project_id = $1 AND is_active AND deleted_at IS NULL
	`, sitemapColumns)

	executor := GetExecutor(ctx, r.pool)
	version, err := scanVersion(executor.QueryRow(ctx, query, projectID))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("active sitemap for project %s: %w", projectID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get active sitemap: %w", err)
	}

	return version, nil
}

// GetActiveForUpdate locks and retrieves the project's active version.
// The row lock serializes concurrent version swaps for the same project;
// saves for different projects proceed independently.
func (r *PostgresSitemapRepository) GetActiveForUpdate(ctx context.Context, projectID string) (*models.SitemapVersion, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM sitemap_versions
		WHERE project_id = $1 AND is_active AND deleted_at IS NULL
		FOR UPDATE
	`, sitemapColumns)

	executor := GetExecutor(ctx, r.pool)
	version, err := scanVersion(executor.QueryRow(ctx, query, projectID))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("active sitemap for project %s: %w", projectID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("lock active sitemap: %w", err)
	}

	return version, nil
}

// Deactivate clears the is_active flag on a version
func (r *PostgresSitemapRepository) Deactivate(ctx context.Context, id, userID string) error {
	query := `
		UPDATE sitemap_versions
		SET is_active = FALSE, updated_by = $1, updated_at = NOW()
		WHERE id = $2
	`

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, userID, id)
	if err != nil {
		return fmt.Errorf("deactivate sitemap version: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("sitemap version %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// rowScanner matches pgx.Row for single-row scans
type rowScanner interface {
	Scan(dest ...any) error
}

func scanVersion(row rowScanner) (*models.SitemapVersion, error) {
	var version models.SitemapVersion
	err := row.Scan(
		&version.ID,
		&version.ProjectID,
		&version.Description,
		&version.PageCount,
		&version.Data,
		&version.IsActive,
		&version.CreatedAt,
		&version.CreatedBy,
		&version.UpdatedAt,
		&version.UpdatedBy,
		&version.DeletedAt,
		&version.DeletedBy,
	)
	if err != nil {
		return nil, err
	}
	return &version, nil
}
