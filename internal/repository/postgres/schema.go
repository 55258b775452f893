package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema bootstraps the tables on startup. Real migration tooling is out of
// scope; the statements are idempotent.
//
// The partial unique index on sitemap_versions backs the single-active-version
// invariant at the storage level. The version-swap transaction takes a row
// lock on the active version, so the index only catches bugs, it is not the
// serialization mechanism.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS projects (
	id         UUID PRIMARY KEY,
	name       VARCHAR(255) NOT NULL,
	created_by UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	updated_by UUID,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	deleted_at TIMESTAMPTZ,
	deleted_by UUID
);

CREATE TABLE IF NOT EXISTS sitemap_versions (
	id          UUID PRIMARY KEY,
	project_id  UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	description TEXT NOT NULL DEFAULT '',
	page_count  INTEGER NOT NULL DEFAULT 0,
	sitemap_data JSONB NOT NULL,
	is_active   BOOLEAN NOT NULL DEFAULT TRUE,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	created_by  UUID NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_by  UUID,
	deleted_at  TIMESTAMPTZ,
	deleted_by  UUID
);

CREATE UNIQUE INDEX IF NOT EXISTS sitemap_versions_one_active
	ON sitemap_versions (project_id) WHERE is_active;

CREATE INDEX IF NOT EXISTS sitemap_versions_project_idx
	ON sitemap_versions (project_id, created_at DESC);
`

// EnsureSchema creates the tables and indexes if they do not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
