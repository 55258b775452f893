package models

import "time"

// Project represents a user-owned website project. A project owns any number
// of sitemap versions, of which at most one is active at a time.
type Project struct {
	ID        string     `json:"id"`
	Name      string     `json:"project_name"`
	CreatedBy string     `json:"created_by"`
	UpdatedBy *string    `json:"updated_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	DeletedBy *string    `json:"deleted_by,omitempty"`

	// ActiveSitemap is the project's currently active sitemap version, if
	// any. Derived at query time, never stored on the project row.
	ActiveSitemap *SitemapVersion `json:"active_sitemap,omitempty"`
}
