package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// SitemapVersion is one immutable snapshot of a project's sitemap. Versions
// are append-only: a save creates a new active row and deactivates the prior
// one, it never mutates stored sitemap data in place.
type SitemapVersion struct {
	ID          string          `json:"id"`
	ProjectID   string          `json:"project_id"`
	Description string          `json:"project_description"`
	PageCount   int             `json:"no_of_pages"`
	Data        json.RawMessage `json:"sitemap_data"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	CreatedBy   string          `json:"created_by"`
	UpdatedAt   time.Time       `json:"updated_at"`
	UpdatedBy   *string         `json:"updated_by,omitempty"`
	DeletedAt   *time.Time      `json:"deleted_at,omitempty"`
	DeletedBy   *string         `json:"deleted_by,omitempty"`
}

// SitemapStructure is the page/section tree exchanged with clients. It is the
// unit fanned out during HTML generation, independent of the persisted JSONB
// encoding (which is stored opaquely).
type SitemapStructure struct {
	Pages []Page `json:"Pages"`
}

// Page is one website page with an ordered list of sections. The wire field
// "label" aliases the page display name.
type Page struct {
	ID       string    `json:"id"`
	Name     string    `json:"label"`
	Sections []Section `json:"sections"`
}

// Section is one page section. Clients send section ids as either strings or
// numbers, so the id uses a flexible decoder. "title" and "description" alias
// the section name and description.
type Section struct {
	ID          FlexID `json:"id"`
	Name        string `json:"title"`
	Description string `json:"description"`
}

// FlexID decodes a JSON string or number into its string form.
type FlexID string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexID(n.String())
		return nil
	}

	return fmt.Errorf("section id must be a string or number, got %s", data)
}

// MarshalJSON implements json.Marshaler. Numeric ids round-trip as numbers.
func (f FlexID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(f), 10, 64); err == nil {
		return []byte(f), nil
	}
	return json.Marshal(string(f))
}

func (f FlexID) String() string { return string(f) }

// ProjectBrief is the structured project summary produced by the LLM gateway
// before sitemap generation. VisualBrandGuidelines (logo typefaces, font
// scale, brand colors) is passed through opaquely; only the frontend
// interprets it. The key casing is part of the wire contract.
type ProjectBrief struct {
	BusinessName          string          `json:"business_name"`
	BusinessDescription   string          `json:"business_description"`
	WebsiteGoal           string          `json:"website_goal"`
	TargetAudience        string          `json:"target_audience"`
	VisualBrandGuidelines json.RawMessage `json:"VisualBrandGuidelines,omitempty"`
	PageCount             int             `json:"pageCount,omitempty"`
	Language              string          `json:"language,omitempty"`
}
