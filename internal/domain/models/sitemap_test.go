package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexIDDecoding(t *testing.T) {
	var s Section

	require.NoError(t, json.Unmarshal([]byte(`{"id":"hero","title":"Hero"}`), &s))
	assert.Equal(t, "hero", s.ID.String())

	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"title":"Hero"}`), &s))
	assert.Equal(t, "3", s.ID.String())

	err := json.Unmarshal([]byte(`{"id":{"nested":true}}`), &s)
	assert.Error(t, err)
}

func TestFlexIDNumericRoundTrip(t *testing.T) {
	var s Section
	require.NoError(t, json.Unmarshal([]byte(`{"id":7,"title":"Hero","description":"d"}`), &s))

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"id":7`)
}

func TestProjectBriefCarriesBrandGuidelines(t *testing.T) {
	payload := `{
		"business_name": "Acme",
		"business_description": "Widgets",
		"website_goal": "Sell widgets",
		"target_audience": "Widget fans",
		"VisualBrandGuidelines": {
			"Logo_typeface": [{"font_family": "Inter", "font_weight": "700"}],
			"font": {"font_family": "Inter", "base_fontsize": 16},
			"colors": {"colors": {"primary_color": "#112233", "secondary_color": "#445566"}}
		}
	}`

	var brief ProjectBrief
	require.NoError(t, json.Unmarshal([]byte(payload), &brief))
	assert.Equal(t, "Acme", brief.BusinessName)
	require.NotEmpty(t, brief.VisualBrandGuidelines)

	// Guidelines round-trip untouched under the original key casing
	out, err := json.Marshal(brief)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"VisualBrandGuidelines"`)
	assert.Contains(t, string(out), `"primary_color":"#112233"`)
}

func TestSitemapStructureAliases(t *testing.T) {
	payload := `{
		"Pages": [
			{
				"id": "home",
				"label": "Home",
				"sections": [
					{"id": 1, "title": "Hero", "description": "Big banner"}
				]
			}
		]
	}`

	var structure SitemapStructure
	require.NoError(t, json.Unmarshal([]byte(payload), &structure))
	require.Len(t, structure.Pages, 1)

	page := structure.Pages[0]
	assert.Equal(t, "Home", page.Name)
	require.Len(t, page.Sections, 1)
	assert.Equal(t, "Hero", page.Sections[0].Name)
	assert.Equal(t, "Big banner", page.Sections[0].Description)
}
