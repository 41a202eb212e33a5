package filter

import (
	"testing"

	"github.com/euvalley/directory/internal/directory/models"
	"github.com/stretchr/testify/assert"
)

func testCompanies() []models.Company {
	return []models.Company{
		{ID: "sap-1", Name: "SAP", Category: "Technology", City: "Walldorf", Country: "Germany", CountryCode: "DE"},
		{ID: "airbus-2", Name: "Airbus", Category: "Manufacturing", City: "Toulouse", Country: "France", CountryCode: "FR"},
		{ID: "acme-3", Name: "Acme Corp", Category: "Technology", City: "Austin", Country: "United States", CountryCode: "US"},
	}
}

func TestApplySearch(t *testing.T) {
	companies := testCompanies()

	tests := []struct {
		name     string
		params   Params
		expected []string
	}{
		{
			name:     "empty query keeps everything",
			params:   Params{Query: "", Scope: ScopeWorld},
			expected: []string{"sap-1", "airbus-2", "acme-3"},
		},
		{
			name:     "matches by name",
			params:   Params{Query: "airbus", Scope: ScopeWorld},
			expected: []string{"airbus-2"},
		},
		{
			name:     "matches by category",
			params:   Params{Query: "technology", Scope: ScopeWorld},
			expected: []string{"sap-1", "acme-3"},
		},
		{
			name:     "matches by city with typo",
			params:   Params{Query: "toulose", Scope: ScopeWorld},
			expected: []string{"airbus-2"},
		},
		{
			name:     "matches by country name",
			params:   Params{Query: "germany", Scope: ScopeWorld},
			expected: []string{"sap-1"},
		},
		{
			name:     "no matches",
			params:   Params{Query: "qqqqqqq", Scope: ScopeWorld},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(companies, tt.params)
			ids := make([]string, 0, len(got))
			for _, c := range got {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestApplyScope(t *testing.T) {
	companies := testCompanies()

	t.Run("eu area excludes non-EU", func(t *testing.T) {
		got := Apply(companies, Params{Scope: ScopeEurope, Area: AreaEU})
		assert.Len(t, got, 2)
		assert.Equal(t, "sap-1", got[0].ID)
		assert.Equal(t, "airbus-2", got[1].ID)
	})

	t.Run("area all keeps everything in europe scope", func(t *testing.T) {
		got := Apply(companies, Params{Scope: ScopeEurope, Area: AreaAll})
		assert.Len(t, got, 3)
	})

	t.Run("country scope ignores area class", func(t *testing.T) {
		got := Apply(companies, Params{Scope: ScopeCountry, CountryCode: "FR", Area: AreaEU})
		assert.Len(t, got, 1)
		assert.Equal(t, "airbus-2", got[0].ID)
	})

	t.Run("world scope keeps everything", func(t *testing.T) {
		got := Apply(companies, Params{Scope: ScopeWorld, Area: AreaEU})
		assert.Len(t, got, 3)
	})

	t.Run("search and scope compose", func(t *testing.T) {
		got := Apply(companies, Params{Query: "technology", Scope: ScopeEurope, Area: AreaEU})
		assert.Len(t, got, 1)
		assert.Equal(t, "sap-1", got[0].ID)
	})
}

func TestApplyPure(t *testing.T) {
	companies := testCompanies()
	p := Params{Query: "tech", Scope: ScopeEurope, Area: AreaEU}

	first := Apply(companies, p)
	second := Apply(companies, p)
	assert.Equal(t, first, second)
	// Input order is preserved and the input slice is untouched.
	assert.Equal(t, "sap-1", companies[0].ID)
	assert.Equal(t, "acme-3", companies[2].ID)
}

func TestViewCenterAndZoom(t *testing.T) {
	assert.Equal(t, [2]float64{4.9, 52.37}, ViewCenter(ScopeCountry, "NL"))
	assert.Equal(t, [2]float64{2.21, 46.23}, ViewCenter(ScopeCountry, "FR"))
	assert.Equal(t, [2]float64{4.9, 52.37}, ViewCenter(ScopeCountry, "??"), "unknown country falls back to the default center")
	assert.Equal(t, [2]float64{10, 50}, ViewCenter(ScopeEurope, ""))
	assert.Equal(t, [2]float64{0, 30}, ViewCenter(ScopeWorld, ""))

	assert.Equal(t, 7, ViewZoom(ScopeCountry))
	assert.Equal(t, 4, ViewZoom(ScopeEurope))
	assert.Equal(t, 2, ViewZoom(ScopeWorld))
}
