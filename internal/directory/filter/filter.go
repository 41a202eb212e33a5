// Package filter computes the displayed subset of company records from a
// search query and a geographic scope. It is a pure projection: the same
// inputs always yield the same output, in insertion order. Any display
// sort is left to the presentation layer.
package filter

import (
	"github.com/euvalley/directory/internal/directory/geo"
	"github.com/euvalley/directory/internal/directory/models"
	"github.com/euvalley/directory/internal/directory/search"
)

// Scope selects the geographic narrowing of the view.
type Scope string

const (
	ScopeCountry Scope = "country"
	ScopeEurope  Scope = "europe"
	ScopeWorld   Scope = "world"
)

// AreaClass narrows a region-scope view to one of the fixed
// country-code groupings.
type AreaClass string

const (
	AreaEU               AreaClass = "eu"
	AreaContinent        AreaClass = "european-continent"
	AreaIntercontinental AreaClass = "intercontinental"
	AreaAll              AreaClass = "all"
)

// Params describes one projection request. CountryCode applies only in
// country scope; Area applies only in non-country, non-world scopes.
type Params struct {
	Query       string
	Scope       Scope
	CountryCode string
	Area        AreaClass
}

// Apply filters companies by search query and then by scope, preserving
// the input order. Visibility filtering happens upstream: callers pass
// the visible set for the public view and the full set for admin.
func Apply(companies []models.Company, p Params) []models.Company {
	filtered := companies

	if p.Query != "" {
		matched := make([]models.Company, 0, len(filtered))
		for _, c := range filtered {
			if matchesQuery(c, p.Query) {
				matched = append(matched, c)
			}
		}
		filtered = matched
	}

	switch {
	case p.Scope == ScopeCountry:
		scoped := make([]models.Company, 0, len(filtered))
		for _, c := range filtered {
			if c.CountryCode == p.CountryCode {
				scoped = append(scoped, c)
			}
		}
		filtered = scoped
	case p.Scope != ScopeWorld:
		if codes := areaCodes(p.Area); codes != nil {
			scoped := make([]models.Company, 0, len(filtered))
			for _, c := range filtered {
				if codes[c.CountryCode] {
					scoped = append(scoped, c)
				}
			}
			filtered = scoped
		}
	}

	return filtered
}

// ViewCenter returns the map center ([lng, lat]) for the given scope.
func ViewCenter(scope Scope, countryCode string) [2]float64 {
	switch scope {
	case ScopeCountry:
		for _, c := range geo.Countries {
			if c.Code == countryCode {
				return c.Center
			}
		}
		return [2]float64{4.9, 52.37}
	case ScopeEurope:
		return [2]float64{10, 50}
	default:
		return [2]float64{0, 30}
	}
}

// ViewZoom returns the map zoom level for the given scope.
func ViewZoom(scope Scope) int {
	switch scope {
	case ScopeCountry:
		return 7
	case ScopeEurope:
		return 4
	default:
		return 2
	}
}

func matchesQuery(c models.Company, query string) bool {
	return search.FuzzyMatch(c.Name, query) ||
		search.FuzzyMatch(c.Category, query) ||
		search.FuzzyMatch(c.City, query) ||
		search.FuzzyMatch(c.Country, query) ||
		search.FuzzyMatch(c.Description, query)
}

func areaCodes(area AreaClass) map[string]bool {
	var codes []string
	switch area {
	case AreaEU:
		codes = geo.EUCountries
	case AreaContinent:
		codes = geo.EuropeanContinent
	case AreaIntercontinental:
		codes = geo.IntercontinentalEurope
	default:
		return nil
	}
	set := make(map[string]bool, len(codes))
	for _, code := range codes {
		set[code] = true
	}
	return set
}
