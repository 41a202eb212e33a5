// Package models defines the core domain models for the directory:
// the Company record, the partial CompanyUpdate, and the Snapshot
// envelope that is persisted as a single unit.
package models

import (
	"time"
)

// Company defines the domain model for a company shown on the map.
// JSON tags match the snapshot wire format.
type Company struct {
	// ID is the unique identifier, assigned once at creation.
	ID string `json:"id"`
	// Name is the company's display name, unique case-insensitively.
	Name string `json:"name"`
	// Category is one of the values in geo.Categories.
	Category string `json:"category"`
	// Country is the display name of the country.
	Country string `json:"country"`
	// CountryCode is the ISO 3166-1 alpha-2 code driving scope filters.
	CountryCode string `json:"countryCode"`
	// City, Street and State are free-text address components.
	City   string `json:"city"`
	Street string `json:"street"`
	State  string `json:"state"`
	// Latitude and Longitude locate the marker. Zero means unset.
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	// Description is optional free text.
	Description string `json:"description"`
	// Website is the company homepage URL.
	Website string `json:"website"`
	// LogoURL points to the company logo.
	LogoURL string `json:"logoUrl"`
	// AlternativeFor lists competitor names this company replaces.
	AlternativeFor []string `json:"alternativeFor"`
	// CreatedAt is set once at creation.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is refreshed on every mutation.
	UpdatedAt time.Time `json:"updatedAt"`
	// LastEditDetails summarizes the fields changed by the latest update.
	LastEditDetails string `json:"lastEditDetails,omitempty"`
}

// CompanyUpdate represents the fields that can be updated for a Company.
// Pointer types are used to allow partial updates.
type CompanyUpdate struct {
	Name           *string   `json:"name,omitempty"`
	Category       *string   `json:"category,omitempty"`
	Country        *string   `json:"country,omitempty"`
	CountryCode    *string   `json:"countryCode,omitempty"`
	City           *string   `json:"city,omitempty"`
	Street         *string   `json:"street,omitempty"`
	State          *string   `json:"state,omitempty"`
	Latitude       *float64  `json:"latitude,omitempty"`
	Longitude      *float64  `json:"longitude,omitempty"`
	Description    *string   `json:"description,omitempty"`
	Website        *string   `json:"website,omitempty"`
	LogoURL        *string   `json:"logoUrl,omitempty"`
	AlternativeFor *[]string `json:"alternativeFor,omitempty"`
}

// Snapshot is the unit of persistence: the full company collection,
// the hidden-id set and the stamp of the last successful write. It is
// always read and written as one document.
type Snapshot struct {
	Companies   []Company  `json:"companies"`
	HiddenIDs   []string   `json:"hiddenIds"`
	LastUpdated *time.Time `json:"lastUpdated"`
}
