// Package geo carries the static geography data behind the map views:
// the selectable countries with their map centers, the category
// enumeration, and the area-class country-code sets used by the
// region-scope filters.
package geo

import (
	"strings"
)

// Country is a selectable country with its map center ([lng, lat]).
type Country struct {
	Code   string
	Name   string
	Center [2]float64
}

// Countries lists the countries offered by the admin form and the
// country-scope selector.
var Countries = []Country{
	{Code: "AT", Name: "Austria", Center: [2]float64{14.55, 47.52}},
	{Code: "BE", Name: "Belgium", Center: [2]float64{4.47, 50.5}},
	{Code: "BG", Name: "Bulgaria", Center: [2]float64{25.49, 42.73}},
	{Code: "CH", Name: "Switzerland", Center: [2]float64{8.23, 46.82}},
	{Code: "CY", Name: "Cyprus", Center: [2]float64{33.43, 35.13}},
	{Code: "CZ", Name: "Czechia", Center: [2]float64{15.47, 49.82}},
	{Code: "DE", Name: "Germany", Center: [2]float64{10.45, 51.17}},
	{Code: "DK", Name: "Denmark", Center: [2]float64{9.5, 56.26}},
	{Code: "EE", Name: "Estonia", Center: [2]float64{25.01, 58.6}},
	{Code: "ES", Name: "Spain", Center: [2]float64{-3.75, 40.46}},
	{Code: "FI", Name: "Finland", Center: [2]float64{25.75, 61.92}},
	{Code: "FR", Name: "France", Center: [2]float64{2.21, 46.23}},
	{Code: "GB", Name: "United Kingdom", Center: [2]float64{-3.44, 55.38}},
	{Code: "GR", Name: "Greece", Center: [2]float64{21.82, 39.07}},
	{Code: "HR", Name: "Croatia", Center: [2]float64{15.2, 45.1}},
	{Code: "HU", Name: "Hungary", Center: [2]float64{19.5, 47.16}},
	{Code: "IE", Name: "Ireland", Center: [2]float64{-8.24, 53.41}},
	{Code: "IS", Name: "Iceland", Center: [2]float64{-19.02, 64.96}},
	{Code: "IT", Name: "Italy", Center: [2]float64{12.57, 41.87}},
	{Code: "LT", Name: "Lithuania", Center: [2]float64{23.88, 55.17}},
	{Code: "LU", Name: "Luxembourg", Center: [2]float64{6.13, 49.82}},
	{Code: "LV", Name: "Latvia", Center: [2]float64{24.6, 56.88}},
	{Code: "MT", Name: "Malta", Center: [2]float64{14.38, 35.94}},
	{Code: "NL", Name: "Netherlands", Center: [2]float64{4.9, 52.37}},
	{Code: "NO", Name: "Norway", Center: [2]float64{8.47, 60.47}},
	{Code: "PL", Name: "Poland", Center: [2]float64{19.15, 51.92}},
	{Code: "PT", Name: "Portugal", Center: [2]float64{-8.22, 39.4}},
	{Code: "RO", Name: "Romania", Center: [2]float64{24.97, 45.94}},
	{Code: "RS", Name: "Serbia", Center: [2]float64{21.01, 44.02}},
	{Code: "SE", Name: "Sweden", Center: [2]float64{18.64, 60.13}},
	{Code: "SI", Name: "Slovenia", Center: [2]float64{14.99, 46.15}},
	{Code: "SK", Name: "Slovakia", Center: [2]float64{19.7, 48.67}},
	{Code: "TR", Name: "Turkey", Center: [2]float64{35.24, 38.96}},
	{Code: "UA", Name: "Ukraine", Center: [2]float64{31.17, 48.38}},
}

// Categories enumerates the valid company categories.
var Categories = []string{
	"Technology",
	"Finance",
	"Energy",
	"Healthcare",
	"Manufacturing",
	"Transportation",
	"Retail",
	"Media",
	"Telecommunications",
	"Food & Beverage",
}

// EUCountries holds the ISO alpha-2 codes of the EU member states.
var EUCountries = []string{
	"AT", "BE", "BG", "HR", "CY", "CZ", "DK", "EE", "FI", "FR",
	"DE", "GR", "HU", "IE", "IT", "LV", "LT", "LU", "MT", "NL",
	"PL", "PT", "RO", "SK", "SI", "ES", "SE",
}

// EuropeanContinent holds the codes of countries on the European
// continent, EU members included.
var EuropeanContinent = append(append([]string{}, EUCountries...),
	"AL", "AD", "BA", "BY", "CH", "GB", "IS", "LI", "MC", "MD",
	"ME", "MK", "NO", "RS", "SM", "UA", "VA", "XK",
)

// IntercontinentalEurope holds the codes of countries spanning Europe
// and another continent.
var IntercontinentalEurope = []string{"TR", "RU", "GE", "AZ", "AM", "KZ", "CY"}

// CountryName resolves a country code to its display name. It returns
// the code itself when the code is unknown.
func CountryName(code string) string {
	for _, c := range Countries {
		if c.Code == code {
			return c.Name
		}
	}
	return code
}

// ValidCategory reports whether category is one of Categories.
func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// ValidCountryCode reports whether code is a plausible ISO alpha-2 code:
// exactly two uppercase ASCII letters.
func ValidCountryCode(code string) bool {
	if len(code) != 2 {
		return false
	}
	for i := 0; i < 2; i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}

// CountryCodeToFlag converts a 2-letter country code to its flag emoji
// by shifting each letter to the regional indicator symbol range. It
// returns the empty string for invalid codes.
func CountryCodeToFlag(code string) string {
	code = strings.ToUpper(code)
	if !ValidCountryCode(code) {
		return ""
	}
	const offset = 127397
	return string([]rune{
		rune(code[0]) + offset,
		rune(code[1]) + offset,
	})
}
