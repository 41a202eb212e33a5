// Package seed carries the built-in default dataset used when neither
// the remote gateway nor the local cache has a snapshot yet.
package seed

import (
	"time"

	"github.com/euvalley/directory/internal/directory/models"
)

// Companies returns a fresh copy of the default dataset with creation
// timestamps set to now. Callers own the returned slice.
func Companies(now time.Time) []models.Company {
	defaults := []models.Company{
		{
			ID:          "adyen-seed",
			Name:        "Adyen",
			Category:    "Finance",
			Country:     "Netherlands",
			CountryCode: "NL",
			City:        "Amsterdam",
			Street:      "Simon Carmiggeltstraat 6-50",
			Latitude:    52.3436,
			Longitude:   4.9162,
			Description: "Payments platform for online and in-store transactions.",
			Website:     "https://www.adyen.com",
			LogoURL:     "https://logo.clearbit.com/adyen.com",
		},
		{
			ID:          "sap-seed",
			Name:        "SAP",
			Category:    "Technology",
			Country:     "Germany",
			CountryCode: "DE",
			City:        "Walldorf",
			Street:      "Dietmar-Hopp-Allee 16",
			Latitude:    49.2933,
			Longitude:   8.6417,
			Description: "Enterprise software for business operations and customer relations.",
			Website:     "https://www.sap.com",
			LogoURL:     "https://logo.clearbit.com/sap.com",
		},
		{
			ID:          "spotify-seed",
			Name:        "Spotify",
			Category:    "Media",
			Country:     "Sweden",
			CountryCode: "SE",
			City:        "Stockholm",
			Street:      "Regeringsgatan 19",
			Latitude:    59.3327,
			Longitude:   18.0656,
			Description: "Audio streaming and media services provider.",
			Website:     "https://www.spotify.com",
			LogoURL:     "https://logo.clearbit.com/spotify.com",
		},
		{
			ID:          "airbus-seed",
			Name:        "Airbus",
			Category:    "Manufacturing",
			Country:     "France",
			CountryCode: "FR",
			City:        "Toulouse",
			Street:      "2 Rond-Point Emile Dewoitine",
			Latitude:    43.6158,
			Longitude:   1.3674,
			Description: "Aerospace manufacturer of commercial aircraft, helicopters and satellites.",
			Website:     "https://www.airbus.com",
			LogoURL:     "https://logo.clearbit.com/airbus.com",
		},
		{
			ID:          "nokia-seed",
			Name:        "Nokia",
			Category:    "Telecommunications",
			Country:     "Finland",
			CountryCode: "FI",
			City:        "Espoo",
			Street:      "Karakaari 7",
			Latitude:    60.2176,
			Longitude:   24.7578,
			Description: "Network infrastructure and telecommunications technology.",
			Website:     "https://www.nokia.com",
			LogoURL:     "https://logo.clearbit.com/nokia.com",
		},
		{
			ID:          "proton-seed",
			Name:        "Proton",
			Category:    "Technology",
			Country:     "Switzerland",
			CountryCode: "CH",
			City:        "Geneva",
			Street:      "Route de la Galaise 32",
			Latitude:    46.1726,
			Longitude:   6.1468,
			Description: "Privacy-focused email, VPN and cloud storage services.",
			Website:     "https://proton.me",
			LogoURL:     "https://logo.clearbit.com/proton.me",
		},
	}

	for i := range defaults {
		defaults[i].AlternativeFor = []string{}
		defaults[i].CreatedAt = now
		defaults[i].UpdatedAt = now
	}
	return defaults
}
