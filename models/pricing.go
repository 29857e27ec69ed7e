package models

// LocationData is the result of a geolocation lookup. Immutable once
// produced; callers must not rely on anything beyond the request that
// returned it.
type LocationData struct {
	Country     string `json:"country"`
	CountryCode string `json:"countryCode"`
	Region      string `json:"region"`
	City        string `json:"city"`
	Timezone    string `json:"timezone"`
}

// TaxInfo describes the consumption tax of one jurisdiction. Rate is a
// decimal fraction (0.18 == 18%).
type TaxInfo struct {
	Rate        float64 `json:"rate"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
}

// PricingResult carries a computed price in both major units (rupees) and
// minor units (paise, major x 100). Both representations are always present
// and consistent so call sites never convert ad hoc.
type PricingResult struct {
	BaseAmount  float64 `json:"base_amount"`
	TaxAmount   float64 `json:"tax_amount"`
	TotalAmount float64 `json:"total_amount"`
	BaseMinor   int64   `json:"base_minor"`
	TaxMinor    int64   `json:"tax_minor"`
	TotalMinor  int64   `json:"total_minor"`
	TaxRate     float64 `json:"tax_rate"`
	TaxName     string  `json:"tax_name"`
	CountryCode string  `json:"country_code"`
}
