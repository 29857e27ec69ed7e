package pricing

import (
	"strings"

	"techsetu-website-api/models"
)

// DefaultCountryCode keys the zero-rate fallback entry. Any country we have
// no tax treatment for resolves here instead of failing a checkout.
const DefaultCountryCode = "DEFAULT"

// taxTable maps uppercase ISO 3166-1 alpha-2 codes to the consumption tax we
// charge for that jurisdiction. Read-only; rates are decimal fractions.
var taxTable = map[string]models.TaxInfo{
	"IN": {Rate: 0.18, Name: "GST", Description: "Goods and Services Tax (India)"},

	// EU member states (GB has its own VAT entry below).
	"AT": {Rate: 0.20, Name: "VAT", Description: "Value Added Tax (Austria)"},
	"BE": {Rate: 0.21, Name: "VAT", Description: "Value Added Tax (Belgium)"},
	"BG": {Rate: 0.20, Name: "VAT", Description: "Value Added Tax (Bulgaria)"},
	"HR": {Rate: 0.25, Name: "VAT", Description: "Value Added Tax (Croatia)"},
	"CY": {Rate: 0.19, Name: "VAT", Description: "Value Added Tax (Cyprus)"},
	"CZ": {Rate: 0.21, Name: "VAT", Description: "Value Added Tax (Czechia)"},
	"DK": {Rate: 0.25, Name: "VAT", Description: "Value Added Tax (Denmark)"},
	"EE": {Rate: 0.22, Name: "VAT", Description: "Value Added Tax (Estonia)"},
	"FI": {Rate: 0.24, Name: "VAT", Description: "Value Added Tax (Finland)"},
	"FR": {Rate: 0.20, Name: "VAT", Description: "Value Added Tax (France)"},
	"DE": {Rate: 0.19, Name: "VAT", Description: "Value Added Tax (Germany)"},
	"GR": {Rate: 0.24, Name: "VAT", Description: "Value Added Tax (Greece)"},
	"HU": {Rate: 0.27, Name: "VAT", Description: "Value Added Tax (Hungary)"},
	"IE": {Rate: 0.23, Name: "VAT", Description: "Value Added Tax (Ireland)"},
	"IT": {Rate: 0.22, Name: "VAT", Description: "Value Added Tax (Italy)"},
	"LV": {Rate: 0.21, Name: "VAT", Description: "Value Added Tax (Latvia)"},
	"LT": {Rate: 0.21, Name: "VAT", Description: "Value Added Tax (Lithuania)"},
	"LU": {Rate: 0.17, Name: "VAT", Description: "Value Added Tax (Luxembourg)"},
	"MT": {Rate: 0.18, Name: "VAT", Description: "Value Added Tax (Malta)"},
	"NL": {Rate: 0.21, Name: "VAT", Description: "Value Added Tax (Netherlands)"},
	"PL": {Rate: 0.23, Name: "VAT", Description: "Value Added Tax (Poland)"},
	"PT": {Rate: 0.23, Name: "VAT", Description: "Value Added Tax (Portugal)"},
	"RO": {Rate: 0.19, Name: "VAT", Description: "Value Added Tax (Romania)"},
	"SK": {Rate: 0.20, Name: "VAT", Description: "Value Added Tax (Slovakia)"},
	"SI": {Rate: 0.22, Name: "VAT", Description: "Value Added Tax (Slovenia)"},
	"ES": {Rate: 0.21, Name: "VAT", Description: "Value Added Tax (Spain)"},
	"SE": {Rate: 0.25, Name: "VAT", Description: "Value Added Tax (Sweden)"},

	"GB": {Rate: 0.20, Name: "VAT", Description: "Value Added Tax (United Kingdom)"},

	// North America. US sales tax is origin-based and not collected for
	// remote digital services, so the US entry is zero-rated.
	"US": {Rate: 0, Name: "Sales Tax", Description: "No tax collected for US customers"},
	"CA": {Rate: 0.05, Name: "GST", Description: "Goods and Services Tax (Canada)"},
	"MX": {Rate: 0.16, Name: "IVA", Description: "Impuesto al Valor Agregado (Mexico)"},

	// Asia-Pacific.
	"AU": {Rate: 0.10, Name: "GST", Description: "Goods and Services Tax (Australia)"},
	"NZ": {Rate: 0.15, Name: "GST", Description: "Goods and Services Tax (New Zealand)"},
	"SG": {Rate: 0.09, Name: "GST", Description: "Goods and Services Tax (Singapore)"},
	"JP": {Rate: 0.10, Name: "JCT", Description: "Japanese Consumption Tax"},
	"KR": {Rate: 0.10, Name: "VAT", Description: "Value Added Tax (South Korea)"},
	"CN": {Rate: 0.13, Name: "VAT", Description: "Value Added Tax (China)"},
	"MY": {Rate: 0.08, Name: "SST", Description: "Sales and Service Tax (Malaysia)"},
	"TH": {Rate: 0.07, Name: "VAT", Description: "Value Added Tax (Thailand)"},
	"ID": {Rate: 0.11, Name: "PPN", Description: "Pajak Pertambahan Nilai (Indonesia)"},
	"PH": {Rate: 0.12, Name: "VAT", Description: "Value Added Tax (Philippines)"},
	"VN": {Rate: 0.10, Name: "VAT", Description: "Value Added Tax (Vietnam)"},
	"BD": {Rate: 0.15, Name: "VAT", Description: "Value Added Tax (Bangladesh)"},
	"LK": {Rate: 0.18, Name: "VAT", Description: "Value Added Tax (Sri Lanka)"},

	// Middle East / Africa.
	"AE": {Rate: 0.05, Name: "VAT", Description: "Value Added Tax (UAE)"},
	"SA": {Rate: 0.15, Name: "VAT", Description: "Value Added Tax (Saudi Arabia)"},
	"IL": {Rate: 0.17, Name: "VAT", Description: "Value Added Tax (Israel)"},
	"ZA": {Rate: 0.15, Name: "VAT", Description: "Value Added Tax (South Africa)"},
	"NG": {Rate: 0.075, Name: "VAT", Description: "Value Added Tax (Nigeria)"},
	"KE": {Rate: 0.16, Name: "VAT", Description: "Value Added Tax (Kenya)"},
	"EG": {Rate: 0.14, Name: "VAT", Description: "Value Added Tax (Egypt)"},

	// Latin America.
	"BR": {Rate: 0.17, Name: "ICMS", Description: "Imposto sobre Circulação de Mercadorias (Brazil)"},
	"AR": {Rate: 0.21, Name: "IVA", Description: "Impuesto al Valor Agregado (Argentina)"},
	"CL": {Rate: 0.19, Name: "IVA", Description: "Impuesto al Valor Agregado (Chile)"},
	"CO": {Rate: 0.19, Name: "IVA", Description: "Impuesto al Valor Agregado (Colombia)"},

	DefaultCountryCode: {Rate: 0, Name: "None", Description: "No additional tax applicable"},
}

// euCountries are the 27 EU member states, used only for grouped display
// messaging. The UK left the union and keeps its own VAT entry.
var euCountries = map[string]bool{
	"AT": true, "BE": true, "BG": true, "HR": true, "CY": true, "CZ": true,
	"DK": true, "EE": true, "FI": true, "FR": true, "DE": true, "GR": true,
	"HU": true, "IE": true, "IT": true, "LV": true, "LT": true, "LU": true,
	"MT": true, "NL": true, "PL": true, "PT": true, "RO": true, "SK": true,
	"SI": true, "ES": true, "SE": true,
}

// TaxInfoFor returns the tax entry for a country code. Lookup is
// case-insensitive and never fails: unknown codes get the DEFAULT entry.
func TaxInfoFor(countryCode string) models.TaxInfo {
	if info, ok := taxTable[strings.ToUpper(countryCode)]; ok {
		return info
	}
	return taxTable[DefaultCountryCode]
}

// IsEUCountry reports whether a country code belongs to the EU-27.
func IsEUCountry(countryCode string) bool {
	return euCountries[strings.ToUpper(countryCode)]
}
