package pricing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"techsetu-website-api/models"
	"techsetu-website-api/utils"
)

// ErrInvalidPlan is returned for plan types missing from the base-price
// table. This is deliberate: a defaulted zero price would silently
// undercharge, so unknown plans fail loudly instead.
var ErrInvalidPlan = errors.New("invalid plan type")

// basePrices holds the catalog's base prices in whole rupees, keyed by
// lowercase plan type.
var basePrices = map[string]float64{
	"starter":      2999,
	"professional": 4999,
	"bronze":       1999,
	"silver":       3999,
	"gold":         7999,
	"per-post":     499,
}

// Calculate computes the tax-inclusive price of a plan for a country. Pure
// function: same inputs always produce the same PricingResult.
func Calculate(planType, countryCode string) (*models.PricingResult, error) {
	base, ok := basePrices[strings.ToLower(planType)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPlan, planType)
	}

	code := strings.ToUpper(countryCode)
	tax := TaxInfoFor(code)

	taxAmount := utils.Round(base * tax.Rate)
	total := base + taxAmount

	return &models.PricingResult{
		BaseAmount:  base,
		TaxAmount:   taxAmount,
		TotalAmount: total,
		BaseMinor:   utils.MinorUnits(base),
		TaxMinor:    utils.MinorUnits(taxAmount),
		TotalMinor:  utils.MinorUnits(total),
		TaxRate:     tax.Rate,
		TaxName:     tax.Name,
		CountryCode: code,
	}, nil
}

// PlanTypes lists the plan types the calculator prices, for catalog
// validation and error messages.
func PlanTypes() []string {
	names := make([]string, 0, len(basePrices))
	for name := range basePrices {
		names = append(names, name)
	}
	return names
}

// TaxMessage renders the human-readable tax line shown under plan prices.
// India, the US and the EU get their own phrasing; everyone else gets the
// generic one.
func TaxMessage(countryCode string) string {
	code := strings.ToUpper(countryCode)
	tax := TaxInfoFor(code)

	switch {
	case code == "IN":
		return fmt.Sprintf("Prices include %s%% GST as applicable in India.", ratePercent(tax.Rate))
	case code == "US":
		return "No additional tax is charged for customers in the United States."
	case IsEUCountry(code):
		return fmt.Sprintf("EU customers are charged %s%% %s as applicable in their member state.", ratePercent(tax.Rate), tax.Name)
	case tax.Rate > 0:
		return fmt.Sprintf("Prices include %s%% %s as applicable in your country.", ratePercent(tax.Rate), tax.Name)
	default:
		return "No additional tax applicable for your country."
	}
}

// ratePercent formats 0.075 as "7.5" rather than a rounded "8".
func ratePercent(rate float64) string {
	return strconv.FormatFloat(rate*100, 'f', -1, 64)
}
