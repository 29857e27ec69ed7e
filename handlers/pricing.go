package handlers

import (
	"errors"
	"log"
	"net/http"

	"techsetu-website-api/models"
	"techsetu-website-api/services/location"
	"techsetu-website-api/services/pricing"
	"techsetu-website-api/utils"
)

type PricingHandler struct {
	resolver *location.Resolver
}

func NewPricingHandler(resolver *location.Resolver) *PricingHandler {
	return &PricingHandler{resolver: resolver}
}

// GetPricing computes plan pricing for a country. With no country parameter
// the caller's location is resolved from their IP; resolution failures fall
// back to India pricing rather than erroring.
func (h *PricingHandler) GetPricing(w http.ResponseWriter, r *http.Request) {
	planType := r.URL.Query().Get("plan")
	if planType == "" {
		utils.SendErrorResponse(w, http.StatusBadRequest, "plan query parameter is required")
		return
	}

	countryCode := r.URL.Query().Get("country")
	if countryCode == "" {
		loc := h.resolver.Resolve(r.Context())
		countryCode = loc.CountryCode
	}

	result, err := pricing.Calculate(planType, countryCode)
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidPlan) {
			utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("Error calculating pricing for plan %s: %v", planType, err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status: "success",
		Data:   result,
	})
}

// GetTaxMessage returns the tax disclaimer line for a country.
func (h *PricingHandler) GetTaxMessage(w http.ResponseWriter, r *http.Request) {
	countryCode := r.URL.Query().Get("country")
	if countryCode == "" {
		loc := h.resolver.Resolve(r.Context())
		countryCode = loc.CountryCode
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status: "success",
		Data: map[string]string{
			"country_code": countryCode,
			"message":      pricing.TaxMessage(countryCode),
		},
	})
}

// GetLocation resolves the caller's location. Never fails: lookup errors
// produce the India fallback.
func (h *PricingHandler) GetLocation(w http.ResponseWriter, r *http.Request) {
	loc := h.resolver.Resolve(r.Context())

	utils.SendSuccessResponse(w, models.APIResponse{
		Status: "success",
		Data:   loc,
	})
}
