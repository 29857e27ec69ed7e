package models

type Plan struct {
	ID              int      `json:"id"`
	Name            string   `json:"name"`
	PlanType        string   `json:"plan_type"`
	PriceMin        float64  `json:"price_min"`
	PriceMax        float64  `json:"price_max"`
	Currency        string   `json:"currency"`
	BillingInterval string   `json:"billing_interval"`
	Description     string   `json:"description"`
	Features        []string `json:"features"`
}
