package models

import "time"

const (
	SubscriptionStatusPending = "pending"
	SubscriptionStatusActive  = "active"
	SubscriptionStatusFailed  = "failed"
)

type Subscription struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	PlanID        string    `json:"plan_id"`
	PlanName      string    `json:"plan_name"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	NextBillingAt time.Time `json:"next_billing_at"`
}

type CreateSubscriptionRequest struct {
	PlanID   string `json:"plan_id"`
	PlanName string `json:"plan_name"`
	Country  string `json:"country,omitempty"`
}

// SubscriptionResponse is the wire envelope of the subscription service.
// Success false with an empty Error still means failure; callers substitute
// a generic message.
type SubscriptionResponse struct {
	Success      bool          `json:"success"`
	Subscription *Subscription `json:"subscription,omitempty"`
	Error        string        `json:"error,omitempty"`
}
