package subscription

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"techsetu-website-api/database"
	"techsetu-website-api/models"
	"techsetu-website-api/utils"
)

// Service owns subscription records for checkout attempts. A record starts
// pending and is settled to active or failed by payment verification.
type Service struct {
	db *database.Connection
}

func NewSubscriptionService(db *database.Connection) *Service {
	return &Service{db: db}
}

// Create validates the plan against the catalog and inserts a pending
// subscription for the user.
func (s *Service) Create(username, planID, planName string) (*models.Subscription, error) {
	if planID == "" {
		return nil, fmt.Errorf("plan id is required")
	}

	plan, err := s.db.GetPlanByType(planID)
	if err != nil {
		return nil, fmt.Errorf("unknown plan: %s", planID)
	}

	if planName == "" {
		planName = plan.Name
	}

	now := time.Now()
	sub := &models.Subscription{
		ID:            uuid.New().String(),
		Username:      username,
		PlanID:        plan.PlanType,
		PlanName:      planName,
		Status:        models.SubscriptionStatusPending,
		CreatedAt:     now,
		NextBillingAt: utils.NextBillingDate(now, plan.BillingInterval),
	}

	if err := s.db.CreateSubscription(sub); err != nil {
		return nil, fmt.Errorf("failed to create subscription: %v", err)
	}

	log.Printf("Created subscription %s for user %s on plan %s", sub.ID, username, plan.PlanType)
	return sub, nil
}
