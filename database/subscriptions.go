package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"techsetu-website-api/models"
)

// CreateSubscription inserts a pending subscription row for one checkout
// attempt.
func (c *Connection) CreateSubscription(sub *models.Subscription) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO subscriptions (id, username, plan_id, plan_name, status, created_at, next_billing_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, sub.ID, sub.Username, sub.PlanID, sub.PlanName, sub.Status, sub.CreatedAt, sub.NextBillingAt)
	if err != nil {
		return fmt.Errorf("error inserting subscription: %v", err)
	}

	return nil
}

func (c *Connection) GetSubscriptionByID(id string) (*models.Subscription, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var sub models.Subscription
	err := c.db.QueryRowContext(ctx, `
		SELECT id, username, plan_id, plan_name, status, created_at, next_billing_at
		FROM subscriptions
		WHERE id = ?
	`, id).Scan(&sub.ID, &sub.Username, &sub.PlanID, &sub.PlanName, &sub.Status, &sub.CreatedAt, &sub.NextBillingAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("subscription not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("error querying subscription: %v", err)
	}

	return &sub, nil
}

