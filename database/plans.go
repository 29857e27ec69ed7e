package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"techsetu-website-api/models"
)

// GetPlans returns the public plan catalog, cheapest first. Features are
// stored as a JSON array column.
func (c *Connection) GetPlans() ([]models.Plan, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rows, err := c.db.QueryContext(ctx, `
		SELECT id, name, plan_type, price_min, price_max, currency,
		       billing_interval, description, features
		FROM plans
		WHERE deleted_at IS NULL
		ORDER BY price_min ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("error querying plans: %v", err)
	}
	defer rows.Close()

	var plans []models.Plan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *plan)
	}

	return plans, rows.Err()
}

// GetPlanByType fetches a single plan by its pricing key (starter, gold, ...).
func (c *Connection) GetPlanByType(planType string) (*models.Plan, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	row := c.db.QueryRowContext(ctx, `
		SELECT id, name, plan_type, price_min, price_max, currency,
		       billing_interval, description, features
		FROM plans
		WHERE plan_type = ? AND deleted_at IS NULL
	`, planType)

	plan, err := scanPlan(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("plan not found: %s", planType)
	}
	return plan, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlan(row rowScanner) (*models.Plan, error) {
	var plan models.Plan
	var featuresJSON sql.NullString

	err := row.Scan(&plan.ID, &plan.Name, &plan.PlanType, &plan.PriceMin,
		&plan.PriceMax, &plan.Currency, &plan.BillingInterval,
		&plan.Description, &featuresJSON)
	if err != nil {
		return nil, err
	}

	if featuresJSON.Valid && featuresJSON.String != "" {
		if err := json.Unmarshal([]byte(featuresJSON.String), &plan.Features); err != nil {
			return nil, fmt.Errorf("error parsing features for plan %s: %v", plan.PlanType, err)
		}
	}

	return &plan, nil
}
