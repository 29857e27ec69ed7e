package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"techsetu-website-api/models"
)

// SavePaymentOrder records a gateway order so verification can later match
// callback identifiers against what was actually created.
func (c *Connection) SavePaymentOrder(order *models.PaymentOrder) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO payment_orders
			(order_id, razorpay_order_id, subscription_id, amount, currency, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, order.OrderID, order.RazorpayOrderID, order.SubscriptionID,
		order.Amount, order.Currency, order.Status, order.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting payment order: %v", err)
	}

	return nil
}

func (c *Connection) GetPaymentOrder(orderID string) (*models.PaymentOrder, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var order models.PaymentOrder
	err := c.db.QueryRowContext(ctx, `
		SELECT order_id, razorpay_order_id, subscription_id, amount, currency, status, created_at
		FROM payment_orders
		WHERE order_id = ?
	`, orderID).Scan(&order.OrderID, &order.RazorpayOrderID, &order.SubscriptionID,
		&order.Amount, &order.Currency, &order.Status, &order.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("payment order not found: %s", orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("error querying payment order: %v", err)
	}

	return &order, nil
}

// GetStaleCreatedOrders lists orders still in "created" after the given age.
// The worker reconciles these against the gateway in case a verification
// callback was lost.
func (c *Connection) GetStaleCreatedOrders(olderThan time.Duration) ([]models.PaymentOrder, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rows, err := c.db.QueryContext(ctx, `
		SELECT order_id, razorpay_order_id, subscription_id, amount, currency, status, created_at
		FROM payment_orders
		WHERE status = ? AND created_at < ?
	`, models.OrderStatusCreated, time.Now().Add(-olderThan))
	if err != nil {
		return nil, fmt.Errorf("error querying stale orders: %v", err)
	}
	defer rows.Close()

	var orders []models.PaymentOrder
	for rows.Next() {
		var order models.PaymentOrder
		if err := rows.Scan(&order.OrderID, &order.RazorpayOrderID, &order.SubscriptionID,
			&order.Amount, &order.Currency, &order.Status, &order.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	return orders, rows.Err()
}
