package database

import (
	"database/sql"
	"fmt"
)

type Transaction struct {
	tx *sql.Tx
}

func (t *Transaction) Commit() error {
	return t.tx.Commit()
}

func (t *Transaction) Rollback() error {
	return t.tx.Rollback()
}

// SettleCheckout marks an order and its subscription in one transaction so a
// crash between the two updates cannot leave a settled order on a pending
// subscription.
func (c *Connection) SettleCheckout(orderID, subscriptionID, orderStatus, subscriptionStatus string) error {
	tx, err := c.BeginTransaction()
	if err != nil {
		return fmt.Errorf("error starting settlement transaction: %v", err)
	}

	if err := tx.SettlePayment(orderID, subscriptionID, orderStatus, subscriptionStatus); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// SettlePayment runs the order and subscription updates inside the
// transaction.
func (t *Transaction) SettlePayment(orderID, subscriptionID, orderStatus, subscriptionStatus string) error {
	if _, err := t.tx.Exec(`
		UPDATE payment_orders SET status = ? WHERE order_id = ?
	`, orderStatus, orderID); err != nil {
		return fmt.Errorf("error updating order %s: %v", orderID, err)
	}

	if _, err := t.tx.Exec(`
		UPDATE subscriptions SET status = ? WHERE id = ?
	`, subscriptionStatus, subscriptionID); err != nil {
		return fmt.Errorf("error updating subscription %s: %v", subscriptionID, err)
	}

	return nil
}
