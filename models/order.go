package models

import "time"

const (
	OrderStatusCreated  = "created"
	OrderStatusPaid     = "paid"
	OrderStatusFailed   = "failed"
	OrderStatusDismissed = "dismissed"
)

// PaymentOrder is one gateway checkout attempt. It lives from order creation
// until verification settles or the user dismisses the checkout.
type PaymentOrder struct {
	OrderID         string    `json:"order_id"`
	RazorpayOrderID string    `json:"razorpay_order_id"`
	SubscriptionID  string    `json:"subscription_id"`
	Amount          int64     `json:"amount"`
	Currency        string    `json:"currency"`
	Key             string    `json:"key"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

type OrderResponse struct {
	Success         bool   `json:"success"`
	OrderID         string `json:"order_id,omitempty"`
	RazorpayOrderID string `json:"razorpay_order_id,omitempty"`
	Amount          int64  `json:"amount,omitempty"`
	Currency        string `json:"currency,omitempty"`
	Key             string `json:"key,omitempty"`
	Error           string `json:"error,omitempty"`
}

type VerifyPaymentRequest struct {
	OrderID           string `json:"order_id"`
	SubscriptionID    string `json:"subscription_id"`
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

type VerifyPaymentResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
