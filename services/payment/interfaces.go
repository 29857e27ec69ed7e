package payment

import (
	"techsetu-website-api/services/payment/razorpay"
)

// GatewayClient is the slice of the Razorpay client the service depends on,
// split out so tests can substitute a fake gateway.
type GatewayClient interface {
	CreateOrder(amount int64, currency, receipt string, notes map[string]string) (*razorpay.Order, error)
	FetchPayment(paymentID string) (*razorpay.Payment, error)
	VerifySignature(orderID, paymentID, signature string) bool
	KeyID() string
	Configured() bool
}
