package payment

import (
	"errors"
	"fmt"
	"log"
	"time"

	"techsetu-website-api/models"
	"techsetu-website-api/services/payment/razorpay"
	"techsetu-website-api/utils"
)

var (
	// ErrGatewayUnavailable means no gateway credentials are configured, so
	// no checkout can be opened at all.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrVerificationFailed marks the ambiguous state where the gateway
	// reported success but we could not confirm it. Money may have moved;
	// callers must surface a contact-support message, not a retry prompt.
	ErrVerificationFailed = errors.New("payment verification failed")
)

type Service struct {
	client GatewayClient
}

func NewPaymentService(keyID, keySecret string) *Service {
	return &Service{
		client: razorpay.NewClient(keyID, keySecret),
	}
}

// NewPaymentServiceWithClient wires an explicit gateway client, used by tests.
func NewPaymentServiceWithClient(client GatewayClient) *Service {
	return &Service{client: client}
}

// GatewayAvailable reports whether a checkout can be opened.
func (s *Service) GatewayAvailable() bool {
	return s.client.Configured()
}

// CreateOrder registers a gateway order for one subscription at the given
// paise amount and returns the transient PaymentOrder handed to the checkout.
func (s *Service) CreateOrder(sub *models.Subscription, amountMinor int64, currency string) (*models.PaymentOrder, error) {
	if !s.client.Configured() {
		return nil, ErrGatewayUnavailable
	}
	if sub == nil || sub.ID == "" {
		return nil, errors.New("subscription is required to create an order")
	}
	if amountMinor <= 0 {
		return nil, fmt.Errorf("invalid order amount: %d", amountMinor)
	}

	receipt := utils.GenerateReceiptID()
	notes := map[string]string{
		"subscription_id": sub.ID,
		"plan":            sub.PlanName,
	}

	order, err := s.client.CreateOrder(amountMinor, currency, receipt, notes)
	if err != nil {
		log.Printf("Error creating gateway order for subscription %s: %v", sub.ID, err)
		return nil, fmt.Errorf("failed to create payment order: %v", err)
	}

	log.Printf("Created gateway order %s for subscription %s (%d %s)",
		order.ID, sub.ID, order.Amount, order.Currency)

	return &models.PaymentOrder{
		OrderID:         receipt,
		RazorpayOrderID: order.ID,
		SubscriptionID:  sub.ID,
		Amount:          order.Amount,
		Currency:        order.Currency,
		Key:             s.client.KeyID(),
		Status:          models.OrderStatusCreated,
		CreatedAt:       time.Now(),
	}, nil
}

// VerifyPayment confirms a completed checkout: the callback signature must
// match and the gateway must report the payment as captured against the same
// order. Any discrepancy is ErrVerificationFailed.
func (s *Service) VerifyPayment(req models.VerifyPaymentRequest) error {
	if req.RazorpayOrderID == "" || req.RazorpayPaymentID == "" || req.RazorpaySignature == "" {
		return fmt.Errorf("%w: missing gateway identifiers", ErrVerificationFailed)
	}

	if !s.client.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		log.Printf("Signature mismatch for order %s payment %s", req.RazorpayOrderID, req.RazorpayPaymentID)
		return fmt.Errorf("%w: signature mismatch", ErrVerificationFailed)
	}

	payment, err := s.client.FetchPayment(req.RazorpayPaymentID)
	if err != nil {
		log.Printf("Error fetching payment %s during verification: %v", req.RazorpayPaymentID, err)
		return fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}

	if payment.OrderID != req.RazorpayOrderID {
		return fmt.Errorf("%w: payment belongs to a different order", ErrVerificationFailed)
	}

	if payment.Status != "captured" && payment.Status != "authorized" {
		return fmt.Errorf("%w: payment status is %q", ErrVerificationFailed, payment.Status)
	}

	log.Printf("Verified payment %s for order %s", req.RazorpayPaymentID, req.RazorpayOrderID)
	return nil
}
