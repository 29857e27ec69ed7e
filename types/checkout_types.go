package types

// CheckoutPrefill carries the customer fields prefilled into the gateway
// checkout form.
type CheckoutPrefill struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// CheckoutOptions mirrors the option object handed to the Razorpay checkout:
// amount in minor units, the merchant key, and the gateway order id the
// payment must reference.
type CheckoutOptions struct {
	Key         string          `json:"key"`
	Amount      int64           `json:"amount"`
	Currency    string          `json:"currency"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	OrderID     string          `json:"order_id"`
	Prefill     CheckoutPrefill `json:"prefill"`
	Theme       string          `json:"theme,omitempty"`
}

// CheckoutPayload is what the gateway reports back on a completed payment.
// The signature is an HMAC over order id and payment id, checked during
// verification.
type CheckoutPayload struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// CheckoutOutcome is the single result of one opened checkout: either a
// completed payment payload or a cancellation, never both.
type CheckoutOutcome struct {
	Payload   *CheckoutPayload `json:"payload,omitempty"`
	Cancelled bool             `json:"cancelled"`
}
