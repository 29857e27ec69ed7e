package payment

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techsetu-website-api/models"
	"techsetu-website-api/services/payment/razorpay"
)

type fakeGateway struct {
	configured   bool
	order        *razorpay.Order
	orderErr     error
	payment      *razorpay.Payment
	paymentErr   error
	signatureOK  bool
	orderCalls   int
	paymentCalls int
	lastAmount   int64
	lastCurrency string
	lastNotes    map[string]string
}

func (f *fakeGateway) CreateOrder(amount int64, currency, receipt string, notes map[string]string) (*razorpay.Order, error) {
	f.orderCalls++
	f.lastAmount = amount
	f.lastCurrency = currency
	f.lastNotes = notes
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	order := *f.order
	order.Receipt = receipt
	return &order, nil
}

func (f *fakeGateway) FetchPayment(paymentID string) (*razorpay.Payment, error) {
	f.paymentCalls++
	if f.paymentErr != nil {
		return nil, f.paymentErr
	}
	return f.payment, nil
}

func (f *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return f.signatureOK
}

func (f *fakeGateway) KeyID() string { return "rzp_test_key" }

func (f *fakeGateway) Configured() bool { return f.configured }

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		configured: true,
		order: &razorpay.Order{
			ID:       "order_abc",
			Amount:   353900,
			Currency: "INR",
			Status:   "created",
		},
		payment: &razorpay.Payment{
			ID:      "pay_xyz",
			OrderID: "order_abc",
			Status:  "captured",
		},
		signatureOK: true,
	}
}

func testSubscription() *models.Subscription {
	return &models.Subscription{
		ID:       "sub-1",
		Username: "asha",
		PlanID:   "gold",
		PlanName: "Gold Retainer",
		Status:   models.SubscriptionStatusPending,
	}
}

func TestCreateOrder(t *testing.T) {
	gw := newFakeGateway()
	svc := NewPaymentServiceWithClient(gw)

	order, err := svc.CreateOrder(testSubscription(), 353900, "INR")
	require.NoError(t, err)

	assert.Equal(t, "order_abc", order.RazorpayOrderID)
	assert.Equal(t, "sub-1", order.SubscriptionID)
	assert.Equal(t, int64(353900), order.Amount)
	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, "rzp_test_key", order.Key)
	assert.Equal(t, models.OrderStatusCreated, order.Status)
	assert.NotEmpty(t, order.OrderID)

	assert.Equal(t, int64(353900), gw.lastAmount)
	assert.Equal(t, "sub-1", gw.lastNotes["subscription_id"])
}

func TestCreateOrderGatewayNotConfigured(t *testing.T) {
	gw := newFakeGateway()
	gw.configured = false
	svc := NewPaymentServiceWithClient(gw)

	assert.False(t, svc.GatewayAvailable())

	_, err := svc.CreateOrder(testSubscription(), 100, "INR")
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
	assert.Equal(t, 0, gw.orderCalls)
}

func TestCreateOrderRejectsBadInput(t *testing.T) {
	svc := NewPaymentServiceWithClient(newFakeGateway())

	_, err := svc.CreateOrder(nil, 100, "INR")
	assert.Error(t, err)

	_, err = svc.CreateOrder(testSubscription(), 0, "INR")
	assert.Error(t, err)

	_, err = svc.CreateOrder(testSubscription(), -500, "INR")
	assert.Error(t, err)
}

func TestCreateOrderGatewayFailure(t *testing.T) {
	gw := newFakeGateway()
	gw.orderErr = errors.New("BAD_REQUEST_ERROR: amount too low")
	svc := NewPaymentServiceWithClient(gw)

	_, err := svc.CreateOrder(testSubscription(), 100, "INR")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount too low")
}

func validVerifyRequest() models.VerifyPaymentRequest {
	return models.VerifyPaymentRequest{
		OrderID:           "rcpt_1",
		SubscriptionID:    "sub-1",
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_xyz",
		RazorpaySignature: "sig",
	}
}

func TestVerifyPaymentSuccess(t *testing.T) {
	svc := NewPaymentServiceWithClient(newFakeGateway())
	assert.NoError(t, svc.VerifyPayment(validVerifyRequest()))
}

func TestVerifyPaymentAcceptsAuthorized(t *testing.T) {
	gw := newFakeGateway()
	gw.payment.Status = "authorized"
	svc := NewPaymentServiceWithClient(gw)

	assert.NoError(t, svc.VerifyPayment(validVerifyRequest()))
}

func TestVerifyPaymentMissingIdentifiers(t *testing.T) {
	gw := newFakeGateway()
	svc := NewPaymentServiceWithClient(gw)

	req := validVerifyRequest()
	req.RazorpaySignature = ""

	err := svc.VerifyPayment(req)
	assert.ErrorIs(t, err, ErrVerificationFailed)
	assert.Equal(t, 0, gw.paymentCalls)
}

func TestVerifyPaymentSignatureMismatch(t *testing.T) {
	gw := newFakeGateway()
	gw.signatureOK = false
	svc := NewPaymentServiceWithClient(gw)

	err := svc.VerifyPayment(validVerifyRequest())
	assert.ErrorIs(t, err, ErrVerificationFailed)
	assert.Equal(t, 0, gw.paymentCalls, "no gateway fetch on a bad signature")
}

func TestVerifyPaymentFetchFailure(t *testing.T) {
	gw := newFakeGateway()
	gw.paymentErr = errors.New("timeout")
	svc := NewPaymentServiceWithClient(gw)

	err := svc.VerifyPayment(validVerifyRequest())
	assert.ErrorIs(t, err, ErrVerificationFailed)
}

func TestVerifyPaymentWrongOrder(t *testing.T) {
	gw := newFakeGateway()
	gw.payment.OrderID = "order_other"
	svc := NewPaymentServiceWithClient(gw)

	err := svc.VerifyPayment(validVerifyRequest())
	assert.ErrorIs(t, err, ErrVerificationFailed)
}

func TestVerifyPaymentNotCaptured(t *testing.T) {
	gw := newFakeGateway()
	gw.payment.Status = "failed"
	svc := NewPaymentServiceWithClient(gw)

	err := svc.VerifyPayment(validVerifyRequest())
	assert.ErrorIs(t, err, ErrVerificationFailed)
	assert.Contains(t, err.Error(), "failed")
}
