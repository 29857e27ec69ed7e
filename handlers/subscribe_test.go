package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techsetu-website-api/models"
)

type fakePlanLister struct {
	err   error
	plans []models.Plan
	calls int
}

func (f *fakePlanLister) GetPlans() ([]models.Plan, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.plans, nil
}

func catalogPlans() []models.Plan {
	return []models.Plan{
		{ID: 1, Name: "Gold Retainer", PlanType: "gold"},
		{ID: 2, Name: "Starter", PlanType: "starter"},
	}
}

func TestCatalogPlanSourceLoads(t *testing.T) {
	lister := &fakePlanLister{plans: catalogPlans()}
	catalog := &catalogPlanSource{db: lister}

	assert.True(t, catalog.Loaded())

	plan, ok := catalog.Plan("GOLD")
	require.True(t, ok)
	assert.Equal(t, "Gold Retainer", plan.Name)

	_, ok = catalog.Plan("platinum")
	assert.False(t, ok)

	// Catalog is fetched once and reused
	catalog.Loaded()
	catalog.Plan("starter")
	assert.Equal(t, 1, lister.calls)
}

func TestCatalogPlanSourceRetriesAfterFailure(t *testing.T) {
	lister := &fakePlanLister{err: errors.New("db connection refused")}
	catalog := &catalogPlanSource{db: lister}

	assert.False(t, catalog.Loaded())
	_, ok := catalog.Plan("gold")
	assert.False(t, ok)

	// The DB recovers; the next call must load instead of staying broken
	lister.err = nil
	lister.plans = catalogPlans()

	assert.True(t, catalog.Loaded())
	plan, ok := catalog.Plan("gold")
	require.True(t, ok)
	assert.Equal(t, "Gold Retainer", plan.Name)
}

type fakePaymentProcessor struct {
	order     *models.PaymentOrder
	orderErr  error
	verifyErr error
}

func (f *fakePaymentProcessor) CreateOrder(sub *models.Subscription, amountMinor int64, currency string) (*models.PaymentOrder, error) {
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	order := *f.order
	order.SubscriptionID = sub.ID
	order.Amount = amountMinor
	order.Currency = currency
	return &order, nil
}

func (f *fakePaymentProcessor) VerifyPayment(req models.VerifyPaymentRequest) error {
	return f.verifyErr
}

type settlement struct {
	orderID            string
	subscriptionID     string
	orderStatus        string
	subscriptionStatus string
}

type fakeCheckoutStore struct {
	saveErr     error
	settleErr   error
	saved       []*models.PaymentOrder
	settlements []settlement
}

func (f *fakeCheckoutStore) SavePaymentOrder(order *models.PaymentOrder) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, order)
	return nil
}

func (f *fakeCheckoutStore) SettleCheckout(orderID, subscriptionID, orderStatus, subscriptionStatus string) error {
	f.settlements = append(f.settlements, settlement{orderID, subscriptionID, orderStatus, subscriptionStatus})
	return f.settleErr
}

func newPaymentAdapter(store *fakeCheckoutStore, processor *fakePaymentProcessor) *paymentAdapter {
	return &paymentAdapter{payments: processor, store: store, country: "IN"}
}

func adapterVerifyRequest() models.VerifyPaymentRequest {
	return models.VerifyPaymentRequest{
		OrderID:           "rcpt_1",
		SubscriptionID:    "sub-1",
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_xyz",
		RazorpaySignature: "sig",
	}
}

func TestPaymentAdapterCreateOrderPricesPlan(t *testing.T) {
	store := &fakeCheckoutStore{}
	adapter := newPaymentAdapter(store, &fakePaymentProcessor{
		order: &models.PaymentOrder{OrderID: "rcpt_1", RazorpayOrderID: "order_abc"},
	})

	sub := &models.Subscription{ID: "sub-1", PlanID: "starter", PlanName: "Starter"}
	order, err := adapter.CreateOrder(context.Background(), sub)
	require.NoError(t, err)

	// starter in India: 2999 + 18% GST = 3539 rupees, in paise
	assert.Equal(t, int64(353900), order.Amount)
	assert.Equal(t, "INR", order.Currency)
	require.Len(t, store.saved, 1)
	assert.Equal(t, order, store.saved[0])
}

func TestPaymentAdapterCreateOrderUnknownPlan(t *testing.T) {
	store := &fakeCheckoutStore{}
	adapter := newPaymentAdapter(store, &fakePaymentProcessor{})

	sub := &models.Subscription{ID: "sub-1", PlanID: "platinum"}
	_, err := adapter.CreateOrder(context.Background(), sub)
	require.Error(t, err)
	assert.Empty(t, store.saved)
}

func TestPaymentAdapterVerifySuccessSettlesPaidActive(t *testing.T) {
	store := &fakeCheckoutStore{}
	adapter := newPaymentAdapter(store, &fakePaymentProcessor{})

	require.NoError(t, adapter.Verify(context.Background(), adapterVerifyRequest()))

	require.Len(t, store.settlements, 1)
	assert.Equal(t, settlement{
		orderID:            "rcpt_1",
		subscriptionID:     "sub-1",
		orderStatus:        models.OrderStatusPaid,
		subscriptionStatus: models.SubscriptionStatusActive,
	}, store.settlements[0])
}

func TestPaymentAdapterVerifyFailureSettlesBothFailed(t *testing.T) {
	store := &fakeCheckoutStore{}
	adapter := newPaymentAdapter(store, &fakePaymentProcessor{
		verifyErr: errors.New("signature mismatch"),
	})

	err := adapter.Verify(context.Background(), adapterVerifyRequest())
	require.Error(t, err)

	// The subscription must not linger as pending after a failed
	// verification; both rows settle together.
	require.Len(t, store.settlements, 1)
	assert.Equal(t, settlement{
		orderID:            "rcpt_1",
		subscriptionID:     "sub-1",
		orderStatus:        models.OrderStatusFailed,
		subscriptionStatus: models.SubscriptionStatusFailed,
	}, store.settlements[0])
}

func TestPaymentAdapterVerifyFailureReportsVerifyError(t *testing.T) {
	verifyErr := errors.New("signature mismatch")
	store := &fakeCheckoutStore{settleErr: errors.New("db down")}
	adapter := newPaymentAdapter(store, &fakePaymentProcessor{verifyErr: verifyErr})

	// A settlement error must not mask the verification failure
	err := adapter.Verify(context.Background(), adapterVerifyRequest())
	assert.Equal(t, verifyErr, err)
}
