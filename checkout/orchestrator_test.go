package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techsetu-website-api/models"
	"techsetu-website-api/types"
)

type mockAuth struct {
	user        models.AuthUser
	signedIn    bool
	loginResult bool
	loginAsked  int
	// signs the user in once the prompt resolves true
	signInOnPrompt bool
}

func (m *mockAuth) CurrentUser() (models.AuthUser, bool) {
	return m.user, m.signedIn
}

func (m *mockAuth) RequestLogin() <-chan bool {
	m.loginAsked++
	if m.signInOnPrompt && m.loginResult {
		m.signedIn = true
	}
	ch := make(chan bool, 1)
	ch <- m.loginResult
	return ch
}

type mockPlans struct {
	loaded bool
	plans  map[string]*models.Plan
}

func (m *mockPlans) Loaded() bool { return m.loaded }

func (m *mockPlans) Plan(planID string) (*models.Plan, bool) {
	plan, ok := m.plans[planID]
	return plan, ok
}

type mockSubs struct {
	err   error
	calls int
}

func (m *mockSubs) Create(_ context.Context, username, planID, planName string) (*models.Subscription, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &models.Subscription{
		ID:       "sub-1",
		Username: username,
		PlanID:   planID,
		PlanName: planName,
		Status:   models.SubscriptionStatusPending,
	}, nil
}

type mockPayments struct {
	orderErr    error
	verifyErr   error
	orderCalls  int
	verifyCalls int
}

func (m *mockPayments) CreateOrder(_ context.Context, sub *models.Subscription) (*models.PaymentOrder, error) {
	m.orderCalls++
	if m.orderErr != nil {
		return nil, m.orderErr
	}
	return &models.PaymentOrder{
		OrderID:         "rcpt_1",
		RazorpayOrderID: "order_abc",
		SubscriptionID:  sub.ID,
		Amount:          353900,
		Currency:        "INR",
		Key:             "rzp_test_key",
		Status:          models.OrderStatusCreated,
	}, nil
}

func (m *mockPayments) Verify(_ context.Context, req models.VerifyPaymentRequest) error {
	m.verifyCalls++
	return m.verifyErr
}

type mockGateway struct {
	available bool
	openErr   error
	outcome   types.CheckoutOutcome
	opened    int
	lastOpts  types.CheckoutOptions
}

func (m *mockGateway) Available() bool { return m.available }

func (m *mockGateway) Open(_ context.Context, opts types.CheckoutOptions) (<-chan types.CheckoutOutcome, error) {
	m.opened++
	m.lastOpts = opts
	if m.openErr != nil {
		return nil, m.openErr
	}
	ch := make(chan types.CheckoutOutcome, 1)
	ch <- m.outcome
	return ch, nil
}

type mockNotifier struct {
	mu      sync.Mutex
	notices []Notice
}

func (m *mockNotifier) Notify(notice Notice) {
	m.mu.Lock()
	m.notices = append(m.notices, notice)
	m.mu.Unlock()
}

func (m *mockNotifier) messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.notices))
	for i, n := range m.notices {
		out[i] = n.Message
	}
	return out
}

func paidOutcome() types.CheckoutOutcome {
	return types.CheckoutOutcome{Payload: &types.CheckoutPayload{
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_xyz",
		RazorpaySignature: "sig",
	}}
}

type fixture struct {
	auth     *mockAuth
	plans    *mockPlans
	subs     *mockSubs
	payments *mockPayments
	gateway  *mockGateway
	notifier *mockNotifier
	orch     *Orchestrator
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		auth: &mockAuth{
			user:     models.AuthUser{Username: "asha", Email: "asha@example.in", Name: "Asha", IsActive: true},
			signedIn: true,
		},
		plans: &mockPlans{
			loaded: true,
			plans: map[string]*models.Plan{
				"gold": {Name: "Gold Retainer", PlanType: "gold"},
			},
		},
		subs:     &mockSubs{},
		payments: &mockPayments{},
		gateway:  &mockGateway{available: true, outcome: paidOutcome()},
		notifier: &mockNotifier{},
	}

	orch, err := NewOrchestrator(f.auth, f.plans, f.subs, f.payments, f.gateway, f.notifier)
	require.NoError(t, err)
	f.orch = orch
	return f
}

func TestSubscribeHappyPath(t *testing.T) {
	f := newFixture(t)

	var gotSub *models.Subscription
	var gotOrder *models.PaymentOrder
	successCalls := 0
	f.orch.OnSuccess = func(sub *models.Subscription, order *models.PaymentOrder) {
		successCalls++
		gotSub, gotOrder = sub, order
	}

	state := f.orch.Subscribe(context.Background(), "gold", "Gold Retainer")

	assert.Equal(t, StateSettledSuccess, state)
	assert.Equal(t, 1, successCalls)
	assert.Equal(t, "sub-1", gotSub.ID)
	assert.Equal(t, "rcpt_1", gotOrder.OrderID)
	assert.Equal(t, 1, f.payments.verifyCalls)
	assert.Contains(t, f.notifier.messages(), MsgPaymentSuccess)
	assert.False(t, f.orch.Processing())
}

func TestSubscribeFillsCheckoutOptions(t *testing.T) {
	f := newFixture(t)

	f.orch.Subscribe(context.Background(), "gold", "Gold Retainer")

	opts := f.gateway.lastOpts
	assert.Equal(t, "rzp_test_key", opts.Key)
	assert.Equal(t, int64(353900), opts.Amount)
	assert.Equal(t, "INR", opts.Currency)
	assert.Equal(t, "order_abc", opts.OrderID)
	assert.Equal(t, "asha@example.in", opts.Prefill.Email)
	assert.Equal(t, "TechSetu", opts.Name)
}

func TestSubscribeUnauthenticatedPromptsThenRetries(t *testing.T) {
	f := newFixture(t)
	f.auth.signedIn = false
	f.auth.loginResult = true
	f.auth.signInOnPrompt = true

	state := f.orch.Subscribe(context.Background(), "gold", "")

	assert.Equal(t, StateSettledSuccess, state)
	assert.Equal(t, 1, f.auth.loginAsked)
	assert.Contains(t, f.notifier.messages(), MsgLoginRequired)
}

func TestSubscribeLoginDeclinedResetsSilently(t *testing.T) {
	f := newFixture(t)
	f.auth.signedIn = false
	f.auth.loginResult = false

	state := f.orch.Subscribe(context.Background(), "gold", "")

	assert.Equal(t, StateIdle, state)
	assert.Equal(t, 0, f.subs.calls)
	assert.False(t, f.orch.Processing())
}

func TestSubscribeRetriesAfterLoginExactlyOnce(t *testing.T) {
	f := newFixture(t)
	// Login "succeeds" but the user still reads as signed out, which would
	// loop forever without the single-retry guard.
	f.auth.signedIn = false
	f.auth.loginResult = true
	f.auth.signInOnPrompt = false

	state := f.orch.Subscribe(context.Background(), "gold", "")

	assert.Equal(t, StateIdle, state)
	assert.Equal(t, 1, f.auth.loginAsked)
	assert.Equal(t, 0, f.subs.calls)
}

func TestSubscribePlansNotLoadedDefers(t *testing.T) {
	f := newFixture(t)
	f.plans.loaded = false

	state := f.orch.Subscribe(context.Background(), "gold", "")

	assert.Equal(t, StateIdle, state)
	assert.Equal(t, 0, f.subs.calls)
	assert.Contains(t, f.notifier.messages(), MsgPlanLoading)
	assert.False(t, f.orch.Processing())
}

func TestSubscribeFillsPlanNameFromCatalog(t *testing.T) {
	f := newFixture(t)

	var gotSub *models.Subscription
	f.orch.OnSuccess = func(sub *models.Subscription, _ *models.PaymentOrder) { gotSub = sub }

	f.orch.Subscribe(context.Background(), "gold", "")

	require.NotNil(t, gotSub)
	assert.Equal(t, "Gold Retainer", gotSub.PlanName)
}

func TestSubscribeSubscriptionFailureSurfacesServiceMessage(t *testing.T) {
	f := newFixture(t)
	f.subs.err = &ServiceError{Message: "Plan not available in your region"}

	state := f.orch.Subscribe(context.Background(), "gold", "")

	assert.Equal(t, StateSettledFailure, state)
	assert.Contains(t, f.notifier.messages(), "Plan not available in your region")
	assert.Equal(t, 0, f.payments.orderCalls)
	assert.False(t, f.orch.Processing())
}

func TestSubscribeEmptyServiceErrorGetsGenericMessage(t *testing.T) {
	f := newFixture(t)
	f.subs.err = &ServiceError{}

	f.orch.Subscribe(context.Background(), "gold", "")

	assert.Contains(t, f.notifier.messages(), MsgGenericError)
}

func TestSubscribeOrderFailureAborts(t *testing.T) {
	f := newFixture(t)
	f.payments.orderErr = errors.New("gateway returned 502")

	state := f.orch.Subscribe(context.Background(), "gold", "")

	assert.Equal(t, StateSettledFailure, state)
	assert.Contains(t, f.notifier.messages(), "gateway returned 502")
	assert.Equal(t, 0, f.gateway.opened)
}

func TestSubscribeGatewayUnavailable(t *testing.T) {
	f := newFixture(t)
	f.gateway.available = false

	state := f.orch.Subscribe(context.Background(), "gold", "")

	assert.Equal(t, StateSettledFailure, state)
	assert.Contains(t, f.notifier.messages(), MsgGatewayUnavailable)
	assert.Equal(t, 0, f.gateway.opened)
	assert.False(t, f.orch.Processing())
}

func TestSubscribeDismissalResetsSilently(t *testing.T) {
	f := newFixture(t)
	f.gateway.outcome = types.CheckoutOutcome{Cancelled: true}

	state := f.orch.Subscribe(context.Background(), "gold", "")

	assert.Equal(t, StateIdle, state)
	assert.Equal(t, 0, f.payments.verifyCalls)
	assert.False(t, f.orch.Processing())

	// No error surfaced on dismissal, only the flow's own info notices
	for _, n := range f.notifier.notices {
		assert.NotEqual(t, NoticeError, n.Level)
	}
}

func TestSubscribeVerificationFailureGetsSupportMessage(t *testing.T) {
	f := newFixture(t)
	f.payments.verifyErr = errors.New("signature mismatch")

	successCalls := 0
	f.orch.OnSuccess = func(*models.Subscription, *models.PaymentOrder) { successCalls++ }

	state := f.orch.Subscribe(context.Background(), "gold", "")

	assert.Equal(t, StateSettledFailure, state)
	assert.Equal(t, 0, successCalls)
	assert.Contains(t, f.notifier.messages(), MsgVerificationFailed)
	assert.NotContains(t, f.notifier.messages(), MsgGenericError)
	assert.False(t, f.orch.Processing())
}

func TestSubscribeContextCancelledWhileAwaitingCheckout(t *testing.T) {
	f := newFixture(t)

	// Never deliver an outcome; the attempt must end with the context.
	f.gateway.outcome = types.CheckoutOutcome{}
	blocking := &blockingGateway{}
	orch, err := NewOrchestrator(f.auth, f.plans, f.subs, f.payments, blocking, f.notifier)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan State, 1)
	go func() {
		done <- orch.Subscribe(ctx, "gold", "")
	}()

	cancel()

	select {
	case state := <-done:
		assert.Equal(t, StateIdle, state)
	case <-time.After(2 * time.Second):
		t.Fatal("subscribe did not return after context cancellation")
	}
	assert.False(t, orch.Processing())
}

type blockingGateway struct{}

func (b *blockingGateway) Available() bool { return true }

func (b *blockingGateway) Open(context.Context, types.CheckoutOptions) (<-chan types.CheckoutOutcome, error) {
	return make(chan types.CheckoutOutcome), nil
}

func TestSubscribeRejectsConcurrentAttempt(t *testing.T) {
	f := newFixture(t)

	blocking := &blockingGateway{}
	orch, err := NewOrchestrator(f.auth, f.plans, f.subs, f.payments, blocking, f.notifier)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := make(chan struct{})
	go func() {
		close(started)
		orch.Subscribe(ctx, "gold", "")
	}()
	<-started

	// Wait for the first attempt to take the processing flag
	deadline := time.Now().Add(2 * time.Second)
	for !orch.Processing() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	require.True(t, orch.Processing())

	subCallsBefore := f.subs.calls
	orch.Subscribe(context.Background(), "gold", "")
	assert.Equal(t, subCallsBefore, f.subs.calls, "second attempt must not run the flow")
}

func TestNewOrchestratorRequiresCollaborators(t *testing.T) {
	f := newFixture(t)

	_, err := NewOrchestrator(nil, f.plans, f.subs, f.payments, f.gateway, f.notifier)
	assert.Error(t, err)

	_, err = NewOrchestrator(f.auth, f.plans, f.subs, f.payments, f.gateway, nil)
	assert.Error(t, err)
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "awaiting_gateway_checkout", StateAwaitingGatewayCheckout.String())
	assert.Equal(t, "settled_success", StateSettledSuccess.String())
	assert.Equal(t, "unknown", State(99).String())
}
