package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"techsetu-website-api/models"
	"techsetu-website-api/types"
)

// State is the position of one checkout attempt in the subscribe flow.
type State int

const (
	StateIdle State = iota
	StateAuthenticating
	StateCreatingSubscription
	StateCreatingPaymentOrder
	StateAwaitingGatewayCheckout
	StateVerifyingPayment
	StateSettledSuccess
	StateSettledFailure
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAuthenticating:
		return "authenticating"
	case StateCreatingSubscription:
		return "creating_subscription"
	case StateCreatingPaymentOrder:
		return "creating_payment_order"
	case StateAwaitingGatewayCheckout:
		return "awaiting_gateway_checkout"
	case StateVerifyingPayment:
		return "verifying_payment"
	case StateSettledSuccess:
		return "settled_success"
	case StateSettledFailure:
		return "settled_failure"
	default:
		return "unknown"
	}
}

// User-visible messages for every way the flow can end. Orchestration
// failures reach the user through the Notifier, never as errors crossing
// into rendering code.
const (
	MsgLoginRequired      = "Please sign in to subscribe to a plan."
	MsgPlanLoading        = "Plan details are still loading. Please try again in a moment."
	MsgGatewayUnavailable = "Payment gateway is unavailable right now. Please try again later."
	MsgVerificationFailed = "Your payment was processed but verification failed. Please contact support."
	MsgGenericError       = "Something went wrong while setting up your subscription. Please try again."
	MsgPaymentSuccess     = "Payment successful. Your subscription is now active."
)

// NoticeLevel classifies a user notification.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeError   NoticeLevel = "error"
	NoticeSuccess NoticeLevel = "success"
)

type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// ServiceError is a failure reported by a collaborating service with a
// message fit to surface. An empty message falls back to MsgGenericError.
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return "service error"
	}
	return e.Message
}

// Authenticator reports the signed-in user. RequestLogin surfaces a login
// prompt and delivers exactly one result: true once the user signs in, false
// if they give up.
type Authenticator interface {
	CurrentUser() (models.AuthUser, bool)
	RequestLogin() <-chan bool
}

// PlanSource is the plan catalog as seen by the checkout. Loaded is false
// while the catalog is still being fetched; that defers a subscribe rather
// than failing it.
type PlanSource interface {
	Loaded() bool
	Plan(planID string) (*models.Plan, bool)
}

// SubscriptionCreator creates the pending subscription record for an attempt.
type SubscriptionCreator interface {
	Create(ctx context.Context, username, planID, planName string) (*models.Subscription, error)
}

// PaymentService creates gateway orders and verifies completed payments. Any
// Verify failure is reported with the contact-support message, since the
// gateway already claimed the money moved.
type PaymentService interface {
	CreateOrder(ctx context.Context, sub *models.Subscription) (*models.PaymentOrder, error)
	Verify(ctx context.Context, req models.VerifyPaymentRequest) error
}

// Gateway opens the third-party checkout UI. Open delivers exactly one
// CheckoutOutcome on the returned channel: a completed payment payload or a
// cancellation.
type Gateway interface {
	Available() bool
	Open(ctx context.Context, opts types.CheckoutOptions) (<-chan types.CheckoutOutcome, error)
}

type Notifier interface {
	Notify(notice Notice)
}

// Orchestrator drives one subscribe attempt through the checkout flow:
// Idle -> Authenticating -> CreatingSubscription -> CreatingPaymentOrder ->
// AwaitingGatewayCheckout -> VerifyingPayment -> Settled. Each attempt is a
// single linear sequence; the processing flag keeps a second subscribe from
// starting while one is in flight.
type Orchestrator struct {
	auth          Authenticator
	plans         PlanSource
	subscriptions SubscriptionCreator
	payments      PaymentService
	gateway       Gateway
	notifier      Notifier

	// OnSuccess fires once per attempt that reaches Settled(success).
	OnSuccess func(sub *models.Subscription, order *models.PaymentOrder)

	// MerchantName and Theme are passed through to the checkout UI.
	MerchantName string
	Theme        string

	mu         sync.Mutex
	state      State
	processing bool
}

func NewOrchestrator(auth Authenticator, plans PlanSource, subs SubscriptionCreator,
	payments PaymentService, gateway Gateway, notifier Notifier) (*Orchestrator, error) {
	if auth == nil {
		return nil, errors.New("authenticator is required")
	}
	if plans == nil {
		return nil, errors.New("plan source is required")
	}
	if subs == nil {
		return nil, errors.New("subscription creator is required")
	}
	if payments == nil {
		return nil, errors.New("payment service is required")
	}
	if gateway == nil {
		return nil, errors.New("gateway is required")
	}
	if notifier == nil {
		return nil, errors.New("notifier is required")
	}

	return &Orchestrator{
		auth:          auth,
		plans:         plans,
		subscriptions: subs,
		payments:      payments,
		gateway:       gateway,
		notifier:      notifier,
		MerchantName:  "TechSetu",
		state:         StateIdle,
	}, nil
}

// State returns the attempt's current position in the flow.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Processing reports whether a subscribe attempt is in flight.
func (o *Orchestrator) Processing() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.processing
}

// Subscribe runs the checkout flow for a plan. Every terminal path, success
// or not, clears the processing flag so Subscribe can be invoked again. The
// returned state is the terminal state of this attempt.
func (o *Orchestrator) Subscribe(ctx context.Context, planID, planName string) State {
	if !o.begin() {
		log.Printf("Subscribe ignored for plan %s: attempt already in progress", planID)
		return o.State()
	}
	defer o.end()

	return o.run(ctx, planID, planName, false)
}

func (o *Orchestrator) run(ctx context.Context, planID, planName string, retriedAfterLogin bool) State {
	o.setState(StateAuthenticating)

	user, ok := o.auth.CurrentUser()
	if !ok {
		if retriedAfterLogin {
			// One auto-retry after login, never a loop.
			return o.terminal(StateIdle)
		}
		o.notifier.Notify(Notice{Level: NoticeInfo, Message: MsgLoginRequired})
		if loggedIn := <-o.auth.RequestLogin(); !loggedIn {
			return o.terminal(StateIdle)
		}
		return o.run(ctx, planID, planName, true)
	}

	if !o.plans.Loaded() {
		// Deferred, not aborted: the user retries once the catalog is in.
		o.notifier.Notify(Notice{Level: NoticeInfo, Message: MsgPlanLoading})
		return o.terminal(StateIdle)
	}

	if meta, ok := o.plans.Plan(planID); ok && planName == "" {
		planName = meta.Name
	}

	o.setState(StateCreatingSubscription)
	sub, err := o.subscriptions.Create(ctx, user.Username, planID, planName)
	if err != nil {
		log.Printf("Subscription creation failed for plan %s: %v", planID, err)
		o.notifyAbort(err)
		return o.terminal(StateSettledFailure)
	}

	o.setState(StateCreatingPaymentOrder)
	order, err := o.payments.CreateOrder(ctx, sub)
	if err != nil {
		log.Printf("Order creation failed for subscription %s: %v", sub.ID, err)
		o.notifyAbort(err)
		return o.terminal(StateSettledFailure)
	}

	o.setState(StateAwaitingGatewayCheckout)
	if !o.gateway.Available() {
		o.notifier.Notify(Notice{Level: NoticeError, Message: MsgGatewayUnavailable})
		return o.terminal(StateSettledFailure)
	}

	opts := types.CheckoutOptions{
		Key:         order.Key,
		Amount:      order.Amount,
		Currency:    order.Currency,
		Name:        o.MerchantName,
		Description: fmt.Sprintf("%s subscription", sub.PlanName),
		OrderID:     order.RazorpayOrderID,
		Prefill: types.CheckoutPrefill{
			Name:  user.Name,
			Email: user.Email,
		},
		Theme: o.Theme,
	}

	outcomes, err := o.gateway.Open(ctx, opts)
	if err != nil {
		log.Printf("Failed to open gateway checkout for order %s: %v", order.OrderID, err)
		o.notifier.Notify(Notice{Level: NoticeError, Message: MsgGatewayUnavailable})
		return o.terminal(StateSettledFailure)
	}

	var outcome types.CheckoutOutcome
	select {
	case outcome = <-outcomes:
	case <-ctx.Done():
		// The attempt context ended before the checkout settled. Treat it
		// like a dismissal: silent reset, no error surfaced.
		return o.terminal(StateIdle)
	}

	if outcome.Cancelled || outcome.Payload == nil {
		log.Printf("Checkout dismissed for order %s", order.OrderID)
		return o.terminal(StateIdle)
	}

	o.setState(StateVerifyingPayment)
	err = o.payments.Verify(ctx, models.VerifyPaymentRequest{
		OrderID:           order.OrderID,
		SubscriptionID:    sub.ID,
		RazorpayOrderID:   outcome.Payload.RazorpayOrderID,
		RazorpayPaymentID: outcome.Payload.RazorpayPaymentID,
		RazorpaySignature: outcome.Payload.RazorpaySignature,
	})
	if err != nil {
		// The gateway said the money moved but we could not confirm it.
		// Distinct message; never retried automatically.
		log.Printf("Verification failed for order %s: %v", order.OrderID, err)
		o.notifier.Notify(Notice{Level: NoticeError, Message: MsgVerificationFailed})
		return o.terminal(StateSettledFailure)
	}

	o.notifier.Notify(Notice{Level: NoticeSuccess, Message: MsgPaymentSuccess})
	if o.OnSuccess != nil {
		o.OnSuccess(sub, order)
	}
	return o.terminal(StateSettledSuccess)
}

// notifyAbort surfaces a service failure, falling back to the generic
// message when the service gave none.
func (o *Orchestrator) notifyAbort(err error) {
	message := MsgGenericError

	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		if svcErr.Message != "" {
			message = svcErr.Message
		}
	} else if err != nil && err.Error() != "" {
		message = err.Error()
	}

	o.notifier.Notify(Notice{Level: NoticeError, Message: message})
}

func (o *Orchestrator) begin() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.processing {
		return false
	}
	o.processing = true
	return true
}

func (o *Orchestrator) end() {
	o.mu.Lock()
	o.processing = false
	o.mu.Unlock()
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

func (o *Orchestrator) terminal(s State) State {
	o.setState(s)
	return s
}
