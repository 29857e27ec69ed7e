package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/sessions"

	"techsetu-website-api/checkout"
	"techsetu-website-api/database"
	"techsetu-website-api/middleware"
	"techsetu-website-api/models"
	"techsetu-website-api/queue"
	"techsetu-website-api/services/location"
	"techsetu-website-api/services/payment"
	"techsetu-website-api/services/pricing"
	"techsetu-website-api/services/subscription"
	"techsetu-website-api/types"
	"techsetu-website-api/utils"
)

const checkoutSessionName = "checkout-session"

// SubscribeHandler runs the subscribe flow over HTTP. Each POST /subscribe
// spawns one checkout attempt; the browser polls its status, opens the
// Razorpay UI with the published options, and settles the attempt through
// the callback or dismiss endpoints.
type SubscribeHandler struct {
	db            *database.Connection
	queue         *queue.Queue
	payments      *payment.Service
	subscriptions *subscription.Service
	resolver      *location.Resolver
	registry      *checkout.Registry
	store         sessions.Store
	plans         *catalogPlanSource
}

func NewSubscribeHandler(db *database.Connection, q *queue.Queue, payments *payment.Service,
	subs *subscription.Service, resolver *location.Resolver, store sessions.Store) *SubscribeHandler {
	return &SubscribeHandler{
		db:            db,
		queue:         q,
		payments:      payments,
		subscriptions: subs,
		resolver:      resolver,
		registry:      checkout.NewRegistry(),
		store:         store,
		plans:         &catalogPlanSource{db: db},
	}
}

// StartSubscribe begins a checkout attempt for a plan. The request may be
// anonymous; the orchestrator then answers with the sign-in prompt instead
// of this endpoint rejecting outright.
func (h *SubscribeHandler) StartSubscribe(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PlanID == "" {
		utils.SendErrorResponse(w, http.StatusBadRequest, "plan_id is required")
		return
	}

	country := strings.ToUpper(strings.TrimSpace(req.Country))
	if country == "" {
		country = h.resolver.Resolve(r.Context()).CountryCode
	}

	user := middleware.GetUserFromContext(r.Context())

	attempt := h.registry.Create(h.payments.GatewayAvailable())

	orch, err := checkout.NewOrchestrator(
		&requestAuthenticator{user: user},
		h.plans,
		&subscriptionCreator{svc: h.subscriptions},
		&paymentAdapter{payments: h.payments, store: h.db, country: country},
		attempt,
		attempt,
	)
	if err != nil {
		log.Printf("Error building orchestrator for plan %s: %v", req.PlanID, err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Could not start checkout")
		return
	}
	orch.OnSuccess = h.onPaymentSettled(user)
	attempt.Orchestrator = orch

	session, _ := h.store.Get(r, checkoutSessionName)
	session.Values["attempt_id"] = attempt.ID
	if err := session.Save(r, w); err != nil {
		log.Printf("Error saving checkout session: %v", err)
	}

	// The attempt outlives this request: it parks on the gateway outcome
	// channel until the callback or dismiss endpoint resolves it.
	go orch.Subscribe(context.Background(), req.PlanID, req.PlanName)

	utils.SendSuccessResponse(w, models.APIResponse{
		Status:  "success",
		Message: "Checkout attempt started",
		Data:    map[string]string{"attempt_id": attempt.ID},
	})
}

// SubscribeStatus reports where an attempt is in the flow, everything
// surfaced to the user so far, and the checkout options once the gateway
// stage is reached.
func (h *SubscribeHandler) SubscribeStatus(w http.ResponseWriter, r *http.Request) {
	attempt, ok := h.attemptFromRequest(r)
	if !ok {
		utils.SendErrorResponse(w, http.StatusNotFound, "Unknown checkout attempt")
		return
	}

	data := map[string]interface{}{
		"attempt_id": attempt.ID,
		"state":      attempt.Orchestrator.State().String(),
		"processing": attempt.Orchestrator.Processing(),
		"notices":    attempt.Notices(),
	}
	if opts := attempt.CheckoutOptions(); opts != nil {
		data["checkout"] = opts
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status: "success",
		Data:   data,
	})
}

// PaymentCallback receives the gateway's handoff after the user pays and
// resolves the pending attempt so verification can run.
func (h *SubscribeHandler) PaymentCallback(w http.ResponseWriter, r *http.Request) {
	var payload types.CheckoutPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.RazorpayOrderID == "" || payload.RazorpayPaymentID == "" || payload.RazorpaySignature == "" {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Missing gateway payment details")
		return
	}

	attempt, ok := h.attemptFromRequest(r)
	if !ok {
		utils.SendErrorResponse(w, http.StatusNotFound, "Unknown checkout attempt")
		return
	}

	if !attempt.Complete(payload) {
		utils.SendErrorResponse(w, http.StatusConflict, "Checkout already settled")
		return
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status:  "success",
		Message: "Payment received, verification in progress",
	})
}

// PaymentDismiss records that the user closed the checkout without paying.
// The attempt resets silently, per the flow's dismissal semantics.
func (h *SubscribeHandler) PaymentDismiss(w http.ResponseWriter, r *http.Request) {
	attempt, ok := h.attemptFromRequest(r)
	if !ok {
		utils.SendErrorResponse(w, http.StatusNotFound, "Unknown checkout attempt")
		return
	}

	attempt.Dismiss()

	utils.SendSuccessResponse(w, models.APIResponse{
		Status:  "success",
		Message: "Checkout dismissed",
	})
}

func (h *SubscribeHandler) attemptFromRequest(r *http.Request) (*checkout.Attempt, bool) {
	id := r.URL.Query().Get("attempt")
	if id == "" {
		session, err := h.store.Get(r, checkoutSessionName)
		if err == nil {
			id, _ = session.Values["attempt_id"].(string)
		}
	}
	if id == "" {
		return nil, false
	}
	return h.registry.Get(id)
}

// onPaymentSettled queues the receipt email once verification succeeds.
func (h *SubscribeHandler) onPaymentSettled(user *models.AuthUser) func(*models.Subscription, *models.PaymentOrder) {
	return func(_ *models.Subscription, order *models.PaymentOrder) {
		if user == nil {
			return
		}

		err := h.queue.Enqueue(context.Background(), queue.JobTypeSendReceipt, map[string]interface{}{
			"order_id": order.OrderID,
			"email":    user.Email,
			"name":     user.Name,
		})
		if err != nil {
			log.Printf("Error enqueuing receipt for order %s: %v", order.OrderID, err)
		}
	}
}

// requestAuthenticator answers with the user attached to the HTTP request.
// There is no interactive prompt on the server side: RequestLogin resolves
// false immediately, so an anonymous attempt ends after surfacing the
// sign-in notice and the client retries with a token.
type requestAuthenticator struct {
	user *models.AuthUser
}

func (a *requestAuthenticator) CurrentUser() (models.AuthUser, bool) {
	if a.user == nil || !a.user.IsActive {
		return models.AuthUser{}, false
	}
	return *a.user, true
}

func (a *requestAuthenticator) RequestLogin() <-chan bool {
	ch := make(chan bool, 1)
	ch <- false
	return ch
}

// planLister is the slice of the database the catalog needs.
type planLister interface {
	GetPlans() ([]models.Plan, error)
}

// catalogPlanSource serves plan metadata from the database, fetched lazily
// and shared across attempts. A failed fetch is retried on the next call, so
// one DB blip defers checkouts instead of killing them until restart.
type catalogPlanSource struct {
	db planLister

	mu    sync.Mutex
	plans map[string]*models.Plan
}

func (c *catalogPlanSource) load() bool {
	if c.plans != nil {
		return true
	}

	plans, err := c.db.GetPlans()
	if err != nil {
		log.Printf("Error loading plan catalog: %v", err)
		return false
	}

	c.plans = make(map[string]*models.Plan, len(plans))
	for i := range plans {
		plan := plans[i]
		c.plans[strings.ToLower(plan.PlanType)] = &plan
	}
	return true
}

func (c *catalogPlanSource) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load()
}

func (c *catalogPlanSource) Plan(planID string) (*models.Plan, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.load() {
		return nil, false
	}
	plan, ok := c.plans[strings.ToLower(planID)]
	return plan, ok
}

// subscriptionCreator adapts the subscription service, translating its
// failures into messages the orchestrator can surface.
type subscriptionCreator struct {
	svc *subscription.Service
}

func (s *subscriptionCreator) Create(_ context.Context, username, planID, planName string) (*models.Subscription, error) {
	sub, err := s.svc.Create(username, planID, planName)
	if err != nil {
		return nil, &checkout.ServiceError{Message: err.Error()}
	}
	return sub, nil
}

// paymentProcessor is the slice of the payment service the adapter needs.
type paymentProcessor interface {
	CreateOrder(sub *models.Subscription, amountMinor int64, currency string) (*models.PaymentOrder, error)
	VerifyPayment(req models.VerifyPaymentRequest) error
}

// checkoutStore persists orders and settles order + subscription rows
// together.
type checkoutStore interface {
	SavePaymentOrder(order *models.PaymentOrder) error
	SettleCheckout(orderID, subscriptionID, orderStatus, subscriptionStatus string) error
}

// paymentAdapter prices the subscription for the attempt's country, creates
// the gateway order, and settles both records once verification resolves.
type paymentAdapter struct {
	payments paymentProcessor
	store    checkoutStore
	country  string
}

func (p *paymentAdapter) CreateOrder(_ context.Context, sub *models.Subscription) (*models.PaymentOrder, error) {
	result, err := pricing.Calculate(sub.PlanID, p.country)
	if err != nil {
		return nil, &checkout.ServiceError{Message: fmt.Sprintf("Could not price plan %s", sub.PlanID)}
	}

	order, err := p.payments.CreateOrder(sub, result.TotalMinor, "INR")
	if err != nil {
		return nil, err
	}

	if err := p.store.SavePaymentOrder(order); err != nil {
		log.Printf("Error persisting order %s: %v", order.OrderID, err)
		return nil, &checkout.ServiceError{Message: "Could not record the payment order"}
	}

	return order, nil
}

func (p *paymentAdapter) Verify(_ context.Context, req models.VerifyPaymentRequest) error {
	if err := p.payments.VerifyPayment(req); err != nil {
		// Both rows settle as failed so nothing lingers as pending.
		if settleErr := p.store.SettleCheckout(req.OrderID, req.SubscriptionID,
			models.OrderStatusFailed, models.SubscriptionStatusFailed); settleErr != nil {
			log.Printf("Error settling failed order %s: %v", req.OrderID, settleErr)
		}
		return err
	}

	if err := p.store.SettleCheckout(req.OrderID, req.SubscriptionID,
		models.OrderStatusPaid, models.SubscriptionStatusActive); err != nil {
		return fmt.Errorf("failed to settle payment: %v", err)
	}

	log.Printf("Settled payment for order %s, subscription %s active", req.OrderID, req.SubscriptionID)
	return nil
}
