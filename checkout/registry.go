package checkout

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"techsetu-website-api/types"
)

const attemptTTL = 30 * time.Minute

// Attempt is the server-side record of one subscribe flow. It doubles as the
// orchestrator's Gateway and Notifier: the browser polls for the checkout
// options, opens the Razorpay UI itself, and reports back through the
// callback or dismiss endpoints, which resolve the pending outcome channel.
type Attempt struct {
	ID           string
	Orchestrator *Orchestrator

	mu        sync.Mutex
	notices   []Notice
	options   *types.CheckoutOptions
	outcome   chan types.CheckoutOutcome
	resolved  bool
	available bool
	createdAt time.Time
}

func newAttempt(gatewayAvailable bool) *Attempt {
	return &Attempt{
		ID:        uuid.New().String(),
		outcome:   make(chan types.CheckoutOutcome, 1),
		available: gatewayAvailable,
		createdAt: time.Now(),
	}
}

// Notify implements Notifier by recording notices for the status endpoint.
func (a *Attempt) Notify(notice Notice) {
	a.mu.Lock()
	a.notices = append(a.notices, notice)
	a.mu.Unlock()
}

// Notices returns everything surfaced to the user so far.
func (a *Attempt) Notices() []Notice {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Notice, len(a.notices))
	copy(out, a.notices)
	return out
}

// Available implements Gateway.
func (a *Attempt) Available() bool {
	return a.available
}

// Open implements Gateway: it publishes the checkout options for the client
// to pick up and hands the orchestrator the outcome channel to wait on.
func (a *Attempt) Open(_ context.Context, opts types.CheckoutOptions) (<-chan types.CheckoutOutcome, error) {
	a.mu.Lock()
	a.options = &opts
	a.mu.Unlock()
	return a.outcome, nil
}

// CheckoutOptions returns the pending checkout config, nil until the flow
// reaches AwaitingGatewayCheckout.
func (a *Attempt) CheckoutOptions() *types.CheckoutOptions {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.options
}

// Complete resolves the checkout with a completed payment. Only the first
// resolution counts; later callbacks and dismissals are ignored.
func (a *Attempt) Complete(payload types.CheckoutPayload) bool {
	return a.resolve(types.CheckoutOutcome{Payload: &payload})
}

// Dismiss resolves the checkout as cancelled by the user.
func (a *Attempt) Dismiss() bool {
	return a.resolve(types.CheckoutOutcome{Cancelled: true})
}

func (a *Attempt) resolve(outcome types.CheckoutOutcome) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.resolved {
		return false
	}
	a.resolved = true
	a.outcome <- outcome
	return true
}

func (a *Attempt) expired(now time.Time) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return now.Sub(a.createdAt) > attemptTTL
}

// Registry tracks in-flight and recently settled attempts by id.
type Registry struct {
	mu       sync.Mutex
	attempts map[string]*Attempt
}

func NewRegistry() *Registry {
	return &Registry{
		attempts: make(map[string]*Attempt),
	}
}

// Create registers a fresh attempt, pruning expired ones on the way.
func (r *Registry) Create(gatewayAvailable bool) *Attempt {
	attempt := newAttempt(gatewayAvailable)

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for id, a := range r.attempts {
		if a.expired(now) {
			delete(r.attempts, id)
		}
	}

	r.attempts[attempt.ID] = attempt
	return attempt
}

func (r *Registry) Get(id string) (*Attempt, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	attempt, ok := r.attempts[id]
	return attempt, ok
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.attempts, id)
	r.mu.Unlock()
	log.Printf("Removed checkout attempt %s", id)
}
