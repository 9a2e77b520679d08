// Package datastore holds the process-memory stores for subscriptions and
// schedules. Storage is deliberately volatile: a restart drops everything
// and clients re-subscribe on their next visit. Both stores are shared
// between the HTTP handlers and the scheduler, so access is mutex-guarded.
package datastore

import (
	"sync"

	"github.com/lakonic/mealping/models"
)

// RegisteredSubscription pairs a derived user identifier with its stored
// subscription, as yielded by SubscriptionRegistry.All.
type RegisteredSubscription struct {
	UserID       string
	Subscription models.Subscription
}

// SubscriptionRegistry maps derived user identifiers to their current push
// subscription. Iteration order is first-insertion order.
type SubscriptionRegistry struct {
	mu    sync.Mutex
	subs  map[string]models.Subscription
	order []string
}

func NewSubscriptionRegistry() *SubscriptionRegistry {
	return &SubscriptionRegistry{
		subs: make(map[string]models.Subscription),
	}
}

// Upsert stores sub under its derived identifier, overwriting any prior
// record for the same identifier, and returns that identifier. The same
// browser re-subscribing always lands on its existing slot.
func (r *SubscriptionRegistry) Upsert(sub models.Subscription) string {
	userID := sub.UserID()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.subs[userID]; !exists {
		r.order = append(r.order, userID)
	}
	r.subs[userID] = sub
	return userID
}

func (r *SubscriptionRegistry) Get(userID string) (models.Subscription, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.subs[userID]
	return sub, ok
}

// Remove deletes the subscription for userID. Removing an identifier that
// was never stored is a no-op.
func (r *SubscriptionRegistry) Remove(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.subs[userID]; !exists {
		return
	}
	delete(r.subs, userID)
	for i, id := range r.order {
		if id == userID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// All returns a snapshot of every registered subscription in insertion
// order. Mutating the registry afterwards does not affect the snapshot.
func (r *SubscriptionRegistry) All() []RegisteredSubscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]RegisteredSubscription, 0, len(r.order))
	for _, id := range r.order {
		entries = append(entries, RegisteredSubscription{UserID: id, Subscription: r.subs[id]})
	}
	return entries
}

func (r *SubscriptionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.subs)
}
