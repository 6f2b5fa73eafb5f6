// Package hub fans domain events out to subscribed real-time clients.
//
// The hub is keyed by tenant: a subscriber registers for exactly one tenant
// and only ever receives that tenant's events. Delivery is best-effort and
// decoupled from the transport — the hub hands envelopes to per-subscriber
// channels, and whatever owns the connection (a websocket handler, a test)
// drains them.
package hub

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/macaria/backend/internal/domain"
)

// Envelope is the message delivered to subscribers: a stable human-readable
// event name plus the event's payload.
type Envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// SubscriptionID identifies one live subscription for later removal.
type SubscriptionID = uuid.UUID

// defaultBuffer is the per-subscriber queue depth. A subscriber that falls
// this far behind starts losing events rather than stalling publishers or
// its tenant's other subscribers.
const defaultBuffer = 256

type subscriber struct {
	tenantID int64
	ch       chan Envelope
}

// Hub is an in-process publish/subscribe registry, safe for concurrent use.
// Publish order defines delivery order: events published for one tenant reach
// each of its subscribers in publication order.
type Hub struct {
	log *slog.Logger

	mu   sync.Mutex
	subs map[SubscriptionID]*subscriber
}

// New constructs an empty Hub logging delivery problems to log.
func New(log *slog.Logger) *Hub {
	return &Hub{
		log:  log,
		subs: make(map[SubscriptionID]*subscriber),
	}
}

// Subscribe registers a new subscriber for tenantID and returns its id plus
// the channel its envelopes arrive on. The channel is closed by Unsubscribe;
// receivers should range over it.
func (h *Hub) Subscribe(tenantID int64) (SubscriptionID, <-chan Envelope) {
	sub := &subscriber{
		tenantID: tenantID,
		ch:       make(chan Envelope, defaultBuffer),
	}
	id := uuid.New()

	h.mu.Lock()
	h.subs[id] = sub
	h.mu.Unlock()

	return id, sub.ch
}

// Unsubscribe removes a subscription and closes its channel. Events published
// before Unsubscribe may still be drained from the channel; events published
// after it returns are never delivered. Unknown ids are ignored, so calling
// twice is harmless.
func (h *Hub) Unsubscribe(id SubscriptionID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub, ok := h.subs[id]
	if !ok {
		return
	}
	delete(h.subs, id)
	close(sub.ch)
}

// Publish delivers event to every live subscriber of the event's tenant.
// It never blocks: a subscriber whose queue is full has the event dropped
// and logged, and one subscriber's backlog never delays another's delivery.
func (h *Hub) Publish(event domain.Event) {
	env := Envelope{Type: event.EventName(), Payload: event.EventPayload()}

	h.mu.Lock()
	defer h.mu.Unlock()

	for id, sub := range h.subs {
		if sub.tenantID != event.EventTenant() {
			continue
		}
		select {
		case sub.ch <- env:
		default:
			h.log.Warn("hub: dropping event for slow subscriber",
				"subscription_id", id,
				"tenant_id", sub.tenantID,
				"event", env.Type,
			)
		}
	}
}

// SubscriberCount reports how many live subscriptions exist for a tenant.
func (h *Hub) SubscriberCount(tenantID int64) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for _, sub := range h.subs {
		if sub.tenantID == tenantID {
			n++
		}
	}
	return n
}
