// Package hub fans order status events out to live client subscriptions.
//
// The hub owns its registry outright: other components only see Subscribe,
// Unsubscribe, Publish and Heartbeat. Delivery is best effort and never
// durable; a client that was offline re-syncs from the order store on
// reconnect via the snapshot sent at subscribe time.
package hub

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shashiranjanraj/vastra/pkg/logger"
	"github.com/shashiranjanraj/vastra/pkg/metrics"
	"github.com/shashiranjanraj/vastra/pkg/workerpool"
)

// Sink is a write-only transport handle for server-to-client events.
// Implementations wrap SSE streams and WebSocket connections.
type Sink interface {
	// Send writes one named event. An error means the transport is dead
	// and the subscription will be pruned.
	Send(event string, data interface{}) error
}

// Subscription is one live client waiting for updates. Never persisted.
type Subscription struct {
	ID        string
	UserID    uint
	CreatedAt time.Time

	mu   sync.Mutex // serialises writes from publish and heartbeat
	sink Sink
}

func (s *Subscription) send(event string, data interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sink.Send(event, data)
}

// Hub is the subscriber registry. Safe for concurrent use.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint]map[string]*Subscription
	owners map[string]uint // subscription id -> user id

	pool *workerpool.Pool
}

// New creates a hub. pool bounds the heartbeat fan-out so one slow client
// cannot stall the tick; pass nil to send heartbeats inline.
func New(pool *workerpool.Pool) *Hub {
	return &Hub{
		subs:   make(map[uint]map[string]*Subscription),
		owners: make(map[string]uint),
		pool:   pool,
	}
}

// connectedEvent acknowledges a successful subscribe handshake.
type connectedEvent struct {
	SubscriptionID string    `json:"subscriptionId"`
	Timestamp      time.Time `json:"timestamp"`
}

// Subscribe registers a sink for the user and immediately sends the
// connection acknowledgement followed by the caller-supplied order snapshot.
// Both are written before any Publish that starts after Subscribe returns,
// giving the client a stable re-sync point.
func (h *Hub) Subscribe(userID uint, sink Sink, snapshot interface{}) (string, error) {
	sub := &Subscription{
		ID:        fmt.Sprintf("%d-%d", userID, time.Now().UnixNano()),
		UserID:    userID,
		CreatedAt: time.Now(),
		sink:      sink,
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	// The handshake happens under the registry write lock so a concurrent
	// Publish cannot interleave between registration and the snapshot.
	if err := sub.send("connected", connectedEvent{SubscriptionID: sub.ID, Timestamp: sub.CreatedAt}); err != nil {
		return "", fmt.Errorf("hub: handshake: %w", err)
	}
	if err := sub.send("initial_data", snapshot); err != nil {
		return "", fmt.Errorf("hub: snapshot: %w", err)
	}

	if h.subs[userID] == nil {
		h.subs[userID] = make(map[string]*Subscription)
	}
	h.subs[userID][sub.ID] = sub
	h.owners[sub.ID] = userID
	metrics.StreamSubscribers.Set(float64(len(h.owners)))

	logger.Info("hub: subscribed", "subscription", sub.ID, "user_id", userID)
	return sub.ID, nil
}

// Unsubscribe removes a subscription. Unknown ids are a no-op, so the
// transport-close path and the write-failure path can both call it.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(id)
}

func (h *Hub) removeLocked(id string) {
	userID, ok := h.owners[id]
	if !ok {
		return
	}
	delete(h.owners, id)
	delete(h.subs[userID], id)
	if len(h.subs[userID]) == 0 {
		delete(h.subs, userID)
	}
	metrics.StreamSubscribers.Set(float64(len(h.owners)))
	logger.Info("hub: unsubscribed", "subscription", id, "user_id", userID)
}

// Publish writes the event to every live subscription owned by userID.
// A write failure on one subscription prunes only that subscription; the
// error never reaches the caller. With zero subscriptions the event is
// dropped silently.
func (h *Hub) Publish(userID uint, eventType string, data interface{}) {
	h.mu.RLock()
	targets := make([]*Subscription, 0, len(h.subs[userID]))
	for _, sub := range h.subs[userID] {
		targets = append(targets, sub)
	}
	h.mu.RUnlock()

	if len(targets) == 0 {
		metrics.StreamEventsDropped.Inc()
		return
	}

	var failed []string
	for _, sub := range targets {
		if err := sub.send(eventType, data); err != nil {
			logger.Warn("hub: delivery failed, pruning",
				"subscription", sub.ID, "user_id", userID, "error", err)
			failed = append(failed, sub.ID)
			continue
		}
		metrics.StreamEvents.WithLabelValues(eventType).Inc()
	}

	if len(failed) > 0 {
		h.mu.Lock()
		for _, id := range failed {
			h.removeLocked(id)
		}
		h.mu.Unlock()
	}
}

// pingEvent is the keepalive payload.
type pingEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// Heartbeat sends a keepalive to every live subscription. Each write is
// submitted to the worker pool; a full pool skips the subscription for this
// tick rather than blocking the schedule.
func (h *Hub) Heartbeat() {
	h.mu.RLock()
	targets := make([]*Subscription, 0, len(h.owners))
	for _, perUser := range h.subs {
		for _, sub := range perUser {
			targets = append(targets, sub)
		}
	}
	h.mu.RUnlock()

	now := time.Now()
	for _, sub := range targets {
		sub := sub
		beat := func() {
			if err := sub.send("ping", pingEvent{Timestamp: now}); err != nil {
				h.Unsubscribe(sub.ID)
			} else {
				metrics.StreamEvents.WithLabelValues("ping").Inc()
			}
		}
		if h.pool == nil {
			beat()
			continue
		}
		if err := h.pool.Submit(beat); err != nil {
			if errors.Is(err, workerpool.ErrPoolFull) {
				logger.Warn("hub: heartbeat pool full, skipping tick",
					"subscription", sub.ID)
				continue
			}
			logger.Warn("hub: heartbeat submit failed",
				"subscription", sub.ID, "error", err)
		}
	}
}

// Count returns the number of live subscriptions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.owners)
}
