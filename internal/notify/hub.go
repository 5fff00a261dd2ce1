// Package notify is the fire-and-forget notification sink. Workflow handlers
// publish events addressed to a user ID; connected sessions receive them over
// a server-sent event stream. Delivery is at-most-once: emitting never
// blocks, never fails the primary mutation, and drops events for slow or
// absent subscribers.
package notify

import (
	"log"
	"sync"
)

// Event types emitted by the workflows.
const (
	EventNewReservation     = "new_reservation"
	EventReservationUpdated = "reservation_updated"
	EventNewReview          = "new_review"
	EventReviewModerated    = "review_moderated"
	EventReviewUpdated      = "review_updated"
)

// Event carries enough denormalized context for display without a follow-up
// fetch.
type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

const subscriberBuffer = 16

// Hub fans events out to per-user subscriber channels.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[string]map[chan Event]struct{})}
}

// Subscribe registers a session for a user and returns its event channel plus
// a cancel function. The channel is closed on cancel.
func (h *Hub) Subscribe(userID string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	sessions, ok := h.subscribers[userID]
	if !ok {
		sessions = make(map[chan Event]struct{})
		h.subscribers[userID] = sessions
	}
	sessions[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if sessions, ok := h.subscribers[userID]; ok {
			if _, ok := sessions[ch]; ok {
				delete(sessions, ch)
				close(ch)
			}
			if len(sessions) == 0 {
				delete(h.subscribers, userID)
			}
		}
		h.mu.Unlock()
	}

	return ch, cancel
}

// EmitToUser delivers an event to every session of the user. A full session
// buffer drops the event for that session.
func (h *Hub) EmitToUser(userID, eventType string, payload map[string]any) {
	event := Event{Type: eventType, Payload: payload}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[userID] {
		select {
		case ch <- event:
		default:
			log.Println("[NOTIFY] [WARN] dropping event for slow subscriber:", userID, eventType)
		}
	}
}

// EmitToRestaurantOwner addresses the owner of a restaurant. The caller
// resolves the owner ID from the restaurant document it already holds.
func (h *Hub) EmitToRestaurantOwner(ownerID, eventType string, payload map[string]any) {
	h.EmitToUser(ownerID, eventType, payload)
}
