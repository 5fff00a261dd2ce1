package notify

import "testing"

func TestEmitReachesSubscriber(t *testing.T) {
	hub := NewHub()
	events, cancel := hub.Subscribe("user-1")
	defer cancel()

	hub.EmitToUser("user-1", EventNewReservation, map[string]any{"reservationId": "abc"})

	select {
	case event := <-events:
		if event.Type != EventNewReservation {
			t.Fatalf("expected event type %s, got %s", EventNewReservation, event.Type)
		}
		if event.Payload["reservationId"] != "abc" {
			t.Fatalf("unexpected payload: %v", event.Payload)
		}
	default:
		t.Fatal("expected a buffered event")
	}
}

func TestEmitToOtherUserNotDelivered(t *testing.T) {
	hub := NewHub()
	events, cancel := hub.Subscribe("user-1")
	defer cancel()

	hub.EmitToUser("user-2", EventNewReview, nil)

	select {
	case event := <-events:
		t.Fatalf("unexpected event delivered: %v", event)
	default:
	}
}

func TestEmitWithoutSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub()
	// Must return immediately even with nobody listening.
	hub.EmitToUser("ghost", EventReviewModerated, nil)
}

func TestEmitFanOutToMultipleSessions(t *testing.T) {
	hub := NewHub()
	first, cancelFirst := hub.Subscribe("user-1")
	defer cancelFirst()
	second, cancelSecond := hub.Subscribe("user-1")
	defer cancelSecond()

	hub.EmitToUser("user-1", EventReservationUpdated, nil)

	for i, events := range []<-chan Event{first, second} {
		select {
		case event := <-events:
			if event.Type != EventReservationUpdated {
				t.Fatalf("session %d: expected %s, got %s", i, EventReservationUpdated, event.Type)
			}
		default:
			t.Fatalf("session %d: expected an event", i)
		}
	}
}

func TestFullBufferDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()
	events, cancel := hub.Subscribe("user-1")
	defer cancel()

	for i := 0; i < subscriberBuffer+5; i++ {
		hub.EmitToUser("user-1", EventNewReview, nil)
	}

	received := 0
	for {
		select {
		case <-events:
			received++
			continue
		default:
		}
		break
	}
	if received != subscriberBuffer {
		t.Fatalf("expected %d buffered events, got %d", subscriberBuffer, received)
	}
}

func TestCancelClosesChannel(t *testing.T) {
	hub := NewHub()
	events, cancel := hub.Subscribe("user-1")

	cancel()
	if _, open := <-events; open {
		t.Fatal("expected channel to be closed after cancel")
	}

	// Emitting after cancel must not panic on the closed channel.
	hub.EmitToUser("user-1", EventNewReview, nil)

	// Double cancel is a no-op.
	cancel()
}
