package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tablebook/internal/models"
	"tablebook/internal/notify"
)

func TestForcedRemoderationNotifiesAuthor(t *testing.T) {
	hub := notify.NewHub()
	review := models.Review{
		ID:           primitive.NewObjectID(),
		CustomerID:   primitive.NewObjectID(),
		RestaurantID: primitive.NewObjectID(),
		Status:       models.ReviewApproved,
	}

	events, cancel := hub.Subscribe(review.CustomerID.Hex())
	defer cancel()

	notifyForcedRemoderation(hub, review, "Chez Test")

	select {
	case event := <-events:
		if event.Type != notify.EventReviewModerated {
			t.Fatalf("expected event type %s, got %s", notify.EventReviewModerated, event.Type)
		}
		if event.Payload["status"] != models.ReviewPending {
			t.Fatalf("expected status pending in payload, got %v", event.Payload["status"])
		}
		if event.Payload["reviewId"] != review.ID.Hex() {
			t.Fatalf("unexpected reviewId in payload: %v", event.Payload["reviewId"])
		}
		if event.Payload["restaurantName"] != "Chez Test" {
			t.Fatalf("unexpected restaurantName in payload: %v", event.Payload["restaurantName"])
		}
	default:
		t.Fatal("expected the author to be notified")
	}
}
