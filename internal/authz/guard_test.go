package authz

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tablebook/internal/models"
)

func TestCanCreateReservationCustomerOnly(t *testing.T) {
	if err := CanCreateReservation(Caller{Role: models.RoleCustomer}); err != nil {
		t.Fatalf("expected customer to be allowed, got %v", err)
	}
	if err := CanCreateReservation(Caller{Role: models.RoleRestaurant}); err == nil {
		t.Fatal("expected restaurant account to be rejected")
	}
}

func TestCanEditReservationAuthorOnly(t *testing.T) {
	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()
	reservation := models.Reservation{CustomerID: owner}

	if err := CanEditReservation(Caller{ID: owner, Role: models.RoleCustomer}, reservation); err != nil {
		t.Fatalf("expected booking customer to be allowed, got %v", err)
	}
	if err := CanEditReservation(Caller{ID: other, Role: models.RoleCustomer}, reservation); err == nil {
		t.Fatal("expected other customer to be rejected")
	}
	if err := CanEditReservation(Caller{ID: owner, Role: models.RoleRestaurant}, reservation); err == nil {
		t.Fatal("expected restaurant account to be rejected")
	}
}

func TestCanSetReservationStatusOwnerOnly(t *testing.T) {
	ownerID := primitive.NewObjectID()
	restaurant := models.Restaurant{OwnerID: ownerID}

	if err := CanSetReservationStatus(Caller{ID: ownerID, Role: models.RoleRestaurant}, restaurant); err != nil {
		t.Fatalf("expected owner to be allowed, got %v", err)
	}
	if err := CanSetReservationStatus(Caller{ID: primitive.NewObjectID(), Role: models.RoleRestaurant}, restaurant); err == nil {
		t.Fatal("expected non-owner restaurant account to be rejected")
	}
	if err := CanSetReservationStatus(Caller{ID: ownerID, Role: models.RoleCustomer}, restaurant); err == nil {
		t.Fatal("expected customer to be rejected")
	}
}

func TestCanModerateReviewOwnerOnly(t *testing.T) {
	ownerID := primitive.NewObjectID()
	restaurant := models.Restaurant{OwnerID: ownerID}

	if err := CanModerateReview(Caller{ID: ownerID, Role: models.RoleRestaurant}, restaurant); err != nil {
		t.Fatalf("expected owner to be allowed, got %v", err)
	}
	if err := CanModerateReview(Caller{ID: primitive.NewObjectID(), Role: models.RoleRestaurant}, restaurant); err == nil {
		t.Fatal("expected other owner to be rejected")
	}
}

func TestCanDeleteReviewAuthorOrOwner(t *testing.T) {
	authorID := primitive.NewObjectID()
	ownerID := primitive.NewObjectID()
	review := models.Review{CustomerID: authorID}
	restaurant := models.Restaurant{OwnerID: ownerID}

	if err := CanDeleteReview(Caller{ID: authorID, Role: models.RoleCustomer}, review, restaurant); err != nil {
		t.Fatalf("expected author to be allowed, got %v", err)
	}
	if err := CanDeleteReview(Caller{ID: ownerID, Role: models.RoleRestaurant}, review, restaurant); err != nil {
		t.Fatalf("expected restaurant owner to be allowed, got %v", err)
	}
	if err := CanDeleteReview(Caller{ID: primitive.NewObjectID(), Role: models.RoleCustomer}, review, restaurant); err == nil {
		t.Fatal("expected unrelated customer to be rejected")
	}
	if err := CanDeleteReview(Caller{ID: primitive.NewObjectID(), Role: models.RoleRestaurant}, review, restaurant); err == nil {
		t.Fatal("expected unrelated owner to be rejected")
	}
}

func TestCanMarkHelpfulExcludesAuthor(t *testing.T) {
	authorID := primitive.NewObjectID()
	review := models.Review{CustomerID: authorID}

	if err := CanMarkHelpful(Caller{ID: authorID, Role: models.RoleCustomer}, review); err == nil {
		t.Fatal("expected author to be rejected")
	}
	if err := CanMarkHelpful(Caller{ID: primitive.NewObjectID(), Role: models.RoleCustomer}, review); err != nil {
		t.Fatalf("expected other customer to be allowed, got %v", err)
	}
	if err := CanMarkHelpful(Caller{ID: primitive.NewObjectID(), Role: models.RoleRestaurant}, review); err != nil {
		t.Fatalf("expected restaurant account to be allowed, got %v", err)
	}
}

func TestCanManageRestaurantOwnerOnly(t *testing.T) {
	ownerID := primitive.NewObjectID()
	restaurant := models.Restaurant{OwnerID: ownerID}

	if err := CanManageRestaurant(Caller{ID: ownerID, Role: models.RoleRestaurant}, restaurant); err != nil {
		t.Fatalf("expected owner to be allowed, got %v", err)
	}
	if err := CanManageRestaurant(Caller{ID: primitive.NewObjectID(), Role: models.RoleRestaurant}, restaurant); err == nil {
		t.Fatal("expected non-owner to be rejected")
	}
}
