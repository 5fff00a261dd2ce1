// Package authz decides whether a caller may perform an action on a target
// entity. Decisions are pure: callers fetch the entities, the guard only
// inspects identity, role and ownership. Every deny carries a reason that is
// surfaced to the client as-is.
package authz

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tablebook/internal/apperr"
	"tablebook/internal/models"
)

// Caller is the authenticated identity attached to a request.
type Caller struct {
	ID   primitive.ObjectID
	Role string
}

// OwnsRestaurant reports whether the caller is the owner of the restaurant.
func (c Caller) OwnsRestaurant(restaurant models.Restaurant) bool {
	return c.Role == models.RoleRestaurant && restaurant.OwnerID == c.ID
}

func CanCreateReservation(caller Caller) error {
	if caller.Role != models.RoleCustomer {
		return apperr.Forbidden("only customers can create reservations")
	}
	return nil
}

// CanEditReservation gates customer edits of booking details. The
// pending-only rule is a workflow validation, not an authorization concern.
func CanEditReservation(caller Caller, reservation models.Reservation) error {
	if caller.Role != models.RoleCustomer {
		return apperr.Forbidden("only the booking customer can edit a reservation")
	}
	if reservation.CustomerID != caller.ID {
		return apperr.Forbidden("not authorized to update this reservation")
	}
	return nil
}

// CanSetReservationStatus gates owner-side status transitions.
func CanSetReservationStatus(caller Caller, restaurant models.Restaurant) error {
	if !caller.OwnsRestaurant(restaurant) {
		return apperr.Forbidden("not authorized to update this reservation")
	}
	return nil
}

func CanCreateReview(caller Caller) error {
	if caller.Role != models.RoleCustomer {
		return apperr.Forbidden("only customers can create reviews")
	}
	return nil
}

// CanEditReviewContent gates customer edits of rating/comment/images.
func CanEditReviewContent(caller Caller, review models.Review) error {
	if caller.Role != models.RoleCustomer {
		return apperr.Forbidden("only the review author can edit review content")
	}
	if review.CustomerID != caller.ID {
		return apperr.Forbidden("not authorized to update this review")
	}
	return nil
}

// CanModerateReview gates approve/reject and owner replies.
func CanModerateReview(caller Caller, restaurant models.Restaurant) error {
	if caller.Role != models.RoleRestaurant {
		return apperr.Forbidden("only restaurant owners can moderate reviews")
	}
	if restaurant.OwnerID != caller.ID {
		return apperr.Forbidden("not authorized to moderate this review")
	}
	return nil
}

// CanDeleteReview allows the author or the owning restaurant's owner.
func CanDeleteReview(caller Caller, review models.Review, restaurant models.Restaurant) error {
	if caller.Role == models.RoleCustomer && review.CustomerID == caller.ID {
		return nil
	}
	if caller.OwnsRestaurant(restaurant) {
		return nil
	}
	return apperr.Forbidden("not authorized to delete this review")
}

// CanMarkHelpful excludes only the review's own author; any other
// authenticated user may vote. The approved-only rule is a workflow check.
func CanMarkHelpful(caller Caller, review models.Review) error {
	if review.CustomerID == caller.ID {
		return apperr.Forbidden("cannot mark your own review as helpful")
	}
	return nil
}

// CanReportReview is open to every authenticated user, including the review's
// author. Self-reporting mirrors the established behavior of the workflow.
func CanReportReview(Caller) error {
	return nil
}

func CanCreateRestaurant(caller Caller) error {
	if caller.Role != models.RoleRestaurant {
		return apperr.Forbidden("only restaurant owners can create restaurants")
	}
	return nil
}

// CanManageRestaurant gates profile updates, deletion and all menu mutations.
func CanManageRestaurant(caller Caller, restaurant models.Restaurant) error {
	if restaurant.OwnerID != caller.ID {
		return apperr.Forbidden("not authorized to manage this restaurant")
	}
	return nil
}
