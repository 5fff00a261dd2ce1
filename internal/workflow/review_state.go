package workflow

import (
	"fmt"

	"tablebook/internal/apperr"
	"tablebook/internal/models"
)

// Review moderation moves freely between pending, approved and rejected; no
// state is terminal. The interesting question is never legality of the move
// but whether it changes the approved set and therefore the restaurant's
// rating.

// CanModerateReview validates a moderation target status.
func CanModerateReview(to models.ReviewStatus) error {
	if !models.ValidReviewStatus(to) {
		return apperr.Validation(fmt.Sprintf("invalid status %q (must be pending, approved or rejected)", to))
	}
	return nil
}

// AffectsApprovedSet reports whether a status change alters the membership of
// the approved review set, i.e. whether the rating must be recomputed.
func AffectsApprovedSet(from, to models.ReviewStatus) bool {
	return (from == models.ReviewApproved) != (to == models.ReviewApproved)
}

// ValidateReviewRating enforces the 1-5 integer range.
func ValidateReviewRating(rating int) error {
	if rating < 1 || rating > 5 {
		return apperr.Validation("rating must be between 1 and 5")
	}
	return nil
}

// MayMarkHelpful enforces that only approved reviews accumulate helpful votes.
func MayMarkHelpful(review models.Review) error {
	if review.Status != models.ReviewApproved {
		return apperr.Validation("can only mark approved reviews as helpful")
	}
	return nil
}

// ForcesRemoderation reports whether the post-increment report count pushes
// the review back to pending.
func ForcesRemoderation(reportCount int) bool {
	return reportCount >= models.ReportThreshold
}
