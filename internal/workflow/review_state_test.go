package workflow

import (
	"testing"

	"tablebook/internal/models"
)

func TestModerationAllowsAllKnownStatuses(t *testing.T) {
	statuses := []models.ReviewStatus{
		models.ReviewPending,
		models.ReviewApproved,
		models.ReviewRejected,
	}
	for _, status := range statuses {
		if err := CanModerateReview(status); err != nil {
			t.Fatalf("expected status %s to be valid, got %v", status, err)
		}
	}
}

func TestModerationRejectsUnknownStatus(t *testing.T) {
	if err := CanModerateReview("flagged"); err == nil {
		t.Fatal("expected unknown moderation status to be rejected")
	}
}

func TestAffectsApprovedSet(t *testing.T) {
	tests := []struct {
		from, to models.ReviewStatus
		want     bool
	}{
		{models.ReviewPending, models.ReviewApproved, true},
		{models.ReviewApproved, models.ReviewRejected, true},
		{models.ReviewApproved, models.ReviewPending, true},
		{models.ReviewRejected, models.ReviewApproved, true},
		{models.ReviewPending, models.ReviewRejected, false},
		{models.ReviewRejected, models.ReviewPending, false},
		{models.ReviewApproved, models.ReviewApproved, false},
		{models.ReviewPending, models.ReviewPending, false},
	}
	for _, tc := range tests {
		if got := AffectsApprovedSet(tc.from, tc.to); got != tc.want {
			t.Fatalf("AffectsApprovedSet(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestValidateReviewRating(t *testing.T) {
	for rating := 1; rating <= 5; rating++ {
		if err := ValidateReviewRating(rating); err != nil {
			t.Fatalf("expected rating %d to be valid, got %v", rating, err)
		}
	}
	for _, rating := range []int{0, 6, -1, 100} {
		if err := ValidateReviewRating(rating); err == nil {
			t.Fatalf("expected rating %d to be rejected", rating)
		}
	}
}

func TestMayMarkHelpfulApprovedOnly(t *testing.T) {
	if err := MayMarkHelpful(models.Review{Status: models.ReviewApproved}); err != nil {
		t.Fatalf("expected approved review to accept helpful votes, got %v", err)
	}
	for _, status := range []models.ReviewStatus{models.ReviewPending, models.ReviewRejected} {
		if err := MayMarkHelpful(models.Review{Status: status}); err == nil {
			t.Fatalf("expected %s review to reject helpful votes", status)
		}
	}
}

func TestForcesRemoderationThreshold(t *testing.T) {
	if ForcesRemoderation(models.ReportThreshold - 1) {
		t.Fatal("expected count below threshold not to force re-moderation")
	}
	if !ForcesRemoderation(models.ReportThreshold) {
		t.Fatal("expected count at threshold to force re-moderation")
	}
	if !ForcesRemoderation(models.ReportThreshold + 3) {
		t.Fatal("expected count above threshold to force re-moderation")
	}
}
