package rating

import (
	"testing"

	"tablebook/internal/models"
)

func TestAverageEmptySet(t *testing.T) {
	if _, ok := Average(nil); ok {
		t.Fatal("expected ok=false for empty review set")
	}
	if _, ok := Average([]models.Review{}); ok {
		t.Fatal("expected ok=false for empty review set")
	}
}

func TestAverageSingleReview(t *testing.T) {
	mean, ok := Average([]models.Review{{Rating: 5}})
	if !ok {
		t.Fatal("expected ok=true for non-empty set")
	}
	if mean != 5.0 {
		t.Fatalf("expected mean 5.0, got %v", mean)
	}
}

func TestAverageMixedRatings(t *testing.T) {
	tests := []struct {
		ratings []int
		want    float64
	}{
		{[]int{5, 3}, 4.0},
		{[]int{3}, 3.0},
		{[]int{1, 2, 3, 4, 5}, 3.0},
		{[]int{4, 5}, 4.5},
	}
	for _, tc := range tests {
		reviews := make([]models.Review, 0, len(tc.ratings))
		for _, rating := range tc.ratings {
			reviews = append(reviews, models.Review{Rating: rating})
		}
		mean, ok := Average(reviews)
		if !ok {
			t.Fatalf("expected ok=true for %v", tc.ratings)
		}
		if mean != tc.want {
			t.Fatalf("Average(%v) = %v, want %v", tc.ratings, mean, tc.want)
		}
	}
}
