package handlers

import (
	"errors"
	"testing"
)

func TestOwnerWidensListing(t *testing.T) {
	if !ownerWidensListing(1, nil, "") {
		t.Fatal("expected owner with verified restaurant to see all statuses")
	}
	if ownerWidensListing(0, nil, "") {
		t.Fatal("expected non-owner to keep the approved-only view")
	}
	if ownerWidensListing(1, errors.New("connection reset"), "") {
		t.Fatal("expected a failed ownership check to keep the approved-only view")
	}
	if ownerWidensListing(1, nil, "pending") {
		t.Fatal("expected an explicit status filter to win over widening")
	}
}

func TestReviewSortDefaultsToDateDescending(t *testing.T) {
	sort := reviewSort("", "")
	if len(sort) != 1 || sort[0].Key != "date" || sort[0].Value != -1 {
		t.Fatalf("expected date descending, got %v", sort)
	}
}

func TestReviewSortFields(t *testing.T) {
	tests := []struct {
		sortBy string
		key    string
	}{
		{"rating", "rating"},
		{"helpful", "helpful"},
		{"date", "date"},
		{"bogus", "date"},
	}
	for _, tc := range tests {
		sort := reviewSort(tc.sortBy, "")
		if sort[0].Key != tc.key {
			t.Fatalf("reviewSort(%q) keyed on %s, want %s", tc.sortBy, sort[0].Key, tc.key)
		}
	}
}

func TestReviewSortAscending(t *testing.T) {
	for _, order := range []string{"asc", "ASC", "Asc"} {
		sort := reviewSort("rating", order)
		if sort[0].Value != 1 {
			t.Fatalf("expected ascending for order %q, got %v", order, sort[0].Value)
		}
	}
	if sort := reviewSort("rating", "desc"); sort[0].Value != -1 {
		t.Fatalf("expected descending, got %v", sort[0].Value)
	}
}

func TestLowerCamel(t *testing.T) {
	tests := map[string]string{
		"RestaurantID": "restaurantID",
		"Comment":      "comment",
		"":             "",
		"already":      "already",
	}
	for in, want := range tests {
		if got := lowerCamel(in); got != want {
			t.Fatalf("lowerCamel(%q) = %q, want %q", in, got, want)
		}
	}
}
