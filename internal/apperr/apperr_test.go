package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusCodeMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{Unauthenticated("no token"), http.StatusUnauthorized},
		{Forbidden("not yours"), http.StatusForbidden},
		{NotFound("missing"), http.StatusNotFound},
		{Conflict("duplicate"), http.StatusConflict},
		{Upstream("db down"), http.StatusInternalServerError},
		{errors.New("plain error"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		if got := StatusCode(tc.err); got != tc.want {
			t.Fatalf("StatusCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestMessageSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("creating review: %w", Conflict("you have already reviewed this restaurant"))

	var conflict ConflictError
	if !errors.As(err, &conflict) {
		t.Fatal("expected errors.As to unwrap ConflictError")
	}
	if conflict.Message != "you have already reviewed this restaurant" {
		t.Fatalf("unexpected message: %s", conflict.Message)
	}
}

func TestErrorReturnsMessage(t *testing.T) {
	if got := Validation("rating must be between 1 and 5").Error(); got != "rating must be between 1 and 5" {
		t.Fatalf("unexpected Error(): %s", got)
	}
}
