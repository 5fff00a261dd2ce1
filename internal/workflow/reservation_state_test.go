package workflow

import (
	"testing"

	"tablebook/internal/models"
)

func TestReservationOwnerTransitions(t *testing.T) {
	allowed := []struct {
		from models.ReservationStatus
		to   models.ReservationStatus
	}{
		{models.ReservationPending, models.ReservationConfirmed},
		{models.ReservationPending, models.ReservationCancelled},
		{models.ReservationConfirmed, models.ReservationCancelled},
	}
	for _, tc := range allowed {
		if err := CanTransitionReservation(tc.from, tc.to, ActorRestaurant); err != nil {
			t.Fatalf("expected %s -> %s to be allowed, got %v", tc.from, tc.to, err)
		}
	}
}

func TestReservationCancelledIsTerminal(t *testing.T) {
	targets := []models.ReservationStatus{models.ReservationPending, models.ReservationConfirmed}
	for _, to := range targets {
		if err := CanTransitionReservation(models.ReservationCancelled, to, ActorRestaurant); err == nil {
			t.Fatalf("expected cancelled -> %s to be rejected", to)
		}
	}
}

func TestReservationSameStatusIsNoOp(t *testing.T) {
	statuses := []models.ReservationStatus{
		models.ReservationPending,
		models.ReservationConfirmed,
		models.ReservationCancelled,
	}
	for _, status := range statuses {
		if err := CanTransitionReservation(status, status, ActorRestaurant); err != nil {
			t.Fatalf("expected %s -> %s to be a no-op, got %v", status, status, err)
		}
	}
}

func TestReservationCustomerCannotDriveStatus(t *testing.T) {
	if err := CanTransitionReservation(models.ReservationPending, models.ReservationConfirmed, ActorCustomer); err == nil {
		t.Fatal("expected customer-driven confirm to be rejected")
	}
}

func TestReservationInvalidTargetStatus(t *testing.T) {
	if err := CanTransitionReservation(models.ReservationPending, "completed", ActorRestaurant); err == nil {
		t.Fatal("expected unknown status to be rejected")
	}
}

func TestCustomerMayEditReservationPendingOnly(t *testing.T) {
	if err := CustomerMayEditReservation(models.Reservation{Status: models.ReservationPending}); err != nil {
		t.Fatalf("expected pending reservation to be editable, got %v", err)
	}
	for _, status := range []models.ReservationStatus{models.ReservationConfirmed, models.ReservationCancelled} {
		if err := CustomerMayEditReservation(models.Reservation{Status: status}); err == nil {
			t.Fatalf("expected %s reservation edit to be rejected", status)
		}
	}
}
