package workflow

import (
	"fmt"

	"tablebook/internal/apperr"
	"tablebook/internal/models"
)

// Actor identifies who is attempting a transition.
const (
	ActorCustomer   = "customer"
	ActorRestaurant = "restaurant"
)

// reservationTransition defines a valid status change and who may perform it.
type reservationTransition struct {
	From  models.ReservationStatus
	To    models.ReservationStatus
	Actor string
}

// reservationTransitions is the authoritative machine: pending moves forward
// to confirmed or cancelled, confirmed can still be cancelled, and nothing
// leaves cancelled. Only the owning restaurant drives status.
var reservationTransitions = []reservationTransition{
	{From: models.ReservationPending, To: models.ReservationConfirmed, Actor: ActorRestaurant},
	{From: models.ReservationPending, To: models.ReservationCancelled, Actor: ActorRestaurant},
	{From: models.ReservationConfirmed, To: models.ReservationCancelled, Actor: ActorRestaurant},
}

type reservationTransitionKey struct {
	From  models.ReservationStatus
	To    models.ReservationStatus
	Actor string
}

var reservationTransitionMap = func() map[reservationTransitionKey]bool {
	m := make(map[reservationTransitionKey]bool)
	for _, t := range reservationTransitions {
		m[reservationTransitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// CanTransitionReservation validates a status change. Repeating the current
// status is a no-op and always allowed, so retried requests stay idempotent.
func CanTransitionReservation(from, to models.ReservationStatus, actor string) error {
	if !models.ValidReservationStatus(to) {
		return apperr.Validation(fmt.Sprintf("invalid status %q (must be pending, confirmed or cancelled)", to))
	}
	if from == to {
		return nil
	}
	if reservationTransitionMap[reservationTransitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return apperr.Validation(fmt.Sprintf("cannot move reservation from %s to %s", from, to))
}

// CustomerMayEditReservation enforces the pending-only edit rule for booking
// details (date/time/guests/special requests).
func CustomerMayEditReservation(reservation models.Reservation) error {
	if reservation.Status != models.ReservationPending {
		return apperr.Validation("cannot modify a confirmed or cancelled reservation")
	}
	return nil
}
