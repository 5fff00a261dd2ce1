package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReservationStatus represents the lifecycle state of a booking.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
)

// ValidReservationStatus reports whether s is one of the three enum values.
func ValidReservationStatus(s ReservationStatus) bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationCancelled:
		return true
	}
	return false
}

// Reservation is created by a customer in "pending". Customers may edit the
// booking details only while pending; the owning restaurant moves the status.
// Reservations are never physically deleted by the workflow.
type Reservation struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RestaurantID    primitive.ObjectID `bson:"restaurantId" json:"restaurantId"`
	CustomerID      primitive.ObjectID `bson:"customerId" json:"customerId"`
	Date            time.Time          `bson:"date" json:"date"`
	Time            string             `bson:"time" json:"time"`
	Guests          int                `bson:"guests" json:"guests"`
	Status          ReservationStatus  `bson:"status" json:"status"`
	SpecialRequests string             `bson:"specialRequests" json:"specialRequests"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}
