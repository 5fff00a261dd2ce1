package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account roles. A user's role is fixed at registration.
const (
	RoleCustomer   = "customer"
	RoleRestaurant = "restaurant"
)

// NotificationSettings controls which events reach the user by email.
type NotificationSettings struct {
	Email                bool `bson:"email" json:"email"`
	Marketing            bool `bson:"marketing" json:"marketing"`
	ReservationReminders bool `bson:"reservationReminders" json:"reservationReminders"`
	ReservationUpdates   bool `bson:"reservationUpdates" json:"reservationUpdates"`
	SpecialOffers        bool `bson:"specialOffers" json:"specialOffers"`
	NewReviews           bool `bson:"newReviews,omitempty" json:"newReviews,omitempty"` // restaurant owners only
}

type PrivacySettings struct {
	ProfileVisibility     string `bson:"profileVisibility" json:"profileVisibility"` // public | registered | private
	ShowReviews           bool   `bson:"showReviews" json:"showReviews"`
	ShowReservations      bool   `bson:"showReservations,omitempty" json:"showReservations,omitempty"` // restaurant owners only
	ShareDataWithPartners bool   `bson:"shareDataWithPartners" json:"shareDataWithPartners"`
}

type PersonalizationSettings struct {
	Theme      string `bson:"theme" json:"theme"` // light | dark | system
	Language   string `bson:"language" json:"language"`
	Currency   string `bson:"currency" json:"currency"`
	DateFormat string `bson:"dateFormat" json:"dateFormat"` // MM/DD/YYYY | DD/MM/YYYY | YYYY-MM-DD
	TimeFormat string `bson:"timeFormat" json:"timeFormat"` // 12h | 24h
}

type UserSettings struct {
	Notifications   NotificationSettings    `bson:"notifications" json:"notifications"`
	Privacy         PrivacySettings         `bson:"privacy" json:"privacy"`
	Personalization PersonalizationSettings `bson:"personalization" json:"personalization"`
}

// User is an account document. PasswordHash is never serialized to JSON.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Role         string             `bson:"role" json:"role"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Bio          string             `bson:"bio,omitempty" json:"bio,omitempty"`
	ProfileImage string             `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	Settings     *UserSettings      `bson:"settings,omitempty" json:"settings,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
