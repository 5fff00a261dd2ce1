package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReviewStatus is the moderation state of a review. Only approved reviews
// contribute to a restaurant's displayed rating.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// ValidReviewStatus reports whether s is one of the three enum values.
func ValidReviewStatus(s ReviewStatus) bool {
	switch s {
	case ReviewPending, ReviewApproved, ReviewRejected:
		return true
	}
	return false
}

// ReportThreshold is the report count at which an approved review is forced
// back to pending for re-moderation.
const ReportThreshold = 5

// Review holds a 1-5 rating and comment. At most one review exists per
// (customerId, restaurantId) pair. New and customer-edited reviews always
// start in "pending".
type Review struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RestaurantID primitive.ObjectID `bson:"restaurantId" json:"restaurantId"`
	CustomerID   primitive.ObjectID `bson:"customerId" json:"customerId"`
	Rating       int                `bson:"rating" json:"rating"`
	Comment      string             `bson:"comment" json:"comment"`
	Images       []string           `bson:"images" json:"images"`
	Status       ReviewStatus       `bson:"status" json:"status"`
	Helpful      int                `bson:"helpful" json:"helpful"`
	ReportCount  int                `bson:"reportCount" json:"reportCount"`
	Reply        string             `bson:"reply,omitempty" json:"reply,omitempty"`
	Date         time.Time          `bson:"date" json:"date"`
	UpdatedAt    *time.Time         `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}
