package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report is an append-only audit record of a review being reported. Reports
// stay "pending" in the current workflow.
type Report struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReviewID   primitive.ObjectID `bson:"reviewId" json:"reviewId"`
	ReporterID primitive.ObjectID `bson:"reporterId" json:"reporterId"`
	Reason     string             `bson:"reason" json:"reason"`
	Date       time.Time          `bson:"date" json:"date"`
	Status     string             `bson:"status" json:"status"`
}
