package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Favorite joins a customer to a restaurant. The pair is unique (checked at
// creation and backed by a unique index).
type Favorite struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerID   primitive.ObjectID `bson:"customerId" json:"customerId"`
	RestaurantID primitive.ObjectID `bson:"restaurantId" json:"restaurantId"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
