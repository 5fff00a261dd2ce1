// Package rating keeps the denormalized restaurant rating consistent with the
// approved review set. Recompute is invoked after the triggering mutation has
// been committed, so a delete-then-recompute sequence never counts the
// deleted review. Concurrent recomputes race last-write-wins, which is
// acceptable for a display value.
package rating

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"tablebook/internal/models"
)

// Average returns the arithmetic mean of review ratings. ok is false when the
// slice is empty, in which case the restaurant's rating must be unset.
func Average(reviews []models.Review) (mean float64, ok bool) {
	if len(reviews) == 0 {
		return 0, false
	}
	sum := 0
	for _, review := range reviews {
		sum += review.Rating
	}
	return float64(sum) / float64(len(reviews)), true
}

// Recompute re-derives the restaurant's rating from its approved reviews.
// Idempotent; the only side effect is the restaurant's rating field.
func Recompute(ctx context.Context, db *mongo.Database, restaurantID primitive.ObjectID) error {
	cursor, err := db.Collection("reviews").Find(ctx, bson.M{
		"restaurantId": restaurantID,
		"status":       models.ReviewApproved,
	})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var approved []models.Review
	if err := cursor.All(ctx, &approved); err != nil {
		return err
	}

	restaurants := db.Collection("restaurants")

	mean, ok := Average(approved)
	if !ok {
		_, err = restaurants.UpdateOne(ctx,
			bson.M{"_id": restaurantID},
			bson.M{"$unset": bson.M{"rating": ""}},
		)
		return err
	}

	_, err = restaurants.UpdateOne(ctx,
		bson.M{"_id": restaurantID},
		bson.M{"$set": bson.M{"rating": mean}},
	)
	return err
}

// RecomputeBestEffort logs instead of failing: aggregation always runs after
// the primary write has succeeded, so its outcome must not change the
// response already owed to the caller.
func RecomputeBestEffort(ctx context.Context, db *mongo.Database, restaurantID primitive.ObjectID) {
	if err := Recompute(ctx, db, restaurantID); err != nil {
		log.Println("[RATING] [ERROR] recompute failed for restaurant", restaurantID.Hex(), ":", err)
	}
}
