package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("users").Indexes()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}

	log.Println("EnsureUserIndexes: creating email_unique index")
	_, err := indexes.CreateOne(ctx, emailIndex)
	if err != nil {
		log.Println("EnsureUserIndexes: email index error:", err)
		return err
	}
	return nil
}

// EnsureRestaurantIndexes makes the one-restaurant-per-owner convention
// explicit: ownerId is unique across the collection.
func EnsureRestaurantIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("restaurants").Indexes()

	ownerIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "ownerId", Value: 1}},
		Options: options.Index().
			SetName("ownerId_unique").
			SetUnique(true),
	}

	log.Println("EnsureRestaurantIndexes: creating ownerId_unique index")
	_, err := indexes.CreateOne(ctx, ownerIndex)
	if err != nil {
		log.Println("EnsureRestaurantIndexes: ownerId index error:", err)
		return err
	}
	return nil
}

// EnsureReviewIndexes backs the one-review-per-customer-per-restaurant rule,
// which handlers also check before insert.
func EnsureReviewIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("reviews").Indexes()

	pairIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "customerId", Value: 1},
			{Key: "restaurantId", Value: 1},
		},
		Options: options.Index().
			SetName("customer_restaurant_unique").
			SetUnique(true),
	}

	log.Println("EnsureReviewIndexes: creating customer_restaurant_unique index")
	_, err := indexes.CreateOne(ctx, pairIndex)
	if err != nil {
		log.Println("EnsureReviewIndexes: pair index error:", err)
		return err
	}
	return nil
}

func EnsureFavoriteIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("favorites").Indexes()

	pairIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "customerId", Value: 1},
			{Key: "restaurantId", Value: 1},
		},
		Options: options.Index().
			SetName("customer_restaurant_unique").
			SetUnique(true),
	}

	log.Println("EnsureFavoriteIndexes: creating customer_restaurant_unique index")
	_, err := indexes.CreateOne(ctx, pairIndex)
	if err != nil {
		log.Println("EnsureFavoriteIndexes: pair index error:", err)
		return err
	}
	return nil
}

func EnsureReservationIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("reservations").Indexes()

	restaurantIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "restaurantId", Value: 1}},
		Options: options.Index().SetName("restaurantId_index"),
	}
	customerIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "customerId", Value: 1}},
		Options: options.Index().SetName("customerId_index"),
	}

	log.Println("EnsureReservationIndexes: creating restaurantId/customerId indexes")
	_, err := indexes.CreateMany(ctx, []mongo.IndexModel{restaurantIndex, customerIndex})
	if err != nil {
		log.Println("EnsureReservationIndexes: index error:", err)
		return err
	}
	return nil
}
