package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tablebook/internal/models"
)

type CreateFavoriteRequest struct {
	RestaurantID string `json:"restaurantId" binding:"required"`
}

// FavoriteRestaurantSummary is the slice of restaurant data a favorites
// list needs to render.
type FavoriteRestaurantSummary struct {
	ID      primitive.ObjectID `json:"id"`
	Name    string             `json:"name"`
	Cuisine string             `json:"cuisine"`
	Rating  *float64           `json:"rating,omitempty"`
}

type FavoriteResponse struct {
	models.Favorite
	Restaurant *FavoriteRestaurantSummary `json:"restaurant,omitempty"`
}

func GetFavorites(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /favorites"
		defer handlePanic(c, route)

		caller := callerFrom(c)
		if caller.Role != models.RoleCustomer {
			respondWithError(c, http.StatusForbidden, route, "only customers have favorites")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("favorites").Find(ctx, bson.M{"customerId": caller.ID}, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		var favorites []models.Favorite
		if err := cursor.All(ctx, &favorites); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		responses := make([]FavoriteResponse, 0, len(favorites))
		for _, favorite := range favorites {
			responses = append(responses, FavoriteResponse{
				Favorite:   favorite,
				Restaurant: favoriteRestaurantSummary(c, db, favorite.RestaurantID),
			})
		}

		c.JSON(http.StatusOK, responses)
	}
}

func CreateFavorite(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /favorites"
		defer handlePanic(c, route)

		caller := callerFrom(c)
		if caller.Role != models.RoleCustomer {
			respondWithError(c, http.StatusForbidden, route, "only customers can favorite restaurants")
			return
		}

		var req CreateFavoriteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		restaurantID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.RestaurantID))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid restaurantId")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		count, err := db.Collection("restaurants").CountDocuments(ctx, bson.M{"_id": restaurantID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if count == 0 {
			respondWithError(c, http.StatusNotFound, route, "restaurant not found")
			return
		}

		existing, err := db.Collection("favorites").CountDocuments(ctx, bson.M{
			"customerId":   caller.ID,
			"restaurantId": restaurantID,
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if existing > 0 {
			respondWithError(c, http.StatusConflict, route, "restaurant already in favorites")
			return
		}

		favorite := models.Favorite{
			CustomerID:   caller.ID,
			RestaurantID: restaurantID,
			CreatedAt:    time.Now(),
		}
		res, err := db.Collection("favorites").InsertOne(ctx, favorite)
		if err != nil {
			log.Println("[FAVORITE] [ERROR] insert failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			favorite.ID = id
		}

		c.JSON(http.StatusCreated, FavoriteResponse{
			Favorite:   favorite,
			Restaurant: favoriteRestaurantSummary(c, db, restaurantID),
		})
	}
}

func DeleteFavorite(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /favorites/:id"
		defer handlePanic(c, route)

		caller := callerFrom(c)
		id, err := objectIDParam(c, "id")
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		// Scoping the delete to the caller makes someone else's favorite
		// indistinguishable from a missing one.
		res, err := db.Collection("favorites").DeleteOne(ctx, bson.M{
			"_id":        id,
			"customerId": caller.ID,
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.DeletedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "favorite not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func favoriteRestaurantSummary(c *gin.Context, db *mongo.Database, restaurantID primitive.ObjectID) *FavoriteRestaurantSummary {
	ctx, cancel := requestContext(c)
	defer cancel()

	var restaurant models.Restaurant
	if err := db.Collection("restaurants").FindOne(ctx, bson.M{"_id": restaurantID}).Decode(&restaurant); err != nil {
		return nil
	}
	return &FavoriteRestaurantSummary{
		ID:      restaurant.ID,
		Name:    restaurant.Name,
		Cuisine: restaurant.Cuisine,
		Rating:  restaurant.Rating,
	}
}
