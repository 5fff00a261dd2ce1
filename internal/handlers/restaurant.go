package handlers

import (
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tablebook/internal/authz"
	"tablebook/internal/models"
)

/* =========================
   REQUEST DTOs
========================= */

type CreateRestaurantRequest struct {
	Name                   string `json:"name" binding:"required"`
	Description            string `json:"description"`
	Cuisine                string `json:"cuisine" binding:"required"`
	Location               string `json:"location" binding:"required"`
	Phone                  string `json:"phone"`
	Hours                  string `json:"hours"`
	PriceRange             string `json:"priceRange"`
	IsLgbtqFriendly        bool   `json:"isLgbtqFriendly"`
	IsSmokingAllowed       bool   `json:"isSmokingAllowed"`
	HasOutdoorSeating      bool   `json:"hasOutdoorSeating"`
	IsWheelchairAccessible bool   `json:"isWheelchairAccessible"`
	HasVeganOptions        bool   `json:"hasVeganOptions"`
	HasVegetarianOptions   bool   `json:"hasVegetarianOptions"`
}

type UpdateRestaurantRequest struct {
	Name                   *string `json:"name"`
	Description            *string `json:"description"`
	Cuisine                *string `json:"cuisine"`
	Location               *string `json:"location"`
	Phone                  *string `json:"phone"`
	Hours                  *string `json:"hours"`
	PriceRange             *string `json:"priceRange"`
	IsLgbtqFriendly        *bool   `json:"isLgbtqFriendly"`
	IsSmokingAllowed       *bool   `json:"isSmokingAllowed"`
	HasOutdoorSeating      *bool   `json:"hasOutdoorSeating"`
	IsWheelchairAccessible *bool   `json:"isWheelchairAccessible"`
	HasVeganOptions        *bool   `json:"hasVeganOptions"`
	HasVegetarianOptions   *bool   `json:"hasVegetarianOptions"`
}

/* =========================
   PUBLIC LIST / GET
========================= */

func GetRestaurants(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /restaurants"
		defer handlePanic(c, route)

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		filter := bson.M{}
		if cuisine := strings.TrimSpace(c.Query("cuisine")); cuisine != "" {
			filter["cuisine"] = cuisine
		}
		if location := strings.TrimSpace(c.Query("location")); location != "" {
			filter["location"] = location
		}
		if priceRange := strings.TrimSpace(c.Query("priceRange")); priceRange != "" {
			filter["priceRange"] = priceRange
		}
		for _, flag := range []string{
			"isLgbtqFriendly",
			"isSmokingAllowed",
			"hasOutdoorSeating",
			"isWheelchairAccessible",
			"hasVeganOptions",
			"hasVegetarianOptions",
		} {
			if strings.EqualFold(c.Query(flag), "true") {
				filter[flag] = true
			}
		}
		if search := strings.TrimSpace(c.Query("search")); search != "" {
			filter["$or"] = []bson.M{
				{"name": bson.M{"$regex": search, "$options": "i"}},
				{"cuisine": bson.M{"$regex": search, "$options": "i"}},
				{"location": bson.M{"$regex": search, "$options": "i"}},
				{"description": bson.M{"$regex": search, "$options": "i"}},
			}
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		total, err := db.Collection("restaurants").CountDocuments(ctx, filter)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		totalPages := int64(0)
		if total > 0 {
			totalPages = int64(math.Ceil(float64(total) / float64(limit)))
		}

		opts := options.Find().
			SetSkip((page - 1) * limit).
			SetLimit(limit).
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		cursor, err := db.Collection("restaurants").Find(ctx, filter, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		restaurants := make([]models.Restaurant, 0)
		if err := cursor.All(ctx, &restaurants); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"restaurants": restaurants,
			"page":        page,
			"limit":       limit,
			"total":       total,
			"totalPages":  totalPages,
		})
	}
}

func GetRestaurant(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /restaurants/:id"
		defer handlePanic(c, route)

		id, err := objectIDParam(c, "id")
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		var restaurant models.Restaurant
		if err := db.Collection("restaurants").FindOne(ctx, bson.M{"_id": id}).Decode(&restaurant); err != nil {
			respondWithError(c, http.StatusNotFound, route, "restaurant not found")
			return
		}

		c.JSON(http.StatusOK, restaurant)
	}
}

/* =========================
   OWNER CREATE / UPDATE
========================= */

func CreateRestaurant(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /restaurants"
		defer handlePanic(c, route)

		caller := callerFrom(c)
		if err := authz.CanCreateRestaurant(caller); err != nil {
			respondAppError(c, route, err)
			return
		}

		var req CreateRestaurantRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		// One restaurant per owner; the unique ownerId index backs this check.
		count, err := db.Collection("restaurants").CountDocuments(ctx, bson.M{"ownerId": caller.ID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if count > 0 {
			respondWithError(c, http.StatusConflict, route, "owner already has a restaurant")
			return
		}

		priceRange := strings.TrimSpace(req.PriceRange)
		if priceRange == "" {
			priceRange = models.PriceRangeMedium
		}

		restaurant := models.Restaurant{
			OwnerID:                caller.ID,
			Name:                   strings.TrimSpace(req.Name),
			Description:            strings.TrimSpace(req.Description),
			Cuisine:                strings.TrimSpace(req.Cuisine),
			Location:               strings.TrimSpace(req.Location),
			Phone:                  strings.TrimSpace(req.Phone),
			Hours:                  strings.TrimSpace(req.Hours),
			Images:                 []string{},
			Menu:                   []models.MenuCategory{},
			PriceRange:             priceRange,
			IsLgbtqFriendly:        req.IsLgbtqFriendly,
			IsSmokingAllowed:       req.IsSmokingAllowed,
			HasOutdoorSeating:      req.HasOutdoorSeating,
			IsWheelchairAccessible: req.IsWheelchairAccessible,
			HasVeganOptions:        req.HasVeganOptions,
			HasVegetarianOptions:   req.HasVegetarianOptions,
			CreatedAt:              time.Now(),
		}

		res, err := db.Collection("restaurants").InsertOne(ctx, restaurant)
		if err != nil {
			log.Println("[RESTAURANT] [ERROR] insert failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			restaurant.ID = id
		}

		log.Println("[RESTAURANT] [INFO] created:", restaurant.ID.Hex())
		c.JSON(http.StatusCreated, restaurant)
	}
}

func UpdateRestaurant(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /restaurants/:id"
		defer handlePanic(c, route)

		caller := callerFrom(c)
		id, err := objectIDParam(c, "id")
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		var restaurant models.Restaurant
		if err := db.Collection("restaurants").FindOne(ctx, bson.M{"_id": id}).Decode(&restaurant); err != nil {
			respondWithError(c, http.StatusNotFound, route, "restaurant not found")
			return
		}

		if err := authz.CanManageRestaurant(caller, restaurant); err != nil {
			respondAppError(c, route, err)
			return
		}

		var req UpdateRestaurantRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		update := bson.M{}
		if req.Name != nil {
			update["name"] = strings.TrimSpace(*req.Name)
		}
		if req.Description != nil {
			update["description"] = *req.Description
		}
		if req.Cuisine != nil {
			update["cuisine"] = strings.TrimSpace(*req.Cuisine)
		}
		if req.Location != nil {
			update["location"] = strings.TrimSpace(*req.Location)
		}
		if req.Phone != nil {
			update["phone"] = *req.Phone
		}
		if req.Hours != nil {
			update["hours"] = *req.Hours
		}
		if req.PriceRange != nil {
			update["priceRange"] = *req.PriceRange
		}
		if req.IsLgbtqFriendly != nil {
			update["isLgbtqFriendly"] = *req.IsLgbtqFriendly
		}
		if req.IsSmokingAllowed != nil {
			update["isSmokingAllowed"] = *req.IsSmokingAllowed
		}
		if req.HasOutdoorSeating != nil {
			update["hasOutdoorSeating"] = *req.HasOutdoorSeating
		}
		if req.IsWheelchairAccessible != nil {
			update["isWheelchairAccessible"] = *req.IsWheelchairAccessible
		}
		if req.HasVeganOptions != nil {
			update["hasVeganOptions"] = *req.HasVeganOptions
		}
		if req.HasVegetarianOptions != nil {
			update["hasVegetarianOptions"] = *req.HasVegetarianOptions
		}

		if len(update) == 0 {
			respondWithError(c, http.StatusBadRequest, route, "no fields to update")
			return
		}

		if _, err := db.Collection("restaurants").UpdateByID(ctx, id, bson.M{"$set": update}); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		var updated models.Restaurant
		if err := db.Collection("restaurants").FindOne(ctx, bson.M{"_id": id}).Decode(&updated); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

/* =========================
   DELETE + CASCADE
========================= */

// DeleteRestaurant removes the restaurant first, then its dependents. There
// are no cross-collection transactions: each cascade step is best-effort,
// logged on failure, and reported in the response so partial state is
// visible rather than silent.
func DeleteRestaurant(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /restaurants/:id"
		defer handlePanic(c, route)

		caller := callerFrom(c)
		id, err := objectIDParam(c, "id")
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		var restaurant models.Restaurant
		if err := db.Collection("restaurants").FindOne(ctx, bson.M{"_id": id}).Decode(&restaurant); err != nil {
			respondWithError(c, http.StatusNotFound, route, "restaurant not found")
			return
		}

		if err := authz.CanManageRestaurant(caller, restaurant); err != nil {
			respondAppError(c, route, err)
			return
		}

		if _, err := db.Collection("restaurants").DeleteOne(ctx, bson.M{"_id": id}); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		cascade := gin.H{}
		failed := make([]string, 0)
		for _, name := range []string{"reservations", "reviews", "favorites"} {
			res, err := db.Collection(name).DeleteMany(ctx, bson.M{"restaurantId": id})
			if err != nil {
				log.Printf("[RESTAURANT] [ERROR] cascade delete of %s failed for %s: %v", name, id.Hex(), err)
				failed = append(failed, name)
				continue
			}
			cascade[name] = res.DeletedCount
		}

		log.Println("[RESTAURANT] [INFO] deleted:", id.Hex())
		response := gin.H{"success": true, "deleted": cascade}
		if len(failed) > 0 {
			response["cascadeFailures"] = failed
		}
		c.JSON(http.StatusOK, response)
	}
}
