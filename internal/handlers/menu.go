package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tablebook/internal/apperr"
	"tablebook/internal/authz"
	"tablebook/internal/models"
)

/* =========================
   REQUEST DTOs
========================= */

type MenuCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Order       *int   `json:"order"`
}

type MenuItemRequest struct {
	Name         string   `json:"name" binding:"required"`
	Description  string   `json:"description"`
	Price        *float64 `json:"price" binding:"required"`
	ImageURL     string   `json:"imageUrl"`
	IsAvailable  *bool    `json:"isAvailable"`
	Allergens    []string `json:"allergens"`
	IsVegetarian bool     `json:"isVegetarian"`
	IsVegan      bool     `json:"isVegan"`
	IsGlutenFree bool     `json:"isGlutenFree"`
}

// loadOwnedRestaurant fetches the restaurant and verifies the caller owns it.
func loadOwnedRestaurant(ctx context.Context, db *mongo.Database, caller authz.Caller, id primitive.ObjectID) (models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := db.Collection("restaurants").FindOne(ctx, bson.M{"_id": id}).Decode(&restaurant); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Restaurant{}, apperr.NotFound("restaurant not found")
		}
		return models.Restaurant{}, apperr.Upstream("db error")
	}
	if err := authz.CanManageRestaurant(caller, restaurant); err != nil {
		return models.Restaurant{}, err
	}
	return restaurant, nil
}

/* =========================
   CATEGORIES
========================= */

func CreateMenuCategory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /restaurants/:id/menu/categories"
		defer handlePanic(c, route)

		caller := callerFrom(c)
		restaurantID, err := objectIDParam(c, "id")
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		var req MenuCategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		restaurant, err := loadOwnedRestaurant(ctx, db, caller, restaurantID)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		order := len(restaurant.Menu) + 1
		if req.Order != nil {
			order = *req.Order
		}

		category := models.MenuCategory{
			ID:          primitive.NewObjectID(),
			Name:        strings.TrimSpace(req.Name),
			Description: strings.TrimSpace(req.Description),
			Order:       order,
			Items:       []models.MenuItem{},
		}

		if _, err := db.Collection("restaurants").UpdateByID(ctx, restaurantID, bson.M{
			"$push": bson.M{"menu": category},
		}); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusCreated, category)
	}
}

func UpdateMenuCategory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /restaurants/:id/menu/categories/:categoryId"
		defer handlePanic(c, route)

		caller := callerFrom(c)
		restaurantID, err := objectIDParam(c, "id")
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		categoryID, err := objectIDParam(c, "categoryId")
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		var req MenuCategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if _, err := loadOwnedRestaurant(ctx, db, caller, restaurantID); err != nil {
			respondAppError(c, route, err)
			return
		}

		update := bson.M{
			"menu.$.name":        strings.TrimSpace(req.Name),
			"menu.$.description": strings.TrimSpace(req.Description),
		}
		if req.Order != nil {
			update["menu.$.order"] = *req.Order
		}

		res, err := db.Collection("restaurants").UpdateOne(ctx,
			bson.M{"_id": restaurantID, "menu._id": categoryID},
			bson.M{"$set": update},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "category not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func DeleteMenuCategory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /restaurants/:id/menu/categories/:categoryId"
		defer handlePanic(c, route)

		caller := callerFrom(c)
		restaurantID, err := objectIDParam(c, "id")
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		categoryID, err := objectIDParam(c, "categoryId")
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if _, err := loadOwnedRestaurant(ctx, db, caller, restaurantID); err != nil {
			respondAppError(c, route, err)
			return
		}

		if _, err := db.Collection("restaurants").UpdateByID(ctx, restaurantID, bson.M{
			"$pull": bson.M{"menu": bson.M{"_id": categoryID}},
		}); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

/* =========================
   ITEMS
========================= */

func CreateMenuItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /restaurants/:id/menu/categories/:categoryId/items"
		defer handlePanic(c, route)

		caller := callerFrom(c)
		restaurantID, err := objectIDParam(c, "id")
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		categoryID, err := objectIDParam(c, "categoryId")
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		var req MenuItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		restaurant, err := loadOwnedRestaurant(ctx, db, caller, restaurantID)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		if !categoryExists(restaurant, categoryID) {
			respondWithError(c, http.StatusNotFound, route, "category not found")
			return
		}

		item := newMenuItem(primitive.NewObjectID(), req, time.Now(), nil)

		if _, err := db.Collection("restaurants").UpdateOne(ctx,
			bson.M{"_id": restaurantID, "menu._id": categoryID},
			bson.M{"$push": bson.M{"menu.$.items": item}},
		); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusCreated, item)
	}
}

func UpdateMenuItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /restaurants/:id/menu/categories/:categoryId/items/:itemId"
		defer handlePanic(c, route)

		caller := callerFrom(c)
		restaurantID, err := objectIDParam(c, "id")
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		categoryID, err := objectIDParam(c, "categoryId")
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		itemID, err := objectIDParam(c, "itemId")
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		var req MenuItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		restaurant, err := loadOwnedRestaurant(ctx, db, caller, restaurantID)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		original, ok := findMenuItem(restaurant, categoryID, itemID)
		if !ok {
			respondWithError(c, http.StatusNotFound, route, "menu item not found")
			return
		}

		now := time.Now()
		item := newMenuItem(itemID, req, original.CreatedAt, &now)

		arrayFilters := options.ArrayFilters{Filters: []interface{}{
			bson.M{"category._id": categoryID},
			bson.M{"item._id": itemID},
		}}

		if _, err := db.Collection("restaurants").UpdateOne(ctx,
			bson.M{"_id": restaurantID},
			bson.M{"$set": bson.M{"menu.$[category].items.$[item]": item}},
			options.Update().SetArrayFilters(arrayFilters),
		); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, item)
	}
}

func DeleteMenuItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /restaurants/:id/menu/categories/:categoryId/items/:itemId"
		defer handlePanic(c, route)

		caller := callerFrom(c)
		restaurantID, err := objectIDParam(c, "id")
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		categoryID, err := objectIDParam(c, "categoryId")
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		itemID, err := objectIDParam(c, "itemId")
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if _, err := loadOwnedRestaurant(ctx, db, caller, restaurantID); err != nil {
			respondAppError(c, route, err)
			return
		}

		if _, err := db.Collection("restaurants").UpdateOne(ctx,
			bson.M{"_id": restaurantID, "menu._id": categoryID},
			bson.M{"$pull": bson.M{"menu.$.items": bson.M{"_id": itemID}}},
		); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

/* =========================
   HELPERS
========================= */

func newMenuItem(id primitive.ObjectID, req MenuItemRequest, createdAt time.Time, updatedAt *time.Time) models.MenuItem {
	isAvailable := true
	if req.IsAvailable != nil {
		isAvailable = *req.IsAvailable
	}
	allergens := req.Allergens
	if allergens == nil {
		allergens = []string{}
	}
	price := 0.0
	if req.Price != nil {
		price = *req.Price
	}

	return models.MenuItem{
		ID:           id,
		Name:         strings.TrimSpace(req.Name),
		Description:  strings.TrimSpace(req.Description),
		Price:        price,
		ImageURL:     strings.TrimSpace(req.ImageURL),
		IsAvailable:  isAvailable,
		Allergens:    allergens,
		IsVegetarian: req.IsVegetarian,
		IsVegan:      req.IsVegan,
		IsGlutenFree: req.IsGlutenFree,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

func categoryExists(restaurant models.Restaurant, categoryID primitive.ObjectID) bool {
	for _, category := range restaurant.Menu {
		if category.ID == categoryID {
			return true
		}
	}
	return false
}

func findMenuItem(restaurant models.Restaurant, categoryID, itemID primitive.ObjectID) (models.MenuItem, bool) {
	for _, category := range restaurant.Menu {
		if category.ID != categoryID {
			continue
		}
		for _, item := range category.Items {
			if item.ID == itemID {
				return item, true
			}
		}
	}
	return models.MenuItem{}, false
}
