package handlers

import (
	"context"
	"log"
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
	"tablebook/internal/notify"
	"tablebook/internal/rating"
	"tablebook/internal/workflow"
)

/* =========================
   REQUEST DTOs
========================= */

type CreateReviewRequest struct {
	RestaurantID string   `json:"restaurantId" binding:"required"`
	Rating       *int     `json:"rating" binding:"required"`
	Comment      string   `json:"comment" binding:"required"`
	Images       []string `json:"images"`
}

// UpdateReviewRequest serves both sides: customers send rating/comment/
// images, owners send reply/status. The handler picks the fields the caller
// is allowed to touch.
type UpdateReviewRequest struct {
	Rating  *int      `json:"rating"`
	Comment *string   `json:"comment"`
	Images  *[]string `json:"images"`
	Reply   *string   `json:"reply"`
	Status  *string   `json:"status"`
}

// ReviewResponse carries denormalized names for display.
type ReviewResponse struct {
	models.Review
	CustomerName   string `json:"customerName"`
	RestaurantName string `json:"restaurantName"`
}

/* =========================
   CREATE
========================= */

func CreateReview(db *mongo.Database, hub *notify.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /reviews"
		defer handlePanic(c, route)

		caller := callerFrom(c)
		if err := authz.CanCreateReview(caller); err != nil {
			respondAppError(c, route, err)
			return
		}

		var req CreateReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if err := workflow.ValidateReviewRating(*req.Rating); err != nil {
			respondAppError(c, route, err)
			return
		}

		restaurantID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.RestaurantID))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid restaurantId")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		var restaurant models.Restaurant
		if err := db.Collection("restaurants").FindOne(ctx, bson.M{"_id": restaurantID}).Decode(&restaurant); err != nil {
			respondWithError(c, http.StatusNotFound, route, "restaurant not found")
			return
		}

		// One review per customer per restaurant; the unique index is the
		// backstop for races.
		count, err := db.Collection("reviews").CountDocuments(ctx, bson.M{
			"restaurantId": restaurantID,
			"customerId":   caller.ID,
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if count > 0 {
			respondWithError(c, http.StatusConflict, route, "you have already reviewed this restaurant")
			return
		}

		images := req.Images
		if images == nil {
			images = []string{}
		}

		review := models.Review{
			RestaurantID: restaurantID,
			CustomerID:   caller.ID,
			Rating:       *req.Rating,
			Comment:      req.Comment,
			Images:       images,
			Status:       models.ReviewPending,
			Helpful:      0,
			ReportCount:  0,
			Date:         time.Now(),
		}

		res, err := db.Collection("reviews").InsertOne(ctx, review)
		if err != nil {
			log.Println("[REVIEW] [ERROR] insert failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			review.ID = id
		}

		// A pending review never touches the restaurant's rating; that
		// happens on approval.
		customerName := lookupUserName(ctx, db, caller.ID)
		hub.EmitToRestaurantOwner(restaurant.OwnerID.Hex(), notify.EventNewReview, map[string]any{
			"reviewId":       review.ID.Hex(),
			"restaurantId":   restaurantID.Hex(),
			"restaurantName": restaurant.Name,
			"customerName":   customerName,
			"rating":         review.Rating,
			"status":         review.Status,
		})

		log.Println("[REVIEW] [INFO] created:", review.ID.Hex())
		c.JSON(http.StatusCreated, ReviewResponse{
			Review:         review,
			CustomerName:   customerName,
			RestaurantName: restaurant.Name,
		})
	}
}

/* =========================
   LIST / GET
========================= */

func GetReviews(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /reviews"
		defer handlePanic(c, route)

		restaurantIDStr := strings.TrimSpace(c.Query("restaurantId"))
		customerIDStr := strings.TrimSpace(c.Query("customerId"))
		if restaurantIDStr == "" && customerIDStr == "" {
			respondWithError(c, http.StatusBadRequest, route, "either restaurantId or customerId is required")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		filter := bson.M{}
		var restaurantID primitive.ObjectID
		if restaurantIDStr != "" {
			id, err := primitive.ObjectIDFromHex(restaurantIDStr)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid restaurantId")
				return
			}
			restaurantID = id
			filter["restaurantId"] = id
		}
		if customerIDStr != "" {
			id, err := primitive.ObjectIDFromHex(customerIDStr)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid customerId")
				return
			}
			filter["customerId"] = id
		}

		// Public callers only see approved reviews; the restaurant's owner
		// sees every status for their own restaurant.
		if status := strings.TrimSpace(c.Query("status")); status != "" {
			filter["status"] = models.ReviewStatus(status)
		} else {
			filter["status"] = models.ReviewApproved
		}

		caller := callerFrom(c)
		if caller.Role == models.RoleRestaurant && restaurantIDStr != "" {
			count, err := db.Collection("restaurants").CountDocuments(ctx, bson.M{
				"_id":     restaurantID,
				"ownerId": caller.ID,
			})
			if err != nil {
				log.Println("[REVIEW] [ERROR] owner scope check failed:", err)
			}
			if ownerWidensListing(count, err, strings.TrimSpace(c.Query("status"))) {
				delete(filter, "status")
			}
		}

		opts := options.Find().SetSort(reviewSort(c.Query("sortBy"), c.Query("sortOrder")))

		cursor, err := db.Collection("reviews").Find(ctx, filter, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		var reviews []models.Review
		if err := cursor.All(ctx, &reviews); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, decorateReviews(ctx, db, reviews))
	}
}

func GetReview(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /reviews/:id"
		defer handlePanic(c, route)

		id, err := objectIDParam(c, "id")
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		var review models.Review
		if err := db.Collection("reviews").FindOne(ctx, bson.M{"_id": id}).Decode(&review); err != nil {
			respondWithError(c, http.StatusNotFound, route, "review not found")
			return
		}

		c.JSON(http.StatusOK, ReviewResponse{
			Review:         review,
			CustomerName:   lookupUserName(ctx, db, review.CustomerID),
			RestaurantName: lookupRestaurantName(ctx, db, review.RestaurantID),
		})
	}
}

/* =========================
   UPDATE
========================= */

func UpdateReview(db *mongo.Database, hub *notify.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /reviews/:id"
		defer handlePanic(c, route)

		caller := callerFrom(c)
		id, err := objectIDParam(c, "id")
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		var req UpdateReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		var review models.Review
		if err := db.Collection("reviews").FindOne(ctx, bson.M{"_id": id}).Decode(&review); err != nil {
			respondWithError(c, http.StatusNotFound, route, "review not found")
			return
		}

		var restaurant models.Restaurant
		if err := db.Collection("restaurants").FindOne(ctx, bson.M{"_id": review.RestaurantID}).Decode(&restaurant); err != nil {
			respondWithError(c, http.StatusNotFound, route, "restaurant not found")
			return
		}

		switch caller.Role {
		case models.RoleCustomer:
			if err := updateReviewAsCustomer(ctx, db, hub, caller, review, restaurant, req); err != nil {
				respondAppError(c, route, err)
				return
			}
		case models.RoleRestaurant:
			if err := updateReviewAsOwner(ctx, db, hub, caller, review, restaurant, req); err != nil {
				respondAppError(c, route, err)
				return
			}
		default:
			respondWithError(c, http.StatusForbidden, route, "forbidden")
			return
		}

		var updated models.Review
		if err := db.Collection("reviews").FindOne(ctx, bson.M{"_id": id}).Decode(&updated); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, ReviewResponse{
			Review:         updated,
			CustomerName:   lookupUserName(ctx, db, updated.CustomerID),
			RestaurantName: restaurant.Name,
		})
	}
}

// updateReviewAsCustomer edits content and always resets the review to
// pending: an edited review must be re-moderated. If the review was
// approved, it just left the approved set, so the rating is recomputed
// against the post-edit status.
func updateReviewAsCustomer(ctx context.Context, db *mongo.Database, hub *notify.Hub, caller authz.Caller, review models.Review, restaurant models.Restaurant, req UpdateReviewRequest) error {
	if err := authz.CanEditReviewContent(caller, review); err != nil {
		return err
	}

	if req.Rating == nil && req.Comment == nil && req.Images == nil {
		return apperr.Validation("either rating, comment or images is required")
	}
	if req.Rating != nil {
		if err := workflow.ValidateReviewRating(*req.Rating); err != nil {
			return err
		}
	}

	update := bson.M{
		"status":    models.ReviewPending,
		"updatedAt": time.Now(),
	}
	if req.Rating != nil {
		update["rating"] = *req.Rating
	}
	if req.Comment != nil {
		update["comment"] = *req.Comment
	}
	if req.Images != nil {
		update["images"] = *req.Images
	}

	if _, err := db.Collection("reviews").UpdateByID(ctx, review.ID, bson.M{"$set": update}); err != nil {
		return apperr.Upstream("db error")
	}

	if workflow.AffectsApprovedSet(review.Status, models.ReviewPending) {
		rating.RecomputeBestEffort(ctx, db, review.RestaurantID)
	}

	hub.EmitToRestaurantOwner(restaurant.OwnerID.Hex(), notify.EventReviewUpdated, map[string]any{
		"reviewId":       review.ID.Hex(),
		"restaurantId":   review.RestaurantID.Hex(),
		"restaurantName": restaurant.Name,
		"customerName":   lookupUserName(ctx, db, review.CustomerID),
		"status":         models.ReviewPending,
	})
	return nil
}

// updateReviewAsOwner handles replies and status moderation on the generic
// update route.
func updateReviewAsOwner(ctx context.Context, db *mongo.Database, hub *notify.Hub, caller authz.Caller, review models.Review, restaurant models.Restaurant, req UpdateReviewRequest) error {
	if err := authz.CanModerateReview(caller, restaurant); err != nil {
		return err
	}

	update := bson.M{"updatedAt": time.Now()}
	if req.Reply != nil {
		update["reply"] = *req.Reply
	}

	statusChanged := false
	next := review.Status
	if req.Status != nil {
		next = models.ReviewStatus(strings.TrimSpace(*req.Status))
		if err := workflow.CanModerateReview(next); err != nil {
			return err
		}
		update["status"] = next
		statusChanged = true
	}

	if req.Reply == nil && req.Status == nil {
		return apperr.Validation("either reply or status is required")
	}

	if _, err := db.Collection("reviews").UpdateByID(ctx, review.ID, bson.M{"$set": update}); err != nil {
		return apperr.Upstream("db error")
	}

	if statusChanged && workflow.AffectsApprovedSet(review.Status, next) {
		rating.RecomputeBestEffort(ctx, db, review.RestaurantID)
	}

	if statusChanged {
		hub.EmitToUser(review.CustomerID.Hex(), notify.EventReviewModerated, map[string]any{
			"reviewId":       review.ID.Hex(),
			"restaurantId":   review.RestaurantID.Hex(),
			"restaurantName": restaurant.Name,
			"status":         next,
		})
	}
	return nil
}

/* =========================
   DELETE
========================= */

// DeleteReview removes the review first and recomputes after, so the
// deleted review can never be counted.
func DeleteReview(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /reviews/:id"
		defer handlePanic(c, route)

		caller := callerFrom(c)
		id, err := objectIDParam(c, "id")
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		var review models.Review
		if err := db.Collection("reviews").FindOne(ctx, bson.M{"_id": id}).Decode(&review); err != nil {
			respondWithError(c, http.StatusNotFound, route, "review not found")
			return
		}

		var restaurant models.Restaurant
		if err := db.Collection("restaurants").FindOne(ctx, bson.M{"_id": review.RestaurantID}).Decode(&restaurant); err != nil {
			respondWithError(c, http.StatusNotFound, route, "restaurant not found")
			return
		}

		if err := authz.CanDeleteReview(caller, review, restaurant); err != nil {
			respondAppError(c, route, err)
			return
		}

		if _, err := db.Collection("reviews").DeleteOne(ctx, bson.M{"_id": id}); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		rating.RecomputeBestEffort(ctx, db, review.RestaurantID)

		log.Println("[REVIEW] [INFO] deleted:", id.Hex())
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

/* =========================
   HELPERS
========================= */

// ownerWidensListing reports whether an owner's listing drops the default
// approved-only filter. A failed ownership check falls back to the public
// view instead of widening, and an explicit status filter always wins.
func ownerWidensListing(count int64, err error, explicitStatus string) bool {
	if err != nil {
		return false
	}
	return count > 0 && explicitStatus == ""
}

func reviewSort(sortBy, sortOrder string) bson.D {
	order := -1
	if strings.EqualFold(sortOrder, "asc") {
		order = 1
	}
	switch sortBy {
	case "rating":
		return bson.D{{Key: "rating", Value: order}}
	case "helpful":
		return bson.D{{Key: "helpful", Value: order}}
	default:
		return bson.D{{Key: "date", Value: order}}
	}
}

func decorateReviews(ctx context.Context, db *mongo.Database, reviews []models.Review) []ReviewResponse {
	responses := make([]ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		responses = append(responses, ReviewResponse{
			Review:         review,
			CustomerName:   lookupUserName(ctx, db, review.CustomerID),
			RestaurantName: lookupRestaurantName(ctx, db, review.RestaurantID),
		})
	}
	return responses
}
