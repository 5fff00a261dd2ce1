package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"tablebook/internal/authz"
	"tablebook/internal/models"
	"tablebook/internal/notify"
	"tablebook/internal/rating"
	"tablebook/internal/workflow"
)

type ModerateReviewRequest struct {
	Status string `json:"status" binding:"required"`
}

type ReportReviewRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ModerateReview sets a review's moderation status. Any status can move to
// any other, so an owner can reverse an earlier call.
func ModerateReview(db *mongo.Database, hub *notify.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /reviews/:id/moderate"
		defer handlePanic(c, route)

		caller := callerFrom(c)
		id, err := objectIDParam(c, "id")
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		var req ModerateReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		next := models.ReviewStatus(strings.TrimSpace(req.Status))
		if err := workflow.CanModerateReview(next); err != nil {
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

		if err := authz.CanModerateReview(caller, restaurant); err != nil {
			respondAppError(c, route, err)
			return
		}

		if _, err := db.Collection("reviews").UpdateByID(ctx, id, bson.M{"$set": bson.M{
			"status":    next,
			"updatedAt": time.Now(),
		}}); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if workflow.AffectsApprovedSet(review.Status, next) {
			rating.RecomputeBestEffort(ctx, db, review.RestaurantID)
		}

		hub.EmitToUser(review.CustomerID.Hex(), notify.EventReviewModerated, map[string]any{
			"reviewId":       id.Hex(),
			"restaurantId":   review.RestaurantID.Hex(),
			"restaurantName": restaurant.Name,
			"status":         next,
		})

		log.Println("[REVIEW] [INFO] moderated:", id.Hex(), "->", next)
		c.JSON(http.StatusOK, gin.H{"success": true, "status": next})
	}
}

// MarkReviewHelpful increments the helpful counter. Repeat votes from the
// same user are not deduplicated.
func MarkReviewHelpful(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /reviews/:id/helpful"
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

		if err := workflow.MayMarkHelpful(review); err != nil {
			respondAppError(c, route, err)
			return
		}
		if err := authz.CanMarkHelpful(caller, review); err != nil {
			respondAppError(c, route, err)
			return
		}

		if _, err := db.Collection("reviews").UpdateByID(ctx, id, bson.M{"$inc": bson.M{"helpful": 1}}); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "helpful": review.Helpful + 1})
	}
}

// ReportReview records a report and bumps the review's report count. When
// the count reaches the threshold the review is pushed back to pending so
// the owner has to re-moderate it, and the author is told their review left
// the approved set.
func ReportReview(db *mongo.Database, hub *notify.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /reviews/:id/report"
		defer handlePanic(c, route)

		caller := callerFrom(c)
		id, err := objectIDParam(c, "id")
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		var req ReportReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if err := authz.CanReportReview(caller); err != nil {
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

		report := models.Report{
			ReviewID:   id,
			ReporterID: caller.ID,
			Reason:     req.Reason,
			Date:       time.Now(),
			Status:     "pending",
		}
		if _, err := db.Collection("reports").InsertOne(ctx, report); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		newCount := review.ReportCount + 1
		update := bson.M{"$inc": bson.M{"reportCount": 1}}
		forced := workflow.ForcesRemoderation(newCount)
		if forced {
			update["$set"] = bson.M{"status": models.ReviewPending, "updatedAt": time.Now()}
		}

		if _, err := db.Collection("reviews").UpdateByID(ctx, id, update); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if forced {
			if workflow.AffectsApprovedSet(review.Status, models.ReviewPending) {
				rating.RecomputeBestEffort(ctx, db, review.RestaurantID)
			}
			notifyForcedRemoderation(hub, review, lookupRestaurantName(ctx, db, review.RestaurantID))
			log.Println("[REVIEW] [WARN] report threshold reached, review forced back to pending:", id.Hex())
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "reportCount": newCount})
	}
}

// notifyForcedRemoderation tells the author their review was pushed back to
// pending by the report threshold, mirroring owner-driven moderation.
func notifyForcedRemoderation(hub *notify.Hub, review models.Review, restaurantName string) {
	hub.EmitToUser(review.CustomerID.Hex(), notify.EventReviewModerated, map[string]any{
		"reviewId":       review.ID.Hex(),
		"restaurantId":   review.RestaurantID.Hex(),
		"restaurantName": restaurantName,
		"status":         models.ReviewPending,
	})
}
