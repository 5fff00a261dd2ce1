package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"tablebook/internal/apperr"
	"tablebook/internal/authz"
	"tablebook/internal/models"
	"tablebook/internal/notify"
	"tablebook/internal/workflow"
)

/* =========================
   REQUEST DTOs
========================= */

type CreateReservationRequest struct {
	RestaurantID    string      `json:"restaurantId" binding:"required"`
	Date            string      `json:"date" binding:"required"`
	Time            string      `json:"time" binding:"required"`
	Guests          interface{} `json:"guests" binding:"required"`
	SpecialRequests string      `json:"specialRequests"`
}

type UpdateReservationRequest struct {
	Date            *string     `json:"date"`
	Time            *string     `json:"time"`
	Guests          interface{} `json:"guests"`
	SpecialRequests *string     `json:"specialRequests"`
	Status          *string     `json:"status"`
}

// ReservationResponse carries denormalized names so clients can render the
// booking without follow-up fetches.
type ReservationResponse struct {
	models.Reservation
	RestaurantName string `json:"restaurantName"`
	CustomerName   string `json:"customerName"`
}

/* =========================
   CREATE
========================= */

func CreateReservation(db *mongo.Database, hub *notify.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /reservations"
		defer handlePanic(c, route)

		caller := callerFrom(c)
		if err := authz.CanCreateReservation(caller); err != nil {
			respondAppError(c, route, err)
			return
		}

		var req CreateReservationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		restaurantID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.RestaurantID))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid restaurantId")
			return
		}

		date, err := parseReservationDate(req.Date)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		guests, err := coerceGuests(req.Guests)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		var restaurant models.Restaurant
		if err := db.Collection("restaurants").FindOne(ctx, bson.M{"_id": restaurantID}).Decode(&restaurant); err != nil {
			respondWithError(c, http.StatusNotFound, route, "restaurant not found")
			return
		}

		// No capacity or double-booking check: any number of reservations may
		// share a restaurant/date/time.
		reservation := models.Reservation{
			RestaurantID:    restaurantID,
			CustomerID:      caller.ID,
			Date:            date,
			Time:            strings.TrimSpace(req.Time),
			Guests:          guests,
			Status:          models.ReservationPending,
			SpecialRequests: req.SpecialRequests,
			CreatedAt:       time.Now(),
		}

		res, err := db.Collection("reservations").InsertOne(ctx, reservation)
		if err != nil {
			log.Println("[RESERVATION] [ERROR] insert failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			reservation.ID = id
		}

		customerName := lookupUserName(ctx, db, caller.ID)
		hub.EmitToRestaurantOwner(restaurant.OwnerID.Hex(), notify.EventNewReservation, map[string]any{
			"reservationId":  reservation.ID.Hex(),
			"restaurantId":   restaurantID.Hex(),
			"restaurantName": restaurant.Name,
			"customerName":   customerName,
			"date":           reservation.Date,
			"time":           reservation.Time,
			"guests":         reservation.Guests,
			"status":         reservation.Status,
		})

		log.Println("[RESERVATION] [INFO] created:", reservation.ID.Hex())
		c.JSON(http.StatusCreated, ReservationResponse{
			Reservation:    reservation,
			RestaurantName: restaurant.Name,
			CustomerName:   customerName,
		})
	}
}

/* =========================
   LIST
========================= */

func GetReservations(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /reservations"
		defer handlePanic(c, route)

		caller := callerFrom(c)

		ctx, cancel := requestContext(c)
		defer cancel()

		filter := bson.M{}
		switch caller.Role {
		case models.RoleCustomer:
			filter["customerId"] = caller.ID
		case models.RoleRestaurant:
			// Narrow by an explicit restaurantId only after re-validating
			// ownership; otherwise scope to every owned restaurant.
			if restaurantIDStr := strings.TrimSpace(c.Query("restaurantId")); restaurantIDStr != "" {
				restaurantID, err := primitive.ObjectIDFromHex(restaurantIDStr)
				if err != nil {
					respondWithError(c, http.StatusBadRequest, route, "invalid restaurantId")
					return
				}
				count, err := db.Collection("restaurants").CountDocuments(ctx, bson.M{
					"_id":     restaurantID,
					"ownerId": caller.ID,
				})
				if err != nil {
					respondWithError(c, http.StatusInternalServerError, route, "db error")
					return
				}
				if count == 0 {
					respondWithError(c, http.StatusNotFound, route, "restaurant not found or not owned by you")
					return
				}
				filter["restaurantId"] = restaurantID
			} else {
				ownedIDs, err := ownedRestaurantIDs(ctx, db, caller.ID)
				if err != nil {
					respondWithError(c, http.StatusInternalServerError, route, "db error")
					return
				}
				filter["restaurantId"] = bson.M{"$in": ownedIDs}
			}
			if customerIDStr := strings.TrimSpace(c.Query("customerId")); customerIDStr != "" {
				customerID, err := primitive.ObjectIDFromHex(customerIDStr)
				if err != nil {
					respondWithError(c, http.StatusBadRequest, route, "invalid customerId")
					return
				}
				filter["customerId"] = customerID
			}
		default:
			respondWithError(c, http.StatusForbidden, route, "forbidden")
			return
		}

		cursor, err := db.Collection("reservations").Find(ctx, filter)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		var reservations []models.Reservation
		if err := cursor.All(ctx, &reservations); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, decorateReservations(ctx, db, reservations))
	}
}

/* =========================
   UPDATE
========================= */

func UpdateReservation(db *mongo.Database, hub *notify.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /reservations/:id"
		defer handlePanic(c, route)

		caller := callerFrom(c)
		id, err := objectIDParam(c, "id")
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		var req UpdateReservationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		var reservation models.Reservation
		if err := db.Collection("reservations").FindOne(ctx, bson.M{"_id": id}).Decode(&reservation); err != nil {
			respondWithError(c, http.StatusNotFound, route, "reservation not found")
			return
		}

		var restaurant models.Restaurant
		if err := db.Collection("restaurants").FindOne(ctx, bson.M{"_id": reservation.RestaurantID}).Decode(&restaurant); err != nil {
			respondWithError(c, http.StatusNotFound, route, "restaurant not found")
			return
		}

		switch caller.Role {
		case models.RoleCustomer:
			if err := updateReservationAsCustomer(ctx, db, hub, caller, reservation, restaurant, req); err != nil {
				respondAppError(c, route, err)
				return
			}
		case models.RoleRestaurant:
			if err := updateReservationAsOwner(ctx, db, hub, caller, reservation, restaurant, req); err != nil {
				respondAppError(c, route, err)
				return
			}
		default:
			respondWithError(c, http.StatusForbidden, route, "forbidden")
			return
		}

		var updated models.Reservation
		if err := db.Collection("reservations").FindOne(ctx, bson.M{"_id": id}).Decode(&updated); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, ReservationResponse{
			Reservation:    updated,
			RestaurantName: restaurant.Name,
			CustomerName:   lookupUserName(ctx, db, updated.CustomerID),
		})
	}
}

// DeleteReservation is a route stub: the workflow never physically deletes
// bookings, cancellation is a status transition.
func DeleteReservation() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "reservations cannot be deleted; cancel them instead"})
	}
}

/* =========================
   UPDATE PATHS
========================= */

// updateReservationAsCustomer edits booking details. Status never changes on
// this path, and edits are rejected once the reservation left pending.
func updateReservationAsCustomer(ctx context.Context, db *mongo.Database, hub *notify.Hub, caller authz.Caller, reservation models.Reservation, restaurant models.Restaurant, req UpdateReservationRequest) error {
	if err := authz.CanEditReservation(caller, reservation); err != nil {
		return err
	}
	if err := workflow.CustomerMayEditReservation(reservation); err != nil {
		return err
	}

	update := bson.M{}
	if req.Date != nil {
		date, err := parseReservationDate(*req.Date)
		if err != nil {
			return err
		}
		update["date"] = date
	}
	if req.Time != nil {
		update["time"] = strings.TrimSpace(*req.Time)
	}
	if req.Guests != nil {
		guests, err := coerceGuests(req.Guests)
		if err != nil {
			return err
		}
		update["guests"] = guests
	}
	if req.SpecialRequests != nil {
		update["specialRequests"] = *req.SpecialRequests
	}

	if len(update) == 0 {
		return apperr.Validation("no fields to update")
	}

	if _, err := db.Collection("reservations").UpdateByID(ctx, reservation.ID, bson.M{"$set": update}); err != nil {
		return apperr.Upstream("db error")
	}

	hub.EmitToRestaurantOwner(restaurant.OwnerID.Hex(), notify.EventReservationUpdated, map[string]any{
		"reservationId":  reservation.ID.Hex(),
		"restaurantId":   reservation.RestaurantID.Hex(),
		"restaurantName": restaurant.Name,
		"customerName":   lookupUserName(ctx, db, reservation.CustomerID),
		"status":         reservation.Status,
	})
	return nil
}

// updateReservationAsOwner moves the booking through the status machine.
func updateReservationAsOwner(ctx context.Context, db *mongo.Database, hub *notify.Hub, caller authz.Caller, reservation models.Reservation, restaurant models.Restaurant, req UpdateReservationRequest) error {
	if err := authz.CanSetReservationStatus(caller, restaurant); err != nil {
		return err
	}
	if req.Status == nil {
		return apperr.Validation("status is required")
	}

	next := models.ReservationStatus(strings.TrimSpace(*req.Status))
	if err := workflow.CanTransitionReservation(reservation.Status, next, workflow.ActorRestaurant); err != nil {
		return err
	}

	if _, err := db.Collection("reservations").UpdateByID(ctx, reservation.ID, bson.M{
		"$set": bson.M{"status": next},
	}); err != nil {
		return apperr.Upstream("db error")
	}

	hub.EmitToUser(reservation.CustomerID.Hex(), notify.EventReservationUpdated, map[string]any{
		"reservationId":  reservation.ID.Hex(),
		"restaurantId":   reservation.RestaurantID.Hex(),
		"restaurantName": restaurant.Name,
		"status":         next,
		"date":           reservation.Date,
		"time":           reservation.Time,
		"guests":         reservation.Guests,
	})
	return nil
}

/* =========================
   HELPERS
========================= */

func parseReservationDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if date, err := time.Parse(layout, trimmed); err == nil {
			return date, nil
		}
	}
	return time.Time{}, apperr.Validation("invalid date")
}

// coerceGuests accepts a JSON number or a numeric string and rejects
// everything else.
func coerceGuests(value interface{}) (int, error) {
	switch v := value.(type) {
	case float64:
		guests := int(v)
		if float64(guests) != v || guests <= 0 {
			return 0, apperr.Validation("guests must be a positive integer")
		}
		return guests, nil
	case string:
		guests, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || guests <= 0 {
			return 0, apperr.Validation("guests must be a positive integer")
		}
		return guests, nil
	default:
		return 0, apperr.Validation("guests must be a positive integer")
	}
}

func ownedRestaurantIDs(ctx context.Context, db *mongo.Database, ownerID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cursor, err := db.Collection("restaurants").Find(ctx, bson.M{"ownerId": ownerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var restaurants []models.Restaurant
	if err := cursor.All(ctx, &restaurants); err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(restaurants))
	for _, restaurant := range restaurants {
		ids = append(ids, restaurant.ID)
	}
	return ids, nil
}

func lookupUserName(ctx context.Context, db *mongo.Database, userID primitive.ObjectID) string {
	var user models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return "Unknown Customer"
	}
	return user.Name
}

func lookupRestaurantName(ctx context.Context, db *mongo.Database, restaurantID primitive.ObjectID) string {
	var restaurant models.Restaurant
	if err := db.Collection("restaurants").FindOne(ctx, bson.M{"_id": restaurantID}).Decode(&restaurant); err != nil {
		return "Unknown Restaurant"
	}
	return restaurant.Name
}

func decorateReservations(ctx context.Context, db *mongo.Database, reservations []models.Reservation) []ReservationResponse {
	responses := make([]ReservationResponse, 0, len(reservations))
	for _, reservation := range reservations {
		responses = append(responses, ReservationResponse{
			Reservation:    reservation,
			RestaurantName: lookupRestaurantName(ctx, db, reservation.RestaurantID),
			CustomerName:   lookupUserName(ctx, db, reservation.CustomerID),
		})
	}
	return responses
}
