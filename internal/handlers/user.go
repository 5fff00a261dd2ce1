package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"tablebook/internal/apperr"
	"tablebook/internal/models"
)

type UpdateProfileRequest struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	Bio          *string `json:"bio"`
	ProfileImage *string `json:"profileImage"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// UpdateSettingsRequest mirrors UserSettings with optional sections so a
// client can patch one section without resending the others.
type UpdateSettingsRequest struct {
	Notifications   *models.NotificationSettings    `json:"notifications"`
	Privacy         *models.PrivacySettings         `json:"privacy"`
	Personalization *models.PersonalizationSettings `json:"personalization"`
}

func GetProfile(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /users/profile"
		defer handlePanic(c, route)

		caller := callerFrom(c)
		ctx, cancel := requestContext(c)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": caller.ID}).Decode(&user); err != nil {
			respondWithError(c, http.StatusNotFound, route, "user not found")
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

func UpdateProfile(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /users/profile"
		defer handlePanic(c, route)

		caller := callerFrom(c)

		var req UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		update := bson.M{"updatedAt": time.Now()}
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				respondWithError(c, http.StatusBadRequest, route, "name cannot be empty")
				return
			}
			update["name"] = name
		}
		if req.Phone != nil {
			update["phone"] = strings.TrimSpace(*req.Phone)
		}
		if req.Bio != nil {
			update["bio"] = *req.Bio
		}
		if req.ProfileImage != nil {
			update["profileImage"] = *req.ProfileImage
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		var previous models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": caller.ID}).Decode(&previous); err != nil {
			respondWithError(c, http.StatusNotFound, route, "user not found")
			return
		}

		if _, err := db.Collection("users").UpdateByID(ctx, caller.ID, bson.M{"$set": update}); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if req.ProfileImage != nil && previous.ProfileImage != "" && previous.ProfileImage != *req.ProfileImage {
			if err := safeDeleteUpload(previous.ProfileImage); err != nil {
				log.Println("[USER] [WARN] could not delete previous profile image:", err)
			}
		}

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": caller.ID}).Decode(&user); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

func ChangePassword(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /users/password"
		defer handlePanic(c, route)

		caller := callerFrom(c)

		var req ChangePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": caller.ID}).Decode(&user); err != nil {
			respondWithError(c, http.StatusNotFound, route, "user not found")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
			respondWithError(c, http.StatusUnauthorized, route, "current password is incorrect")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "could not hash password")
			return
		}

		if _, err := db.Collection("users").UpdateByID(ctx, caller.ID, bson.M{"$set": bson.M{
			"passwordHash": string(hash),
			"updatedAt":    time.Now(),
		}}); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Println("[USER] [INFO] password changed:", caller.ID.Hex())
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// GetSettings returns the user's stored settings merged over the defaults
// for their role, so users created before a setting existed still get a
// complete document.
func GetSettings(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /users/settings"
		defer handlePanic(c, route)

		caller := callerFrom(c)
		ctx, cancel := requestContext(c)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": caller.ID}).Decode(&user); err != nil {
			respondWithError(c, http.StatusNotFound, route, "user not found")
			return
		}

		settings := DefaultSettings(user.Role)
		if user.Settings != nil {
			settings = *user.Settings
		}

		c.JSON(http.StatusOK, settings)
	}
}

func UpdateSettings(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /users/settings"
		defer handlePanic(c, route)

		caller := callerFrom(c)

		var req UpdateSettingsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": caller.ID}).Decode(&user); err != nil {
			respondWithError(c, http.StatusNotFound, route, "user not found")
			return
		}

		current := DefaultSettings(user.Role)
		if user.Settings != nil {
			current = *user.Settings
		}

		merged, err := MergeSettings(current, req)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		if _, err := db.Collection("users").UpdateByID(ctx, caller.ID, bson.M{"$set": bson.M{
			"settings":  merged,
			"updatedAt": time.Now(),
		}}); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, merged)
	}
}

// DefaultSettings builds the settings a fresh account starts with. Owners
// get the review and reservation visibility toggles that customers do not
// have.
func DefaultSettings(role string) models.UserSettings {
	settings := models.UserSettings{
		Notifications: models.NotificationSettings{
			Email:                true,
			Marketing:            false,
			ReservationReminders: true,
			ReservationUpdates:   true,
			SpecialOffers:        false,
		},
		Privacy: models.PrivacySettings{
			ProfileVisibility:     "public",
			ShowReviews:           true,
			ShareDataWithPartners: false,
		},
		Personalization: models.PersonalizationSettings{
			Theme:      "system",
			Language:   "en",
			Currency:   "USD",
			DateFormat: "MM/DD/YYYY",
			TimeFormat: "12h",
		},
	}
	if role == models.RoleRestaurant {
		settings.Notifications.NewReviews = true
		settings.Privacy.ShowReservations = true
	}
	return settings
}

// MergeSettings applies the sections present in the request over the
// current settings, validating enum fields.
func MergeSettings(current models.UserSettings, req UpdateSettingsRequest) (models.UserSettings, error) {
	merged := current
	if req.Notifications != nil {
		merged.Notifications = *req.Notifications
	}
	if req.Privacy != nil {
		switch req.Privacy.ProfileVisibility {
		case "public", "registered", "private":
		default:
			return current, apperr.Validation("profileVisibility must be public, registered or private")
		}
		merged.Privacy = *req.Privacy
	}
	if req.Personalization != nil {
		switch req.Personalization.Theme {
		case "light", "dark", "system":
		default:
			return current, apperr.Validation("theme must be light, dark or system")
		}
		switch req.Personalization.DateFormat {
		case "MM/DD/YYYY", "DD/MM/YYYY", "YYYY-MM-DD":
		default:
			return current, apperr.Validation("dateFormat must be MM/DD/YYYY, DD/MM/YYYY or YYYY-MM-DD")
		}
		switch req.Personalization.TimeFormat {
		case "12h", "24h":
		default:
			return current, apperr.Validation("timeFormat must be 12h or 24h")
		}
		merged.Personalization = *req.Personalization
	}
	return merged, nil
}
