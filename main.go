package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"tablebook/internal/config"
	"tablebook/internal/database"
	"tablebook/internal/handlers"
	"tablebook/internal/middleware"
	"tablebook/internal/models"
	"tablebook/internal/notify"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Println("⚠️ user index warning:", err)
	}
	if err := database.EnsureRestaurantIndexes(db); err != nil {
		log.Println("⚠️ restaurant index warning:", err)
	}
	if err := database.EnsureReviewIndexes(db); err != nil {
		log.Println("⚠️ review index warning:", err)
	}
	if err := database.EnsureFavoriteIndexes(db); err != nil {
		log.Println("⚠️ favorite index warning:", err)
	}
	if err := database.EnsureReservationIndexes(db); err != nil {
		log.Println("⚠️ reservation index warning:", err)
	}

	hub := notify.NewHub()
	secret := config.AppEnv.JWTSecret

	r := gin.Default()
	r.Static("/public", "./"+config.AppEnv.PublicBaseDir)

	r.GET("/health", handlers.Health(db))

	r.POST("/auth/register", handlers.Register(db, secret, config.AppEnv.AccessTokenTTL, config.AppEnv.RefreshTokenTTL))
	r.POST("/auth/login", handlers.Login(db, secret, config.AppEnv.AccessTokenTTL, config.AppEnv.RefreshTokenTTL))
	r.POST("/auth/refresh", handlers.Refresh(db, secret, config.AppEnv.AccessTokenTTL, config.AppEnv.RefreshTokenTTL))
	r.POST("/auth/logout", handlers.Logout(db))
	r.GET("/auth/me", middleware.UserAuth(secret), handlers.GetMe(db))

	// Browsing is public. Review listings widen for an authenticated owner,
	// so they take an optional token.
	r.GET("/restaurants", handlers.GetRestaurants(db))
	r.GET("/restaurants/:id", handlers.GetRestaurant(db))
	r.GET("/reviews", middleware.OptionalAuth(secret), handlers.GetReviews(db))
	r.GET("/reviews/:id", handlers.GetReview(db))

	restaurants := r.Group("/restaurants")
	restaurants.Use(middleware.RequireRole(secret, models.RoleRestaurant))
	{
		restaurants.POST("", handlers.CreateRestaurant(db))
		restaurants.PUT("/:id", handlers.UpdateRestaurant(db))
		restaurants.DELETE("/:id", handlers.DeleteRestaurant(db))

		restaurants.POST("/:id/menu/categories", handlers.CreateMenuCategory(db))
		restaurants.PUT("/:id/menu/categories/:categoryId", handlers.UpdateMenuCategory(db))
		restaurants.DELETE("/:id/menu/categories/:categoryId", handlers.DeleteMenuCategory(db))
		restaurants.POST("/:id/menu/categories/:categoryId/items", handlers.CreateMenuItem(db))
		restaurants.PUT("/:id/menu/categories/:categoryId/items/:itemId", handlers.UpdateMenuItem(db))
		restaurants.DELETE("/:id/menu/categories/:categoryId/items/:itemId", handlers.DeleteMenuItem(db))
	}

	authed := r.Group("/")
	authed.Use(middleware.UserAuth(secret))
	{
		authed.POST("/reservations", handlers.CreateReservation(db, hub))
		authed.GET("/reservations", handlers.GetReservations(db))
		authed.PUT("/reservations/:id", handlers.UpdateReservation(db, hub))
		authed.DELETE("/reservations/:id", handlers.DeleteReservation())

		authed.POST("/reviews", handlers.CreateReview(db, hub))
		authed.PUT("/reviews/:id", handlers.UpdateReview(db, hub))
		authed.DELETE("/reviews/:id", handlers.DeleteReview(db))
		authed.PUT("/reviews/:id/moderate", handlers.ModerateReview(db, hub))
		authed.POST("/reviews/:id/helpful", handlers.MarkReviewHelpful(db))
		authed.POST("/reviews/:id/report", handlers.ReportReview(db, hub))

		authed.GET("/favorites", handlers.GetFavorites(db))
		authed.POST("/favorites", handlers.CreateFavorite(db))
		authed.DELETE("/favorites/:id", handlers.DeleteFavorite(db))

		authed.GET("/users/profile", handlers.GetProfile(db))
		authed.PUT("/users/profile", handlers.UpdateProfile(db))
		authed.PUT("/users/password", handlers.ChangePassword(db))
		authed.GET("/users/settings", handlers.GetSettings(db))
		authed.PUT("/users/settings", handlers.UpdateSettings(db))

		authed.POST("/upload", handlers.UploadImage())
		authed.GET("/events", handlers.StreamEvents(hub))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
