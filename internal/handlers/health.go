package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// Health reports whether the service can reach its database.
func Health(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /health"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := ensureDBConnection(ctx, db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unreachable")
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
