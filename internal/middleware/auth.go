package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Context keys set by UserAuth.
const (
	ContextUserID = "userId"
	ContextRole   = "role"
)

// UserAuth validates the Bearer token and injects the caller's id and role
// into the context. 401 on any failure; role gating is a separate concern.
func UserAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, role, err := parseBearer(c.GetHeader("Authorization"), secret)
		if err != nil {
			log.Println("[AUTH] [ERROR]", err.reason)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.message})
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextRole, role)
		c.Next()
	}
}

// RequireRole layers a role check on top of UserAuth.
func RequireRole(secret string, allowedRoles ...string) gin.HandlerFunc {
	auth := UserAuth(secret)
	return func(c *gin.Context) {
		auth(c)
		if c.IsAborted() {
			return
		}

		role := c.GetString(ContextRole)
		for _, allowed := range allowedRoles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	}
}

// OptionalAuth injects the caller when a valid token is present and stays
// silent otherwise. Used by public endpoints that widen results for owners.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.TrimSpace(c.GetHeader("Authorization")) == "" {
			c.Next()
			return
		}
		userID, role, err := parseBearer(c.GetHeader("Authorization"), secret)
		if err == nil {
			c.Set(ContextUserID, userID)
			c.Set(ContextRole, role)
		}
		c.Next()
	}
}

type authError struct {
	reason  string // logged
	message string // returned to the client
}

func parseBearer(header, secret string) (primitive.ObjectID, string, *authError) {
	raw := strings.TrimSpace(header)
	if raw == "" {
		return primitive.NilObjectID, "", &authError{reason: "missing token", message: "missing token"}
	}

	parts := strings.Split(raw, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return primitive.NilObjectID, "", &authError{reason: "invalid token format", message: "invalid token"}
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return primitive.NilObjectID, "", &authError{reason: "token validation failed", message: "unauthorized"}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return primitive.NilObjectID, "", &authError{reason: "token claims invalid", message: "unauthorized"}
	}

	userIDValue, ok := claims["userId"].(string)
	if !ok || strings.TrimSpace(userIDValue) == "" {
		return primitive.NilObjectID, "", &authError{reason: "userId claim missing", message: "unauthorized"}
	}

	userID, err := primitive.ObjectIDFromHex(userIDValue)
	if err != nil {
		return primitive.NilObjectID, "", &authError{reason: "invalid userId claim", message: "unauthorized"}
	}

	role, _ := claims["role"].(string)
	if role == "" {
		return primitive.NilObjectID, "", &authError{reason: "role claim missing", message: "unauthorized"}
	}

	return userID, role, nil
}
