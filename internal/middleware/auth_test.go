package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestParseBearerValidToken(t *testing.T) {
	userID := primitive.NewObjectID()
	token := signToken(t, jwt.MapClaims{
		"userId": userID.Hex(),
		"role":   "customer",
		"exp":    time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	parsedID, role, authErr := parseBearer("Bearer "+token, testSecret)
	if authErr != nil {
		t.Fatalf("expected valid token, got %s", authErr.reason)
	}
	if parsedID != userID {
		t.Fatalf("expected userId %s, got %s", userID.Hex(), parsedID.Hex())
	}
	if role != "customer" {
		t.Fatalf("expected role customer, got %s", role)
	}
}

func TestParseBearerMissingHeader(t *testing.T) {
	if _, _, authErr := parseBearer("", testSecret); authErr == nil {
		t.Fatal("expected error for missing header")
	}
	if _, _, authErr := parseBearer("   ", testSecret); authErr == nil {
		t.Fatal("expected error for blank header")
	}
}

func TestParseBearerBadFormat(t *testing.T) {
	for _, header := range []string{"token-without-scheme", "Basic abc", "Bearer"} {
		if _, _, authErr := parseBearer(header, testSecret); authErr == nil {
			t.Fatalf("expected error for header %q", header)
		}
	}
}

func TestParseBearerWrongSecret(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"userId": primitive.NewObjectID().Hex(),
		"role":   "customer",
		"exp":    time.Now().Add(time.Hour).Unix(),
	}, "other-secret")

	if _, _, authErr := parseBearer("Bearer "+token, testSecret); authErr == nil {
		t.Fatal("expected error for token signed with another secret")
	}
}

func TestParseBearerExpiredToken(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"userId": primitive.NewObjectID().Hex(),
		"role":   "customer",
		"exp":    time.Now().Add(-time.Minute).Unix(),
	}, testSecret)

	if _, _, authErr := parseBearer("Bearer "+token, testSecret); authErr == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestParseBearerMissingClaims(t *testing.T) {
	missingRole := signToken(t, jwt.MapClaims{
		"userId": primitive.NewObjectID().Hex(),
		"exp":    time.Now().Add(time.Hour).Unix(),
	}, testSecret)
	if _, _, authErr := parseBearer("Bearer "+missingRole, testSecret); authErr == nil {
		t.Fatal("expected error for token without role claim")
	}

	badUserID := signToken(t, jwt.MapClaims{
		"userId": "not-an-object-id",
		"role":   "customer",
		"exp":    time.Now().Add(time.Hour).Unix(),
	}, testSecret)
	if _, _, authErr := parseBearer("Bearer "+badUserID, testSecret); authErr == nil {
		t.Fatal("expected error for malformed userId claim")
	}
}
