package middleware

import (
	"testing"
	"time"

	"instituteadmin_go/config"
	"instituteadmin_go/models"

	"github.com/golang-jwt/jwt/v4"
)

func TestGenerateTokenRoundTrip(t *testing.T) {
	config.AppConfig = &config.Config{
		JWTSecret:    "test-secret-at-least-sixteen",
		JWTExpiresIn: time.Hour,
	}

	user := &models.User{
		Username:   "frontdesk",
		Role:       "staff",
		LocationID: 3,
	}
	user.ID = 42

	tokenString, err := GenerateToken(user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.JWTSecret), nil
	})
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		t.Fatal("expected valid claims")
	}
	if claims.UserID != 42 || claims.Username != "frontdesk" || claims.Role != "staff" || claims.LocationID != 3 {
		t.Fatalf("claims do not match user: %+v", claims)
	}
	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) > time.Hour {
		t.Fatalf("unexpected expiry: %v", claims.ExpiresAt)
	}
}

func TestGenerateTokenRejectsWrongSecret(t *testing.T) {
	config.AppConfig = &config.Config{
		JWTSecret:    "test-secret-at-least-sixteen",
		JWTExpiresIn: time.Hour,
	}

	user := &models.User{Username: "frontdesk", Role: "staff"}
	user.ID = 1

	tokenString, err := GenerateToken(user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte("a-different-secret-entirely"), nil
	})
	if err == nil {
		t.Fatal("expected parse to fail with the wrong secret")
	}
}
