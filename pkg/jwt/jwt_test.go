package jwt

import (
	"testing"
	"time"

	"go-medical-scheduling/config"

	"github.com/google/uuid"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Minute, RefreshExpiry: time.Hour})
	userID := uuid.New()

	token, tokenID, err := svc.GenerateAccessToken(userID, "doc@example.com", 2)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != userID || claims.RoleID != 2 || claims.TokenID != tokenID || claims.TokenType != AccessToken {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestJWTService_RejectsForeignSecret(t *testing.T) {
	issuer := NewJWTService(config.JWTConfig{Secret: "a", AccessExpiry: time.Minute})
	verifier := NewJWTService(config.JWTConfig{Secret: "b", AccessExpiry: time.Minute})

	token, _, err := issuer.GenerateAccessToken(uuid.New(), "p@example.com", 3)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := verifier.ValidateToken(token); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestJWTService_RejectsExpired(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "s", AccessExpiry: -time.Minute})
	token, _, err := svc.GenerateAccessToken(uuid.New(), "p@example.com", 3)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ValidateToken(token); err == nil {
		t.Fatal("expected expiry error")
	}
}
