package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	claims := SessionClaims{
		UserID: uuid.New(),
		Email:  "user@example.com",
		Role:   "customer",
	}

	token, err := GenerateSessionToken("secret", claims, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	parsed, err := ParseSessionToken("secret", token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if parsed != claims {
		t.Errorf("expected %+v, got %+v", claims, parsed)
	}
}

func TestSessionTokenWrongSecret(t *testing.T) {
	token, err := GenerateSessionToken("secret", SessionClaims{UserID: uuid.New()}, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := ParseSessionToken("other-secret", token); err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestSessionTokenExpired(t *testing.T) {
	token, err := GenerateSessionToken("secret", SessionClaims{UserID: uuid.New()}, -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := ParseSessionToken("secret", token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestSessionTokenUnsignedAlgorithmRejected(t *testing.T) {
	userID := uuid.New()
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":   userID.String(),
		"email": "user@example.com",
		"role":  "admin",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := ParseSessionToken("secret", token); err == nil {
		t.Error("expected error for token using the none algorithm")
	}
}

func TestSessionTokenGarbage(t *testing.T) {
	if _, err := ParseSessionToken("secret", "not-a-token"); err == nil {
		t.Error("expected error for malformed token")
	}
}
