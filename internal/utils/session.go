package utils

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionCookieName is the single cookie carrying the signed session token.
// Sessions are cookie-only; no bearer tokens are issued.
const SessionCookieName = "session"

// SessionClaims is the identity embedded in a session token.
type SessionClaims struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

type sessionTokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateSessionToken creates a signed session token for the given identity.
func GenerateSessionToken(secret string, claims SessionClaims, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &sessionTokenClaims{
		Email: claims.Email,
		Role:  claims.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.UserID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
	return token.SignedString([]byte(secret))
}

// ParseSessionToken validates a session token and returns the embedded identity.
func ParseSessionToken(secret, tokenString string) (SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionTokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return SessionClaims{}, err
	}

	claims, ok := token.Claims.(*sessionTokenClaims)
	if !ok || !token.Valid {
		return SessionClaims{}, jwt.ErrTokenInvalidClaims
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return SessionClaims{}, err
	}

	return SessionClaims{UserID: userID, Email: claims.Email, Role: claims.Role}, nil
}

// NewSessionCookie builds the httpOnly session cookie.
func NewSessionCookie(token string, ttl time.Duration, secure bool) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}

// ExpiredSessionCookie builds a cookie that clears the session.
func ExpiredSessionCookie(secure bool) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}
