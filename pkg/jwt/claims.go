package jwt

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ScopeTranscribe grants access to the /v1/transcribe endpoints
const ScopeTranscribe = "transcribe"

// Claims are the CapNotes access token claims
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Scope  string    `json:"scope"`
	// Dev marks long-lived tokens minted by cmd/token
	Dev bool `json:"dev,omitempty"`
	jwt.RegisteredClaims
}

// Allows reports whether the token carries the given scope
func (c *Claims) Allows(scope string) bool {
	for _, s := range strings.Fields(c.Scope) {
		if s == scope {
			return true
		}
	}
	return false
}

func newClaims(issuer string, userID uuid.UUID, email string, expiry time.Duration, dev bool) *Claims {
	now := time.Now()
	return &Claims{
		UserID: userID,
		Email:  email,
		Scope:  ScopeTranscribe,
		Dev:    dev,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   userID.String(),
		},
	}
}
