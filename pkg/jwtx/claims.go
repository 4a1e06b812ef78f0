package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionMaxAge is how long a session token stays valid after it is
// minted. There is no sliding expiry, exp is fixed at mint time.
const DefaultSessionMaxAge = 30 * 24 * time.Hour

// Claims are the session-token claims shared with the Analysis Backend. The
// JSON layout matches what the backend already verifies, so field names are
// not ours to change.
type Claims struct {
	jwt.RegisteredClaims

	// UserID mirrors Subject. The backend reads either.
	UserID string `json:"id,omitempty"`

	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// NewSessionClaims builds claims for the internal user id. Timestamps are
// left empty so Encode can default them.
func NewSessionClaims(subject, email, name, picture string) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: subject,
		},
		UserID:  subject,
		Email:   email,
		Name:    name,
		Picture: picture,
	}
}

// IssuedAtTime returns iat or the zero time.
func (c *Claims) IssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// ExpiresAtTime returns exp or the zero time.
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}
