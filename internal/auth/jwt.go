package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformedToken = errors.New("malformed token")
	ErrNoExpiry       = errors.New("token has no exp claim")
)

// Claims are the parts of the backend token the client reads. Everything else
// in the token is opaque.
type Claims struct {
	ID   string `json:"id,omitempty"`
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// The client never holds the signing key, so tokens are decoded without
// signature verification. The server remains the authority on validity.
var parser = jwt.NewParser()

// ParseClaims decodes the token payload
func ParseClaims(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMalformedToken
	}
	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return claims, nil
}

// ExpiresAt returns the token's exp claim
func ExpiresAt(tokenString string) (time.Time, error) {
	claims, err := ParseClaims(tokenString)
	if err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if exp == nil {
		return time.Time{}, ErrNoExpiry
	}
	return exp.Time, nil
}

// Expired reports whether the token is no longer usable at now. A token that
// cannot be decoded, or carries no exp, counts as expired and the decode error
// is returned alongside.
func Expired(tokenString string, now time.Time) (bool, error) {
	exp, err := ExpiresAt(tokenString)
	if err != nil {
		return true, err
	}
	// exp is whole seconds; compare in milliseconds
	return exp.UnixMilli() < now.UnixMilli(), nil
}
