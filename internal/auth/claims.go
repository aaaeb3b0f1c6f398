package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the fields the client reads from a session token.
// The signature is never checked here: the service owns the signing key.
type Claims struct {
	UserID string `json:"userId,omitempty"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// ParseClaims decodes a JWT without verifying it.
func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	return claims, nil
}

// IDTokenProfile is the profile carried by a Google ID token.
type IDTokenProfile struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	jwt.RegisteredClaims
}

// ParseIDToken decodes the profile claims of a Google ID token.
func ParseIDToken(idToken string) (*IDTokenProfile, error) {
	p := &IDTokenProfile{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, p); err != nil {
		return nil, fmt.Errorf("decode id token: %w", err)
	}
	return p, nil
}
