// Package auth holds the signed-in user's credential and the ways of obtaining it.
package auth

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrNoCredential is returned when a request needs a token and none is present.
	ErrNoCredential = errors.New("not signed in")
	// ErrNoSession is returned when no session has been saved.
	ErrNoSession = errors.New("no saved session")
)

// User is the profile returned by the auth endpoints.
type User struct {
	ID             string `json:"id,omitempty"`
	Name           string `json:"name,omitempty"`
	Email          string `json:"email,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// DisplayName returns the name to greet the user with.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if u.Email != "" {
		return u.Email
	}
	return "there"
}

// Session is an explicit credential passed to the API client.
type Session struct {
	Token   string    `json:"token"`
	User    User      `json:"user"`
	SavedAt time.Time `json:"savedAt"`
}

// BearerToken returns the token for the Authorization header.
func (s *Session) BearerToken() (string, error) {
	if s == nil || strings.TrimSpace(s.Token) == "" {
		return "", ErrNoCredential
	}
	return s.Token, nil
}

// Valid reports whether the session holds a token that has not expired at now.
// Tokens without a readable expiry are treated as valid; the service decides.
func (s *Session) Valid(now time.Time) bool {
	if _, err := s.BearerToken(); err != nil {
		return false
	}
	claims, err := ParseClaims(s.Token)
	if err != nil || claims.ExpiresAt == nil {
		return true
	}
	return now.Before(claims.ExpiresAt.Time)
}
