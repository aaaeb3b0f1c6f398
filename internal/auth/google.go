package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var errNoIDToken = errors.New("google did not return an id token")

// GoogleFlow runs the OAuth code flow for a desktop client and yields the ID token the
// notes service accepts at /auth/google.
type GoogleFlow struct {
	config *oauth2.Config
	state  string
}

// NewGoogleFlow reads OAuth client credentials (the JSON downloaded from the Google
// console) from credentialsPath.
func NewGoogleFlow(credentialsPath string) (*GoogleFlow, error) {
	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("read google credentials: %w", err)
	}
	return NewGoogleFlowFromJSON(data)
}

// NewGoogleFlowFromJSON builds a flow from credentials JSON.
func NewGoogleFlowFromJSON(data []byte) (*GoogleFlow, error) {
	cfg, err := google.ConfigFromJSON(data, "openid", "email", "profile")
	if err != nil {
		return nil, fmt.Errorf("parse google credentials: %w", err)
	}
	return newGoogleFlow(cfg), nil
}

func newGoogleFlow(cfg *oauth2.Config) *GoogleFlow {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return &GoogleFlow{config: cfg, state: hex.EncodeToString(b)}
}

// AuthURL is the page the user opens to grant access.
func (g *GoogleFlow) AuthURL() string {
	return g.config.AuthCodeURL(g.state, oauth2.AccessTypeOnline)
}

// GoogleIdentity is what the notes service needs to sign a Google user in.
type GoogleIdentity struct {
	IDToken string
	Email   string
	Name    string
	Picture string
}

// Exchange trades the pasted authorization code for the user's ID token and profile.
func (g *GoogleFlow) Exchange(ctx context.Context, code string) (*GoogleIdentity, error) {
	tok, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	raw, _ := tok.Extra("id_token").(string)
	if raw == "" {
		return nil, errNoIDToken
	}
	profile, err := ParseIDToken(raw)
	if err != nil {
		return nil, err
	}
	return &GoogleIdentity{
		IDToken: raw,
		Email:   profile.Email,
		Name:    profile.Name,
		Picture: profile.Picture,
	}, nil
}
