package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/noteshive/noteshive/internal/auth"
)

type wireUser struct {
	MongoID        string `json:"_id"`
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profilePicture"`
}

func (w *wireUser) user() auth.User {
	if w == nil {
		return auth.User{}
	}
	id := w.ID
	if id == "" {
		id = w.MongoID
	}
	return auth.User{ID: id, Name: w.Name, Email: w.Email, ProfilePicture: w.ProfilePicture}
}

type authResponse struct {
	Token   string    `json:"token"`
	User    *wireUser `json:"user"`
	Message string    `json:"message"`
}

// LoginResult is the outcome of a sign-in step. Session is nil when the service sent a
// one-time code instead of signing the user in.
type LoginResult struct {
	Session *auth.Session
	Message string
}

func (r authResponse) result() *LoginResult {
	res := &LoginResult{Message: r.Message}
	if r.Token != "" {
		res.Session = &auth.Session{Token: r.Token, User: r.User.user()}
	}
	return res
}

func (c *Client) authCall(ctx context.Context, path string, body any) (*LoginResult, error) {
	var resp authResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: path, body: body}, &resp); err != nil {
		return nil, err
	}
	return resp.result(), nil
}

// Login starts email sign-in. Most accounts receive a one-time code.
func (c *Client) Login(ctx context.Context, email string) (*LoginResult, error) {
	return c.authCall(ctx, "/auth/login", map[string]string{"email": email})
}

// VerifyOTP completes email sign-in with the one-time code.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (*LoginResult, error) {
	res, err := c.authCall(ctx, "/auth/verify-otp", map[string]string{"email": email, "otp": otp})
	if err != nil {
		return nil, err
	}
	if res.Session == nil {
		return nil, fmt.Errorf("verify otp: %w", auth.ErrNoCredential)
	}
	return res, nil
}

// ResendOTP sends a fresh one-time code.
func (c *Client) ResendOTP(ctx context.Context, email string) (string, error) {
	res, err := c.authCall(ctx, "/auth/resend-otp", map[string]string{"email": email})
	if err != nil {
		return "", err
	}
	return res.Message, nil
}

// SignupRequest registers a new account. DOB is formatted YYYY-MM-DD.
type SignupRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	DOB   string `json:"dob"`
}

// Signup creates an account and sends a one-time code to verify it.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (string, error) {
	res, err := c.authCall(ctx, "/auth/signup", req)
	if err != nil {
		return "", err
	}
	return res.Message, nil
}

// GoogleLogin signs in with a Google ID token.
func (c *Client) GoogleLogin(ctx context.Context, id *auth.GoogleIdentity) (*LoginResult, error) {
	body := map[string]any{
		"idToken": id.IDToken,
		"userData": map[string]string{
			"email":   id.Email,
			"name":    id.Name,
			"picture": id.Picture,
		},
	}
	res, err := c.authCall(ctx, "/auth/google", body)
	if err != nil {
		return nil, err
	}
	if res.Session == nil {
		return nil, fmt.Errorf("google login: %w", auth.ErrNoCredential)
	}
	return res, nil
}

// UploadProfilePicture replaces the user's avatar and returns its new URL.
func (c *Client) UploadProfilePicture(ctx context.Context, filename string, image io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filepath.Base(filename))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, image); err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	var raw json.RawMessage
	req := request{
		method:      http.MethodPost,
		path:        "/users/profile-picture",
		raw:         &buf,
		contentType: mw.FormDataContentType(),
		auth:        true,
	}
	if err := c.do(ctx, req, &raw); err != nil {
		return "", err
	}
	var resp struct {
		ProfilePicture string `json:"profilePicture"`
	}
	if err := json.Unmarshal(unwrap(raw), &resp); err != nil {
		return "", fmt.Errorf("decode profile picture: %w", err)
	}
	return resp.ProfilePicture, nil
}
