package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/noteshive/noteshive/internal/auth"
)

// APIError is a non-2xx response from the service.
type APIError struct {
	Status     int
	StatusText string
	// Message is the service's own explanation, when it sent one.
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s: %s", e.Status, e.StatusText, e.Message)
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.StatusText)
}

// ServiceMessage returns the text the service provided for the user, if any.
func (e *APIError) ServiceMessage() string { return e.Message }

// Unauthorized reports whether the credential was rejected.
func (e *APIError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

func newAPIError(resp *http.Response, body []byte, requestID string) *APIError {
	e := &APIError{
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
		RequestID:  requestID,
	}
	var payload struct {
		Error   any    `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		switch v := payload.Error.(type) {
		case string:
			e.Message = v
		case map[string]any:
			if m, ok := v["message"].(string); ok {
				e.Message = m
			}
		}
		if e.Message == "" {
			e.Message = payload.Message
		}
	}
	e.Message = strings.TrimSpace(e.Message)
	return e
}

// ErrorText is the message shown for a failed sign-in or account call: the service's
// text, else the status line, else the error itself.
func ErrorText(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fmt.Sprintf("Error %d: %s", apiErr.Status, apiErr.StatusText)
	}
	return err.Error()
}

// IsUnauthorized reports whether err means the session is missing or rejected.
func IsUnauthorized(err error) bool {
	if errors.Is(err, auth.ErrNoCredential) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Unauthorized()
}
