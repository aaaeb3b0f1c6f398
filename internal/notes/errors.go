package notes

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalTransition is returned when an editor operation is not valid in the current state.
	ErrIllegalTransition = errors.New("illegal editor transition")
	// ErrGenerationInFlight is returned when a generation is requested while one is running.
	ErrGenerationInFlight = errors.New("content generation already in progress")
	// ErrEmptyContent is returned when generation is requested for blank content.
	ErrEmptyContent = errors.New("nothing to generate from")
	// ErrSaveInFlight is returned when a save is requested while one is running.
	ErrSaveInFlight = errors.New("save already in progress")
)

// Action identifies a user-initiated store or session operation.
type Action string

const (
	ActionLoad     Action = "load"
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionGenerate Action = "generate"
)

// fallbackMessages are shown when the service did not explain a failure.
var fallbackMessages = map[Action]string{
	ActionLoad:     "Failed to fetch notes",
	ActionCreate:   "Failed to create note",
	ActionUpdate:   "Failed to update note",
	ActionDelete:   "Failed to delete note",
	ActionGenerate: "Failed to generate content",
}

// ServiceMessager is implemented by service errors that carry text meant for the user.
type ServiceMessager interface {
	ServiceMessage() string
}

// ActionError wraps a failure of a single user action.
type ActionError struct {
	Action Action
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Action, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }

// Message returns the single human-readable message for the failed action.
func (e *ActionError) Message() string {
	var sm ServiceMessager
	if errors.As(e.Err, &sm) {
		if text := sm.ServiceMessage(); text != "" {
			return text
		}
	}
	if text, ok := fallbackMessages[e.Action]; ok {
		return text
	}
	return "Something went wrong"
}

// UserMessage returns the display text for any error produced by this package.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ae *ActionError
	if errors.As(err, &ae) {
		return ae.Message()
	}
	return err.Error()
}
