package msg

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Toast durations.
const (
	ToastShort = 2 * time.Second
	ToastLong  = 4 * time.Second
)

// ToastMsg displays a temporary message.
type ToastMsg struct {
	Message  string
	Duration time.Duration
	IsError  bool // true for error toasts (red), false for success (green)
}

// ShowToast returns a command to show a toast message.
func ShowToast(message string, duration time.Duration) tea.Cmd {
	return func() tea.Msg {
		return ToastMsg{
			Message:  message,
			Duration: duration,
		}
	}
}

// ShowError returns a command to show an error toast.
// A blank message produces no toast.
func ShowError(message string) tea.Cmd {
	if message == "" {
		return nil
	}
	return func() tea.Msg {
		return ToastMsg{
			Message:  message,
			Duration: ToastLong,
			IsError:  true,
		}
	}
}
