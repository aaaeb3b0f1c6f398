package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/noteshive/noteshive/internal/auth"
)

// Message types for tea.Cmd
type (
	// TickMsg is sent on each clock tick.
	TickMsg time.Time

	// sessionEventMsg reports a change to the saved session file.
	sessionEventMsg struct {
		Event auth.Event
	}
)

// tickCmd returns a command that ticks every second.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// waitSessionEvent blocks until the session watcher reports a change.
// It returns nil once the watcher has stopped.
func waitSessionEvent(events <-chan auth.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return sessionEventMsg{Event: ev}
	}
}
