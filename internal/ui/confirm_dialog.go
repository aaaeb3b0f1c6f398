package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noteshive/noteshive/internal/styles"
)

// Modal widths shared by dialogs and overlays.
const (
	ModalWidthSmall  = 40
	ModalWidthMedium = 50
	ModalWidthLarge  = 72
)

// ConfirmResult is the outcome of a key press on a ConfirmDialog.
type ConfirmResult int

const (
	ConfirmPending ConfirmResult = iota
	ConfirmAccepted
	ConfirmCancelled
)

// ConfirmDialog is a reusable confirmation modal with interactive buttons.
type ConfirmDialog struct {
	Title        string
	Message      string
	ConfirmLabel string         // e.g., " Confirm ", " Delete ", " Yes "
	CancelLabel  string         // e.g., " Cancel ", " No "
	BorderColor  lipgloss.Color // Modal border color
	Width        int            // Modal width (default 50)

	cancelFocused bool
}

// NewConfirmDialog creates a dialog with sensible defaults.
func NewConfirmDialog(title, message string) *ConfirmDialog {
	return &ConfirmDialog{
		Title:        title,
		Message:      message,
		ConfirmLabel: " Confirm ",
		CancelLabel:  " Cancel ",
		BorderColor:  styles.Primary,
		Width:        ModalWidthMedium,
	}
}

// FocusCancel moves focus to the cancel button.
func (d *ConfirmDialog) FocusCancel() { d.cancelFocused = true }

// CancelFocused reports whether the cancel button has focus.
func (d *ConfirmDialog) CancelFocused() bool { return d.cancelFocused }

// HandleKey moves focus between the buttons and resolves the dialog.
// y and n answer directly; enter picks the focused button.
func (d *ConfirmDialog) HandleKey(msg tea.KeyMsg) ConfirmResult {
	switch msg.String() {
	case "tab", "shift+tab", "left", "right", "h", "l":
		d.cancelFocused = !d.cancelFocused
	case "enter":
		if d.cancelFocused {
			return ConfirmCancelled
		}
		return ConfirmAccepted
	case "y", "Y":
		return ConfirmAccepted
	case "n", "N", "esc", "q":
		return ConfirmCancelled
	}
	return ConfirmPending
}

// View renders the dialog box. Callers composite it with OverlayModal.
func (d *ConfirmDialog) View() string {
	width := d.Width
	if width <= 0 {
		width = ModalWidthMedium
	}
	inner := width - 6 // border + padding

	confirm, cancel := styles.ButtonFocused, styles.Button
	if d.BorderColor == styles.Error {
		confirm, cancel = styles.ButtonDangerFocused, styles.Button
	}
	if d.cancelFocused {
		confirm, cancel = styles.Button, styles.ButtonFocused
		if d.BorderColor == styles.Error {
			confirm = styles.ButtonDanger
		}
	}

	var sb strings.Builder
	sb.WriteString(styles.ModalTitle.Render(d.Title))
	sb.WriteString("\n")
	sb.WriteString(lipgloss.NewStyle().Width(inner).Render(d.Message))
	sb.WriteString("\n\n")
	sb.WriteString(confirm.Render(strings.TrimSpace(d.ConfirmLabel)))
	sb.WriteString("  ")
	sb.WriteString(cancel.Render(strings.TrimSpace(d.CancelLabel)))

	return styles.ModalBoxFor(d.BorderColor).Width(width - 2).Render(sb.String())
}
