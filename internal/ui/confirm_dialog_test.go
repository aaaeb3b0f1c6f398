package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestNewConfirmDialog(t *testing.T) {
	d := NewConfirmDialog("Test Title", "Test message")

	if d.Title != "Test Title" {
		t.Errorf("expected title 'Test Title', got %q", d.Title)
	}
	if d.Message != "Test message" {
		t.Errorf("expected message 'Test message', got %q", d.Message)
	}
	if d.ConfirmLabel != " Confirm " {
		t.Errorf("expected default confirm label ' Confirm ', got %q", d.ConfirmLabel)
	}
	if d.CancelLabel != " Cancel " {
		t.Errorf("expected default cancel label ' Cancel ', got %q", d.CancelLabel)
	}
	if d.Width != ModalWidthMedium {
		t.Errorf("expected width %d, got %d", ModalWidthMedium, d.Width)
	}
}

func TestConfirmDialog_View(t *testing.T) {
	d := NewConfirmDialog("Delete Note?", "Are you sure?")
	d.ConfirmLabel = " Delete "

	output := d.View()

	for _, want := range []string{"Delete Note?", "Are you sure?", "Delete", "Cancel"} {
		if !strings.Contains(output, want) {
			t.Errorf("render should contain %q", want)
		}
	}
}

func TestConfirmDialog_HandleKey(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyMsg
		want ConfirmResult
	}{
		{"enter confirms by default", []tea.KeyMsg{{Type: tea.KeyEnter}}, ConfirmAccepted},
		{"tab then enter cancels", []tea.KeyMsg{{Type: tea.KeyTab}, {Type: tea.KeyEnter}}, ConfirmCancelled},
		{"y confirms", []tea.KeyMsg{{Type: tea.KeyRunes, Runes: []rune("y")}}, ConfirmAccepted},
		{"n cancels", []tea.KeyMsg{{Type: tea.KeyRunes, Runes: []rune("n")}}, ConfirmCancelled},
		{"esc cancels", []tea.KeyMsg{{Type: tea.KeyEsc}}, ConfirmCancelled},
		{"unrelated key waits", []tea.KeyMsg{{Type: tea.KeyRunes, Runes: []rune("x")}}, ConfirmPending},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := NewConfirmDialog("Test", "Message")
			got := ConfirmPending
			for _, k := range tc.keys {
				got = d.HandleKey(k)
			}
			if got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestConfirmDialog_FocusCancel(t *testing.T) {
	d := NewConfirmDialog("Test", "Message")
	d.FocusCancel()
	if !d.CancelFocused() {
		t.Fatal("cancel should have focus")
	}
	if got := d.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}); got != ConfirmCancelled {
		t.Errorf("enter with cancel focused = %v", got)
	}
}
