package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func plainLines(s string) []string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = ansi.Strip(l)
	}
	return lines
}

func TestOverlayModal(t *testing.T) {
	tests := []struct {
		name       string
		background string
		modal      string
		width      int
		height     int
		want       []string
	}{
		{
			name:       "centered",
			background: "line1\nline2\nline3\nline4\nline5",
			modal:      "[M]",
			width:      10,
			height:     5,
			want:       []string{"line1", "line2", "lin[M]", "line4", "line5"},
		},
		{
			name:       "background shorter than screen",
			background: "a\nb",
			modal:      "MODAL",
			width:      9,
			height:     3,
			want:       []string{"a", "b MODAL", ""},
		},
		{
			name:       "right side of background kept",
			background: "..........\n..........\n..........",
			modal:      "XX",
			width:      10,
			height:     3,
			want:       []string{"..........", "....XX....", ".........."},
		},
		{
			name:       "wide modal clipped",
			background: "",
			modal:      "ABCDEFGHIJKL",
			width:      5,
			height:     1,
			want:       []string{"ABCDE"},
		},
		{
			name:       "tall modal clipped",
			background: "",
			modal:      "1\n2\n3\n4\n5",
			width:      3,
			height:     3,
			want:       []string{" 1", " 2", " 3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := plainLines(OverlayModal(tt.background, tt.modal, tt.width, tt.height))
			if len(got) != len(tt.want) {
				t.Fatalf("got %d lines, want %d: %q", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestOverlayModalDropsBackgroundColors(t *testing.T) {
	out := OverlayModal("\x1b[31mred\x1b[0m\n\x1b[32mgreen\x1b[0m", "X", 10, 3)
	if strings.Contains(out, "\x1b[31m") || strings.Contains(out, "\x1b[32m") {
		t.Error("background colors should be replaced by the backdrop color")
	}
	if !strings.Contains(out, "X") || !strings.Contains(ansi.Strip(out), "green") {
		t.Errorf("overlay lost content: %q", ansi.Strip(out))
	}
}

func TestOverlayModalKeepsModalStyling(t *testing.T) {
	modal := "\x1b[1mbold\x1b[0m"
	out := OverlayModal("", modal, 10, 1)
	if !strings.Contains(out, modal) {
		t.Errorf("modal escape codes should pass through: %q", out)
	}
}

func TestOverlayModalZeroHeight(t *testing.T) {
	if got := OverlayModal("bg", "modal", 10, 0); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
