// Package ui provides shared UI components and helpers for the TUI.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/noteshive/noteshive/internal/styles"
)

// backdrop renders screen text behind an overlay. Colors are stripped first
// because faint does not combine reliably with existing SGR codes.
func backdrop(s string) string {
	if s == "" {
		return ""
	}
	return lipgloss.NewStyle().Foreground(styles.TextSubtle).Render(s)
}

// box is a rendered overlay placed at a fixed cell offset.
type box struct {
	lines  []string
	x, y   int
	width  int
	height int
}

// place centers the overlay in a width x height screen. An overlay larger
// than the screen is clipped on the right and bottom.
func place(overlay string, width, height int) box {
	lines := strings.Split(overlay, "\n")
	b := box{lines: lines}
	for _, l := range lines {
		b.width = max(b.width, ansi.StringWidth(l))
	}
	if b.width > width {
		b.width = width
		for i, l := range b.lines {
			b.lines[i] = ansi.Truncate(l, width, "")
		}
	}
	b.height = min(len(lines), height)
	b.x = max((width-b.width)/2, 0)
	b.y = max((height-b.height)/2, 0)
	return b
}

// row splices line into the plain text of bg starting at column x.
func (b box) row(bg, line string, width int) string {
	plain := ansi.Strip(bg)
	var sb strings.Builder

	left := ansi.Truncate(plain, b.x, "")
	sb.WriteString(backdrop(left))
	if gap := b.x - ansi.StringWidth(left); gap > 0 {
		sb.WriteString(strings.Repeat(" ", gap))
	}

	sb.WriteString(line)
	if pad := b.width - ansi.StringWidth(line); pad > 0 {
		sb.WriteString(strings.Repeat(" ", pad))
	}

	end := b.x + b.width
	if end < width {
		if rest := ansi.Cut(plain, end, width); rest != "" {
			sb.WriteString(backdrop(rest))
		}
	}
	return sb.String()
}

// OverlayModal draws modal centered over a faded copy of background and
// returns exactly height lines.
func OverlayModal(background, modal string, width, height int) string {
	if height <= 0 {
		return ""
	}
	bg := strings.Split(background, "\n")
	b := place(modal, width, height)

	out := make([]string, height)
	for y := range out {
		var line string
		if y < len(bg) {
			line = bg[y]
		}
		if i := y - b.y; i >= 0 && i < b.height {
			out[y] = b.row(line, b.lines[i], width)
			continue
		}
		out[y] = backdrop(ansi.Strip(line))
	}
	return strings.Join(out, "\n")
}
