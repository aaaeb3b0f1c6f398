package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/noteshive/noteshive/internal/keymap"
	"github.com/noteshive/noteshive/internal/plugin"
	"github.com/noteshive/noteshive/internal/styles"
	"github.com/noteshive/noteshive/internal/ui"
)

const (
	introHeight  = 2 // animated logo + spacing, sign-in screen only
	footerHeight = 1
	minWidth     = 50
	minHeight    = 16
)

// View renders the entire application UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	// Show warning if terminal is too small
	if m.width < minWidth || m.height < minHeight {
		msg := fmt.Sprintf("Terminal too small (%dx%d)\nMinimum: %dx%d",
			m.width, m.height, minWidth, minHeight)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			styles.ErrorText.Render(msg))
	}

	var b strings.Builder
	if m.showIntro() {
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.intro.View()))
		b.WriteString("\n\n")
	}
	b.WriteString(m.renderContent(m.width, m.contentHeight()))
	if m.showFooter {
		b.WriteString("\n")
		b.WriteString(m.renderFooter())
	}

	bg := b.String()
	switch {
	case m.quitConfirm != nil:
		return ui.OverlayModal(bg, m.quitConfirm.View(), m.width, m.height)
	case m.showHelp:
		return ui.OverlayModal(bg, m.renderHelp(), m.width, m.height)
	case m.showDiag:
		return ui.OverlayModal(bg, m.renderDiagnostics(), m.width, m.height)
	}
	return bg
}

// showIntro reports whether the animated logo heads the screen.
func (m Model) showIntro() bool {
	return m.active == m.signin && m.intro.Active
}

// contentHeight is the height left for the active screen.
func (m Model) contentHeight() int {
	h := m.height
	if m.showIntro() {
		h -= introHeight
	}
	if m.showFooter {
		h -= footerHeight
	}
	if h < 0 {
		h = 0
	}
	return h
}

func (m Model) renderContent(width, height int) string {
	if height == 0 {
		return ""
	}
	content := m.active.View(width, height)
	// MaxHeight truncates screens that render taller than their slot.
	return lipgloss.NewStyle().Width(width).Height(height).MaxHeight(height).Render(content)
}

// renderFooter renders the bottom bar with key hints and the toast.
func (m Model) renderFooter() string {
	var status string
	if m.statusMsg != "" {
		toastStyle := styles.ToastSuccess
		if m.statusIsError {
			toastStyle = styles.ToastError
		}
		status = toastStyle.Render(m.statusMsg)
	}

	statusWidth := lipgloss.Width(status)
	hm := m.help
	hm.Width = m.width - statusWidth - 2
	hints := ""
	if hm.Width > 0 {
		hints = hm.ShortHelpView(m.footerBindings())
	}

	spacing := m.width - lipgloss.Width(hints) - statusWidth
	if spacing < 1 {
		spacing = 1
	}
	footer := hints + strings.Repeat(" ", spacing) + status
	return styles.Footer.Width(m.width).MaxWidth(m.width).Render(footer)
}

// sortedCommands returns the active screen's commands for its current context,
// most important first.
func (m Model) sortedCommands() []plugin.Command {
	var cmds []plugin.Command
	for _, c := range m.active.Commands() {
		if c.Context == m.activeContext {
			cmds = append(cmds, c)
		}
	}
	priority := func(c plugin.Command) int {
		if c.Priority == 0 {
			return 99
		}
		return c.Priority
	}
	sort.SliceStable(cmds, func(i, j int) bool {
		return priority(cmds[i]) < priority(cmds[j])
	})
	return cmds
}

// footerBindings turns screen commands plus the essential globals into help bindings.
func (m Model) footerBindings() []key.Binding {
	var bindings []key.Binding
	for _, c := range m.sortedCommands() {
		b := m.ctx.Keymap.HelpBinding(c.ID, c.Context, c.Name)
		if b.Enabled() {
			bindings = append(bindings, b)
		}
	}
	if !m.consumesText() {
		bindings = append(bindings,
			m.ctx.Keymap.HelpBinding("toggle-help", keymap.ContextGlobal, "help"),
			m.ctx.Keymap.HelpBinding("quit", keymap.ContextGlobal, "quit"),
		)
	}
	return bindings
}

// renderHelp lists every command of the current context grouped by category.
func (m Model) renderHelp() string {
	order := []plugin.Category{
		plugin.CategoryNavigation,
		plugin.CategoryActions,
		plugin.CategoryEdit,
		plugin.CategoryExport,
		plugin.CategorySystem,
	}
	groups := make(map[plugin.Category][]key.Binding)
	context := m.active.FocusContext()
	for _, c := range m.active.Commands() {
		if c.Context != context {
			continue
		}
		b := m.ctx.Keymap.HelpBinding(c.ID, c.Context, c.Description)
		if b.Enabled() {
			groups[c.Category] = append(groups[c.Category], b)
		}
	}
	groups[plugin.CategorySystem] = append(groups[plugin.CategorySystem],
		m.ctx.Keymap.HelpBinding("toggle-help", keymap.ContextGlobal, "Toggle help"),
		m.ctx.Keymap.HelpBinding("toggle-footer", keymap.ContextGlobal, "Toggle footer"),
		m.ctx.Keymap.HelpBinding("toggle-diagnostics", keymap.ContextGlobal, "Diagnostics"),
		m.ctx.Keymap.HelpBinding("quit", keymap.ContextGlobal, "Quit"),
	)

	hm := m.help
	hm.Width = 0
	var b strings.Builder
	b.WriteString(styles.ModalTitle.Render("Keyboard Shortcuts"))
	for _, cat := range order {
		if len(groups[cat]) == 0 {
			continue
		}
		b.WriteString("\n")
		b.WriteString(styles.Title.Render(string(cat)))
		b.WriteString("\n")
		b.WriteString(hm.FullHelpView([][]key.Binding{groups[cat]}))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.Subtle.Render("Press ? or esc to close"))
	return styles.ModalBox.Render(b.String())
}
