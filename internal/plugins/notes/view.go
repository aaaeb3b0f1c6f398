package notes

import (
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	domain "github.com/noteshive/noteshive/internal/notes"
	"github.com/noteshive/noteshive/internal/styles"
	"github.com/noteshive/noteshive/internal/ui"
)

const (
	cardMinWidth    = 28
	cardPreviewRows = 3
	cardHeight      = cardPreviewRows + 4 // title + date + border
	headerHeight    = 2
	dateLayout      = "Jan 2, 2006"
)

// View renders the dashboard and any open overlay.
func (p *Plugin) View(width, height int) string {
	p.width, p.height = width, height

	var sb strings.Builder
	sb.WriteString(p.renderHeader(width))
	sb.WriteString("\n\n")
	sb.WriteString(p.renderBody(width, height-headerHeight))
	background := lipgloss.NewStyle().Width(width).Height(height).MaxHeight(height).Render(sb.String())

	switch {
	case p.confirm != nil:
		return ui.OverlayModal(background, p.confirm.View(), width, height)
	case p.session.Mode() == domain.ModeViewing:
		return ui.OverlayModal(background, p.renderViewer(), width, height)
	case p.session.Mode() == domain.ModeComposing:
		return ui.OverlayModal(background, p.renderEditor(), width, height)
	}
	return background
}

func (p *Plugin) renderHeader(width int) string {
	left := styles.Logo.Render("NotesHive")
	if p.busy() {
		left += " " + p.spinner.View() + styles.Muted.Render(" "+p.busyLabel())
	}

	right := ""
	if p.ctx != nil && p.ctx.Session != nil {
		u := p.ctx.Session.User
		right = styles.Subtitle.Render("Hello, " + u.DisplayName())
		if u.Email != "" {
			right += styles.Muted.Render("  " + u.Email)
		}
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (p *Plugin) busyLabel() string {
	switch {
	case p.session.Saving():
		return "Saving..."
	case p.session.Generating():
		return "Generating..."
	case p.deleting > 0:
		return "Deleting..."
	case p.loading:
		return "Loading notes..."
	}
	return ""
}

func (p *Plugin) renderBody(width, height int) string {
	store := p.ctx.Store
	if store == nil {
		return ""
	}
	list := store.Notes()

	if len(list) == 0 {
		if !store.Loaded() {
			if err := store.Err(); err != nil {
				return centered(width, height,
					styles.ErrorText.Render(domain.UserMessage(err)),
					styles.Muted.Render("Press r to retry"))
			}
			return centered(width, height, styles.Muted.Render("Loading notes..."))
		}
		return centered(width, height,
			styles.Title.Render("No Notes Yet"),
			styles.Muted.Render("Press n to create your first note"))
	}
	return p.renderGrid(list, width, height)
}

// gridColumns is the number of cards per row.
func (p *Plugin) gridColumns() int {
	if p.columns > 0 {
		return p.columns
	}
	cols := p.width / cardMinWidth
	if cols < 1 {
		cols = 1
	}
	if cols > 4 {
		cols = 4
	}
	return cols
}

func (p *Plugin) renderGrid(list []domain.Note, width, height int) string {
	cols := p.gridColumns()
	cardWidth := width/cols - 1
	if cardWidth < 10 {
		cardWidth = 10
	}

	visibleRows := height / cardHeight
	if visibleRows < 1 {
		visibleRows = 1
	}
	cursorRow := p.cursor / cols
	if cursorRow < p.scrollRow {
		p.scrollRow = cursorRow
	}
	if cursorRow >= p.scrollRow+visibleRows {
		p.scrollRow = cursorRow - visibleRows + 1
	}

	var rows []string
	for row := p.scrollRow; row < p.scrollRow+visibleRows; row++ {
		start := row * cols
		if start >= len(list) {
			break
		}
		var cards []string
		for i := start; i < start+cols && i < len(list); i++ {
			cards = append(cards, renderCard(list[i], cardWidth, i == p.cursor), " ")
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return strings.Join(rows, "\n")
}

// renderCard draws one note: title, a short content preview and the creation date.
func renderCard(n domain.Note, width int, selected bool) string {
	inner := width - 4 // border + padding

	title := n.Title
	if strings.TrimSpace(title) == "" {
		title = "Untitled"
	}
	lines := []string{styles.CardTitle.Render(ui.Truncate(title, inner))}

	preview := previewLines(n.Content, inner, cardPreviewRows)
	for i := 0; i < cardPreviewRows; i++ {
		line := ""
		if i < len(preview) {
			line = preview[i]
		}
		lines = append(lines, styles.Body.Render(line))
	}

	date := ""
	if !n.CreatedAt.IsZero() {
		date = n.CreatedAt.Local().Format(dateLayout)
	}
	lines = append(lines, styles.CardDate.Render(date))

	style := styles.Card
	if selected {
		style = styles.CardSelected
	}
	return style.Width(width - 2).Render(strings.Join(lines, "\n"))
}

// previewLines returns up to n non-blank content lines cut to width.
func previewLines(content string, width, n int) []string {
	var out []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, ui.Truncate(line, width))
		if len(out) == n {
			break
		}
	}
	return out
}

func centered(width, height int, lines ...string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, lines...))
}

// overlaySize returns the outer size of the viewer and editor boxes.
func (p *Plugin) overlaySize() (int, int) {
	w := p.width - 8
	if w > ui.ModalWidthLarge+20 {
		w = ui.ModalWidthLarge + 20
	}
	if w < 30 {
		w = 30
	}
	h := p.height - 4
	if h < 10 {
		h = 10
	}
	return w, h
}

// resizeOverlays fits the viewer and editor widgets to the terminal.
func (p *Plugin) resizeOverlays() {
	w, h := p.overlaySize()

	// Viewer: box border/padding (6 cols, 4 rows) plus title and date lines.
	p.viewer.Width = w - 6
	p.viewer.Height = h - 7
	if p.session.Mode() == domain.ModeViewing && p.viewerWidth != p.viewer.Width {
		p.renderViewerContent()
	}

	// Editor: title line, label rows and the generated panel when present.
	contentWidth := w - 6
	if p.showGeneratedPanel() {
		contentWidth = (w-6)/2 - 1
	}
	p.titleInput.Width = contentWidth
	p.contentInput.SetWidth(contentWidth)
	p.contentInput.SetHeight(h - 9)
}

// openViewer renders the viewed note into the viewport.
func (p *Plugin) openViewer() {
	p.resizeOverlays()
	p.renderViewerContent()
	p.viewer.GotoTop()
}

func (p *Plugin) renderViewerContent() {
	n, ok := p.session.Viewing()
	if !ok {
		return
	}
	p.viewerWidth = p.viewer.Width
	if strings.TrimSpace(n.Content) == "" {
		p.viewer.SetContent(styles.Muted.Render("No content"))
		return
	}
	p.viewer.SetContent(renderMarkdown(n.Content, p.viewer.Width))
}

// renderMarkdown renders md for the terminal, falling back to the raw text.
func renderMarkdown(md string, width int) string {
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(styles.CurrentMarkdownTheme),
		glamour.WithWordWrap(width-2),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

func (p *Plugin) renderViewer() string {
	n, _ := p.session.Viewing()
	w, _ := p.overlaySize()

	title := n.Title
	if strings.TrimSpace(title) == "" {
		title = "Untitled"
	}
	var sb strings.Builder
	sb.WriteString(styles.ModalTitle.UnsetMarginBottom().Render(ui.Truncate(title, w-6)))
	sb.WriteString("\n")
	if !n.CreatedAt.IsZero() {
		sb.WriteString(styles.CardDate.Render(n.CreatedAt.Local().Format(dateLayout)))
	}
	sb.WriteString("\n\n")
	sb.WriteString(p.viewer.View())
	return styles.ModalBox.Width(w - 2).Render(sb.String())
}

func (p *Plugin) showGeneratedPanel() bool {
	_, ok := p.session.Generated()
	return ok || p.session.Generating()
}

func (p *Plugin) renderEditor() string {
	w, _ := p.overlaySize()
	draft, _ := p.session.Draft()

	heading := "New Note"
	if !draft.IsNew() {
		heading = "Edit Note"
	}
	if p.dirty() {
		heading += styles.Dirty.Render(" *")
	}

	titleLabel, contentLabel := styles.FieldLabel, styles.FieldLabelFocused
	if !p.contentFocus {
		titleLabel, contentLabel = styles.FieldLabelFocused, styles.FieldLabel
	}

	editor := lipgloss.JoinVertical(lipgloss.Left,
		titleLabel.Render("Title"),
		p.titleInput.View(),
		"",
		contentLabel.Render("Content"),
		p.contentInput.View(),
	)

	body := editor
	if p.showGeneratedPanel() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, editor, "  ", p.renderGenerated())
	}

	var sb strings.Builder
	sb.WriteString(styles.ModalTitle.Render(heading))
	sb.WriteString("\n")
	sb.WriteString(body)
	return styles.ModalBox.Width(w - 2).Render(sb.String())
}

// renderGenerated draws the generated content panel beside the editor.
func (p *Plugin) renderGenerated() string {
	width := p.contentInput.Width()
	height := p.contentInput.Height() + 3

	var body string
	if text, ok := p.session.Generated(); ok {
		body = lipgloss.NewStyle().Width(width - 4).Render(text)
		lines := strings.Split(body, "\n")
		if len(lines) > height-3 {
			lines = append(lines[:height-4], styles.Muted.Render("…"))
		}
		body = strings.Join(lines, "\n")
	} else {
		body = p.spinner.View() + styles.Muted.Render(" Generating...")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.FieldLabelFocused.Render("Generated"),
		body,
	)
	return styles.PanelActive.Width(width).Height(height).Render(content)
}

// draftHash fingerprints a title/content pair for change detection.
func draftHash(title, content string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(title)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(content)
	return d.Sum64()
}

// dirty reports whether the editor differs from what it was opened with.
func (p *Plugin) dirty() bool {
	if p.session.Mode() != domain.ModeComposing {
		return false
	}
	return draftHash(p.titleInput.Value(), p.contentInput.Value()) != p.baseHash
}
