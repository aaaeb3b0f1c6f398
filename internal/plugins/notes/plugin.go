// Package notes is the dashboard screen: the note grid and its view, edit and
// delete overlays.
package notes

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/noteshive/noteshive/internal/keymap"
	domain "github.com/noteshive/noteshive/internal/notes"
	"github.com/noteshive/noteshive/internal/plugin"
	"github.com/noteshive/noteshive/internal/state"
	"github.com/noteshive/noteshive/internal/styles"
	"github.com/noteshive/noteshive/internal/ui"
)

const (
	pluginID   = "notes"
	pluginName = "Notes"
)

// Plugin is the notes dashboard.
type Plugin struct {
	ctx *plugin.Context

	width, height int

	// Grid
	cursor    int
	scrollRow int
	columns   int // 0 = pick from width
	restoreID string

	// Busy indicator for loads and mutations in flight
	loading  bool
	deleting int
	spinner  spinner.Model

	// The note being viewed or edited
	session *domain.Session

	// Viewer overlay
	viewer      viewport.Model
	viewerWidth int

	// Editor overlay
	titleInput   textinput.Model
	contentInput textarea.Model
	contentFocus bool
	baseHash     uint64

	// Delete confirmation
	confirm      *ui.ConfirmDialog
	deleteTarget domain.Note
}

// New creates a new notes dashboard.
func New() *Plugin {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return &Plugin{
		session: domain.NewSession(),
		spinner: sp,
	}
}

// ID returns the plugin identifier.
func (p *Plugin) ID() string { return pluginID }

// Name returns the plugin display name.
func (p *Plugin) Name() string { return pluginName }

// Init wires the shared context and builds the editor widgets.
func (p *Plugin) Init(ctx *plugin.Context) error {
	p.ctx = ctx

	ti := textinput.New()
	ti.Placeholder = "Title"
	ti.Prompt = ""
	ti.CharLimit = 0
	p.titleInput = ti

	ta := textarea.New()
	ta.Placeholder = "Write your note..."
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Placeholder = styles.Muted
	ta.BlurredStyle = ta.FocusedStyle
	ta.Blur()
	p.contentInput = ta

	p.viewer = viewport.New(0, 0)

	if ctx.Config != nil {
		p.columns = ctx.Config.UI.Columns
	}
	if cols := state.GetGridColumns(); cols > 0 {
		p.columns = cols
	}
	return nil
}

// Start loads the signed-in user's notes.
func (p *Plugin) Start() tea.Cmd {
	p.cursor = 0
	p.scrollRow = 0
	p.restoreID = state.GetSelectedNoteID()
	p.session.Close()
	p.confirm = nil
	return p.loadNotes()
}

// Stop closes any open overlay and remembers the selected note.
func (p *Plugin) Stop() {
	if n, ok := p.selectedNote(); ok {
		if err := state.SetSelectedNoteID(n.ID); err != nil {
			p.ctx.Logger.Debug("notes: save selection failed", "error", err)
		}
	}
	p.session.Close()
	p.confirm = nil
	p.loading = false
	p.deleting = 0
	p.titleInput.Blur()
	p.contentInput.Blur()
}

// Update handles messages.
func (p *Plugin) Update(msg tea.Msg) (plugin.Plugin, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.resizeOverlays()
		return p, nil

	case spinner.TickMsg:
		if !p.busy() {
			return p, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd

	case NotesLoadedMsg:
		if plugin.IsStale(p.ctx, msg) {
			return p, nil
		}
		p.loading = false
		if msg.Err != nil {
			return p, showError(msg.Err)
		}
		p.afterReload()
		return p, nil

	case NoteSavedMsg:
		return p, p.handleSaved(msg)

	case NoteDeletedMsg:
		return p, p.handleDeleted(msg)

	case ContentGeneratedMsg:
		return p, p.handleGenerated(msg)

	case NoteExportedMsg:
		return p, p.handleExported(msg)

	case tea.KeyMsg:
		return p.handleKey(msg)
	}

	// Cursor blink and other widget messages
	if p.session.Mode() == domain.ModeComposing {
		return p, p.updateFocusedInput(msg)
	}
	return p, nil
}

// busy reports whether anything the spinner tracks is in flight.
func (p *Plugin) busy() bool {
	return p.loading || p.deleting > 0 || p.session.Saving() || p.session.Generating()
}

// startBusy returns the spinner tick when the spinner was idle before an action began.
func (p *Plugin) startBusy(wasBusy bool) tea.Cmd {
	if wasBusy {
		return nil
	}
	return p.spinner.Tick
}

// FocusContext returns the current focus context.
func (p *Plugin) FocusContext() string {
	if p.confirm != nil {
		return keymap.ContextConfirm
	}
	switch p.session.Mode() {
	case domain.ModeViewing:
		return keymap.ContextViewer
	case domain.ModeComposing:
		if _, ok := p.session.Generated(); ok {
			return keymap.ContextGenerated
		}
		return keymap.ContextEditor
	}
	return keymap.ContextDashboard
}

// ConsumesTextInput reports whether the editor is open and should receive
// printable keys directly.
func (p *Plugin) ConsumesTextInput() bool {
	return p.session.Mode() == domain.ModeComposing && p.confirm == nil
}

// Commands returns the commands shown in the footer for the current context.
func (p *Plugin) Commands() []plugin.Command {
	switch ctx := p.FocusContext(); ctx {
	case keymap.ContextConfirm:
		return []plugin.Command{
			{ID: "confirm", Name: "Delete", Description: "Confirm delete", Category: plugin.CategoryActions, Context: ctx, Priority: 1},
			{ID: "cancel", Name: "Cancel", Description: "Keep the note", Category: plugin.CategoryActions, Context: ctx, Priority: 2},
		}
	case keymap.ContextViewer:
		return []plugin.Command{
			{ID: "edit-note", Name: "Edit", Description: "Edit this note", Category: plugin.CategoryEdit, Context: ctx, Priority: 1},
			{ID: "export-pdf", Name: "PDF", Description: "Export as PDF", Category: plugin.CategoryExport, Context: ctx, Priority: 2},
			{ID: "export-markdown", Name: "Markdown", Description: "Export as Markdown", Category: plugin.CategoryExport, Context: ctx, Priority: 3},
			{ID: "yank-content", Name: "Copy", Description: "Copy content", Category: plugin.CategoryActions, Context: ctx, Priority: 4},
			{ID: "close", Name: "Close", Description: "Close viewer", Category: plugin.CategoryNavigation, Context: ctx, Priority: 5},
		}
	case keymap.ContextEditor, keymap.ContextGenerated:
		save := "Save"
		if p.dirty() {
			save = "Save*"
		}
		cmds := []plugin.Command{
			{ID: "save", Name: save, Description: "Save note", Category: plugin.CategoryEdit, Context: ctx, Priority: 1},
			{ID: "generate", Name: "Generate", Description: "Generate content with AI", Category: plugin.CategoryEdit, Context: ctx, Priority: 3},
			{ID: "next-field", Name: "Field", Description: "Switch between title and content", Category: plugin.CategoryNavigation, Context: ctx, Priority: 5},
			{ID: "cancel", Name: "Cancel", Description: "Discard changes", Category: plugin.CategoryNavigation, Context: ctx, Priority: 6},
		}
		if ctx == keymap.ContextGenerated {
			cmds = append(cmds,
				plugin.Command{ID: "apply-generated", Name: "Apply", Description: "Replace content with generated text", Category: plugin.CategoryEdit, Context: ctx, Priority: 2},
				plugin.Command{ID: "dismiss-generated", Name: "Dismiss", Description: "Discard generated text", Category: plugin.CategoryEdit, Context: ctx, Priority: 2},
			)
		} else {
			cmds = append(cmds,
				plugin.Command{ID: "export-pdf", Name: "PDF", Description: "Export draft as PDF", Category: plugin.CategoryExport, Context: ctx, Priority: 4},
			)
		}
		return cmds
	}

	ctx := keymap.ContextDashboard
	cmds := []plugin.Command{
		{ID: "new-note", Name: "New", Description: "Create a note", Category: plugin.CategoryActions, Context: ctx, Priority: 1},
		{ID: "refresh", Name: "Refresh", Description: "Reload notes", Category: plugin.CategoryActions, Context: ctx, Priority: 7},
		{ID: "sign-out", Name: "Sign out", Description: "Sign out", Category: plugin.CategorySystem, Context: ctx, Priority: 9},
	}
	if _, ok := p.selectedNote(); ok {
		cmds = append(cmds,
			plugin.Command{ID: "view-note", Name: "View", Description: "Open the selected note", Category: plugin.CategoryNavigation, Context: ctx, Priority: 2},
			plugin.Command{ID: "edit-note", Name: "Edit", Description: "Edit the selected note", Category: plugin.CategoryEdit, Context: ctx, Priority: 3},
			plugin.Command{ID: "delete-note", Name: "Delete", Description: "Delete the selected note", Category: plugin.CategoryActions, Context: ctx, Priority: 4},
			plugin.Command{ID: "export-pdf", Name: "PDF", Description: "Export as PDF", Category: plugin.CategoryExport, Context: ctx, Priority: 5},
			plugin.Command{ID: "export-markdown", Name: "Markdown", Description: "Export as Markdown", Category: plugin.CategoryExport, Context: ctx, Priority: 6},
			plugin.Command{ID: "yank-content", Name: "Copy", Description: "Copy content", Category: plugin.CategoryActions, Context: ctx, Priority: 8},
		)
	}
	return cmds
}
