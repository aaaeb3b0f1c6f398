package notes

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/noteshive/noteshive/internal/keymap"
	"github.com/noteshive/noteshive/internal/msg"
	domain "github.com/noteshive/noteshive/internal/notes"
	"github.com/noteshive/noteshive/internal/plugin"
	"github.com/noteshive/noteshive/internal/state"
	"github.com/noteshive/noteshive/internal/styles"
	"github.com/noteshive/noteshive/internal/ui"
)

const maxColumns = 6

// command resolves a key press to a command ID in the current context.
func (p *Plugin) command(k tea.KeyMsg, context string) string {
	if p.ctx.Keymap == nil {
		return ""
	}
	return p.ctx.Keymap.Lookup(k.String(), context)
}

// handleKey processes keyboard input.
func (p *Plugin) handleKey(k tea.KeyMsg) (plugin.Plugin, tea.Cmd) {
	switch ctx := p.FocusContext(); ctx {
	case keymap.ContextConfirm:
		return p, p.handleConfirmKey(k)
	case keymap.ContextViewer:
		return p, p.handleViewerKey(k)
	case keymap.ContextEditor, keymap.ContextGenerated:
		return p, p.handleEditorKey(k, ctx)
	default:
		return p, p.handleGridKey(k)
	}
}

func (p *Plugin) handleGridKey(k tea.KeyMsg) tea.Cmd {
	cmd := p.command(k, keymap.ContextDashboard)
	switch cmd {
	case "new-note":
		if err := p.session.Compose(); err != nil {
			return nil
		}
		return p.openEditor()
	case "refresh":
		return p.loadNotes()
	case "sign-out":
		return func() tea.Msg { return plugin.SignOutMsg{} }
	case "columns-less", "columns-more":
		return p.changeColumns(cmd == "columns-more")
	}

	n, ok := p.selectedNote()
	if !ok {
		return nil
	}
	switch cmd {
	case "cursor-up":
		p.moveCursor(-p.gridColumns())
	case "cursor-down":
		p.moveCursor(p.gridColumns())
	case "cursor-left":
		p.moveCursor(-1)
	case "cursor-right":
		p.moveCursor(1)
	case "view-note":
		if err := p.session.View(n); err == nil {
			p.openViewer()
		}
	case "edit-note":
		if err := p.session.EditNote(n); err == nil {
			return p.openEditor()
		}
	case "delete-note":
		p.askDelete(n)
	case "export-pdf":
		return p.exportNote(n, formatPDF)
	case "export-markdown":
		return p.exportNote(n, formatMarkdown)
	case "yank-content":
		return yankContent(n.Content)
	}
	return nil
}

func (p *Plugin) handleViewerKey(k tea.KeyMsg) tea.Cmd {
	n, _ := p.session.Viewing()
	switch p.command(k, keymap.ContextViewer) {
	case "close":
		p.session.Close()
		return nil
	case "edit-note":
		if err := p.session.Edit(); err == nil {
			return p.openEditor()
		}
		return nil
	case "export-pdf":
		return p.exportNote(n, formatPDF)
	case "export-markdown":
		return p.exportNote(n, formatMarkdown)
	case "yank-content":
		return yankContent(n.Content)
	}

	var cmd tea.Cmd
	p.viewer, cmd = p.viewer.Update(k)
	return cmd
}

func (p *Plugin) handleEditorKey(k tea.KeyMsg, context string) tea.Cmd {
	switch p.command(k, context) {
	case "save":
		return p.saveDraft()
	case "generate":
		return p.generate()
	case "apply-generated":
		p.applyGenerated()
		return nil
	case "dismiss-generated":
		_ = p.session.DismissGenerated()
		p.resizeOverlays()
		return nil
	case "next-field":
		return p.toggleField()
	case "export-pdf":
		p.syncDraft()
		title, content, _ := p.session.Export()
		return p.exportNote(domain.Note{Title: title, Content: content}, formatPDF)
	case "cancel":
		dirty := p.dirty()
		if err := p.session.Cancel(); err != nil {
			return nil
		}
		p.titleInput.Blur()
		p.contentInput.Blur()
		if dirty {
			return msg.ShowToast("Changes discarded", msg.ToastShort)
		}
		return nil
	}

	// Enter in the title moves on to the content.
	if !p.contentFocus && k.Type == tea.KeyEnter {
		return p.toggleField()
	}
	return p.updateFocusedInput(k)
}

func (p *Plugin) handleConfirmKey(k tea.KeyMsg) tea.Cmd {
	switch p.confirm.HandleKey(k) {
	case ui.ConfirmAccepted:
		target := p.deleteTarget
		p.confirm = nil
		p.deleteTarget = domain.Note{}
		return p.deleteNote(target)
	case ui.ConfirmCancelled:
		p.confirm = nil
		p.deleteTarget = domain.Note{}
	}
	return nil
}

// askDelete opens the delete confirmation for n.
func (p *Plugin) askDelete(n domain.Note) {
	title := n.Title
	if title == "" {
		title = "this note"
	} else {
		title = fmt.Sprintf("%q", ui.Truncate(title, 40))
	}
	d := ui.NewConfirmDialog("Delete Note?", fmt.Sprintf("Delete %s? This cannot be undone.", title))
	d.ConfirmLabel = " Delete "
	d.BorderColor = styles.Error
	d.FocusCancel()
	p.confirm = d
	p.deleteTarget = n
}

// selectedNote returns the note under the cursor.
func (p *Plugin) selectedNote() (domain.Note, bool) {
	if p.ctx == nil || p.ctx.Store == nil {
		return domain.Note{}, false
	}
	list := p.ctx.Store.Notes()
	if p.cursor < 0 || p.cursor >= len(list) {
		return domain.Note{}, false
	}
	return list[p.cursor], true
}

// selectID moves the cursor to the note with id, if present.
func (p *Plugin) selectID(id string) {
	for i, n := range p.ctx.Store.Notes() {
		if n.ID == id {
			p.cursor = i
			return
		}
	}
}

func (p *Plugin) moveCursor(delta int) {
	count := len(p.ctx.Store.Notes())
	next := p.cursor + delta
	if next < 0 || next >= count {
		return
	}
	p.cursor = next
}

func (p *Plugin) changeColumns(more bool) tea.Cmd {
	cols := p.gridColumns()
	if more && cols < maxColumns {
		cols++
	} else if !more && cols > 1 {
		cols--
	} else {
		return nil
	}
	p.columns = cols
	if err := state.SetGridColumns(cols); err != nil {
		p.ctx.Logger.Debug("notes: save columns failed", "error", err)
	}
	return nil
}

// openEditor loads the session draft into the editor widgets.
func (p *Plugin) openEditor() tea.Cmd {
	draft, _ := p.session.Draft()
	p.titleInput.SetValue(draft.Title)
	p.titleInput.CursorEnd()
	p.contentInput.SetValue(draft.Content)
	p.baseHash = draftHash(draft.Title, draft.Content)
	p.resizeOverlays()

	// New notes start in the title, existing ones in the content.
	p.contentFocus = !draft.IsNew()
	return p.focusField()
}

func (p *Plugin) toggleField() tea.Cmd {
	p.contentFocus = !p.contentFocus
	return p.focusField()
}

func (p *Plugin) focusField() tea.Cmd {
	if p.contentFocus {
		p.titleInput.Blur()
		return p.contentInput.Focus()
	}
	p.contentInput.Blur()
	return p.titleInput.Focus()
}

// updateFocusedInput forwards msg to the focused widget and copies its value into the draft.
func (p *Plugin) updateFocusedInput(m tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if p.contentFocus {
		p.contentInput, cmd = p.contentInput.Update(m)
	} else {
		p.titleInput, cmd = p.titleInput.Update(m)
	}
	p.syncDraft()
	return cmd
}

// syncDraft copies the widget values into the session draft.
func (p *Plugin) syncDraft() {
	if p.session.Mode() != domain.ModeComposing {
		return
	}
	_ = p.session.SetTitle(p.titleInput.Value())
	_ = p.session.SetContent(p.contentInput.Value())
}
