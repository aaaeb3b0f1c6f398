package notes

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/noteshive/noteshive/internal/api"
	"github.com/noteshive/noteshive/internal/export"
	"github.com/noteshive/noteshive/internal/msg"
	domain "github.com/noteshive/noteshive/internal/notes"
	"github.com/noteshive/noteshive/internal/plugin"
	"github.com/noteshive/noteshive/internal/state"
	"github.com/noteshive/noteshive/internal/ui"
)

type exportFormat int

const (
	formatPDF exportFormat = iota
	formatMarkdown
)

// showError turns a failed action into a single error toast. A rejected
// credential signs the user out instead.
func showError(err error) tea.Cmd {
	if api.IsUnauthorized(err) {
		return func() tea.Msg {
			return plugin.SignOutMsg{Reason: "Session expired. Please sign in again."}
		}
	}
	return msg.ShowError(domain.UserMessage(err))
}

// loadNotes returns a command that reloads the collection from the service.
func (p *Plugin) loadNotes() tea.Cmd {
	store := p.ctx.Store
	if store == nil {
		return nil
	}
	wasBusy := p.busy()
	// Only the first load blanks the grid; refreshes keep the current notes visible.
	if !store.Loaded() {
		p.loading = true
	}
	epoch := p.ctx.Epoch

	load := func() tea.Msg {
		err := store.Load(context.Background())
		return NotesLoadedMsg{Err: err, Epoch: epoch}
	}
	if !p.loading {
		return load
	}
	return tea.Batch(load, p.startBusy(wasBusy))
}

// afterReload keeps the cursor on a note after the collection changed.
func (p *Plugin) afterReload() {
	list := p.ctx.Store.Notes()
	if p.restoreID != "" {
		for i, n := range list {
			if n.ID == p.restoreID {
				p.cursor = i
				break
			}
		}
		p.restoreID = ""
	}
	if p.cursor >= len(list) {
		p.cursor = len(list) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

// saveDraft persists the editor's draft through the store.
func (p *Plugin) saveDraft() tea.Cmd {
	p.syncDraft()
	wasBusy := p.busy()
	ticket, err := p.session.BeginSave()
	if err != nil {
		if errors.Is(err, domain.ErrSaveInFlight) {
			return msg.ShowToast("Still saving...", msg.ToastShort)
		}
		return nil
	}

	store := p.ctx.Store
	epoch := p.ctx.Epoch
	save := func() tea.Msg {
		err := ticket.Persist(context.Background(), store)
		return NoteSavedMsg{Ticket: ticket, Err: err, Epoch: epoch}
	}
	return tea.Batch(save, p.startBusy(wasBusy))
}

func (p *Plugin) handleSaved(m NoteSavedMsg) tea.Cmd {
	if p.isStale(m) {
		return nil
	}
	if !p.session.FinishSave(m.Ticket, m.Err) {
		p.ctx.Logger.Debug("notes: dropping save for closed editor")
		p.afterReload()
		return nil
	}
	if m.Err != nil {
		return showError(m.Err)
	}

	p.titleInput.Blur()
	p.contentInput.Blur()
	p.afterReload()
	if !m.Ticket.Draft.IsNew() {
		p.selectID(m.Ticket.Draft.SourceID)
	}

	text := "Note created"
	if !m.Ticket.Draft.IsNew() {
		text = "Note updated"
	}
	cmds := []tea.Cmd{msg.ShowToast(text, msg.ToastShort)}
	// The save went through; a failed refresh is reported on its own.
	if err := p.ctx.Store.Err(); err != nil {
		cmds = append(cmds, showError(err))
	}
	return tea.Batch(cmds...)
}

// deleteNote returns a command that deletes n.
func (p *Plugin) deleteNote(n domain.Note) tea.Cmd {
	store := p.ctx.Store
	if store == nil {
		return nil
	}
	wasBusy := p.busy()
	p.deleting++
	epoch := p.ctx.Epoch

	del := func() tea.Msg {
		err := store.Delete(context.Background(), n.ID)
		return NoteDeletedMsg{ID: n.ID, Title: n.Title, Err: err, Epoch: epoch}
	}
	return tea.Batch(del, p.startBusy(wasBusy))
}

func (p *Plugin) handleDeleted(m NoteDeletedMsg) tea.Cmd {
	if p.isStale(m) {
		return nil
	}
	if p.deleting > 0 {
		p.deleting--
	}
	if m.Err != nil {
		return showError(m.Err)
	}
	p.afterReload()

	text := "Note deleted"
	if m.Title != "" {
		text = "Deleted: " + ui.Truncate(m.Title, 30)
	}
	return msg.ShowToast(text, msg.ToastShort)
}

// generate asks the service to extend the draft's content.
func (p *Plugin) generate() tea.Cmd {
	p.syncDraft()
	wasBusy := p.busy()
	ticket, err := p.session.BeginGenerate()
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrGenerationInFlight):
		return msg.ShowToast("Already generating...", msg.ToastShort)
	case errors.Is(err, domain.ErrEmptyContent):
		return msg.ShowToast("Write something to generate from", msg.ToastShort)
	default:
		return nil
	}

	p.resizeOverlays()

	gen := p.ctx.Store.Service()
	epoch := p.ctx.Epoch
	run := func() tea.Msg {
		text, err := ticket.Run(context.Background(), gen)
		return ContentGeneratedMsg{Ticket: ticket, Content: text, Err: err, Epoch: epoch}
	}
	return tea.Batch(run, p.startBusy(wasBusy))
}

func (p *Plugin) handleGenerated(m ContentGeneratedMsg) tea.Cmd {
	if p.isStale(m) {
		return nil
	}
	if !p.session.FinishGenerate(m.Ticket, m.Content, m.Err) {
		p.ctx.Logger.Debug("notes: dropping generated content for closed editor")
		return nil
	}
	p.resizeOverlays()
	if m.Err != nil {
		return showError(m.Err)
	}
	return nil
}

// applyGenerated replaces the draft content with the generated text.
func (p *Plugin) applyGenerated() {
	if err := p.session.ApplyGenerated(); err != nil {
		return
	}
	draft, _ := p.session.Draft()
	p.contentInput.SetValue(draft.Content)
	p.resizeOverlays()
}

// exportNote writes title and content to the export directory.
func (p *Plugin) exportNote(n domain.Note, format exportFormat) tea.Cmd {
	dir := p.exportDir()
	opts := export.DefaultOptions()
	if p.ctx.Config != nil {
		opts = p.ctx.Config.Export.PageOptions()
	}

	return func() tea.Msg {
		var (
			path string
			err  error
		)
		switch format {
		case formatMarkdown:
			path, err = export.SaveMarkdown(dir, n, time.Now())
		default:
			path, err = export.SavePDF(dir, n.Title, n.Content, opts)
		}
		return NoteExportedMsg{Path: path, Err: err}
	}
}

func (p *Plugin) handleExported(m NoteExportedMsg) tea.Cmd {
	if m.Err != nil {
		p.ctx.Logger.Error("notes: export failed", "error", m.Err)
		return msg.ShowError(fmt.Sprintf("Export failed: %v", m.Err))
	}
	if err := state.SetLastExportDir(filepath.Dir(m.Path)); err != nil {
		p.ctx.Logger.Debug("notes: save export dir failed", "error", err)
	}
	return msg.ShowToast("Exported "+m.Path, msg.ToastLong)
}

func (p *Plugin) exportDir() string {
	if p.ctx.Config != nil && p.ctx.Config.Export.Dir != "" {
		return p.ctx.Config.Export.Dir
	}
	if dir := state.GetLastExportDir(); dir != "" {
		return dir
	}
	return "."
}

// yankContent copies content to the system clipboard.
func yankContent(content string) tea.Cmd {
	if content == "" {
		return msg.ShowToast("No content to copy", msg.ToastShort)
	}
	if err := clipboard.WriteAll(content); err != nil {
		return msg.ShowError("Copy failed: " + err.Error())
	}
	return msg.ShowToast("Copied note content", msg.ToastShort)
}

func (p *Plugin) isStale(m plugin.EpochMessage) bool {
	if plugin.IsStale(p.ctx, m) {
		p.ctx.Logger.Debug("notes: dropping result from previous session", "epoch", m.GetEpoch())
		return true
	}
	return false
}
