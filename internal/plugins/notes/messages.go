package notes

import (
	domain "github.com/noteshive/noteshive/internal/notes"
)

// NotesLoadedMsg is sent when a store load finishes. The notes themselves are
// read back from the store, which has already dropped out-of-order responses.
type NotesLoadedMsg struct {
	Err   error
	Epoch uint64 // Epoch when request was issued (for stale detection)
}

// GetEpoch implements plugin.EpochMessage.
func (m NotesLoadedMsg) GetEpoch() uint64 { return m.Epoch }

// NoteSavedMsg is sent when a create or update finishes.
type NoteSavedMsg struct {
	Ticket domain.SaveTicket
	Err    error
	Epoch  uint64
}

// GetEpoch implements plugin.EpochMessage.
func (m NoteSavedMsg) GetEpoch() uint64 { return m.Epoch }

// NoteDeletedMsg is sent when a delete finishes.
type NoteDeletedMsg struct {
	ID    string
	Title string
	Err   error
	Epoch uint64
}

// GetEpoch implements plugin.EpochMessage.
func (m NoteDeletedMsg) GetEpoch() uint64 { return m.Epoch }

// ContentGeneratedMsg carries the result of a generation request.
type ContentGeneratedMsg struct {
	Ticket  domain.GenerateTicket
	Content string
	Err     error
	Epoch   uint64
}

// GetEpoch implements plugin.EpochMessage.
func (m ContentGeneratedMsg) GetEpoch() uint64 { return m.Epoch }

// NoteExportedMsg is sent when an export file has been written.
type NoteExportedMsg struct {
	Path string
	Err  error
}
