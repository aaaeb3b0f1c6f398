package notes

import (
	"context"
	"strings"
)

// Mode is the primary state of an editor session.
type Mode int

const (
	ModeClosed Mode = iota
	ModeViewing
	ModeComposing
)

// String returns the display name for the mode.
func (m Mode) String() string {
	switch m {
	case ModeViewing:
		return "viewing"
	case ModeComposing:
		return "composing"
	default:
		return "closed"
	}
}

// Session is the transient state of the note currently being viewed, edited or composed.
// It is owned by a single goroutine (the UI loop) and is not safe for concurrent use.
// Async work is handed out as tickets; results are only applied while the ticket's
// token still matches the session token.
type Session struct {
	mode    Mode
	viewing Note
	draft   Draft

	generating   bool
	saving       bool
	generated    string
	hasGenerated bool

	// token changes whenever the session is opened or closed.
	token uint64
}

// NewSession returns a closed session.
func NewSession() *Session {
	return &Session{}
}

// GenerateTicket identifies one in-flight generation request.
type GenerateTicket struct {
	Token uint64
	Seed  string
}

// Run asks gen for content seeded with the ticket's text.
func (t GenerateTicket) Run(ctx context.Context, gen Generator) (string, error) {
	text, err := gen.GenerateContent(ctx, t.Seed)
	if err != nil {
		return "", &ActionError{Action: ActionGenerate, Err: err}
	}
	return text, nil
}

// SaveTicket identifies one in-flight save and carries the draft as it was when saving began.
type SaveTicket struct {
	Token uint64
	Draft Draft
}

// Persist writes the ticket's draft through the store: an update when the draft has a
// source note, a create otherwise.
func (t SaveTicket) Persist(ctx context.Context, store *Store) error {
	if t.Draft.IsNew() {
		return store.Create(ctx, t.Draft.Title, t.Draft.Content)
	}
	return store.Update(ctx, t.Draft.SourceID, t.Draft.Title, t.Draft.Content)
}

// Mode returns the current primary state.
func (s *Session) Mode() Mode { return s.mode }

// Token returns the current session token.
func (s *Session) Token() uint64 { return s.token }

// Viewing returns the note being viewed.
func (s *Session) Viewing() (Note, bool) {
	return s.viewing, s.mode == ModeViewing
}

// Draft returns the working copy while composing.
func (s *Session) Draft() (Draft, bool) {
	return s.draft, s.mode == ModeComposing
}

// Generating reports whether a generation request is in flight.
func (s *Session) Generating() bool { return s.generating }

// Saving reports whether a save is in flight.
func (s *Session) Saving() bool { return s.saving }

// Generated returns the pending generated content, if any.
func (s *Session) Generated() (string, bool) {
	return s.generated, s.hasGenerated
}

// CanGenerate reports whether BeginGenerate would succeed.
func (s *Session) CanGenerate() bool {
	return s.mode == ModeComposing && !s.generating && strings.TrimSpace(s.draft.Content) != ""
}

// View opens a note read-only.
func (s *Session) View(n Note) error {
	if s.mode != ModeClosed {
		return ErrIllegalTransition
	}
	s.open(ModeViewing)
	s.viewing = n
	return nil
}

// Edit switches from viewing to composing a copy of the viewed note, keeping its id
// so the save becomes an update.
func (s *Session) Edit() error {
	if s.mode != ModeViewing {
		return ErrIllegalTransition
	}
	s.mode = ModeComposing
	s.draft = draftFrom(s.viewing)
	s.viewing = Note{}
	return nil
}

// EditNote opens a note straight into composing.
func (s *Session) EditNote(n Note) error {
	if err := s.View(n); err != nil {
		return err
	}
	return s.Edit()
}

// Compose opens an empty draft for a new note.
func (s *Session) Compose() error {
	if s.mode != ModeClosed {
		return ErrIllegalTransition
	}
	s.open(ModeComposing)
	s.draft = Draft{}
	return nil
}

// SetTitle changes the working title.
func (s *Session) SetTitle(title string) error {
	if s.mode != ModeComposing {
		return ErrIllegalTransition
	}
	s.draft.Title = title
	return nil
}

// SetContent changes the working content.
func (s *Session) SetContent(content string) error {
	if s.mode != ModeComposing {
		return ErrIllegalTransition
	}
	s.draft.Content = content
	return nil
}

// BeginGenerate starts a generation request from the current working content.
// Any previous generated content is discarded.
func (s *Session) BeginGenerate() (GenerateTicket, error) {
	if s.mode != ModeComposing {
		return GenerateTicket{}, ErrIllegalTransition
	}
	if s.generating {
		return GenerateTicket{}, ErrGenerationInFlight
	}
	if strings.TrimSpace(s.draft.Content) == "" {
		return GenerateTicket{}, ErrEmptyContent
	}
	s.generating = true
	s.clearGenerated()
	return GenerateTicket{Token: s.token, Seed: s.draft.Content}, nil
}

// FinishGenerate records the outcome of a generation request. It returns false when the
// ticket belongs to a session that has since closed, in which case nothing changes.
func (s *Session) FinishGenerate(t GenerateTicket, text string, err error) bool {
	if t.Token != s.token || s.mode != ModeComposing {
		return false
	}
	s.generating = false
	if err != nil {
		return true
	}
	s.generated = text
	s.hasGenerated = true
	return true
}

// ApplyGenerated replaces the working content with the generated content.
func (s *Session) ApplyGenerated() error {
	if s.mode != ModeComposing || !s.hasGenerated {
		return ErrIllegalTransition
	}
	s.draft.Content = s.generated
	s.clearGenerated()
	return nil
}

// DismissGenerated closes the generated content panel without applying it.
func (s *Session) DismissGenerated() error {
	if s.mode != ModeComposing {
		return ErrIllegalTransition
	}
	s.clearGenerated()
	return nil
}

// BeginSave snapshots the draft for persisting.
func (s *Session) BeginSave() (SaveTicket, error) {
	if s.mode != ModeComposing {
		return SaveTicket{}, ErrIllegalTransition
	}
	if s.saving {
		return SaveTicket{}, ErrSaveInFlight
	}
	s.saving = true
	return SaveTicket{Token: s.token, Draft: s.draft}, nil
}

// FinishSave records the outcome of a save. On success the session closes; on failure
// it stays open with the draft intact. Returns false for stale tickets.
func (s *Session) FinishSave(t SaveTicket, err error) bool {
	if t.Token != s.token || s.mode != ModeComposing {
		return false
	}
	s.saving = false
	if err != nil {
		return true
	}
	s.close()
	return true
}

// Cancel discards the draft without persisting anything.
func (s *Session) Cancel() error {
	if s.mode != ModeComposing {
		return ErrIllegalTransition
	}
	s.close()
	return nil
}

// Close leaves whatever state the session is in. Closing a closed session is a no-op.
func (s *Session) Close() {
	if s.mode == ModeClosed {
		return
	}
	s.close()
}

// Export returns the title and content an export should render for the current state.
func (s *Session) Export() (title, content string, ok bool) {
	switch s.mode {
	case ModeViewing:
		return s.viewing.Title, s.viewing.Content, true
	case ModeComposing:
		return s.draft.Title, s.draft.Content, true
	}
	return "", "", false
}

func (s *Session) open(mode Mode) {
	s.token++
	s.mode = mode
	s.generating = false
	s.saving = false
	s.clearGenerated()
}

func (s *Session) close() {
	s.token++
	s.mode = ModeClosed
	s.viewing = Note{}
	s.draft = Draft{}
	s.generating = false
	s.saving = false
	s.clearGenerated()
}

func (s *Session) clearGenerated() {
	s.generated = ""
	s.hasGenerated = false
}
