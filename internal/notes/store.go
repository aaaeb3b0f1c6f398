package notes

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Store holds the signed-in user's notes exactly as the service last reported them.
// Every mutation is followed by a full reload; nothing is patched locally.
type Store struct {
	svc    Service
	logger *slog.Logger

	mu      sync.RWMutex
	notes   []Note
	loaded  bool
	loadErr error

	// issued is the sequence number of the most recent Load call.
	issued atomic.Uint64
}

// NewStore creates a store backed by svc.
func NewStore(svc Service, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{svc: svc, logger: logger}
}

// Load fetches the full collection and replaces the local one.
// Responses that are not for the most recently issued load are dropped.
func (s *Store) Load(ctx context.Context) error {
	seq := s.issued.Add(1)
	notes, err := s.svc.ListNotes(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.issued.Load() {
		s.logger.Debug("notes: dropping stale load", "seq", seq, "latest", s.issued.Load())
		return nil
	}
	if err != nil {
		s.logger.Error("notes: load failed", "error", err)
		s.loadErr = &ActionError{Action: ActionLoad, Err: err}
		return s.loadErr
	}

	if notes == nil {
		notes = []Note{}
	}
	s.notes = notes
	s.loaded = true
	s.loadErr = nil
	return nil
}

// Create sends a new note to the service and reloads on success.
func (s *Store) Create(ctx context.Context, title, content string) error {
	note, err := s.svc.CreateNote(ctx, title, content)
	if err != nil {
		s.logger.Error("notes: create failed", "error", err)
		return &ActionError{Action: ActionCreate, Err: err}
	}
	if note != nil {
		s.logger.Debug("notes: created", "id", note.ID)
	}
	s.refresh(ctx)
	return nil
}

// Update replaces the title and content of note id and reloads on success.
func (s *Store) Update(ctx context.Context, id, title, content string) error {
	if _, err := s.svc.UpdateNote(ctx, id, title, content); err != nil {
		s.logger.Error("notes: update failed", "id", id, "error", err)
		return &ActionError{Action: ActionUpdate, Err: err}
	}
	s.logger.Debug("notes: updated", "id", id)
	s.refresh(ctx)
	return nil
}

// Delete removes note id and reloads on success. On failure the note stays visible.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.svc.DeleteNote(ctx, id); err != nil {
		s.logger.Error("notes: delete failed", "id", id, "error", err)
		return &ActionError{Action: ActionDelete, Err: err}
	}
	s.logger.Debug("notes: deleted", "id", id)
	s.refresh(ctx)
	return nil
}

// refresh reloads after a successful mutation. A refresh failure does not undo the
// mutation; it is kept as the store's load error.
func (s *Store) refresh(ctx context.Context) {
	_ = s.Load(ctx)
}

// Notes returns a copy of the current collection in service order.
func (s *Store) Notes() []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Note, len(s.notes))
	copy(out, s.notes)
	return out
}

// Find returns the note with the given id from the current collection.
func (s *Store) Find(id string) (Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.notes {
		if n.ID == id {
			return n, true
		}
	}
	return Note{}, false
}

// Loaded reports whether at least one load has succeeded.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Err returns the error of the latest applied load, if it failed.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// Service returns the service the store talks to.
func (s *Store) Service() Service { return s.svc }
