package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileStore persists the session as a JSON file readable only by the user.
type FileStore struct {
	path string
}

// NewFileStore returns a store for the session file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the session file location.
func (f *FileStore) Path() string { return f.path }

// Load reads the saved session. It returns ErrNoSession when the file does not exist
// or holds no token.
func (f *FileStore) Load() (*Session, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, err
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if s.Token == "" {
		return nil, ErrNoSession
	}
	return &s, nil
}

// Save writes the session, replacing any previous one.
func (f *FileStore) Save(s *Session) error {
	if _, err := s.BearerToken(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return err
	}
	if s.SavedAt.IsZero() {
		s.SavedAt = time.Now().UTC()
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

// Clear removes the saved session. Clearing a missing session is not an error.
func (f *FileStore) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// EventKind describes how the session file changed.
type EventKind int

const (
	SessionChanged EventKind = iota
	SessionRemoved
)

// Event reports a change to the session file.
type Event struct {
	Kind EventKind
}

const watchDebounce = 100 * time.Millisecond

// Watch reports changes to the session file until ctx is done. The parent directory is
// watched so the file can be removed and recreated.
func (f *FileStore) Watch(ctx context.Context) (<-chan Event, error) {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	events := make(chan Event, 8)
	name := filepath.Clean(f.path)

	go func() {
		defer watcher.Close()
		defer close(events)

		var debounce <-chan time.Time
		var pending bool

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != name {
					continue
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				pending = true
				debounce = time.After(watchDebounce)

			case <-debounce:
				debounce = nil
				if !pending {
					continue
				}
				pending = false

				kind := SessionChanged
				if _, err := os.Stat(f.path); errors.Is(err, os.ErrNotExist) {
					kind = SessionRemoved
				}
				select {
				case events <- Event{Kind: kind}:
				default:
					// Channel full, drop event
				}

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return events, nil
}
