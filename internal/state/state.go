package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// State holds persistent user preferences.
type State struct {
	// Note grid width preference (0 = pick from terminal width)
	GridColumns int `json:"gridColumns,omitempty"`

	// LastEmail pre-fills the sign-in form.
	LastEmail string `json:"lastEmail,omitempty"`

	// LastExportDir is where the previous export was written.
	LastExportDir string `json:"lastExportDir,omitempty"`

	// SelectedNoteID restores the grid cursor between runs.
	SelectedNoteID string `json:"selectedNoteId,omitempty"`
}

var (
	current *State
	mu      sync.RWMutex
	path    string
)

// Init loads state from the default location.
func Init() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	return InitWithDir(filepath.Join(home, ".config", "noteshive"))
}

// InitWithDir loads state from a specified directory.
// This is primarily for testing to avoid reading real user state.
func InitWithDir(dir string) error {
	path = filepath.Join(dir, "state.json")
	return Load()
}

// Load reads state from disk.
func Load() error {
	mu.Lock()
	defer mu.Unlock()

	current = &State{}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil // no state file yet, use defaults
	}
	if err != nil {
		return err
	}

	return json.Unmarshal(data, current)
}

// Save writes state to disk.
func Save() error {
	mu.RLock()
	defer mu.RUnlock()

	if current == nil || path == "" {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func update(fn func(*State)) error {
	mu.Lock()
	if current == nil {
		current = &State{}
	}
	fn(current)
	mu.Unlock()
	return Save()
}

// GetGridColumns returns the saved grid width.
// Returns 0 if no preference is saved (use default).
func GetGridColumns() int {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return 0
	}
	return current.GridColumns
}

// SetGridColumns saves the grid width.
func SetGridColumns(cols int) error {
	return update(func(s *State) { s.GridColumns = cols })
}

// GetLastEmail returns the email of the last sign-in attempt.
func GetLastEmail() string {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return ""
	}
	return current.LastEmail
}

// SetLastEmail saves the email of the last sign-in attempt.
func SetLastEmail(email string) error {
	return update(func(s *State) { s.LastEmail = email })
}

// GetLastExportDir returns the directory of the previous export.
func GetLastExportDir() string {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return ""
	}
	return current.LastExportDir
}

// SetLastExportDir saves the directory of the latest export.
func SetLastExportDir(dir string) error {
	return update(func(s *State) { s.LastExportDir = dir })
}

// GetSelectedNoteID returns the note the grid cursor was on.
func GetSelectedNoteID() string {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return ""
	}
	return current.SelectedNoteID
}

// SetSelectedNoteID saves the note under the grid cursor.
func SetSelectedNoteID(id string) error {
	return update(func(s *State) { s.SelectedNoteID = id })
}
