package notes

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// fakeService is an in-memory Service that records calls.
type fakeService struct {
	mu     sync.Mutex
	notes  []Note
	nextID int

	listErr   error
	createErr error
	updateErr error
	deleteErr error
	genErr    error
	genText   string

	lists, creates, updates, deletes, generates int
}

func newFakeService(seed ...Note) *fakeService {
	return &fakeService{notes: append([]Note(nil), seed...), nextID: len(seed) + 1}
}

func (f *fakeService) ListNotes(ctx context.Context) ([]Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]Note(nil), f.notes...), nil
}

func (f *fakeService) CreateNote(ctx context.Context, title, content string) (*Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.createErr != nil {
		return nil, f.createErr
	}
	n := Note{
		ID:        fmt.Sprintf("%d", f.nextID),
		Title:     title,
		Content:   content,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	f.nextID++
	f.notes = append(f.notes, n)
	return &n, nil
}

func (f *fakeService) UpdateNote(ctx context.Context, id, title, content string) (*Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for i := range f.notes {
		if f.notes[i].ID == id {
			f.notes[i].Title = title
			f.notes[i].Content = content
			n := f.notes[i]
			return &n, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeService) DeleteNote(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i := range f.notes {
		if f.notes[i].ID == id {
			f.notes = append(f.notes[:i], f.notes[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeService) GenerateContent(ctx context.Context, seed string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generates++
	if f.genErr != nil {
		return "", f.genErr
	}
	if f.genText != "" {
		return f.genText, nil
	}
	return seed + " (expanded)", nil
}

func (f *fakeService) counts() (lists, creates, updates, deletes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists, f.creates, f.updates, f.deletes
}

// serviceError carries a service-provided message.
type serviceError struct{ msg string }

func (e serviceError) Error() string          { return "service: " + e.msg }
func (e serviceError) ServiceMessage() string { return e.msg }
