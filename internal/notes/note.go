package notes

import (
	"context"
	"time"
)

// Note is a note as last reported by the notes service.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Service is the remote notes API the store and editor session depend on.
type Service interface {
	ListNotes(ctx context.Context) ([]Note, error)
	// CreateNote and UpdateNote return nil when the service acknowledges
	// without sending the note back.
	CreateNote(ctx context.Context, title, content string) (*Note, error)
	UpdateNote(ctx context.Context, id, title, content string) (*Note, error)
	DeleteNote(ctx context.Context, id string) error
	GenerateContent(ctx context.Context, seed string) (string, error)
}

// Generator produces AI content from seed text.
type Generator interface {
	GenerateContent(ctx context.Context, seed string) (string, error)
}

// Draft is the working copy of a note inside an editor session.
// SourceID is empty when composing a new note.
type Draft struct {
	SourceID string
	Title    string
	Content  string
}

// IsNew reports whether saving the draft creates a note.
func (d Draft) IsNew() bool { return d.SourceID == "" }

// draftFrom copies a note into a draft.
func draftFrom(n Note) Draft {
	return Draft{
		SourceID: n.ID,
		Title:    n.Title,
		Content:  n.Content,
	}
}
