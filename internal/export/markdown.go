package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/noteshive/noteshive/internal/notes"
)

type frontMatter struct {
	Title      string    `yaml:"title"`
	ID         string    `yaml:"id,omitempty"`
	CreatedAt  time.Time `yaml:"created_at,omitempty"`
	ExportedAt time.Time `yaml:"exported_at"`
}

// WriteMarkdown writes the note as Markdown with a YAML front matter header.
func WriteMarkdown(w io.Writer, n notes.Note, exportedAt time.Time) error {
	title := n.Title
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}
	content := strings.TrimRight(n.Content, "\n")
	if strings.TrimSpace(content) == "" {
		content = DefaultContent
	}

	fm, err := yaml.Marshal(frontMatter{
		Title:      title,
		ID:         n.ID,
		CreatedAt:  n.CreatedAt.UTC(),
		ExportedAt: exportedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode front matter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(fm)
	buf.WriteString("---\n\n")
	fmt.Fprintf(&buf, "# %s\n\n%s\n", title, content)
	_, err = w.Write(buf.Bytes())
	return err
}

// SaveMarkdown writes the note to dir/FileName(title, ".md").
func SaveMarkdown(dir string, n notes.Note, exportedAt time.Time) (string, error) {
	return saveFile(dir, FileName(n.Title, ".md"), func(w io.Writer) error {
		return WriteMarkdown(w, n, exportedAt)
	})
}
