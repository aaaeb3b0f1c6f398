package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/noteshive/noteshive/internal/notes"
)

// wireNote accepts both Mongo-style "_id" and plain "id".
type wireNote struct {
	MongoID   string    `json:"_id"`
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func (w wireNote) note() notes.Note {
	id := w.ID
	if id == "" {
		id = w.MongoID
	}
	return notes.Note{ID: id, Title: w.Title, Content: w.Content, CreatedAt: w.CreatedAt}
}

// envelope is a response that may wrap its payload under "data".
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// unwrap returns the payload under "data" when present, else the body itself.
func unwrap(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed
	}
	var env envelope
	if json.Unmarshal(trimmed, &env) == nil && len(env.Data) > 0 && string(env.Data) != "null" {
		return env.Data
	}
	return trimmed
}

type noteBody struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ListNotes returns every note of the signed-in user in service order.
func (c *Client) ListNotes(ctx context.Context) ([]notes.Note, error) {
	var raw json.RawMessage
	if err := c.do(ctx, request{method: http.MethodGet, path: "/notes", auth: true}, &raw); err != nil {
		return nil, err
	}
	var wire []wireNote
	if payload := unwrap(raw); len(payload) > 0 {
		if err := json.Unmarshal(payload, &wire); err != nil {
			return nil, fmt.Errorf("decode notes: %w", err)
		}
	}
	out := make([]notes.Note, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.note())
	}
	return out, nil
}

// CreateNote stores a new note and returns it with its service-assigned id.
func (c *Client) CreateNote(ctx context.Context, title, content string) (*notes.Note, error) {
	return c.writeNote(ctx, http.MethodPost, "/notes", title, content)
}

// UpdateNote replaces the title and content of an existing note.
func (c *Client) UpdateNote(ctx context.Context, id, title, content string) (*notes.Note, error) {
	return c.writeNote(ctx, http.MethodPut, "/notes/"+url.PathEscape(id), title, content)
}

func (c *Client) writeNote(ctx context.Context, method, path, title, content string) (*notes.Note, error) {
	var raw json.RawMessage
	req := request{method: method, path: path, body: noteBody{Title: title, Content: content}, auth: true}
	if err := c.do(ctx, req, &raw); err != nil {
		return nil, err
	}
	payload := unwrap(raw)
	if len(payload) == 0 {
		return nil, nil
	}
	var w wireNote
	if err := json.Unmarshal(payload, &w); err != nil {
		return nil, fmt.Errorf("decode note: %w", err)
	}
	n := w.note()
	if n.ID == "" {
		// A bare acknowledgement carries no note.
		return nil, nil
	}
	return &n, nil
}

// DeleteNote removes a note.
func (c *Client) DeleteNote(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/notes/" + url.PathEscape(id), auth: true}, nil)
}

// GenerateContent asks the service to expand seed text.
func (c *Client) GenerateContent(ctx context.Context, seed string) (string, error) {
	var raw json.RawMessage
	req := request{method: http.MethodPost, path: "/notes/generate", body: map[string]string{"content": seed}, auth: true}
	if err := c.do(ctx, req, &raw); err != nil {
		return "", err
	}

	var resp struct {
		Content          string          `json:"content"`
		GeneratedContent string          `json:"generatedContent"`
		Data             json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("decode generated content: %w", err)
	}
	switch {
	case resp.Content != "":
		return resp.Content, nil
	case resp.GeneratedContent != "":
		return resp.GeneratedContent, nil
	case len(resp.Data) > 0:
		var s string
		if json.Unmarshal(resp.Data, &s) == nil {
			return s, nil
		}
		var nested struct {
			Content          string `json:"content"`
			GeneratedContent string `json:"generatedContent"`
		}
		if json.Unmarshal(resp.Data, &nested) == nil {
			if nested.Content != "" {
				return nested.Content, nil
			}
			if nested.GeneratedContent != "" {
				return nested.GeneratedContent, nil
			}
		}
	}
	return "", errors.New("decode generated content: no content in response")
}

var _ notes.Service = (*Client)(nil)
