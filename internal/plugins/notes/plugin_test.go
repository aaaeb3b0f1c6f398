package notes

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noteshive/noteshive/internal/api"
	"github.com/noteshive/noteshive/internal/api/apitest"
	"github.com/noteshive/noteshive/internal/auth"
	"github.com/noteshive/noteshive/internal/config"
	"github.com/noteshive/noteshive/internal/keymap"
	"github.com/noteshive/noteshive/internal/msg"
	domain "github.com/noteshive/noteshive/internal/notes"
	"github.com/noteshive/noteshive/internal/plugin"
	"github.com/noteshive/noteshive/internal/state"
)

func newTestPlugin(t *testing.T) (*Plugin, *apitest.Server) {
	t.Helper()
	require.NoError(t, state.InitWithDir(t.TempDir()))

	srv := apitest.NewServer()
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sess := &auth.Session{Token: apitest.Token, User: auth.User{Name: "Ada", Email: "ada@example.com"}}
	client := api.NewClient(srv.BaseURL(), sess, api.WithLogger(logger))

	cfg := config.Default()
	cfg.Export.Dir = t.TempDir()

	ctx := &plugin.Context{
		Config:  cfg,
		Logger:  logger,
		Keymap:  keymap.NewRegistry(nil),
		Client:  client,
		Session: sess,
		Store:   domain.NewStore(client, logger),
		Epoch:   1,
	}
	p := New()
	require.NoError(t, p.Init(ctx))
	p.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return p, srv
}

// run executes cmd and feeds every resulting message back into the plugin.
// Toasts are collected instead of delivered.
func run(t *testing.T, p *Plugin, cmd tea.Cmd) []msg.ToastMsg {
	t.Helper()
	var toasts []msg.ToastMsg
	var exec func(c tea.Cmd, depth int)
	exec = func(c tea.Cmd, depth int) {
		if c == nil || depth > 8 {
			return
		}
		switch m := c().(type) {
		case nil, spinner.TickMsg:
		case tea.BatchMsg:
			for _, sub := range m {
				exec(sub, depth+1)
			}
		case msg.ToastMsg:
			toasts = append(toasts, m)
		default:
			_, next := p.Update(m)
			exec(next, depth+1)
		}
	}
	exec(cmd, 0)
	return toasts
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+g":
		return tea.KeyMsg{Type: tea.KeyCtrlG}
	case "ctrl+a":
		return tea.KeyMsg{Type: tea.KeyCtrlA}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	case "ctrl+e":
		return tea.KeyMsg{Type: tea.KeyCtrlE}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and discards widget commands such as cursor blinks.
func press(p *Plugin, s string) tea.Cmd {
	_, cmd := p.Update(key(s))
	return cmd
}

func typeText(p *Plugin, s string) {
	p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func load(t *testing.T, p *Plugin) []msg.ToastMsg {
	t.Helper()
	return run(t, p, p.Start())
}

func TestStartLoadsNotes(t *testing.T) {
	p, srv := newTestPlugin(t)
	srv.Seed(apitest.Note{Title: "Groceries", Content: "milk\neggs"}, apitest.Note{Title: "Ideas"})

	toasts := load(t, p)
	assert.Empty(t, toasts)
	assert.False(t, p.loading)

	view := p.View(120, 40)
	assert.Contains(t, view, "Groceries")
	assert.Contains(t, view, "Ideas")
	assert.Contains(t, view, "Jan 2, 2024")
	assert.Contains(t, view, "Hello, Ada")
}

func TestEmptyState(t *testing.T) {
	p, _ := newTestPlugin(t)
	load(t, p)
	assert.Contains(t, p.View(120, 40), "No Notes Yet")
}

func TestLoadFailureShowsServiceMessage(t *testing.T) {
	p, srv := newTestPlugin(t)
	srv.Fail(http.MethodGet, "/notes", http.StatusInternalServerError, "Database unavailable")

	toasts := load(t, p)
	require.Len(t, toasts, 1)
	assert.True(t, toasts[0].IsError)
	assert.Equal(t, "Database unavailable", toasts[0].Message)
	assert.Contains(t, p.View(120, 40), "Press r to retry")
}

func TestComposeAndSaveCreatesOneNote(t *testing.T) {
	p, srv := newTestPlugin(t)
	load(t, p)

	press(p, "n")
	require.Equal(t, keymap.ContextEditor, p.FocusContext())
	assert.True(t, p.ConsumesTextInput())

	typeText(p, "Plans")
	press(p, "tab")
	typeText(p, "Go hiking")
	assert.True(t, p.dirty())

	toasts := run(t, p, press(p, "ctrl+s"))

	assert.Equal(t, 1, srv.Calls(http.MethodPost, "/notes"))
	assert.Equal(t, 0, srv.Calls(http.MethodPut, "/notes/{id}"))
	assert.Equal(t, domain.ModeClosed, p.session.Mode())
	require.NotEmpty(t, toasts)
	assert.Equal(t, "Note created", toasts[0].Message)

	list := p.ctx.Store.Notes()
	require.Len(t, list, 1)
	assert.Equal(t, "Plans", list[0].Title)
	assert.Equal(t, "Go hiking", list[0].Content)
}

func TestEditExistingNoteUpdates(t *testing.T) {
	p, srv := newTestPlugin(t)
	seeded := srv.Seed(apitest.Note{Title: "Draft", Content: "v1"})
	load(t, p)

	press(p, "enter")
	require.Equal(t, keymap.ContextViewer, p.FocusContext())
	press(p, "e")
	require.Equal(t, keymap.ContextEditor, p.FocusContext())

	typeText(p, " v2")
	run(t, p, press(p, "ctrl+s"))

	assert.Equal(t, 0, srv.Calls(http.MethodPost, "/notes"))
	assert.Equal(t, 1, srv.Calls(http.MethodPut, "/notes/{id}"))
	stored := srv.Notes()
	require.Len(t, stored, 1)
	assert.Equal(t, seeded[0].ID, stored[0].ID)
	assert.Equal(t, "v1 v2", stored[0].Content)
}

func TestUnchangedEditKeepsLongTitle(t *testing.T) {
	p, srv := newTestPlugin(t)
	title := strings.Repeat("t", 250)
	seeded := srv.Seed(apitest.Note{Title: title, Content: "body"})
	load(t, p)

	press(p, "e")
	require.Equal(t, keymap.ContextEditor, p.FocusContext())
	run(t, p, press(p, "ctrl+s"))

	require.Equal(t, 1, srv.Calls(http.MethodPut, "/notes/{id}"))
	stored := srv.Notes()
	require.Len(t, stored, 1)
	assert.Equal(t, seeded[0].ID, stored[0].ID)
	assert.Equal(t, title, stored[0].Title)
	assert.Equal(t, "body", stored[0].Content)
}

func TestEditorGrowsPastNinetyNineLines(t *testing.T) {
	p, srv := newTestPlugin(t)
	lines := make([]string, 99)
	for i := range lines {
		lines[i] = "line"
	}
	srv.Seed(apitest.Note{Title: "Long", Content: strings.Join(lines, "\n")})
	load(t, p)

	press(p, "e")
	require.Equal(t, 99, p.contentInput.LineCount())
	press(p, "enter")
	typeText(p, "more")

	assert.Equal(t, 100, p.contentInput.LineCount())
	assert.True(t, strings.HasSuffix(p.contentInput.Value(), "line\nmore"))
}

func TestEditorExportFailureKeepsDraft(t *testing.T) {
	p, srv := newTestPlugin(t)
	srv.Seed(apitest.Note{Title: "Draft", Content: "v1"})
	load(t, p)

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	p.ctx.Config.Export.Dir = filepath.Join(blocker, "exports")

	press(p, "e")
	typeText(p, " v2")
	before, ok := p.session.Draft()
	require.True(t, ok)
	lists := srv.Calls(http.MethodGet, "/notes")

	toasts := run(t, p, press(p, "ctrl+e"))

	require.Len(t, toasts, 1)
	assert.True(t, toasts[0].IsError)
	assert.Contains(t, toasts[0].Message, "Export failed")
	assert.Equal(t, domain.ModeComposing, p.session.Mode())
	after, ok := p.session.Draft()
	require.True(t, ok)
	assert.Equal(t, before.Title, after.Title)
	assert.Equal(t, "v1 v2", after.Content)
	assert.Equal(t, keymap.ContextEditor, p.FocusContext())

	assert.Equal(t, lists, srv.Calls(http.MethodGet, "/notes"))
	assert.Equal(t, 0, srv.Calls(http.MethodPost, "/notes"))
	assert.Equal(t, 0, srv.Calls(http.MethodPut, "/notes/{id}"))
	assert.Equal(t, 0, srv.Calls(http.MethodDelete, "/notes/{id}"))
	assert.Equal(t, 0, srv.Calls(http.MethodPost, "/notes/generate"))
	_, err := os.Stat(p.ctx.Config.Export.Dir)
	assert.Error(t, err)
}

func TestSaveFailureKeepsDraft(t *testing.T) {
	p, srv := newTestPlugin(t)
	load(t, p)
	srv.Fail(http.MethodPost, "/notes", http.StatusBadRequest, "")

	press(p, "n")
	typeText(p, "Keep me")
	toasts := run(t, p, press(p, "ctrl+s"))

	require.Len(t, toasts, 1)
	assert.Equal(t, "Failed to create note", toasts[0].Message)
	draft, ok := p.session.Draft()
	require.True(t, ok, "editor should stay open")
	assert.Equal(t, "Keep me", draft.Title)
	assert.False(t, p.session.Saving())
}

func TestCancelComposeIssuesNoCalls(t *testing.T) {
	p, srv := newTestPlugin(t)
	load(t, p)

	press(p, "n")
	typeText(p, "Throwaway")
	toasts := run(t, p, press(p, "esc"))

	assert.Equal(t, domain.ModeClosed, p.session.Mode())
	assert.Equal(t, 0, srv.Calls(http.MethodPost, "/notes"))
	require.Len(t, toasts, 1)
	assert.Equal(t, "Changes discarded", toasts[0].Message)
}

func TestDeleteWithConfirmation(t *testing.T) {
	p, srv := newTestPlugin(t)
	srv.Seed(apitest.Note{Title: "A", Content: "x"})
	load(t, p)

	press(p, "d")
	require.Equal(t, keymap.ContextConfirm, p.FocusContext())
	assert.Contains(t, p.View(120, 40), "Delete Note?")

	toasts := run(t, p, press(p, "y"))

	assert.Equal(t, keymap.ContextDashboard, p.FocusContext())
	assert.Empty(t, srv.Notes())
	assert.Empty(t, p.ctx.Store.Notes())
	require.NotEmpty(t, toasts)
	assert.Equal(t, "Deleted: A", toasts[0].Message)
}

func TestDeleteCancelledKeepsNote(t *testing.T) {
	p, srv := newTestPlugin(t)
	srv.Seed(apitest.Note{Title: "A"})
	load(t, p)

	press(p, "d")
	// Cancel has focus by default.
	run(t, p, press(p, "enter"))

	assert.Nil(t, p.confirm)
	assert.Equal(t, 0, srv.Calls(http.MethodDelete, "/notes/{id}"))
	assert.Len(t, p.ctx.Store.Notes(), 1)
}

func TestDeleteFailureLeavesNoteVisible(t *testing.T) {
	p, srv := newTestPlugin(t)
	srv.Seed(apitest.Note{Title: "A"})
	load(t, p)
	srv.Fail(http.MethodDelete, "/notes/{id}", http.StatusInternalServerError, "Not allowed")

	press(p, "d")
	toasts := run(t, p, press(p, "y"))

	require.Len(t, toasts, 1)
	assert.Equal(t, "Not allowed", toasts[0].Message)
	assert.Len(t, p.ctx.Store.Notes(), 1)
	assert.Zero(t, p.deleting)
}

func TestGenerateAndApply(t *testing.T) {
	p, srv := newTestPlugin(t)
	load(t, p)
	srv.SetGenerated("A longer story")

	press(p, "n")
	typeText(p, "Story")
	press(p, "tab")

	// Blank content: nothing is sent.
	toasts := run(t, p, press(p, "ctrl+g"))
	assert.Equal(t, 0, srv.Calls(http.MethodPost, "/notes/generate"))
	require.Len(t, toasts, 1)

	typeText(p, "Once upon a time")
	run(t, p, press(p, "ctrl+g"))
	assert.Equal(t, 1, srv.Calls(http.MethodPost, "/notes/generate"))
	require.Equal(t, keymap.ContextGenerated, p.FocusContext())
	assert.Contains(t, p.View(120, 40), "A longer story")

	press(p, "ctrl+a")
	draft, _ := p.session.Draft()
	assert.Equal(t, "A longer story", draft.Content)
	assert.Equal(t, "Story", draft.Title)
	assert.Equal(t, "A longer story", p.contentInput.Value())
	assert.Equal(t, keymap.ContextEditor, p.FocusContext())
}

func TestSecondGenerateRejectedWhileInFlight(t *testing.T) {
	p, srv := newTestPlugin(t)
	load(t, p)

	press(p, "n")
	press(p, "tab")
	typeText(p, "seed")

	first := press(p, "ctrl+g")
	second := press(p, "ctrl+g")

	toasts := run(t, p, second)
	require.Len(t, toasts, 1)
	assert.Equal(t, "Already generating...", toasts[0].Message)

	run(t, p, first)
	assert.Equal(t, 1, srv.Calls(http.MethodPost, "/notes/generate"))
}

func TestDismissGenerated(t *testing.T) {
	p, _ := newTestPlugin(t)
	load(t, p)

	press(p, "n")
	press(p, "tab")
	typeText(p, "seed")
	run(t, p, press(p, "ctrl+g"))
	require.Equal(t, keymap.ContextGenerated, p.FocusContext())

	press(p, "ctrl+d")
	draft, _ := p.session.Draft()
	assert.Equal(t, "seed", draft.Content)
	assert.Equal(t, keymap.ContextEditor, p.FocusContext())
}

func TestGeneratedContentDroppedAfterCancel(t *testing.T) {
	p, _ := newTestPlugin(t)
	load(t, p)

	press(p, "n")
	press(p, "tab")
	typeText(p, "seed")
	pending := press(p, "ctrl+g")
	press(p, "esc")

	press(p, "n")
	run(t, p, pending)

	_, ok := p.session.Generated()
	assert.False(t, ok, "result from the closed editor must not appear")
	assert.False(t, p.session.Generating())
}

func TestStaleEpochResultsIgnored(t *testing.T) {
	p, srv := newTestPlugin(t)
	srv.Seed(apitest.Note{Title: "A"})
	load(t, p)

	p.ctx.Epoch++
	p.loading = true
	p.Update(NotesLoadedMsg{Epoch: p.ctx.Epoch - 1})
	assert.True(t, p.loading, "old-session load should be dropped")

	p.deleting = 1
	p.Update(NoteDeletedMsg{ID: "x", Epoch: p.ctx.Epoch - 1})
	assert.Equal(t, 1, p.deleting)
}

func TestExportWritesFiles(t *testing.T) {
	p, srv := newTestPlugin(t)
	srv.Seed(apitest.Note{Title: "My Notes: 2024/01", Content: "hello"})
	load(t, p)

	toasts := run(t, p, press(p, "p"))
	require.Len(t, toasts, 1)
	assert.False(t, toasts[0].IsError, toasts[0].Message)

	path := filepath.Join(p.ctx.Config.Export.Dir, "My_Notes__2024_01.pdf")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
	assert.Equal(t, p.ctx.Config.Export.Dir, state.GetLastExportDir())

	run(t, p, press(p, "m"))
	_, err = os.Stat(filepath.Join(p.ctx.Config.Export.Dir, "My_Notes__2024_01.md"))
	assert.NoError(t, err)
}

func TestGridNavigation(t *testing.T) {
	p, srv := newTestPlugin(t)
	srv.Seed(apitest.Note{Title: "1"}, apitest.Note{Title: "2"}, apitest.Note{Title: "3"}, apitest.Note{Title: "4"}, apitest.Note{Title: "5"})
	load(t, p)
	p.columns = 2

	press(p, "l")
	assert.Equal(t, 1, p.cursor)
	press(p, "j")
	assert.Equal(t, 3, p.cursor)
	press(p, "j")
	assert.Equal(t, 3, p.cursor, "no row below column 2")
	press(p, "h")
	press(p, "j")
	assert.Equal(t, 4, p.cursor)
	press(p, "k")
	assert.Equal(t, 2, p.cursor)
}

func TestColumnsPersist(t *testing.T) {
	p, _ := newTestPlugin(t)
	p.columns = 2
	press(p, "]")
	assert.Equal(t, 3, p.columns)
	assert.Equal(t, 3, state.GetGridColumns())
	press(p, "[")
	press(p, "[")
	press(p, "[")
	assert.Equal(t, 1, p.columns)
}

func TestExpiredSessionSignsOut(t *testing.T) {
	p, srv := newTestPlugin(t)
	srv.Fail(http.MethodGet, "/notes", http.StatusUnauthorized, "Invalid or expired token")

	cmd := p.Start()
	var out plugin.SignOutMsg
	var found bool
	var exec func(c tea.Cmd)
	exec = func(c tea.Cmd) {
		if c == nil {
			return
		}
		switch m := c().(type) {
		case tea.BatchMsg:
			for _, sub := range m {
				exec(sub)
			}
		case NotesLoadedMsg:
			_, next := p.Update(m)
			exec(next)
		case plugin.SignOutMsg:
			out, found = m, true
		}
	}
	exec(cmd)
	require.True(t, found)
	assert.Contains(t, out.Reason, "Session expired")
}

func TestSignOutKey(t *testing.T) {
	p, _ := newTestPlugin(t)
	load(t, p)
	cmd := press(p, "L")
	require.NotNil(t, cmd)
	_, ok := cmd().(plugin.SignOutMsg)
	assert.True(t, ok)
}

func TestStopRemembersSelection(t *testing.T) {
	p, srv := newTestPlugin(t)
	seeded := srv.Seed(apitest.Note{Title: "1"}, apitest.Note{Title: "2"})
	load(t, p)
	press(p, "l")
	p.Stop()
	assert.Equal(t, seeded[1].ID, state.GetSelectedNoteID())

	load(t, p)
	assert.Equal(t, 1, p.cursor)
}

func TestPreviewLines(t *testing.T) {
	lines := previewLines("first\n\n  second  \nthird\nfourth", 20, 3)
	assert.Equal(t, []string{"first", "second", "third"}, lines)
}

func TestDraftHash(t *testing.T) {
	assert.Equal(t, draftHash("a", "b"), draftHash("a", "b"))
	assert.NotEqual(t, draftHash("ab", ""), draftHash("a", "b"))
}
