package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noteshive/noteshive/internal/api/apitest"
	"github.com/noteshive/noteshive/internal/auth"
	"github.com/noteshive/noteshive/internal/config"
	"github.com/noteshive/noteshive/internal/notes"
)

type harness struct {
	srv       *apitest.Server
	dir       string
	cfgPath   string
	exportDir string
	sessions  *auth.FileStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	srv := apitest.NewServer()
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	h := &harness{
		srv:       srv,
		dir:       dir,
		cfgPath:   filepath.Join(dir, "config.json"),
		exportDir: filepath.Join(dir, "exports"),
		sessions:  auth.NewFileStore(filepath.Join(dir, "session.json")),
	}

	cfg := config.Default()
	cfg.API.BaseURL = srv.BaseURL()
	cfg.Session.Path = h.sessions.Path()
	cfg.Export.Dir = h.exportDir
	require.NoError(t, config.SaveTo(cfg, h.cfgPath))
	return h
}

// signIn saves a session the fake service accepts.
func (h *harness) signIn(t *testing.T) {
	t.Helper()
	require.NoError(t, h.sessions.Save(&auth.Session{
		Token: apitest.Token,
		User:  auth.User{Name: "Ada", Email: "ada@example.com"},
	}))
}

func (h *harness) run(stdin string, args ...string) (string, error) {
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", h.cfgPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestLoginWithCode(t *testing.T) {
	h := newHarness(t)
	h.srv.AddUser("Ada", "ada@example.com")

	out, err := h.run(apitest.OTP+"\n", "login", "--email", "ada@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as Ada")

	sess, err := h.sessions.Load()
	require.NoError(t, err)
	assert.Equal(t, apitest.Token, sess.Token)
	assert.Equal(t, 1, h.srv.Calls("POST", "/auth/verify-otp"))
}

func TestLoginPromptsForEmail(t *testing.T) {
	h := newHarness(t)
	h.srv.AddUser("Ada", "ada@example.com")

	_, err := h.run("ada@example.com\n"+apitest.OTP+"\n", "login")
	require.NoError(t, err)
	_, err = h.sessions.Load()
	assert.NoError(t, err)
}

func TestDirectLoginSkipsCode(t *testing.T) {
	h := newHarness(t)
	h.srv.AddUser("Ada", "ada@example.com")
	h.srv.SetDirectLogin(true)

	out, err := h.run("", "login", "--email", "ada@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as Ada")
	assert.Zero(t, h.srv.Calls("POST", "/auth/verify-otp"))
}

func TestLoginFailures(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		want  string
	}{
		{"unknown user", "", "User not found. Please sign up."},
		{"wrong code", "000000\n", "Invalid OTP"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			if tt.name == "wrong code" {
				h.srv.AddUser("Ada", "ada@example.com")
			}
			_, err := h.run(tt.stdin, "login", "--email", "ada@example.com")
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())

			_, err = h.sessions.Load()
			assert.ErrorIs(t, err, auth.ErrNoSession)
		})
	}
}

func TestSignup(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(apitest.OTP+"\n", "signup",
		"--name", "Grace", "--email", "grace@example.com", "--dob", "1906-12-09")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as Grace")

	_, err = h.run("", "signup", "--name", "Grace", "--email", "grace@example.com", "--dob", "1906-12-09")
	require.Error(t, err)
	assert.Equal(t, "User already exists", err.Error())
}

func TestSignupValidation(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("", "signup", "--name", "Grace", "--email", "grace@example.com", "--dob", "09/12/1906")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
	assert.Zero(t, h.srv.Calls("POST", "/auth/signup"))
}

func TestWhoamiAndLogout(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("", "whoami")
	assert.ErrorIs(t, err, errNotSignedIn)

	h.signIn(t)
	out, err := h.run("", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Ada")
	assert.Contains(t, out, "ada@example.com")

	out, err = h.run("", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out")
	_, err = h.sessions.Load()
	assert.ErrorIs(t, err, auth.ErrNoSession)
}

func TestList(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)

	out, err := h.run("", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No Notes Yet")

	h.srv.Seed(
		apitest.Note{Title: "Groceries", Content: "milk"},
		apitest.Note{Title: "Ideas", Content: "build a hive"},
	)

	out, err = h.run("", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Groceries")
	assert.Contains(t, out, "Ideas")

	out, err = h.run("", "list", "--json")
	require.NoError(t, err)
	var got []notes.Note
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Groceries", got[0].Title)
	assert.Equal(t, "milk", got[0].Content)
}

func TestNotSignedIn(t *testing.T) {
	h := newHarness(t)
	for _, args := range [][]string{{"list"}, {"add", "--title", "x"}, {"rm", "n1", "--yes"}} {
		_, err := h.run("", args...)
		assert.ErrorIs(t, err, errNotSignedIn, "%v", args)
	}
	assert.Zero(t, h.srv.Calls("GET", "/notes"))
}

func TestExpiredSessionIsReported(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.srv.Fail("GET", "/notes", 401, "Invalid or expired token")

	_, err := h.run("", "list")
	assert.ErrorIs(t, err, errSessionExpired)
}

func TestAddEditRemove(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)

	out, err := h.run("", "add", "--title", "Groceries", "--content", "milk")
	require.NoError(t, err)
	assert.Contains(t, out, `Created "Groceries"`)
	stored := h.srv.Notes()
	require.Len(t, stored, 1)
	id := stored[0].ID

	_, err = h.run("", "edit", id, "--title", "Shopping")
	require.NoError(t, err)
	stored = h.srv.Notes()
	require.Len(t, stored, 1)
	assert.Equal(t, "Shopping", stored[0].Title)
	assert.Equal(t, "milk", stored[0].Content)
	assert.Equal(t, 1, h.srv.Calls("POST", "/notes"))
	assert.Equal(t, 1, h.srv.Calls("PUT", "/notes/{id}"))

	out, err = h.run("n\n", "rm", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled")
	assert.Len(t, h.srv.Notes(), 1)

	out, err = h.run("y\n", "rm", id)
	require.NoError(t, err)
	assert.Contains(t, out, `Deleted "Shopping"`)
	assert.Empty(t, h.srv.Notes())
}

func TestRemoveSeveral(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	seeded := h.srv.Seed(
		apitest.Note{Title: "one"},
		apitest.Note{Title: "two"},
		apitest.Note{Title: "three"},
	)

	out, err := h.run("y\n", "rm", seeded[0].ID, seeded[2].ID)
	require.NoError(t, err)
	assert.Contains(t, out, `Deleted "one"`)
	assert.Contains(t, out, `Deleted "three"`)
	left := h.srv.Notes()
	require.Len(t, left, 1)
	assert.Equal(t, "two", left[0].Title)
	assert.Equal(t, 2, h.srv.Calls("DELETE", "/notes/{id}"))
}

func TestRemoveReportsEachFailure(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	seeded := h.srv.Seed(apitest.Note{Title: "one"}, apitest.Note{Title: "two"})
	h.srv.Fail("DELETE", "/notes/{id}", 500, "")

	out, err := h.run("", "rm", "--yes", seeded[0].ID, "missing", seeded[1].ID)
	require.Error(t, err)
	assert.Equal(t, "2 of 3 notes not deleted", err.Error())
	assert.NotContains(t, out, `Deleted "one"`)
	assert.Contains(t, out, `Deleted "two"`)
	left := h.srv.Notes()
	require.Len(t, left, 1)
	assert.Equal(t, "one", left[0].Title)
}

func TestRemoveUnknownOnly(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)

	_, err := h.run("", "rm", "--yes", "missing")
	require.Error(t, err)
	assert.Zero(t, h.srv.Calls("DELETE", "/notes/{id}"))
}

func TestAddFromStdin(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)

	_, err := h.run("line one\nline two\n", "add", "--title", "Piped", "--file", "-")
	require.NoError(t, err)
	stored := h.srv.Notes()
	require.Len(t, stored, 1)
	assert.Equal(t, "line one\nline two", stored[0].Content)
}

func TestEditChecks(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)

	_, err := h.run("", "edit", "n1")
	assert.ErrorIs(t, err, errNothingToChange)

	_, err = h.run("", "edit", "missing", "--title", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no note with id")
	assert.Zero(t, h.srv.Calls("PUT", "/notes/{id}"))
}

func TestServiceFailureMessage(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.srv.Fail("POST", "/notes", 500, "")

	_, err := h.run("", "add", "--title", "x", "--content", "y")
	require.Error(t, err)
	assert.Equal(t, "Failed to create note", err.Error())
	assert.Empty(t, h.srv.Notes())
}

func TestGenerate(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	seeded := h.srv.Seed(apitest.Note{Title: "Plan", Content: "Ship the CLI"})
	id := seeded[0].ID
	h.srv.SetGenerated("Ship the CLI, then the docs")

	out, err := h.run("", "generate", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Ship the CLI, then the docs")
	assert.Zero(t, h.srv.Calls("PUT", "/notes/{id}"))

	_, err = h.run("", "generate", id, "--apply")
	require.NoError(t, err)
	stored := h.srv.Notes()
	assert.Equal(t, "Plan", stored[0].Title)
	assert.Equal(t, "Ship the CLI, then the docs", stored[0].Content)
}

func TestGenerateFromSeed(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)

	out, err := h.run("", "generate", "--seed", "Bees")
	require.NoError(t, err)
	assert.Contains(t, out, "Bees")

	_, err = h.run("", "generate", "--seed", "   ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to generate")
	assert.Equal(t, 1, h.srv.Calls("POST", "/notes/generate"))

	_, err = h.run("", "generate", "--apply")
	require.Error(t, err)
}

func TestExport(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	id := h.srv.Seed(apitest.Note{Title: "My Notes: 2024/01", Content: "hello"})[0].ID

	out, err := h.run("", "export", id)
	require.NoError(t, err)
	want := filepath.Join(h.exportDir, "My_Notes__2024_01.pdf")
	assert.Equal(t, want, strings.TrimSpace(out))
	assert.FileExists(t, want)

	other := t.TempDir()
	out, err = h.run("", "export", id, "--format", "md", "--dir", other)
	require.NoError(t, err)
	data, err := os.ReadFile(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Contains(t, string(data), "# My Notes: 2024/01")

	_, err = h.run("", "export", id, "--format", "docx")
	assert.Error(t, err)
}

func TestAvatar(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	img := filepath.Join(t.TempDir(), "face.png")
	require.NoError(t, os.WriteFile(img, []byte("png-bytes"), 0644))

	out, err := h.run("", "avatar", img)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/face.png", strings.TrimSpace(out))
	assert.Equal(t, []byte("png-bytes"), h.srv.Uploaded())

	sess, err := h.sessions.Load()
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/face.png", sess.User.ProfilePicture)
}

func TestConfigCommands(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "fresh", "config.json")

	out, err := h.run("", "--config", path, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, path, strings.TrimSpace(out))

	_, err = h.run("", "--config", path, "config", "init")
	require.NoError(t, err)
	assert.FileExists(t, path)

	_, err = h.run("", "--config", path, "config", "init")
	assert.Error(t, err)
	_, err = h.run("", "--config", path, "config", "init", "--force")
	assert.NoError(t, err)

	out, err = h.run("", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, h.srv.BaseURL())
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	out, err := h.run("", "version", "--upgrade", "v1.2.0")
	require.NoError(t, err)
	assert.Contains(t, out, "noteshive version")
	assert.Contains(t, out, "v1.2.0")
}
