package plugin

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/noteshive/noteshive/internal/api"
	"github.com/noteshive/noteshive/internal/auth"
	"github.com/noteshive/noteshive/internal/config"
	"github.com/noteshive/noteshive/internal/keymap"
	"github.com/noteshive/noteshive/internal/notes"
)

// Plugin defines the interface for every noteshive screen.
type Plugin interface {
	ID() string
	Name() string
	Init(ctx *Context) error
	Start() tea.Cmd
	Stop()
	Update(msg tea.Msg) (Plugin, tea.Cmd)
	View(width, height int) string
	Commands() []Command
	FocusContext() string
}

// TextInputConsumer is an optional capability for screens that need
// alphanumeric key input to be forwarded as typed text instead of being
// intercepted by app-level shortcuts.
type TextInputConsumer interface {
	ConsumesTextInput() bool
}

// Category represents a logical grouping of commands in the help view.
type Category string

const (
	CategoryNavigation Category = "Navigation"
	CategoryActions    Category = "Actions"
	CategoryEdit       Category = "Edit"
	CategoryExport     Category = "Export"
	CategorySystem     Category = "System"
)

// Command represents a keybinding command exposed by a screen.
type Command struct {
	ID          string   // Unique identifier (e.g., "export-pdf")
	Name        string   // Short name for footer (e.g., "PDF")
	Description string   // Full description for help
	Category    Category // Logical grouping
	Context     string   // Activation context
	Priority    int      // Footer display priority: 1=highest, 0=default (treated as 99)
}

// Context is the shared state handed to every screen.
// The app owns it; screens read it and never replace its fields.
type Context struct {
	Config   *config.Config
	Logger   *slog.Logger
	Keymap   *keymap.Registry
	Sessions *auth.FileStore

	// Client carries the signed-in user's credentials; Anon makes unauthenticated calls.
	Client *api.Client
	Anon   *api.Client

	// Session and Store are nil while signed out.
	Session *auth.Session
	Store   *notes.Store

	// Epoch increments on every sign-in and sign-out. Async results tagged
	// with an older epoch belong to a previous user and are dropped.
	Epoch uint64
}

// SignedIn reports whether a user session is active.
func (c *Context) SignedIn() bool {
	return c != nil && c.Session != nil && c.Store != nil
}

// SignedInMsg is emitted by the sign-in screen once a session has been saved.
type SignedInMsg struct {
	Session *auth.Session
}

// SignOutMsg asks the app to clear the session and return to sign-in.
type SignOutMsg struct {
	// Reason is shown as a toast when set.
	Reason string
}

// EpochMessage is implemented by async messages that need staleness detection.
// Messages from async operations should embed an Epoch field and implement this interface.
type EpochMessage interface {
	GetEpoch() uint64
}

// IsStale returns true if the message's epoch doesn't match the current context epoch.
// Use this in Update() handlers to discard results from a previous session:
//
//	if plugin.IsStale(p.ctx, msg) { return p, nil }
func IsStale(ctx *Context, msg EpochMessage) bool {
	return ctx != nil && msg.GetEpoch() != ctx.Epoch
}
