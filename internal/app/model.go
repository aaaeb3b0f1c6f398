package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/noteshive/noteshive/internal/auth"
	"github.com/noteshive/noteshive/internal/keymap"
	"github.com/noteshive/noteshive/internal/notes"
	"github.com/noteshive/noteshive/internal/plugin"
	"github.com/noteshive/noteshive/internal/ui"
)

// Model is the root Bubble Tea model. It owns the shared plugin context and
// switches between the sign-in screen and the notes dashboard.
type Model struct {
	ctx *plugin.Context

	signin    plugin.Plugin
	dashboard plugin.Plugin
	active    plugin.Plugin

	activeContext string

	// UI state
	width, height int
	ready         bool
	showHelp      bool
	showDiag      bool
	showFooter    bool
	quitConfirm   *ui.ConfirmDialog
	help          help.Model

	// Status/toast messages
	statusMsg     string
	statusExpiry  time.Time
	statusIsError bool

	// Session file watcher
	sessionEvents <-chan auth.Event
	stopWatch     context.CancelFunc

	// Intro animation
	intro IntroModel
}

// New creates the application model. Both screens are initialized with ctx.
// When ctx already carries a session the dashboard opens first.
func New(ctx *plugin.Context, signin, dashboard plugin.Plugin) (Model, error) {
	for _, p := range []plugin.Plugin{signin, dashboard} {
		if err := p.Init(ctx); err != nil {
			return Model{}, err
		}
	}

	showFooter := true
	if ctx.Config != nil {
		showFooter = ctx.Config.UI.ShowFooter
	}

	m := Model{
		ctx:           ctx,
		signin:        signin,
		dashboard:     dashboard,
		activeContext: keymap.ContextGlobal,
		showFooter:    showFooter,
		help:          help.New(),
		intro:         NewIntroModel("NotesHive"),
	}

	m.active = signin
	if ctx.SignedIn() {
		m.active = dashboard
	}

	if ctx.Sessions != nil && (ctx.Config == nil || ctx.Config.Session.Watch) {
		watchCtx, cancel := context.WithCancel(context.Background())
		events, err := ctx.Sessions.Watch(watchCtx)
		if err != nil {
			cancel()
			ctx.Logger.Warn("app: session watch unavailable", "error", err)
		} else {
			m.sessionEvents = events
			m.stopWatch = cancel
		}
	}
	return m, nil
}

// Init starts the clock, the intro animation, the session watcher and the first screen.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(),
		IntroTick(),
		waitSessionEvent(m.sessionEvents),
	}
	if cmd := m.active.Start(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// Close stops background work. Call it after the program exits.
func (m Model) Close() {
	if m.stopWatch != nil {
		m.stopWatch()
	}
}

// ActivePlugin returns the screen currently shown.
func (m Model) ActivePlugin() plugin.Plugin {
	return m.active
}

// activate stops the current screen and starts p.
func (m *Model) activate(p plugin.Plugin) tea.Cmd {
	if m.active != nil && m.active != p {
		m.active.Stop()
	}
	m.active = p
	cmd := p.Start()
	m.updateContext()
	return cmd
}

// signIn installs sess as the active credential and opens the dashboard.
func (m *Model) signIn(sess *auth.Session) tea.Cmd {
	m.ctx.Session = sess
	m.ctx.Client = m.ctx.Anon.WithCredentials(sess)
	m.ctx.Store = notes.NewStore(m.ctx.Client, m.ctx.Logger)
	m.ctx.Epoch++
	m.ctx.Logger.Info("app: signed in", "email", sess.User.Email, "epoch", m.ctx.Epoch)

	// The dashboard may already be active when another process swapped the session.
	if m.active == m.dashboard {
		m.dashboard.Stop()
		m.active = nil
	}
	return m.activate(m.dashboard)
}

// signOut clears the session and returns to sign-in. When clearFile is false the
// session file is left alone because it already changed on disk.
func (m *Model) signOut(reason string, clearFile bool) tea.Cmd {
	if clearFile && m.ctx.Sessions != nil {
		if err := m.ctx.Sessions.Clear(); err != nil {
			m.ctx.Logger.Error("app: clear session failed", "error", err)
		}
	}
	m.ctx.Session = nil
	m.ctx.Client = nil
	m.ctx.Store = nil
	m.ctx.Epoch++
	m.ctx.Logger.Info("app: signed out", "reason", reason, "epoch", m.ctx.Epoch)

	cmd := m.activate(m.signin)
	if reason != "" {
		m.ShowToast(reason, 4*time.Second)
	}
	return cmd
}

// ShowToast displays a temporary status message.
func (m *Model) ShowToast(msg string, duration time.Duration) {
	m.statusMsg = msg
	m.statusExpiry = time.Now().Add(duration)
	m.statusIsError = false
}

// ClearToast clears any expired toast message.
func (m *Model) ClearToast() {
	if m.statusMsg != "" && time.Now().After(m.statusExpiry) {
		m.statusMsg = ""
		m.statusIsError = false
	}
}

// consumesText reports whether the active screen wants printable keys.
func (m Model) consumesText() bool {
	if tc, ok := m.active.(plugin.TextInputConsumer); ok {
		return tc.ConsumesTextInput()
	}
	return false
}
