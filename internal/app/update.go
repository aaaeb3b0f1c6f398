package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/noteshive/noteshive/internal/auth"
	"github.com/noteshive/noteshive/internal/keymap"
	"github.com/noteshive/noteshive/internal/msg"
	"github.com/noteshive/noteshive/internal/plugin"
	"github.com/noteshive/noteshive/internal/styles"
	"github.com/noteshive/noteshive/internal/ui"
)

// Update handles all messages and returns the updated model and commands.
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(message)

	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height
		m.ready = true
		m.help.Width = message.Width
		return m, m.broadcast(tea.WindowSizeMsg{Width: message.Width, Height: m.contentHeight()})

	case IntroTickMsg:
		if m.intro.Active && !m.intro.Done {
			m.intro.Update(16 * time.Millisecond)
			if !m.intro.Done {
				return m, IntroTick()
			}
		}
		return m, nil

	case TickMsg:
		m.ClearToast()
		return m, tickCmd()

	case msg.ToastMsg:
		m.ShowToast(message.Message, message.Duration)
		m.statusIsError = message.IsError
		return m, nil

	case plugin.SignedInMsg:
		return m, m.signIn(message.Session)

	case plugin.SignOutMsg:
		return m, m.signOut(message.Reason, true)

	case sessionEventMsg:
		return m, tea.Batch(m.handleSessionEvent(message.Event), waitSessionEvent(m.sessionEvents))
	}

	// Async results go to both screens; each drops what is not its own.
	cmd := m.broadcast(message)
	if !m.showHelp && !m.showDiag && m.quitConfirm == nil {
		m.updateContext()
	}
	return m, cmd
}

// broadcast forwards message to every screen.
func (m *Model) broadcast(message tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for _, p := range []plugin.Plugin{m.signin, m.dashboard} {
		if _, cmd := p.Update(message); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// handleSessionEvent follows sign-ins and sign-outs made by other processes
// sharing the session file.
func (m *Model) handleSessionEvent(ev auth.Event) tea.Cmd {
	switch ev.Kind {
	case auth.SessionRemoved:
		if m.ctx.SignedIn() {
			return m.signOut("Signed out from another window", false)
		}
	case auth.SessionChanged:
		sess, err := m.ctx.Sessions.Load()
		if err != nil || !sess.Valid(time.Now()) {
			return nil
		}
		if m.ctx.Session != nil && m.ctx.Session.Token == sess.Token {
			return nil
		}
		return m.signIn(sess)
	}
	return nil
}

// handleKeyMsg processes keyboard input.
func (m Model) handleKeyMsg(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.quitConfirm != nil {
		switch m.quitConfirm.HandleKey(k) {
		case ui.ConfirmAccepted:
			m.quitConfirm = nil
			m.active.Stop()
			m.Close()
			return m, tea.Quit
		case ui.ConfirmCancelled:
			m.quitConfirm = nil
			m.updateContext()
		}
		return m, nil
	}

	command := m.ctx.Keymap.Lookup(k.String(), keymap.ContextGlobal)

	if m.showHelp {
		if k.Type == tea.KeyEsc || command == "toggle-help" {
			m.showHelp = false
			m.updateContext()
		}
		return m, nil
	}

	if m.showDiag {
		if k.Type == tea.KeyEsc || command == "toggle-diagnostics" {
			m.showDiag = false
			m.updateContext()
		}
		return m, nil
	}

	// Text input screens get every key except ctrl+c.
	if m.consumesText() && k.Type != tea.KeyCtrlC {
		return m, m.forward(k)
	}

	switch command {
	case "quit":
		m.openQuitConfirm()
		return m, nil
	case "toggle-help":
		m.showHelp = true
		m.activeContext = "help"
		return m, nil
	case "toggle-diagnostics":
		m.showDiag = true
		m.activeContext = "diagnostics"
		return m, nil
	case "toggle-footer":
		m.showFooter = !m.showFooter
		return m, m.broadcast(tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()})
	}

	return m, m.forward(k)
}

// forward sends k to the active screen.
func (m *Model) forward(k tea.KeyMsg) tea.Cmd {
	_, cmd := m.active.Update(k)
	m.updateContext()
	return cmd
}

func (m *Model) openQuitConfirm() {
	d := ui.NewConfirmDialog("Quit NotesHive?", "Are you sure you want to quit?")
	d.ConfirmLabel = " Quit "
	d.BorderColor = styles.Error
	m.quitConfirm = d
	m.activeContext = keymap.ContextConfirm
}

// updateContext sets activeContext based on current state.
func (m *Model) updateContext() {
	if m.active != nil {
		m.activeContext = m.active.FocusContext()
	} else {
		m.activeContext = keymap.ContextGlobal
	}
}
