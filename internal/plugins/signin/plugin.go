// Package signin is the signed-out screen: email sign-in with a one-time code,
// and account sign-up.
package signin

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/noteshive/noteshive/internal/api"
	"github.com/noteshive/noteshive/internal/auth"
	"github.com/noteshive/noteshive/internal/keymap"
	"github.com/noteshive/noteshive/internal/msg"
	"github.com/noteshive/noteshive/internal/plugin"
	"github.com/noteshive/noteshive/internal/state"
	"github.com/noteshive/noteshive/internal/styles"
)

const (
	pluginID   = "signin"
	pluginName = "Sign in"

	dobLayout = "2006-01-02"
	formWidth = 40
)

type step int

const (
	stepEmail step = iota
	stepOTP
	stepSignUp
)

// Sign-up form fields in tab order.
const (
	fieldName = iota
	fieldEmail
	fieldDOB
	fieldCount
)

// Plugin is the sign-in and sign-up screen.
type Plugin struct {
	ctx *plugin.Context

	step  step
	email string // address the pending code was sent to

	emailInput textinput.Model
	otpInput   textinput.Model
	signup     [fieldCount]textinput.Model
	field      int

	// status is the last informational message from the service.
	status string

	busy    bool
	seq     uint64
	spinner spinner.Model
}

// New creates the sign-in screen.
func New() *Plugin {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)
	return &Plugin{spinner: sp}
}

// ID returns the plugin identifier.
func (p *Plugin) ID() string { return pluginID }

// Name returns the plugin display name.
func (p *Plugin) Name() string { return pluginName }

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	ti.CharLimit = limit
	ti.Width = formWidth - 4
	return ti
}

// Init builds the form inputs.
func (p *Plugin) Init(ctx *plugin.Context) error {
	p.ctx = ctx
	p.emailInput = newInput("you@example.com", 254)
	p.otpInput = newInput("6-digit code", 12)
	p.signup[fieldName] = newInput("Your name", 100)
	p.signup[fieldEmail] = newInput("you@example.com", 254)
	p.signup[fieldDOB] = newInput("YYYY-MM-DD", 10)
	return nil
}

// Start shows the email step, prefilled with the last address used.
func (p *Plugin) Start() tea.Cmd {
	p.reset()
	if email := state.GetLastEmail(); email != "" {
		p.emailInput.SetValue(email)
		p.emailInput.CursorEnd()
	}
	return p.emailInput.Focus()
}

// Stop clears the form.
func (p *Plugin) Stop() {
	p.reset()
}

func (p *Plugin) reset() {
	p.seq++
	p.busy = false
	p.step = stepEmail
	p.email = ""
	p.status = ""
	p.field = fieldName
	p.emailInput.SetValue("")
	p.otpInput.SetValue("")
	for i := range p.signup {
		p.signup[i].SetValue("")
	}
	p.blurAll()
}

func (p *Plugin) blurAll() {
	p.emailInput.Blur()
	p.otpInput.Blur()
	for i := range p.signup {
		p.signup[i].Blur()
	}
}

// Update handles messages.
func (p *Plugin) Update(m tea.Msg) (plugin.Plugin, tea.Cmd) {
	switch m := m.(type) {
	case spinner.TickMsg:
		if !p.busy {
			return p, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(m)
		return p, cmd

	case LoginResultMsg:
		if m.Seq != p.seq {
			return p, nil
		}
		return p, p.handleLogin(m)

	case SignupResultMsg:
		if m.Seq != p.seq {
			return p, nil
		}
		return p, p.handleSignup(m)

	case ResendResultMsg:
		if m.Seq != p.seq {
			return p, nil
		}
		p.busy = false
		if m.Err != nil {
			return p, msg.ShowError(api.ErrorText(m.Err))
		}
		p.status = m.Message
		return p, nil

	case tea.KeyMsg:
		return p, p.handleKey(m)
	}
	return p, p.updateFocused(m)
}

func (p *Plugin) handleKey(k tea.KeyMsg) tea.Cmd {
	ctx := p.FocusContext()
	command := ""
	if p.ctx.Keymap != nil {
		command = p.ctx.Keymap.Lookup(k.String(), ctx)
	}

	switch ctx {
	case keymap.ContextSignIn:
		switch command {
		case "send-code":
			return p.sendCode()
		case "toggle-signup":
			return p.toggleSignup()
		}
	case keymap.ContextOTP:
		switch command {
		case "verify":
			return p.verify()
		case "resend":
			return p.resend()
		case "back":
			p.seq++
			p.busy = false
			p.step = stepEmail
			p.status = ""
			p.otpInput.SetValue("")
			p.blurAll()
			return p.emailInput.Focus()
		}
	case keymap.ContextSignUp:
		switch command {
		case "sign-up":
			if p.field < fieldDOB {
				return p.focusSignupField(p.field + 1)
			}
			return p.submitSignup()
		case "next-field":
			return p.focusSignupField((p.field + 1) % fieldCount)
		case "prev-field":
			return p.focusSignupField((p.field + fieldCount - 1) % fieldCount)
		case "toggle-signup":
			return p.toggleSignup()
		}
	}
	return p.updateFocused(k)
}

// updateFocused forwards m to whichever input has focus.
func (p *Plugin) updateFocused(m tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch p.step {
	case stepOTP:
		p.otpInput, cmd = p.otpInput.Update(m)
	case stepSignUp:
		p.signup[p.field], cmd = p.signup[p.field].Update(m)
	default:
		p.emailInput, cmd = p.emailInput.Update(m)
	}
	return cmd
}

func (p *Plugin) toggleSignup() tea.Cmd {
	p.seq++
	p.busy = false
	p.status = ""
	p.blurAll()
	if p.step == stepSignUp {
		p.step = stepEmail
		if email := strings.TrimSpace(p.signup[fieldEmail].Value()); email != "" {
			p.emailInput.SetValue(email)
			p.emailInput.CursorEnd()
		}
		return p.emailInput.Focus()
	}
	p.step = stepSignUp
	if p.signup[fieldEmail].Value() == "" {
		p.signup[fieldEmail].SetValue(strings.TrimSpace(p.emailInput.Value()))
	}
	return p.focusSignupField(fieldName)
}

func (p *Plugin) focusSignupField(i int) tea.Cmd {
	p.signup[p.field].Blur()
	p.field = i
	return p.signup[i].Focus()
}

// begin marks a request in flight and returns its sequence number.
func (p *Plugin) begin() (uint64, tea.Cmd) {
	p.seq++
	p.status = ""
	if p.busy {
		return p.seq, nil
	}
	p.busy = true
	return p.seq, p.spinner.Tick
}

func (p *Plugin) sendCode() tea.Cmd {
	if p.busy {
		return nil
	}
	email := strings.TrimSpace(p.emailInput.Value())
	if email == "" {
		return msg.ShowError("Enter your email")
	}
	seq, tick := p.begin()
	client := p.ctx.Anon
	login := func() tea.Msg {
		res, err := client.Login(context.Background(), email)
		return LoginResultMsg{Email: email, Result: res, Err: err, Seq: seq}
	}
	return tea.Batch(login, tick)
}

func (p *Plugin) verify() tea.Cmd {
	if p.busy {
		return nil
	}
	code := strings.TrimSpace(p.otpInput.Value())
	if code == "" {
		return msg.ShowError("Enter the code from your email")
	}
	email := p.email
	seq, tick := p.begin()
	client := p.ctx.Anon
	verify := func() tea.Msg {
		res, err := client.VerifyOTP(context.Background(), email, code)
		return LoginResultMsg{Email: email, Result: res, Err: err, Seq: seq}
	}
	return tea.Batch(verify, tick)
}

func (p *Plugin) resend() tea.Cmd {
	if p.busy {
		return nil
	}
	email := p.email
	seq, tick := p.begin()
	client := p.ctx.Anon
	resend := func() tea.Msg {
		text, err := client.ResendOTP(context.Background(), email)
		return ResendResultMsg{Message: text, Err: err, Seq: seq}
	}
	return tea.Batch(resend, tick)
}

func (p *Plugin) submitSignup() tea.Cmd {
	if p.busy {
		return nil
	}
	req := api.SignupRequest{
		Name:  strings.TrimSpace(p.signup[fieldName].Value()),
		Email: strings.TrimSpace(p.signup[fieldEmail].Value()),
		DOB:   strings.TrimSpace(p.signup[fieldDOB].Value()),
	}
	if req.Name == "" || req.Email == "" || req.DOB == "" {
		return msg.ShowError("Name, email and date of birth are required")
	}
	if _, err := time.Parse(dobLayout, req.DOB); err != nil {
		return msg.ShowError("Date of birth must be YYYY-MM-DD")
	}

	seq, tick := p.begin()
	client := p.ctx.Anon
	signup := func() tea.Msg {
		text, err := client.Signup(context.Background(), req)
		return SignupResultMsg{Email: req.Email, Message: text, Err: err, Seq: seq}
	}
	return tea.Batch(signup, tick)
}

func (p *Plugin) handleLogin(m LoginResultMsg) tea.Cmd {
	p.busy = false
	if m.Err != nil {
		p.ctx.Logger.Debug("signin: request failed", "email", m.Email, "error", m.Err)
		return msg.ShowError(api.ErrorText(m.Err))
	}
	if m.Result.Session != nil {
		return p.signedIn(m.Email, m.Result.Session)
	}

	// No token: the service sent a code.
	p.email = m.Email
	p.status = m.Result.Message
	if p.status == "" {
		p.status = "We sent a code to " + m.Email
	}
	p.step = stepOTP
	p.otpInput.SetValue("")
	p.blurAll()
	return p.otpInput.Focus()
}

func (p *Plugin) handleSignup(m SignupResultMsg) tea.Cmd {
	p.busy = false
	if m.Err != nil {
		p.ctx.Logger.Debug("signin: sign-up failed", "email", m.Email, "error", m.Err)
		return msg.ShowError(api.ErrorText(m.Err))
	}
	p.email = m.Email
	p.emailInput.SetValue(m.Email)
	p.status = m.Message
	if p.status == "" {
		p.status = "Account created. We sent a code to " + m.Email
	}
	p.step = stepOTP
	p.otpInput.SetValue("")
	p.blurAll()
	return p.otpInput.Focus()
}

// signedIn persists the session and hands it to the app.
func (p *Plugin) signedIn(email string, sess *auth.Session) tea.Cmd {
	if sess.User.Email == "" {
		sess.User.Email = email
	}
	if p.ctx.Sessions != nil {
		if err := p.ctx.Sessions.Save(sess); err != nil {
			p.ctx.Logger.Error("signin: save session failed", "error", err)
			return msg.ShowError("Could not save session: " + err.Error())
		}
	}
	if err := state.SetLastEmail(email); err != nil {
		p.ctx.Logger.Debug("signin: save last email failed", "error", err)
	}
	p.ctx.Logger.Info("signin: signed in", "email", sess.User.Email)
	return func() tea.Msg { return plugin.SignedInMsg{Session: sess} }
}

// FocusContext returns the keymap context of the current step.
func (p *Plugin) FocusContext() string {
	switch p.step {
	case stepOTP:
		return keymap.ContextOTP
	case stepSignUp:
		return keymap.ContextSignUp
	}
	return keymap.ContextSignIn
}

// ConsumesTextInput is always true: every step is a form.
func (p *Plugin) ConsumesTextInput() bool { return true }

// Commands returns the footer commands for the current step.
func (p *Plugin) Commands() []plugin.Command {
	ctx := p.FocusContext()
	switch p.step {
	case stepOTP:
		return []plugin.Command{
			{ID: "verify", Name: "Verify", Description: "Verify the code", Category: plugin.CategoryActions, Context: ctx, Priority: 1},
			{ID: "resend", Name: "Resend", Description: "Send a new code", Category: plugin.CategoryActions, Context: ctx, Priority: 2},
			{ID: "back", Name: "Back", Description: "Use a different email", Category: plugin.CategoryNavigation, Context: ctx, Priority: 3},
		}
	case stepSignUp:
		return []plugin.Command{
			{ID: "sign-up", Name: "Sign up", Description: "Create the account", Category: plugin.CategoryActions, Context: ctx, Priority: 1},
			{ID: "next-field", Name: "Field", Description: "Next field", Category: plugin.CategoryNavigation, Context: ctx, Priority: 2},
			{ID: "toggle-signup", Name: "Sign in", Description: "Back to sign in", Category: plugin.CategoryNavigation, Context: ctx, Priority: 3},
		}
	}
	return []plugin.Command{
		{ID: "send-code", Name: "Continue", Description: "Send a sign-in code", Category: plugin.CategoryActions, Context: ctx, Priority: 1},
		{ID: "toggle-signup", Name: "Sign up", Description: "Create an account", Category: plugin.CategoryNavigation, Context: ctx, Priority: 2},
	}
}
