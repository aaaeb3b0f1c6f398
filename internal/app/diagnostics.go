package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/noteshive/noteshive/internal/auth"
	"github.com/noteshive/noteshive/internal/config"
	"github.com/noteshive/noteshive/internal/notes"
	"github.com/noteshive/noteshive/internal/styles"
	"github.com/noteshive/noteshive/internal/version"
)

// renderDiagnostics shows build, connection and session details.
func (m Model) renderDiagnostics() string {
	var b strings.Builder
	b.WriteString(styles.ModalTitle.Render("Diagnostics"))
	b.WriteString("\n\n")

	b.WriteString(styles.Title.Render("Version"))
	b.WriteString("\n")
	v := version.Effective(version.Version)
	diagRow(&b, "noteshive", fmt.Sprintf("%s (%s)", v, version.DetectInstallMethod()))

	b.WriteString("\n")
	b.WriteString(styles.Title.Render("Service"))
	b.WriteString("\n")
	if m.ctx.Config != nil {
		diagRow(&b, "API", m.ctx.Config.API.BaseURL)
		diagRow(&b, "Theme", styles.GetCurrentThemeName())
		if m.ctx.Config.Log.File != "" {
			diagRow(&b, "Log", config.ExpandPath(m.ctx.Config.Log.File))
		}
	}
	diagRow(&b, "Config", config.ConfigPath())

	b.WriteString("\n")
	b.WriteString(styles.Title.Render("Session"))
	b.WriteString("\n")
	m.diagnosticsSession(&b)

	if m.ctx.Store != nil {
		if err := m.ctx.Store.Err(); err != nil {
			b.WriteString("\n")
			b.WriteString(styles.Title.Render("Last Error"))
			b.WriteString("\n  ")
			b.WriteString(styles.ErrorText.Render(notes.UserMessage(err)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.Subtle.Render("Press ! or esc to close"))
	return styles.ModalBox.Render(b.String())
}

func (m Model) diagnosticsSession(b *strings.Builder) {
	if m.ctx.Sessions != nil {
		diagRow(b, "File", m.ctx.Sessions.Path())
	}
	sess := m.ctx.Session
	if sess == nil {
		diagRow(b, "User", styles.Muted.Render("signed out"))
		return
	}
	diagRow(b, "User", sess.User.DisplayName())
	if sess.User.Email != "" && sess.User.Email != sess.User.DisplayName() {
		diagRow(b, "Email", sess.User.Email)
	}
	if claims, err := auth.ParseClaims(sess.Token); err == nil && claims.ExpiresAt != nil {
		expiry := claims.ExpiresAt.Time
		state := "valid"
		if time.Now().After(expiry) {
			state = "expired"
		}
		diagRow(b, "Expires", fmt.Sprintf("%s (%s)", expiry.Local().Format("2006-01-02 15:04"), state))
	}
	if m.ctx.Store != nil {
		diagRow(b, "Notes", fmt.Sprintf("%d loaded", len(m.ctx.Store.Notes())))
	}
	diagRow(b, "Epoch", fmt.Sprintf("%d", m.ctx.Epoch))
}

func diagRow(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "  %s %s\n", styles.Muted.Render(fmt.Sprintf("%-9s", label+":")), value)
}
