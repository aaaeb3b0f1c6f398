package signin

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/noteshive/noteshive/internal/styles"
)

// View renders the current step centered on screen.
func (p *Plugin) View(width, height int) string {
	var sb strings.Builder
	sb.WriteString(styles.Logo.Render("NotesHive"))
	sb.WriteString("\n")

	switch p.step {
	case stepOTP:
		sb.WriteString(styles.Subtitle.Render("Check your email"))
		sb.WriteString("\n\n")
		sb.WriteString(styles.Muted.Render(p.email))
		sb.WriteString("\n\n")
		sb.WriteString(styles.FieldLabelFocused.Render("Code"))
		sb.WriteString("\n")
		sb.WriteString(p.otpInput.View())
	case stepSignUp:
		sb.WriteString(styles.Subtitle.Render("Create your account"))
		sb.WriteString("\n\n")
		labels := [fieldCount]string{"Name", "Email", "Date of birth"}
		for i, label := range labels {
			style := styles.FieldLabel
			if i == p.field {
				style = styles.FieldLabelFocused
			}
			sb.WriteString(style.Render(label))
			sb.WriteString("\n")
			sb.WriteString(p.signup[i].View())
			if i < fieldCount-1 {
				sb.WriteString("\n\n")
			}
		}
	default:
		sb.WriteString(styles.Subtitle.Render("Sign in to your notes"))
		sb.WriteString("\n\n")
		sb.WriteString(styles.FieldLabelFocused.Render("Email"))
		sb.WriteString("\n")
		sb.WriteString(p.emailInput.View())
	}

	sb.WriteString("\n\n")
	switch {
	case p.busy:
		sb.WriteString(p.spinner.View() + styles.Muted.Render(" Please wait..."))
	case p.status != "":
		sb.WriteString(styles.Body.Render(p.status))
	default:
		sb.WriteString(styles.Subtle.Render(p.hint()))
	}

	box := styles.ModalBox.Width(formWidth).Render(sb.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func (p *Plugin) hint() string {
	key := func(command string) string {
		if p.ctx == nil || p.ctx.Keymap == nil {
			return ""
		}
		return p.ctx.Keymap.PrimaryKey(command, p.FocusContext())
	}
	switch p.step {
	case stepOTP:
		return key("resend") + " resend · " + key("back") + " back"
	case stepSignUp:
		return key("toggle-signup") + " sign in instead"
	}
	return key("toggle-signup") + " create an account"
}
