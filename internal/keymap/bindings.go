package keymap

// Focus contexts used by the screens.
const (
	ContextGlobal    = "global"
	ContextDashboard = "dashboard"
	ContextViewer    = "viewer"
	ContextEditor    = "editor"
	ContextGenerated = "editor-generated"
	ContextConfirm   = "confirm"
	ContextSignIn    = "signin"
	ContextOTP       = "signin-otp"
	ContextSignUp    = "signup"
)

// DefaultBindings returns the default key bindings.
func DefaultBindings() []Binding {
	return []Binding{
		// Global bindings
		{Key: "ctrl+c", Command: "quit", Context: ContextGlobal},
		{Key: "q", Command: "quit", Context: ContextGlobal},
		{Key: "?", Command: "toggle-help", Context: ContextGlobal},
		{Key: "ctrl+h", Command: "toggle-footer", Context: ContextGlobal},
		{Key: "!", Command: "toggle-diagnostics", Context: ContextGlobal},

		// Dashboard (note grid)
		{Key: "up", Command: "cursor-up", Context: ContextDashboard},
		{Key: "k", Command: "cursor-up", Context: ContextDashboard},
		{Key: "down", Command: "cursor-down", Context: ContextDashboard},
		{Key: "j", Command: "cursor-down", Context: ContextDashboard},
		{Key: "left", Command: "cursor-left", Context: ContextDashboard},
		{Key: "h", Command: "cursor-left", Context: ContextDashboard},
		{Key: "right", Command: "cursor-right", Context: ContextDashboard},
		{Key: "l", Command: "cursor-right", Context: ContextDashboard},
		{Key: "enter", Command: "view-note", Context: ContextDashboard},
		{Key: "e", Command: "edit-note", Context: ContextDashboard},
		{Key: "n", Command: "new-note", Context: ContextDashboard},
		{Key: "d", Command: "delete-note", Context: ContextDashboard},
		{Key: "r", Command: "refresh", Context: ContextDashboard},
		{Key: "p", Command: "export-pdf", Context: ContextDashboard},
		{Key: "m", Command: "export-markdown", Context: ContextDashboard},
		{Key: "y", Command: "yank-content", Context: ContextDashboard},
		{Key: "L", Command: "sign-out", Context: ContextDashboard},
		{Key: "[", Command: "columns-less", Context: ContextDashboard},
		{Key: "]", Command: "columns-more", Context: ContextDashboard},

		// Note viewer overlay
		{Key: "esc", Command: "close", Context: ContextViewer},
		{Key: "e", Command: "edit-note", Context: ContextViewer},
		{Key: "p", Command: "export-pdf", Context: ContextViewer},
		{Key: "m", Command: "export-markdown", Context: ContextViewer},
		{Key: "y", Command: "yank-content", Context: ContextViewer},

		// Editor overlay
		{Key: "ctrl+s", Command: "save", Context: ContextEditor},
		{Key: "ctrl+g", Command: "generate", Context: ContextEditor},
		{Key: "ctrl+e", Command: "export-pdf", Context: ContextEditor},
		{Key: "tab", Command: "next-field", Context: ContextEditor},
		{Key: "shift+tab", Command: "next-field", Context: ContextEditor},
		{Key: "esc", Command: "cancel", Context: ContextEditor},

		// Editor with generated content showing
		{Key: "ctrl+a", Command: "apply-generated", Context: ContextGenerated},
		{Key: "ctrl+d", Command: "dismiss-generated", Context: ContextGenerated},
		{Key: "ctrl+s", Command: "save", Context: ContextGenerated},
		{Key: "ctrl+g", Command: "generate", Context: ContextGenerated},
		{Key: "tab", Command: "next-field", Context: ContextGenerated},
		{Key: "shift+tab", Command: "next-field", Context: ContextGenerated},
		{Key: "esc", Command: "cancel", Context: ContextGenerated},

		// Delete confirmation
		{Key: "enter", Command: "confirm", Context: ContextConfirm},
		{Key: "y", Command: "confirm", Context: ContextConfirm},
		{Key: "esc", Command: "cancel", Context: ContextConfirm},
		{Key: "n", Command: "cancel", Context: ContextConfirm},

		// Sign-in email step
		{Key: "enter", Command: "send-code", Context: ContextSignIn},
		{Key: "ctrl+n", Command: "toggle-signup", Context: ContextSignIn},

		// Sign-in code step
		{Key: "enter", Command: "verify", Context: ContextOTP},
		{Key: "ctrl+r", Command: "resend", Context: ContextOTP},
		{Key: "esc", Command: "back", Context: ContextOTP},

		// Sign-up form
		{Key: "enter", Command: "sign-up", Context: ContextSignUp},
		{Key: "tab", Command: "next-field", Context: ContextSignUp},
		{Key: "shift+tab", Command: "prev-field", Context: ContextSignUp},
		{Key: "ctrl+n", Command: "toggle-signup", Context: ContextSignUp},
		{Key: "esc", Command: "toggle-signup", Context: ContextSignUp},
	}
}
