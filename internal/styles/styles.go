// Package styles holds the lipgloss styles shared by every screen. The colors come
// from the active theme; see ApplyTheme.
package styles

import "github.com/charmbracelet/lipgloss"

// Colors of the active theme.
var (
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	TextPrimary   lipgloss.Color
	TextSecondary lipgloss.Color
	TextMuted     lipgloss.Color
	TextSubtle    lipgloss.Color

	BgPrimary   lipgloss.Color
	BgSecondary lipgloss.Color
	BgTertiary  lipgloss.Color

	BorderNormal lipgloss.Color
	BorderActive lipgloss.Color

	DangerBg              lipgloss.Color
	ToastSuccessTextColor lipgloss.Color
	ToastErrorTextColor   lipgloss.Color

	// Glamour style used by the note viewer
	CurrentMarkdownTheme string
)

// Panel styles
var (
	PanelActive   lipgloss.Style
	PanelInactive lipgloss.Style
	PanelHeader   lipgloss.Style
)

// Text styles
var (
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Body      lipgloss.Style
	Muted     lipgloss.Style
	Subtle    lipgloss.Style
	KeyHint   lipgloss.Style
	Logo      lipgloss.Style
	ErrorText lipgloss.Style
	Dirty     lipgloss.Style
)

// Toast styles for status messages
var (
	ToastSuccess lipgloss.Style
	ToastError   lipgloss.Style
)

// Note cards
var (
	Card         lipgloss.Style
	CardSelected lipgloss.Style
	CardTitle    lipgloss.Style
	CardDate     lipgloss.Style
)

// Header and footer bars
var (
	Footer lipgloss.Style
	Header lipgloss.Style
)

// Modal styles
var (
	ModalBox   lipgloss.Style
	ModalTitle lipgloss.Style
)

// Button styles
var (
	Button              lipgloss.Style
	ButtonFocused       lipgloss.Style
	ButtonDanger        lipgloss.Style
	ButtonDangerFocused lipgloss.Style
)

// Field styles for forms
var (
	FieldLabel        lipgloss.Style
	FieldLabelFocused lipgloss.Style
)

func init() {
	ApplyTheme(DefaultThemeName)
}

// ModalBoxFor returns the modal frame tinted for a border color.
func ModalBoxFor(border lipgloss.Color) lipgloss.Style {
	return ModalBox.BorderForeground(border)
}
