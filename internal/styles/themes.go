package styles

import (
	"regexp"
	"sort"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// DefaultThemeName is used when no theme or an unknown one is configured.
const DefaultThemeName = "honey"

// themeMu protects access to themeRegistry and currentTheme
var themeMu sync.RWMutex

// hexColorRegex validates hex color codes (#RRGGBB or #RRGGBBAA with alpha)
var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}([0-9A-Fa-f]{2})?$`)

// ColorPalette holds all theme colors
type ColorPalette struct {
	// Brand colors
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`

	// Status colors
	Success string `json:"success"`
	Warning string `json:"warning"`
	Error   string `json:"error"`
	Info    string `json:"info"`

	// Text colors
	TextPrimary   string `json:"textPrimary"`
	TextSecondary string `json:"textSecondary"`
	TextMuted     string `json:"textMuted"`
	TextSubtle    string `json:"textSubtle"`

	// Background colors
	BgPrimary   string `json:"bgPrimary"`
	BgSecondary string `json:"bgSecondary"`
	BgTertiary  string `json:"bgTertiary"`

	// Border colors
	BorderNormal string `json:"borderNormal"`
	BorderActive string `json:"borderActive"`

	DangerBg         string `json:"dangerBg"`         // Delete button background
	ToastSuccessText string `json:"toastSuccessText"` // Toast success foreground
	ToastErrorText   string `json:"toastErrorText"`   // Toast error foreground

	// Glamour style name for rendered notes
	MarkdownTheme string `json:"markdownTheme"`
}

// Theme represents a complete theme configuration
type Theme struct {
	Name        string       `json:"name"`
	DisplayName string       `json:"displayName"`
	Colors      ColorPalette `json:"colors"`
}

// Built-in themes
var (
	// HoneyTheme is amber on charcoal.
	HoneyTheme = Theme{
		Name:        "honey",
		DisplayName: "Honey Dark",
		Colors: ColorPalette{
			Primary:   "#F59E0B", // Amber
			Secondary: "#3B82F6", // Blue
			Accent:    "#A78BFA", // Violet

			Success: "#10B981",
			Warning: "#F59E0B",
			Error:   "#EF4444",
			Info:    "#3B82F6",

			TextPrimary:   "#F9FAFB",
			TextSecondary: "#9CA3AF",
			TextMuted:     "#6B7280",
			TextSubtle:    "#4B5563",

			BgPrimary:   "#111827",
			BgSecondary: "#1F2937",
			BgTertiary:  "#374151",

			BorderNormal: "#374151",
			BorderActive: "#F59E0B",

			DangerBg:         "#7F1D1D",
			ToastSuccessText: "#000000",
			ToastErrorText:   "#FFFFFF",
			MarkdownTheme:    "dark",
		},
	}

	// PaperTheme is a light theme for bright terminals.
	PaperTheme = Theme{
		Name:        "paper",
		DisplayName: "Paper Light",
		Colors: ColorPalette{
			Primary:   "#B45309",
			Secondary: "#1D4ED8",
			Accent:    "#6D28D9",

			Success: "#047857",
			Warning: "#B45309",
			Error:   "#B91C1C",
			Info:    "#1D4ED8",

			TextPrimary:   "#111827",
			TextSecondary: "#374151",
			TextMuted:     "#6B7280",
			TextSubtle:    "#9CA3AF",

			BgPrimary:   "#FFFBEB",
			BgSecondary: "#FEF3C7",
			BgTertiary:  "#FDE68A",

			BorderNormal: "#D1D5DB",
			BorderActive: "#B45309",

			DangerBg:         "#FECACA",
			ToastSuccessText: "#FFFFFF",
			ToastErrorText:   "#FFFFFF",
			MarkdownTheme:    "light",
		},
	}
)

// themeRegistry holds all available themes
var themeRegistry = map[string]Theme{
	HoneyTheme.Name: HoneyTheme,
	PaperTheme.Name: PaperTheme,
}

// currentTheme tracks the active theme name
var currentTheme = DefaultThemeName

// IsValidHexColor checks if a string is a valid hex color code (#RRGGBB or #RRGGBBAA)
func IsValidHexColor(hex string) bool {
	return hexColorRegex.MatchString(hex)
}

// IsValidTheme checks if a theme name exists in the registry
func IsValidTheme(name string) bool {
	themeMu.RLock()
	defer themeMu.RUnlock()
	_, ok := themeRegistry[name]
	return ok
}

// GetTheme returns a theme by name, or the default theme if not found
func GetTheme(name string) Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	if theme, ok := themeRegistry[name]; ok {
		return theme
	}
	return HoneyTheme
}

// GetCurrentThemeName returns the name of the currently active theme
func GetCurrentThemeName() string {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

// ListThemes returns the names of all available themes in sorted order
func ListThemes() []string {
	themeMu.RLock()
	defer themeMu.RUnlock()
	names := make([]string, 0, len(themeRegistry))
	for name := range themeRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyTheme applies a theme by name, updating all style variables
func ApplyTheme(name string) {
	ApplyThemeWithOverrides(name, nil)
}

// ApplyThemeWithOverrides applies a theme with color overrides from config.
// Overrides are keyed by palette JSON name, e.g. {"primary": "#22C55E"}.
func ApplyThemeWithOverrides(name string, overrides map[string]string) {
	theme := GetTheme(name)
	for key, value := range overrides {
		applySingleOverride(&theme.Colors, key, value)
	}

	ApplyThemeColors(theme)
	themeMu.Lock()
	currentTheme = theme.Name
	themeMu.Unlock()
}

// slot binds a palette entry to the package color it drives.
type slot struct {
	key   string
	field func(*ColorPalette) *string
	color *lipgloss.Color
}

var slots = []slot{
	{"primary", func(p *ColorPalette) *string { return &p.Primary }, &Primary},
	{"secondary", func(p *ColorPalette) *string { return &p.Secondary }, &Secondary},
	{"accent", func(p *ColorPalette) *string { return &p.Accent }, &Accent},
	{"success", func(p *ColorPalette) *string { return &p.Success }, &Success},
	{"warning", func(p *ColorPalette) *string { return &p.Warning }, &Warning},
	{"error", func(p *ColorPalette) *string { return &p.Error }, &Error},
	{"info", func(p *ColorPalette) *string { return &p.Info }, &Info},
	{"textPrimary", func(p *ColorPalette) *string { return &p.TextPrimary }, &TextPrimary},
	{"textSecondary", func(p *ColorPalette) *string { return &p.TextSecondary }, &TextSecondary},
	{"textMuted", func(p *ColorPalette) *string { return &p.TextMuted }, &TextMuted},
	{"textSubtle", func(p *ColorPalette) *string { return &p.TextSubtle }, &TextSubtle},
	{"bgPrimary", func(p *ColorPalette) *string { return &p.BgPrimary }, &BgPrimary},
	{"bgSecondary", func(p *ColorPalette) *string { return &p.BgSecondary }, &BgSecondary},
	{"bgTertiary", func(p *ColorPalette) *string { return &p.BgTertiary }, &BgTertiary},
	{"borderNormal", func(p *ColorPalette) *string { return &p.BorderNormal }, &BorderNormal},
	{"borderActive", func(p *ColorPalette) *string { return &p.BorderActive }, &BorderActive},
	{"dangerBg", func(p *ColorPalette) *string { return &p.DangerBg }, &DangerBg},
	{"toastSuccessText", func(p *ColorPalette) *string { return &p.ToastSuccessText }, &ToastSuccessTextColor},
	{"toastErrorText", func(p *ColorPalette) *string { return &p.ToastErrorText }, &ToastErrorTextColor},
}

// applySingleOverride sets one palette entry. Colors that are not valid hex are ignored.
func applySingleOverride(palette *ColorPalette, key, value string) {
	if key == "markdownTheme" {
		palette.MarkdownTheme = value
		return
	}
	if !IsValidHexColor(value) {
		return
	}
	for _, s := range slots {
		if s.key == key {
			*s.field(palette) = value
			return
		}
	}
}

// ApplyThemeColors points every package color at theme and rebuilds the styles.
// Call it before the TUI starts; styles are read without locking.
func ApplyThemeColors(theme Theme) {
	c := theme.Colors
	for _, s := range slots {
		*s.color = lipgloss.Color(*s.field(&c))
	}
	CurrentMarkdownTheme = c.MarkdownTheme
	rebuildStyles()
}

// rebuildStyles recreates all lipgloss styles with current colors
func rebuildStyles() {
	// Panel styles
	PanelActive = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderActive).
		Padding(0, 1)

	PanelInactive = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderNormal).
		Padding(0, 1)

	PanelHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary).
		MarginBottom(1)

	// Text styles
	Title = lipgloss.NewStyle().Bold(true).Foreground(TextPrimary)
	Subtitle = lipgloss.NewStyle().Foreground(TextSecondary)
	Body = lipgloss.NewStyle().Foreground(TextPrimary)
	Muted = lipgloss.NewStyle().Foreground(TextMuted)
	Subtle = lipgloss.NewStyle().Foreground(TextSubtle)
	KeyHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(BgTertiary).
		Padding(0, 1)
	Logo = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	ErrorText = lipgloss.NewStyle().Foreground(Error)
	Dirty = lipgloss.NewStyle().Foreground(Warning).Bold(true)

	// Toasts
	ToastSuccess = lipgloss.NewStyle().
		Background(Success).
		Foreground(ToastSuccessTextColor).
		Bold(true).
		Padding(0, 1)
	ToastError = lipgloss.NewStyle().
		Background(Error).
		Foreground(ToastErrorTextColor).
		Bold(true).
		Padding(0, 1)

	// Note cards
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderNormal).
		Padding(0, 1)
	CardSelected = Card.BorderForeground(BorderActive)
	CardTitle = lipgloss.NewStyle().Bold(true).Foreground(TextPrimary)
	CardDate = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)

	// Bars
	Footer = lipgloss.NewStyle().Foreground(TextMuted).Background(BgSecondary)
	Header = lipgloss.NewStyle().
		Background(BgSecondary).
		Foreground(TextPrimary).
		Padding(0, 1)

	// Modals
	ModalBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary).
		Padding(1, 2)
	ModalTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary).
		MarginBottom(1)

	// Buttons
	Button = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(BgTertiary).
		Padding(0, 1)
	ButtonFocused = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(Primary).
		Bold(true).
		Padding(0, 1)
	ButtonDanger = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(DangerBg).
		Padding(0, 1)
	ButtonDangerFocused = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(Error).
		Bold(true).
		Padding(0, 1)

	// Form fields
	FieldLabel = lipgloss.NewStyle().Foreground(TextSecondary)
	FieldLabelFocused = lipgloss.NewStyle().Foreground(Primary).Bold(true)
}
