package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/noteshive/noteshive/internal/export"
)

// Config is the root configuration structure.
type Config struct {
	API     APIConfig     `json:"api"`
	Session SessionConfig `json:"session"`
	Export  ExportConfig  `json:"export"`
	Google  GoogleConfig  `json:"google"`
	Keymap  KeymapConfig  `json:"keymap"`
	UI      UIConfig      `json:"ui"`
	Log     LogConfig     `json:"log"`
}

// APIConfig points the client at the notes service.
type APIConfig struct {
	BaseURL string        `json:"baseUrl"`
	Timeout time.Duration `json:"timeout"` // 0 = no client-side timeout
}

// SessionConfig locates the saved sign-in.
type SessionConfig struct {
	Path string `json:"path"`
	// Watch returns the TUI to sign-in when the session file disappears.
	Watch bool `json:"watch"`
}

// ExportConfig controls where and how notes are exported.
type ExportConfig struct {
	Dir        string  `json:"dir"`
	Margin     float64 `json:"margin"`     // mm
	LineHeight float64 `json:"lineHeight"` // mm
	FontSize   float64 `json:"fontSize"`   // pt
	TitleSize  float64 `json:"titleSize"`  // pt
}

// PageOptions returns A4 export geometry with the configured margin and sizes.
func (e ExportConfig) PageOptions() export.Options {
	opts := export.DefaultOptions()
	if e.Margin > 0 {
		opts.Margin = e.Margin
	}
	if e.LineHeight > 0 {
		opts.LineHeight = e.LineHeight
	}
	if e.FontSize > 0 {
		opts.FontSize = e.FontSize
	}
	if e.TitleSize > 0 {
		opts.TitleSize = e.TitleSize
	}
	return opts
}

// GoogleConfig configures Google sign-in.
type GoogleConfig struct {
	// CredentialsFile is the OAuth desktop-client JSON from the Google console.
	CredentialsFile string `json:"credentialsFile"`
}

// KeymapConfig holds key binding overrides.
type KeymapConfig struct {
	Overrides map[string]string `json:"overrides"`
}

// UIConfig configures UI appearance.
type UIConfig struct {
	ShowFooter bool `json:"showFooter"`
	// Columns is the note grid width; 0 picks from the terminal width.
	Columns int `json:"columns"`
	// Theme names a built-in color theme ("honey" or "paper").
	Theme string `json:"theme"`
	// Colors overrides single theme colors, e.g. {"primary": "#22C55E"}.
	Colors map[string]string `json:"colors,omitempty"`
}

// LogConfig configures the TUI log file.
type LogConfig struct {
	File  string `json:"file"`
	Level string `json:"level"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:3000/api",
		},
		Session: SessionConfig{
			Path:  "~/.config/noteshive/session.json",
			Watch: true,
		},
		Export: ExportConfig{
			Dir:        "~/Downloads",
			Margin:     20,
			LineHeight: 7,
			FontSize:   12,
			TitleSize:  16,
		},
		Keymap: KeymapConfig{
			Overrides: make(map[string]string),
		},
		UI: UIConfig{
			ShowFooter: true,
			Theme:      "honey",
		},
		Log: LogConfig{
			File:  "~/.config/noteshive/noteshive.log",
			Level: "info",
		},
	}
}

// Validate checks the configuration for errors and repairs out-of-range values.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api.baseUrl %q", c.API.BaseURL)
	}
	if c.API.Timeout < 0 {
		c.API.Timeout = 0
	}
	if c.Session.Path == "" {
		return errors.New("session.path must not be empty")
	}

	def := Default().Export
	if c.Export.Margin <= 0 {
		c.Export.Margin = def.Margin
	}
	if c.Export.LineHeight <= 0 {
		c.Export.LineHeight = def.LineHeight
	}
	if c.Export.FontSize <= 0 {
		c.Export.FontSize = def.FontSize
	}
	if c.Export.TitleSize <= 0 {
		c.Export.TitleSize = def.TitleSize
	}
	if c.UI.Columns < 0 {
		c.UI.Columns = 0
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		c.Log.Level = "info"
	}
	return nil
}
