package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	configDir  = ".config/noteshive"
	configFile = "config.json"
	envPrefix  = "NOTESHIVE"
)

// rawConfig is the JSON-unmarshaling intermediary.
type rawConfig struct {
	API     rawAPIConfig     `json:"api"`
	Session rawSessionConfig `json:"session"`
	Export  rawExportConfig  `json:"export"`
	Google  GoogleConfig     `json:"google"`
	Keymap  KeymapConfig     `json:"keymap"`
	UI      rawUIConfig      `json:"ui"`
	Log     LogConfig        `json:"log"`
}

type rawAPIConfig struct {
	BaseURL string `json:"baseUrl"`
	Timeout string `json:"timeout"`
}

type rawSessionConfig struct {
	Path  string `json:"path"`
	Watch *bool  `json:"watch"`
}

type rawExportConfig struct {
	Dir        string   `json:"dir"`
	Margin     *float64 `json:"margin"`
	LineHeight *float64 `json:"lineHeight"`
	FontSize   *float64 `json:"fontSize"`
	TitleSize  *float64 `json:"titleSize"`
}

type rawUIConfig struct {
	ShowFooter *bool             `json:"showFooter"`
	Columns    *int              `json:"columns"`
	Theme      string            `json:"theme"`
	Colors     map[string]string `json:"colors"`
}

// Load loads configuration from the default location.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from a specific path.
// If path is empty, uses ~/.config/noteshive/config.json.
// NOTESHIVE_* environment variables override the file.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = ConfigPath()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			var raw rawConfig
			if err := json.Unmarshal(data, &raw); err != nil {
				return nil, err
			}
			mergeConfig(cfg, &raw)
		case !os.IsNotExist(err):
			return nil, err
		}
	}

	applyEnv(cfg)

	cfg.Session.Path = ExpandPath(cfg.Session.Path)
	cfg.Export.Dir = ExpandPath(cfg.Export.Dir)
	cfg.Google.CredentialsFile = ExpandPath(cfg.Google.CredentialsFile)
	cfg.Log.File = ExpandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeConfig merges raw config values into the config.
func mergeConfig(cfg *Config, raw *rawConfig) {
	// API
	if raw.API.BaseURL != "" {
		cfg.API.BaseURL = raw.API.BaseURL
	}
	if raw.API.Timeout != "" {
		if d, err := time.ParseDuration(raw.API.Timeout); err == nil {
			cfg.API.Timeout = d
		}
	}

	// Session
	if raw.Session.Path != "" {
		cfg.Session.Path = raw.Session.Path
	}
	if raw.Session.Watch != nil {
		cfg.Session.Watch = *raw.Session.Watch
	}

	// Export
	if raw.Export.Dir != "" {
		cfg.Export.Dir = raw.Export.Dir
	}
	if raw.Export.Margin != nil {
		cfg.Export.Margin = *raw.Export.Margin
	}
	if raw.Export.LineHeight != nil {
		cfg.Export.LineHeight = *raw.Export.LineHeight
	}
	if raw.Export.FontSize != nil {
		cfg.Export.FontSize = *raw.Export.FontSize
	}
	if raw.Export.TitleSize != nil {
		cfg.Export.TitleSize = *raw.Export.TitleSize
	}

	// Google
	if raw.Google.CredentialsFile != "" {
		cfg.Google.CredentialsFile = raw.Google.CredentialsFile
	}

	// Keymap
	for k, v := range raw.Keymap.Overrides {
		cfg.Keymap.Overrides[k] = v
	}

	// UI
	if raw.UI.ShowFooter != nil {
		cfg.UI.ShowFooter = *raw.UI.ShowFooter
	}
	if raw.UI.Columns != nil {
		cfg.UI.Columns = *raw.UI.Columns
	}
	if raw.UI.Theme != "" {
		cfg.UI.Theme = raw.UI.Theme
	}
	if len(raw.UI.Colors) > 0 {
		cfg.UI.Colors = raw.UI.Colors
	}

	// Log
	if raw.Log.File != "" {
		cfg.Log.File = raw.Log.File
	}
	if raw.Log.Level != "" {
		cfg.Log.Level = raw.Log.Level
	}
}

// applyEnv overrides file values with NOTESHIVE_* environment variables.
func applyEnv(cfg *Config) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if u := v.GetString("api_url"); u != "" {
		cfg.API.BaseURL = u
	}
	if t := v.GetString("api_timeout"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			cfg.API.Timeout = d
		}
	}
	if p := v.GetString("session"); p != "" {
		cfg.Session.Path = p
	}
	if d := v.GetString("export_dir"); d != "" {
		cfg.Export.Dir = d
	}
	if f := v.GetString("google_credentials"); f != "" {
		cfg.Google.CredentialsFile = f
	}
	if l := v.GetString("log_level"); l != "" {
		cfg.Log.Level = l
	}
}

// ExpandPath expands ~ to home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// testConfigPath redirects ConfigPath in tests.
var testConfigPath string

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	if testConfigPath != "" {
		return testConfigPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDir, configFile)
}

// SetTestConfigPath points ConfigPath (and therefore Save) at path.
func SetTestConfigPath(path string) { testConfigPath = path }

// ResetTestConfigPath restores the default ConfigPath.
func ResetTestConfigPath() { testConfigPath = "" }
