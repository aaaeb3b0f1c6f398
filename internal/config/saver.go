package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// saveConfig is the JSON-marshaling intermediary that uses string durations.
type saveConfig struct {
	API     saveAPIConfig `json:"api"`
	Session SessionConfig `json:"session"`
	Export  ExportConfig  `json:"export"`
	Google  GoogleConfig  `json:"google,omitempty"`
	Keymap  KeymapConfig  `json:"keymap"`
	UI      UIConfig      `json:"ui"`
	Log     LogConfig     `json:"log"`
}

type saveAPIConfig struct {
	BaseURL string `json:"baseUrl"`
	Timeout string `json:"timeout,omitempty"`
}

// toSaveConfig converts Config to the JSON-serializable format.
func toSaveConfig(cfg *Config) saveConfig {
	sc := saveConfig{
		API:     saveAPIConfig{BaseURL: cfg.API.BaseURL},
		Session: cfg.Session,
		Export:  cfg.Export,
		Google:  cfg.Google,
		Keymap:  cfg.Keymap,
		UI:      cfg.UI,
		Log:     cfg.Log,
	}
	if cfg.API.Timeout > 0 {
		sc.API.Timeout = cfg.API.Timeout.String()
	}
	return sc
}

// Save writes the config to ~/.config/noteshive/config.json.
func Save(cfg *Config) error {
	return SaveTo(cfg, ConfigPath())
}

// SaveTo writes the config to path. Keys the config does not manage are kept.
func SaveTo(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	merged := map[string]json.RawMessage{}
	if existing, err := os.ReadFile(path); err == nil {
		// An unreadable file is replaced rather than blocking the save.
		_ = json.Unmarshal(existing, &merged)
	}

	data, err := json.Marshal(toSaveConfig(cfg))
	if err != nil {
		return err
	}
	var managed map[string]json.RawMessage
	if err := json.Unmarshal(data, &managed); err != nil {
		return err
	}
	for k, v := range managed {
		merged[k] = v
	}

	out, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0644)
}
