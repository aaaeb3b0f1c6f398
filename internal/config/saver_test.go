package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSave_PreservesUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	// Write a config file that includes keys not managed by Save
	initial := []byte(`{
  "templates": [
    {"name": "Standup", "body": "Yesterday / Today / Blockers"}
  ],
  "customKey": "should survive"
}`)
	if err := os.WriteFile(path, initial, 0644); err != nil {
		t.Fatal(err)
	}

	SetTestConfigPath(path)
	defer ResetTestConfigPath()

	cfg := Default()
	if err := Save(cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal saved config: %v", err)
	}

	if _, ok := raw["templates"]; !ok {
		t.Error("Save() deleted 'templates' key from config.json")
	}
	if _, ok := raw["customKey"]; !ok {
		t.Error("Save() deleted 'customKey' from config.json")
	}

	// Verify managed keys are also present
	if _, ok := raw["api"]; !ok {
		t.Error("Save() did not write 'api' key")
	}
	if _, ok := raw["export"]; !ok {
		t.Error("Save() did not write 'export' key")
	}
}

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	SetTestConfigPath(path)
	defer ResetTestConfigPath()

	cfg := Default()
	cfg.API.BaseURL = "https://notes.example.com/api"
	cfg.API.Timeout = 45 * time.Second
	cfg.Session.Path = filepath.Join(dir, "session.json")
	cfg.Export.Dir = filepath.Join(dir, "exports")
	cfg.UI.Columns = 4
	if err := Save(cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if got.API.BaseURL != cfg.API.BaseURL || got.API.Timeout != cfg.API.Timeout {
		t.Errorf("api config did not round-trip: %+v", got.API)
	}
	if got.Export.Dir != cfg.Export.Dir {
		t.Errorf("got export dir %q", got.Export.Dir)
	}
	if got.UI.Columns != 4 {
		t.Errorf("got columns %d", got.UI.Columns)
	}
}

func TestSave_WorksWithNoExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.json")

	SetTestConfigPath(path)
	defer ResetTestConfigPath()

	cfg := Default()
	if err := Save(cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if _, ok := raw["session"]; !ok {
		t.Error("missing 'session' key")
	}
}
