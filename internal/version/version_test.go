package version

import (
	"strings"
	"testing"
)

func TestUpgradeCommand(t *testing.T) {
	tests := []struct {
		name     string
		version  string
		method   InstallMethod
		contains []string
	}{
		{
			name:     "go install",
			version:  "v1.0.0",
			method:   InstallMethodGo,
			contains: []string{"go install", "v1.0.0", "github.com/noteshive/noteshive/cmd/noteshive"},
		},
		{
			name:     "go install with ldflags",
			version:  "v2.1.3",
			method:   InstallMethodGo,
			contains: []string{"-ldflags", "internal/version.Version=v2.1.3"},
		},
		{
			name:     "homebrew",
			version:  "v1.0.0",
			method:   InstallMethodHomebrew,
			contains: []string{"brew upgrade noteshive"},
		},
		{
			name:     "binary download",
			version:  "v1.0.0",
			method:   InstallMethodBinary,
			contains: []string{"https://github.com/noteshive/noteshive/releases/tag/v1.0.0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := UpgradeCommand(tt.version, tt.method)
			for _, want := range tt.contains {
				if !strings.Contains(cmd, want) {
					t.Errorf("UpgradeCommand(%q, %q) = %q, want to contain %q", tt.version, tt.method, cmd, want)
				}
			}
		})
	}
}

func TestEffective(t *testing.T) {
	if got := Effective("v1.2.3"); got != "v1.2.3" {
		t.Errorf("Effective(v1.2.3) = %q", got)
	}
	// Test binaries carry no release version.
	if got := Effective(""); got == "" {
		t.Error("Effective(\"\") should fall back to build info")
	}
}

func TestIsDevelopment(t *testing.T) {
	tests := map[string]bool{
		"":             true,
		"unknown":      true,
		"devel":        true,
		"devel+abc123": true,
		"v1.0.0":       false,
	}
	for v, want := range tests {
		if got := IsDevelopment(v); got != want {
			t.Errorf("IsDevelopment(%q) = %v, want %v", v, got, want)
		}
	}
}

func TestShortRevision(t *testing.T) {
	if got := shortRevision("0123456789abcdef"); got != "0123456789ab" {
		t.Errorf("shortRevision = %q", got)
	}
	if got := shortRevision("abc"); got != "abc" {
		t.Errorf("shortRevision = %q", got)
	}
}

func TestMethodForPath(t *testing.T) {
	env := func(vars map[string]string) func(string) string {
		return func(k string) string { return vars[k] }
	}
	tests := []struct {
		name string
		exe  string
		vars map[string]string
		home string
		want InstallMethod
	}{
		{"homebrew cellar", "/opt/homebrew/Cellar/noteshive/1.0.0/bin/noteshive", nil, "/Users/ada", InstallMethodHomebrew},
		{"gobin", "/tools/bin/noteshive", map[string]string{"GOBIN": "/tools/bin"}, "/home/ada", InstallMethodGo},
		{"gopath", "/work/gopath/bin/noteshive", map[string]string{"GOPATH": "/work/gopath"}, "/home/ada", InstallMethodGo},
		{"default go bin", "/home/ada/go/bin/noteshive", nil, "/home/ada", InstallMethodGo},
		{"go bin elsewhere", "/srv/go/bin/noteshive", nil, "", InstallMethodGo},
		{"downloaded binary", "/usr/local/bin/noteshive", nil, "/home/ada", InstallMethodBinary},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := methodForPath(tt.exe, env(tt.vars), tt.home); got != tt.want {
				t.Errorf("methodForPath(%q) = %q, want %q", tt.exe, got, tt.want)
			}
		})
	}
}
