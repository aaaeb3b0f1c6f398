// Package version reports the running build and how to upgrade it.
package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Version is set at build time via ldflags.
var Version = ""

// Effective returns v, falling back to module or VCS build info.
func Effective(v string) string {
	if v != "" {
		return v
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	var revision string
	var dirty bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if revision == "" {
		return "devel"
	}

	ver := "devel+" + shortRevision(revision)
	if dirty {
		ver += "+dirty"
	}
	return ver
}

// IsDevelopment reports whether v names an unreleased build.
func IsDevelopment(v string) bool {
	return v == "" || v == "unknown" || strings.HasPrefix(v, "devel")
}

// UpgradeCommand returns the command (or page) that installs version.
func UpgradeCommand(version string, method InstallMethod) string {
	switch method {
	case InstallMethodHomebrew:
		return "brew upgrade noteshive"
	case InstallMethodBinary:
		return fmt.Sprintf("https://github.com/noteshive/noteshive/releases/tag/%s", version)
	default:
		return fmt.Sprintf(
			"go install -ldflags \"-X github.com/noteshive/noteshive/internal/version.Version=%s\" github.com/noteshive/noteshive/cmd/noteshive@%s",
			version, version,
		)
	}
}

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}
