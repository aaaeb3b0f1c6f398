package version

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// InstallMethod represents how noteshive was installed.
type InstallMethod string

const (
	InstallMethodHomebrew InstallMethod = "homebrew"
	InstallMethodGo       InstallMethod = "go"
	InstallMethodBinary   InstallMethod = "binary"
)

var (
	detectedMethod     InstallMethod
	detectedMethodOnce sync.Once
)

// DetectInstallMethod reports how the running binary was installed, judged from
// its resolved path. The result is cached for the lifetime of the process.
func DetectInstallMethod() InstallMethod {
	detectedMethodOnce.Do(func() {
		detectedMethod = detectInstallMethod()
	})
	return detectedMethod
}

func detectInstallMethod() InstallMethod {
	exe, err := os.Executable()
	if err != nil {
		return InstallMethodBinary
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	home, _ := os.UserHomeDir()
	return methodForPath(exe, os.Getenv, home)
}

// methodForPath classifies an executable path. Homebrew keeps formulae under a
// Cellar directory; go install writes to GOBIN, GOPATH/bin or ~/go/bin.
func methodForPath(exe string, getenv func(string) string, home string) InstallMethod {
	exe = filepath.Clean(exe)
	sep := string(filepath.Separator)
	if strings.Contains(exe, sep+"Cellar"+sep+"noteshive"+sep) {
		return InstallMethodHomebrew
	}

	dir := filepath.Dir(exe)
	var bins []string
	if gobin := getenv("GOBIN"); gobin != "" {
		bins = append(bins, gobin)
	}
	for _, gopath := range filepath.SplitList(getenv("GOPATH")) {
		if gopath != "" {
			bins = append(bins, filepath.Join(gopath, "bin"))
		}
	}
	if home != "" {
		bins = append(bins, filepath.Join(home, "go", "bin"))
	}
	for _, b := range bins {
		if dir == filepath.Clean(b) {
			return InstallMethodGo
		}
	}
	if strings.Contains(exe, sep+"go"+sep+"bin"+sep) {
		return InstallMethodGo
	}
	return InstallMethodBinary
}
