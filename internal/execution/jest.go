package execution

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"jtr/internal/config"
)

// ErrJestNotFound is returned when no jest binary can be resolved
var ErrJestNotFound = errors.New("jest not found: install jest or set jest_path in .jtr.yaml")

// GlobalJest is the last-resort program name, resolved through PATH
const GlobalJest = "jest"

// Locator resolves the jest executable for a project
type Locator struct {
	config *config.Config
}

// NewLocator creates a new Locator
func NewLocator(cfg *config.Config) *Locator {
	return &Locator{config: cfg}
}

// FindJest returns the configured path, a project-local jest, or the global "jest".
func (l *Locator) FindJest() string {
	if l.config.JestPath != "" {
		return l.config.JestPath
	}

	root := l.config.GetProjectRoot()
	candidates := []string{
		filepath.Join(root, "node_modules", ".bin", "jest"),
		filepath.Join(root, "node_modules", "jest", "bin", "jest.js"),
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return GlobalJest
}

// Command returns the program and leading arguments used to start jest.
// Plain .js entry points are started through node.
func (l *Locator) Command() (string, []string, error) {
	jest := l.FindJest()
	if strings.HasSuffix(jest, ".js") {
		return "node", []string{jest}, nil
	}
	if jest == GlobalJest {
		resolved, err := exec.LookPath(jest)
		if err != nil {
			return "", nil, ErrJestNotFound
		}
		return resolved, nil, nil
	}
	return jest, nil, nil
}

// DebugEntry returns the script node should start under the inspector. The package's
// bin/jest.js is preferred over node_modules/.bin/jest, which may be a shell shim.
func (l *Locator) DebugEntry() (string, error) {
	if l.config.JestPath == "" {
		entry := filepath.Join(l.config.GetProjectRoot(), "node_modules", "jest", "bin", "jest.js")
		if info, err := os.Stat(entry); err == nil && !info.IsDir() {
			return entry, nil
		}
	}

	program, lead, err := l.Command()
	if err != nil {
		return "", err
	}
	if program == "node" && len(lead) > 0 {
		return lead[0], nil
	}
	return program, nil
}

// EscapeTestName escapes regular-expression metacharacters so jest matches the name literally.
func EscapeTestName(name string) string {
	return regexp.QuoteMeta(name)
}

// TestArgs runs a single test (or suite) by qualified name within one file
func TestArgs(testName, testFile string) []string {
	return []string{testFile, "--testNamePattern", EscapeTestName(testName), "--no-coverage"}
}

// FileArgs runs every test in one file
func FileArgs(testFile string) []string {
	return []string{testFile, "--no-coverage"}
}

// DebugTestArgs runs a single test in-band so a debugger can attach
func DebugTestArgs(testName, testFile string) []string {
	return []string{testFile, "--testNamePattern", EscapeTestName(testName), "--runInBand", "--no-cache", "--no-coverage"}
}

// DebugFileArgs runs one file in-band so a debugger can attach
func DebugFileArgs(testFile string) []string {
	return []string{testFile, "--runInBand", "--no-cache", "--no-coverage"}
}
