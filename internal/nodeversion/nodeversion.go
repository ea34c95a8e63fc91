// Package nodeversion compares the node version a project pins in .nvmrc with the node on PATH.
package nodeversion

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
)

// FileName is the file nvm reads the pinned version from
const FileName = ".nvmrc"

var (
	// ErrNoNvmrc is returned when no .nvmrc exists in the start directory or any parent
	ErrNoNvmrc = errors.New("no .nvmrc file found")
	// ErrEmptyNvmrc is returned for an .nvmrc without a version
	ErrEmptyNvmrc = errors.New(".nvmrc file is empty")
)

// FindNvmrc returns the nearest .nvmrc in start or one of its parents
func FindNvmrc(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoNvmrc
		}
		dir = parent
	}
}

// Required reads the pinned version from an .nvmrc
func Required(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	version := strings.TrimSpace(string(data))
	if version == "" {
		return "", ErrEmptyNvmrc
	}
	return version, nil
}

// Normalize strips a leading v and pads numeric versions to major.minor.patch.
// Aliases such as lts/* are returned unchanged.
func Normalize(version string) string {
	v := withV(version)
	canonical := semver.Canonical(v)
	if canonical == "" {
		return strings.TrimPrefix(v, "v")
	}
	return strings.TrimPrefix(canonical, "v")
}

func withV(version string) string {
	v := strings.TrimSpace(version)
	return "v" + strings.TrimPrefix(strings.TrimPrefix(v, "v"), "V")
}

// Satisfies reports whether current matches every component the pin spells out,
// so "18" accepts any 18.x.y and "18.17" any 18.17.y.
func Satisfies(required, current string) bool {
	req, cur := withV(required), withV(current)
	if !semver.IsValid(req) || !semver.IsValid(cur) {
		return false
	}

	core := req
	if i := strings.IndexAny(core, "-+"); i >= 0 {
		core = core[:i]
	}
	switch strings.Count(core, ".") {
	case 0:
		return semver.Major(req) == semver.Major(cur)
	case 1:
		return semver.MajorMinor(req) == semver.MajorMinor(cur)
	}
	return semver.Compare(req, cur) == 0
}

// Status is the outcome of a version check
type Status struct {
	Nvmrc    string
	Required string
	Current  string
	Match    bool
}

// SwitchCommand is the shell snippet that switches the current shell with nvm
func (s Status) SwitchCommand() string {
	return fmt.Sprintf("export NVM_DIR=\"$HOME/.nvm\"\n[ -s \"$NVM_DIR/nvm.sh\" ] && . \"$NVM_DIR/nvm.sh\"\nnvm use %s", s.Required)
}

// Checker runs the version check; Node is the node binary to ask
type Checker struct {
	Node string
}

// NewChecker creates a Checker using the node on PATH
func NewChecker() *Checker {
	return &Checker{Node: "node"}
}

// Current returns the trimmed output of `node --version`
func (c *Checker) Current(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, c.Node, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("node --version: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Check finds the nearest .nvmrc above start and compares it with the current node
func (c *Checker) Check(ctx context.Context, start string) (Status, error) {
	path, err := FindNvmrc(start)
	if err != nil {
		return Status{}, err
	}
	required, err := Required(path)
	if err != nil {
		return Status{Nvmrc: path}, err
	}
	current, err := c.Current(ctx)
	if err != nil {
		return Status{Nvmrc: path, Required: required}, err
	}
	return Status{
		Nvmrc:    path,
		Required: required,
		Current:  current,
		Match:    Satisfies(required, current),
	}, nil
}
