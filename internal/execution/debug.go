package execution

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"jtr/internal/config"
)

var testFilePattern = regexp.MustCompile(`\.(test|spec)\.(js|jsx|ts|tsx)$`)

// IsTestFile reports whether a file name follows the jest test naming convention
func IsTestFile(fileName string) bool {
	return testFilePattern.MatchString(fileName)
}

const (
	workspaceJest    = "${workspaceFolder}/node_modules/.bin/jest"
	workspaceFolder  = "${workspaceFolder}"
	currentFile      = "${file}"
	integratedTerm   = "integratedTerminal"
	neverOpenConsole = "neverOpen"
)

var defaultSourceMapLocations = []string{"${workspaceFolder}/**", "!**/node_modules/**"}

// LaunchConfig is a node launch configuration as understood by editor debuggers
type LaunchConfig struct {
	Type                      string            `json:"type"`
	Request                   string            `json:"request"`
	Name                      string            `json:"name"`
	Program                   string            `json:"program,omitempty"`
	Args                      []string          `json:"args,omitempty"`
	Console                   string            `json:"console,omitempty"`
	InternalConsoleOptions    string            `json:"internalConsoleOptions,omitempty"`
	Cwd                       string            `json:"cwd,omitempty"`
	Env                       map[string]string `json:"env,omitempty"`
	SourceMaps                bool              `json:"sourceMaps,omitempty"`
	ResolveSourceMapLocations []string          `json:"resolveSourceMapLocations,omitempty"`
}

// Debugger builds launch configurations and starts jest under the node inspector
type Debugger struct {
	config  *config.Config
	locator *Locator
}

// NewDebugger creates a new Debugger
func NewDebugger(cfg *config.Config, locator *Locator) *Debugger {
	return &Debugger{config: cfg, locator: locator}
}

// LaunchConfig returns the configuration that debugs one test; an empty testName debugs the file.
func (d *Debugger) LaunchConfig(testName, testFile string) LaunchConfig {
	lc := LaunchConfig{
		Type:                   "node",
		Request:                "launch",
		Program:                d.locator.FindJest(),
		Console:                integratedTerm,
		InternalConsoleOptions: neverOpenConsole,
		Cwd:                    d.config.GetProjectRoot(),
		Env:                    map[string]string{"NODE_ENV": "test"},
	}
	if testName == "" {
		lc.Name = "Debug Jest File: " + filepath.Base(testFile)
		lc.Args = DebugFileArgs(testFile)
	} else {
		lc.Name = "Debug Jest: " + testName
		lc.Args = DebugTestArgs(testName, testFile)
	}
	return lc
}

// Resolve completes a partial configuration. An empty configuration becomes the
// current-file configuration when activeFile is a test file; jest configurations always run
// in-band with source maps.
func (d *Debugger) Resolve(lc LaunchConfig, activeFile string) LaunchConfig {
	if lc.Type == "" && lc.Request == "" && lc.Name == "" && IsTestFile(activeFile) {
		lc = LaunchConfig{
			Type:                   "node",
			Request:                "launch",
			Name:                   "Debug Jest Tests",
			Program:                workspaceJest,
			Args:                   DebugFileArgs(currentFile),
			Console:                integratedTerm,
			InternalConsoleOptions: neverOpenConsole,
			Cwd:                    workspaceFolder,
			Env:                    map[string]string{"NODE_ENV": "test"},
		}
	}

	if lc.Type == "node" && strings.Contains(lc.Name, "Jest") {
		if lc.Args != nil && !slices.Contains(lc.Args, "--runInBand") {
			lc.Args = append(slices.Clone(lc.Args), "--runInBand")
		}
		lc.SourceMaps = true
		if lc.Console == "" {
			lc.Console = integratedTerm
		}
		if len(lc.ResolveSourceMapLocations) == 0 {
			lc.ResolveSourceMapLocations = slices.Clone(defaultSourceMapLocations)
		}
	}
	return lc
}

// Provide returns the stock configurations offered for a new launch file
func (d *Debugger) Provide() []LaunchConfig {
	stock := func(name string, args []string) LaunchConfig {
		return LaunchConfig{
			Type:                      "node",
			Request:                   "launch",
			Name:                      name,
			Program:                   workspaceJest,
			Args:                      args,
			Console:                   integratedTerm,
			InternalConsoleOptions:    neverOpenConsole,
			Cwd:                       workspaceFolder,
			Env:                       map[string]string{"NODE_ENV": "test"},
			SourceMaps:                true,
			ResolveSourceMapLocations: slices.Clone(defaultSourceMapLocations),
		}
	}
	return []LaunchConfig{
		stock("Debug Jest Current File", []string{currentFile, "--runInBand", "--no-cache", "--no-coverage"}),
		stock("Debug Jest All Tests", []string{"--runInBand", "--no-cache", "--no-coverage"}),
	}
}

// Debug runs jest under `node --inspect-brk` and waits for it to exit.
func (d *Debugger) Debug(ctx context.Context, testName, testFile string) error {
	entry, err := d.locator.DebugEntry()
	if err != nil {
		return err
	}

	lc := d.LaunchConfig(testName, testFile)
	args := append([]string{"--inspect-brk", entry}, lc.Args...)

	cmd := exec.CommandContext(ctx, "node", args...)
	cmd.Dir = lc.Cwd
	cmd.Env = os.Environ()
	for k, v := range lc.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	log.Info().Str("name", lc.Name).Msg("waiting for debugger on the default inspector port")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("debug jest: %w", err)
	}
	return nil
}
