package commands

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"jtr/internal/config"
	"jtr/internal/discovery"
	"jtr/internal/domain"
	"jtr/internal/execution"
)

// DebugCommand handles the debug command
type DebugCommand struct {
	config   *config.Config
	cache    *discovery.Cache
	debugger *execution.Debugger
}

// NewDebugCommand creates a new DebugCommand
func NewDebugCommand(cfg *config.Config, cache *discovery.Cache, debugger *execution.Debugger) *DebugCommand {
	return &DebugCommand{config: cfg, cache: cache, debugger: debugger}
}

// Execute runs the command
func (dc *DebugCommand) Execute(cmd *cobra.Command, args []string) error {
	file := absPath(dc.config, dc.config.Flags.File)
	if _, err := os.Stat(file); err != nil {
		return err
	}

	name := ""
	if len(args) == 1 {
		name = args[0]
		if domain.Find(dc.cache.Parse(file), name) == nil {
			return errors.New("no suite or test named " + name + " in " + file)
		}
	}

	if dc.config.Flags.Print {
		lc := dc.debugger.Resolve(dc.debugger.LaunchConfig(name, file), file)
		return writeJSON(cmd.OutOrStdout(), lc)
	}
	return dc.debugger.Debug(cmd.Context(), name, file)
}

// DebugConfigCommand handles the debug-config command
type DebugConfigCommand struct {
	debugger *execution.Debugger
}

// NewDebugConfigCommand creates a new DebugConfigCommand
func NewDebugConfigCommand(debugger *execution.Debugger) *DebugConfigCommand {
	return &DebugConfigCommand{debugger: debugger}
}

// Execute runs the command
func (dc *DebugConfigCommand) Execute(cmd *cobra.Command, args []string) error {
	return writeJSON(cmd.OutOrStdout(), map[string]any{
		"version":        "0.2.0",
		"configurations": dc.debugger.Provide(),
	})
}
