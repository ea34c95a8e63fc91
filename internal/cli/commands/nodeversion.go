package commands

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"jtr/internal/config"
	"jtr/internal/nodeversion"
)

// NodeVersionCommand handles the node-version command
type NodeVersionCommand struct {
	config  *config.Config
	checker *nodeversion.Checker
}

// NewNodeVersionCommand creates a new NodeVersionCommand
func NewNodeVersionCommand(cfg *config.Config, checker *nodeversion.Checker) *NodeVersionCommand {
	return &NodeVersionCommand{config: cfg, checker: checker}
}

// Execute runs the command
func (nc *NodeVersionCommand) Execute(cmd *cobra.Command, args []string) error {
	status, err := nc.checker.Check(cmd.Context(), nc.config.GetProjectRoot())
	if errors.Is(err, nodeversion.ErrNoNvmrc) {
		color.Yellow("No .nvmrc file found for %s", nc.config.GetProjectRoot())
		return nil
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if status.Match {
		fmt.Fprintln(out, color.GreenString("✓ node %s satisfies %s (%s)", status.Current, status.Required, status.Nvmrc))
		return nil
	}
	fmt.Fprintln(out, color.YellowString("node %s does not match %s (%s). Switch with:", status.Current, status.Required, status.Nvmrc))
	fmt.Fprintln(out)
	fmt.Fprintln(out, status.SwitchCommand())
	return nil
}
