package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"jtr/internal/config"
	"jtr/internal/discovery"
	"jtr/internal/storage"
	"jtr/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	config    *config.Config
	scanner   *discovery.Scanner
	filter    *discovery.Filter
	cache     *discovery.Cache
	formatter *ui.Formatter
	storage   storage.Storage
}

// NewListCommand creates a new ListCommand
func NewListCommand(
	cfg *config.Config,
	scanner *discovery.Scanner,
	filter *discovery.Filter,
	cache *discovery.Cache,
	formatter *ui.Formatter,
	st storage.Storage,
) *ListCommand {
	return &ListCommand{
		config:    cfg,
		scanner:   scanner,
		filter:    filter,
		cache:     cache,
		formatter: formatter,
		storage:   st,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	groups, err := discoverGroups(cmd.Context(), lc.config, lc.scanner, lc.filter, lc.cache)
	if err != nil {
		return err
	}

	if lc.config.Flags.JSON {
		out := make([]fileForest, 0, len(groups))
		for _, g := range groups {
			out = append(out, fileForest{File: g.Path, Tests: g.Forest})
		}
		return writeJSON(cmd.OutOrStdout(), out)
	}

	if len(groups) == 0 {
		color.Yellow("No tests found")
		return nil
	}

	// files that failed in the last stored run get an [F] marker
	var failed map[string]struct{}
	if last, err := lc.storage.Load(); err == nil {
		failed = lc.formatter.FailedPaths(last)
	}
	lc.formatter.SetOutput(cmd.OutOrStdout())
	lc.formatter.PrintForest(groups, failed)
	return nil
}
