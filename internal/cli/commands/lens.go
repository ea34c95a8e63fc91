package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"jtr/internal/config"
	"jtr/internal/discovery"
	"jtr/internal/lens"
)

// LensCommand handles the lens command
type LensCommand struct {
	config *config.Config
	cache  *discovery.Cache
}

// NewLensCommand creates a new LensCommand
func NewLensCommand(cfg *config.Config, cache *discovery.Cache) *LensCommand {
	return &LensCommand{config: cfg, cache: cache}
}

// Execute runs the command
func (lc *LensCommand) Execute(cmd *cobra.Command, args []string) error {
	file := absPath(lc.config, args[0])
	if _, err := os.Stat(file); err != nil {
		return fmt.Errorf("test file: %w", err)
	}

	lenses := lens.Build(lc.cache.Parse(file), lc.config.ShowCodeLens)
	if lc.config.Flags.JSON {
		return writeJSON(cmd.OutOrStdout(), lenses)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LINE\tCOLUMNS\tACTION\tTEST")
	for _, l := range lenses {
		fmt.Fprintf(w, "%d\t%d-%d\t%s\t%s\n", l.Range.Line+1, l.Range.StartColumn+1, l.Range.EndColumn, l.Title, l.Arguments[0])
	}
	return w.Flush()
}
