package commands

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"jtr/internal/config"
	"jtr/internal/discovery"
	"jtr/internal/ui"
)

// WatchCommand handles the watch command
type WatchCommand struct {
	config    *config.Config
	scanner   *discovery.Scanner
	filter    *discovery.Filter
	cache     *discovery.Cache
	formatter *ui.Formatter
}

// NewWatchCommand creates a new WatchCommand
func NewWatchCommand(
	cfg *config.Config,
	scanner *discovery.Scanner,
	filter *discovery.Filter,
	cache *discovery.Cache,
	formatter *ui.Formatter,
) *WatchCommand {
	return &WatchCommand{
		config:    cfg,
		scanner:   scanner,
		filter:    filter,
		cache:     cache,
		formatter: formatter,
	}
}

// Execute prints the tree, then reprints it after every batch of changes until interrupted
func (wc *WatchCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	wc.formatter.SetOutput(cmd.OutOrStdout())

	printTree := func() {
		groups, err := discoverGroups(ctx, wc.config, wc.scanner, wc.filter, wc.cache)
		if err != nil {
			log.Error().Err(err).Msg("cannot list tests")
			return
		}
		wc.formatter.PrintForest(groups, nil)
	}

	watcher, err := discovery.NewWatcher(wc.scanner, wc.cache, wc.config.WatchDebounce)
	if err != nil {
		return err
	}
	watcher.OnChange(func(paths []string) {
		fmt.Fprintln(cmd.OutOrStdout())
		for _, p := range paths {
			rel, err := filepath.Rel(wc.config.GetProjectRoot(), p)
			if err != nil {
				rel = p
			}
			color.Cyan("changed: %s", rel)
		}
		printTree()
	})

	printTree()
	if err := watcher.Start(ctx, wc.config.GetTestPath()); err != nil {
		_ = watcher.Stop()
		return err
	}
	color.White("\nWatching %s for changes (Ctrl+C to stop)", wc.config.GetTestPath())

	<-ctx.Done()
	return watcher.Stop()
}
