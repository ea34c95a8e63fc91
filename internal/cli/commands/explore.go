package commands

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"jtr/internal/config"
	"jtr/internal/discovery"
	"jtr/internal/domain"
	"jtr/internal/execution"
	"jtr/internal/ui"
)

// ExploreCommand handles the explore command
type ExploreCommand struct {
	config   *config.Config
	scanner  *discovery.Scanner
	cache    *discovery.Cache
	runner   *execution.Runner
	debugger *execution.Debugger
}

// NewExploreCommand creates a new ExploreCommand
func NewExploreCommand(
	cfg *config.Config,
	scanner *discovery.Scanner,
	cache *discovery.Cache,
	runner *execution.Runner,
	debugger *execution.Debugger,
) *ExploreCommand {
	return &ExploreCommand{
		config:   cfg,
		scanner:  scanner,
		cache:    cache,
		runner:   runner,
		debugger: debugger,
	}
}

// Execute runs the command
func (ec *ExploreCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	root := ec.config.GetTestPath()

	explorer := ui.NewExplorer(ec.scanner, ec.cache, root)
	explorer.OnRun(func(ctx context.Context, node *domain.TestNode) error {
		return ec.runner.RunTest(ctx, node.QualifiedName, node.SourceFile)
	})
	explorer.OnDebug(func(ctx context.Context, node *domain.TestNode) error {
		return ec.debugger.Debug(ctx, node.QualifiedName, node.SourceFile)
	})

	watcher, err := discovery.NewWatcher(ec.scanner, ec.cache, ec.config.WatchDebounce)
	if err != nil {
		return err
	}
	watcher.OnChange(func([]string) {
		explorer.QueueRefresh(ctx)
	})
	if err := watcher.Start(ctx, root); err != nil {
		log.Warn().Err(err).Msg("live refresh disabled")
	}
	defer watcher.Stop()

	return explorer.Run(ctx)
}
