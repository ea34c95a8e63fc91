package commands

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"jtr/internal/config"
	"jtr/internal/discovery"
	"jtr/internal/domain"
	"jtr/internal/execution"
	"jtr/internal/parser"
	"jtr/internal/storage"
	"jtr/internal/ui"
)

// RunCommand handles the run command
type RunCommand struct {
	config    *config.Config
	scanner   *discovery.Scanner
	filter    *discovery.Filter
	cache     *discovery.Cache
	runner    *execution.Runner
	executor  *execution.WorkerPool
	scheduler execution.Scheduler
	parser    parser.Parser
	storage   storage.Storage
	formatter *ui.Formatter
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(
	cfg *config.Config,
	scanner *discovery.Scanner,
	filter *discovery.Filter,
	cache *discovery.Cache,
	runner *execution.Runner,
	executor *execution.WorkerPool,
	scheduler execution.Scheduler,
	parser parser.Parser,
	st storage.Storage,
	formatter *ui.Formatter,
) *RunCommand {
	return &RunCommand{
		config:    cfg,
		scanner:   scanner,
		filter:    filter,
		cache:     cache,
		runner:    runner,
		executor:  executor,
		scheduler: scheduler,
		parser:    parser,
		storage:   st,
		formatter: formatter,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	file := absPath(rc.config, rc.config.Flags.File)

	switch {
	case len(args) == 1 && file == "":
		return errors.New("running a single test requires --file")
	case len(args) == 1:
		if domain.Find(rc.cache.Parse(file), args[0]) == nil {
			log.Warn().Str("test", args[0]).Str("file", file).Msg("no declaration with this name; jest will still filter by it")
		}
		return rc.runner.RunTest(ctx, args[0], file)
	case file != "":
		return rc.runner.RunFile(ctx, file)
	}

	return rc.runParallel(cmd)
}

func (rc *RunCommand) runParallel(cmd *cobra.Command) error {
	shard, err := execution.ParseShard(rc.config.Flags.Shard)
	if err != nil {
		return err
	}

	tests, err := discoverFiles(rc.config, rc.scanner, rc.filter)
	if err != nil {
		return err
	}
	tests = shard.Select(rc.scheduler, tests)

	if len(tests) == 0 {
		color.Yellow("No tests to execute")
		return nil
	}
	log.Debug().Int("files", len(tests)).Int("workers", rc.config.Processors).Msg("starting parallel run")

	rc.executor.SetProgress(ui.NewProgressBar(len(tests), "Running tests"))
	results, duration, err := rc.executor.ExecuteWithOptions(cmd.Context(), tests, rc.config.Flags.FailFast)
	if err != nil {
		return err
	}

	var (
		failures    []domain.TestFailure
		passedCases int
	)
	for _, result := range results {
		passed, _ := rc.parser.ParseTestCounts(result)
		passedCases += passed
		if result.Success {
			continue
		}
		if errors.Is(result.Error, execution.ErrJestNotFound) {
			return result.Error
		}
		failures = append(failures, rc.parser.ParseFailure(result)...)
	}

	run := storage.Run{
		Results:     results,
		Failures:    failures,
		PassedCases: passedCases,
		Duration:    duration,
		Workers:     rc.config.Processors,
	}
	if err := rc.storage.Save(run); err != nil {
		return fmt.Errorf("failed to save test results: %w", err)
	}

	output, err := rc.storage.Load()
	if err != nil {
		return err
	}
	rc.formatter.SetOutput(cmd.OutOrStdout())
	rc.formatter.PrintMetaStats(output)

	if output.Meta.FailedTestFiles > 0 {
		return fmt.Errorf("%d test file(s) failed", output.Meta.FailedTestFiles)
	}
	return nil
}
