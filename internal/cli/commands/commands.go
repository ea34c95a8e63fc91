package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"jtr/internal/cli"
	"jtr/internal/config"
	"jtr/internal/discovery"
	"jtr/internal/execution"
	"jtr/internal/migration"
	"jtr/internal/nodeversion"
	"jtr/internal/parser"
	"jtr/internal/storage"
	"jtr/internal/ui"
)

// Commands holds all CLI commands
type Commands struct {
	config *config.Config

	Run         *RunCommand
	List        *ListCommand
	Lens        *LensCommand
	Debug       *DebugCommand
	DebugConfig *DebugConfigCommand
	Watch       *WatchCommand
	Explore     *ExploreCommand
	Faills      *FaillsCommand
	Migrate     *MigrateCommand
	NodeVersion *NodeVersionCommand
}

// NewCommands creates all commands with dependencies
func NewCommands(cfg *config.Config) *Commands {
	c := &Commands{config: cfg}
	c.wire()
	return c
}

// wire builds every dependency from the current config
func (c *Commands) wire() {
	cfg := c.config

	scanner := discovery.NewScanner(cfg.Include, cfg.Exclude, cfg.PathsToIgnore)
	filter := discovery.NewFilter()
	cache := discovery.NewCache(discovery.NewParser())
	locator := execution.NewLocator(cfg)
	runner := execution.NewRunner(cfg, locator)
	debugger := execution.NewDebugger(cfg, locator)
	scheduler := execution.NewRoundRobinScheduler()
	jestParser := parser.NewJestParser()
	pool := execution.NewWorkerPool(cfg, runner, jestParser)
	jsonStorage := storage.NewJSONStorage(cfg)
	formatter := ui.NewFormatter(cfg)
	dbManager := migration.NewDatabaseManager(cfg)
	migrator := migration.NewCommandMigrator(cfg, dbManager)
	errorViewer := ui.NewErrorViewer(jsonStorage)

	c.Run = NewRunCommand(cfg, scanner, filter, cache, runner, pool, scheduler, jestParser, jsonStorage, formatter)
	c.List = NewListCommand(cfg, scanner, filter, cache, formatter, jsonStorage)
	c.Lens = NewLensCommand(cfg, cache)
	c.Debug = NewDebugCommand(cfg, cache, debugger)
	c.DebugConfig = NewDebugConfigCommand(debugger)
	c.Watch = NewWatchCommand(cfg, scanner, filter, cache, formatter)
	c.Explore = NewExploreCommand(cfg, scanner, cache, runner, debugger)
	c.Faills = NewFaillsCommand(jsonStorage, errorViewer)
	c.Migrate = NewMigrateCommand(cfg, migrator)
	c.NodeVersion = NewNodeVersionCommand(cfg, nodeversion.NewChecker())
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	rootCmd.PersistentFlags().StringVar(&flags.Project, "project", ".", "Path to the jest project root")
	rootCmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(flags.Project)
		if err != nil {
			return err
		}
		*cfg = *loaded
		cfg.ApplyFlags(flags.ToConfigFlags())

		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		if cfg.Flags.Verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
		c.wire()
		return nil
	}

	runCmd := &cobra.Command{
		Use:   "run [test name]",
		Short: "Run jest tests",
		Long: `Run one test by qualified name (with --file), every test in one file (--file only),
or all discovered test files in parallel. A parallel run stores its results for the faills viewer.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error { return c.Run.Execute(cmd, args) },
	}
	runCmd.Flags().IntVarP(&flags.Processors, "processors", "p", 0, "Number of parallel jest processes (default from .jtr.yaml or 4)")
	runCmd.Flags().StringVar(&flags.File, "file", "", "Test file to run")
	runCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to the folder where test discovery should start")
	runCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter test files by name pattern (supports wildcards, e.g. '*user*')")
	runCmd.Flags().StringVar(&flags.Shard, "shard", "", "Run only one shard of the files, as index/total (e.g. 2/3)")
	runCmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Stop on first test file failure")
	rootCmd.AddCommand(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List discovered suites and tests",
		Long:  "Scan the project and print the describe/test tree of every jest test file without running anything",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return c.List.Execute(cmd, args) },
	}
	listCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter test files by name pattern (supports wildcards, e.g. '*user*')")
	listCmd.Flags().StringVarP(&flags.TestFilter, "grep", "g", "", "Keep only suites and tests whose name matches the pattern")
	listCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to the folder where test discovery should start")
	listCmd.Flags().BoolVar(&flags.JSON, "json", false, "Print the forest as JSON")
	rootCmd.AddCommand(listCmd)

	lensCmd := &cobra.Command{
		Use:   "lens <file>",
		Short: "Print the inline Run/Debug actions of a test file",
		Args:  cobra.ExactArgs(1),
		RunE:  func(cmd *cobra.Command, args []string) error { return c.Lens.Execute(cmd, args) },
	}
	lensCmd.Flags().BoolVar(&flags.JSON, "json", false, "Print the actions as JSON")
	rootCmd.AddCommand(lensCmd)

	debugCmd := &cobra.Command{
		Use:   "debug [test name]",
		Short: "Debug a test under the node inspector",
		Long:  "Start jest in-band under node --inspect-brk for one test (or the whole file), or print its launch configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE:  func(cmd *cobra.Command, args []string) error { return c.Debug.Execute(cmd, args) },
	}
	debugCmd.Flags().StringVar(&flags.File, "file", "", "Test file to debug")
	debugCmd.Flags().BoolVar(&flags.Print, "print", false, "Print the launch configuration instead of starting the debugger")
	_ = debugCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(debugCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "debug-config",
		Short: "Print the stock jest launch configurations",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return c.DebugConfig.Execute(cmd, args) },
	})

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Reprint the test tree whenever test files change",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return c.Watch.Execute(cmd, args) },
	}
	watchCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter test files by name pattern")
	watchCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to the folder where test discovery should start")
	rootCmd.AddCommand(watchCmd)

	exploreCmd := &cobra.Command{
		Use:   "explore",
		Short: "Browse, run and debug tests interactively",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return c.Explore.Execute(cmd, args) },
	}
	exploreCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to the folder where test discovery should start")
	rootCmd.AddCommand(exploreCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "faills",
		Short: "View test failures interactively",
		Long:  "Display test failures from the last parallel run in an interactive viewer",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return c.Faills.Execute(cmd, args) },
	})

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create and migrate the per-worker test databases",
		Long:  "Create <prefix>_<n> databases for every worker and run the configured migrate command against each in parallel",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return c.Migrate.Execute(cmd, args) },
	}
	migrateCmd.Flags().IntVarP(&flags.Processors, "processors", "p", 0, "Number of worker databases (default from .jtr.yaml or 4)")
	migrateCmd.Flags().BoolVar(&flags.NoFresh, "no-fresh", false, "Do not append the configured fresh arguments")
	rootCmd.AddCommand(migrateCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "node-version",
		Short: "Compare the node version pinned in .nvmrc with the current node",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return c.NodeVersion.Execute(cmd, args) },
	})
}
