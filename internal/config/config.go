package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string
	TestPath    string

	// Discovery globs, matched against project-relative slash paths
	Include []string
	Exclude []string

	// Paths to ignore when scanning
	PathsToIgnore []string

	// Output settings
	OutputJSONFile string
	OutputJSONDir  string

	// Execution settings
	Processors     int
	JestPath       string
	ShowCodeLens   bool
	DatabasePrefix string
	MigrateCommand string
	MigrateFresh   string

	WatchDebounce time.Duration

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	Processors int
	TestPath   string
	NameFilter string
	TestFilter string
	File       string
	Shard      string
	FailFast   bool
	NoFresh    bool
	JSON       bool
	Print      bool
	Verbose    bool
}

// New creates a new Config with defaults
func New() *Config {
	return &Config{
		ProjectPath:    DefaultProjectPath,
		TestPath:       DefaultTestPath,
		Include:        clone(DefaultInclude),
		Exclude:        clone(DefaultExclude),
		PathsToIgnore:  clone(DefaultPathsToIgnore),
		OutputJSONFile: DefaultOutputJSONFile,
		OutputJSONDir:  DefaultOutputJSONDir,
		Processors:     DefaultProcessors,
		ShowCodeLens:   true,
		DatabasePrefix: DefaultDatabasePrefix,
		WatchDebounce:  DefaultWatchDebounce,
		Flags:          Flags{Processors: DefaultProcessors},
	}
}

// Load builds the config for the project at projectPath: defaults, then .jtr.yaml,
// then .env and environment overrides.
func Load(projectPath string) (*Config, error) {
	cfg := New()
	if projectPath != "" {
		cfg.ProjectPath = projectPath
	}

	project, err := LoadProjectConfig(filepath.Join(cfg.ProjectPath, ProjectFileName))
	if err != nil {
		return nil, err
	}
	project.Apply(cfg)

	envPath := filepath.Join(cfg.ProjectPath, ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("file", envPath).Msg("cannot load .env")
	}
	cfg.applyEnv()

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("JTR_JEST_PATH"); v != "" {
		c.JestPath = v
	}
	if v := os.Getenv("DB_DATABASE_PREFIX"); v != "" {
		c.DatabasePrefix = v
	}
}

// ApplyFlags copies parsed flags into the config
func (c *Config) ApplyFlags(flags Flags) {
	c.Flags = flags
	if flags.Processors > 0 {
		c.Processors = flags.Processors
	}
}

// GetTestPath returns the test path, using flag if provided
func (c *Config) GetTestPath() string {
	if c.Flags.TestPath != "" {
		if filepath.IsAbs(c.Flags.TestPath) {
			return c.Flags.TestPath
		}
		return filepath.Join(c.ProjectPath, c.Flags.TestPath)
	}
	return filepath.Join(c.ProjectPath, c.TestPath)
}

// GetOutputPath returns the absolute path of the results JSON file.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.ProjectPath, c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetProjectRoot returns the absolute project path
func (c *Config) GetProjectRoot() string {
	if abs, err := filepath.Abs(c.ProjectPath); err == nil {
		return abs
	}
	return c.ProjectPath
}

// GetDatabaseName returns the database name for a worker
func (c *Config) GetDatabaseName(workerID int) string {
	prefix := strings.TrimSpace(c.DatabasePrefix)
	if prefix == "" {
		prefix = DefaultDatabasePrefix
	}
	return fmt.Sprintf("%s_%d", prefix, workerID)
}

func clone(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
