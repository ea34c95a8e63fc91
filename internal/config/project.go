package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ProjectConfig represents a .jtr.yaml file in a project root
type ProjectConfig struct {
	JestPath     string   `yaml:"jest_path,omitempty"`
	ShowCodeLens *bool    `yaml:"show_code_lens,omitempty"`
	Include      []string `yaml:"include,omitempty"`
	Exclude      []string `yaml:"exclude,omitempty"`
	Ignore       []string `yaml:"ignore,omitempty"`
	Processors   int      `yaml:"processors,omitempty"`

	Database DatabaseConfig `yaml:"database,omitempty"`
	Migrate  MigrateConfig  `yaml:"migrate,omitempty"`
	Output   OutputConfig   `yaml:"output,omitempty"`
	Watch    WatchConfig    `yaml:"watch,omitempty"`
}

// DatabaseConfig holds worker database settings
type DatabaseConfig struct {
	Prefix string `yaml:"prefix,omitempty"`
}

// MigrateConfig holds the command that migrates one worker database
type MigrateConfig struct {
	// Command is split on whitespace and run with DB_DATABASE set, e.g. "npx knex migrate:latest"
	Command string `yaml:"command,omitempty"`
	// Fresh is appended to Command unless --no-fresh is given
	Fresh string `yaml:"fresh,omitempty"`
}

// OutputConfig holds result file settings
type OutputConfig struct {
	Dir  string `yaml:"dir,omitempty"`
	File string `yaml:"file,omitempty"`
}

// WatchConfig holds file watcher settings
type WatchConfig struct {
	DebounceMs int `yaml:"debounce_ms,omitempty"`
}

// LoadProjectConfig reads a project file. A missing file yields an empty config.
func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ProjectConfig{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var pc ProjectConfig
	if err := yaml.Unmarshal(data, &pc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &pc, nil
}

// Apply overrides cfg with every value set in the project file
func (pc *ProjectConfig) Apply(cfg *Config) {
	if pc.JestPath != "" {
		cfg.JestPath = pc.JestPath
	}
	if pc.ShowCodeLens != nil {
		cfg.ShowCodeLens = *pc.ShowCodeLens
	}
	if len(pc.Include) > 0 {
		cfg.Include = pc.Include
	}
	if len(pc.Exclude) > 0 {
		cfg.Exclude = pc.Exclude
	}
	if len(pc.Ignore) > 0 {
		cfg.PathsToIgnore = pc.Ignore
	}
	if pc.Processors > 0 {
		cfg.Processors = pc.Processors
	}
	if pc.Database.Prefix != "" {
		cfg.DatabasePrefix = pc.Database.Prefix
	}
	if pc.Migrate.Command != "" {
		cfg.MigrateCommand = pc.Migrate.Command
	}
	if pc.Migrate.Fresh != "" {
		cfg.MigrateFresh = pc.Migrate.Fresh
	}
	if pc.Output.Dir != "" {
		cfg.OutputJSONDir = pc.Output.Dir
	}
	if pc.Output.File != "" {
		cfg.OutputJSONFile = pc.Output.File
	}
	if pc.Watch.DebounceMs > 0 {
		cfg.WatchDebounce = time.Duration(pc.Watch.DebounceMs) * time.Millisecond
	}
}
