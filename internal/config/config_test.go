package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_GetTestPath(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected string
	}{
		{
			name: "default path",
			config: &Config{
				ProjectPath: ".",
				TestPath:    ".",
				Flags:       Flags{},
			},
			expected: ".",
		},
		{
			name: "with test path flag",
			config: &Config{
				ProjectPath: "/project",
				TestPath:    ".",
				Flags: Flags{
					TestPath: "src",
				},
			},
			expected: "/project/src",
		},
		{
			name: "absolute test path",
			config: &Config{
				ProjectPath: "/project",
				TestPath:    ".",
				Flags: Flags{
					TestPath: "/absolute/path",
				},
			},
			expected: "/absolute/path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.GetTestPath())
		})
	}
}

func TestConfig_GetDatabaseName(t *testing.T) {
	cfg := New()

	t.Run("default prefix", func(t *testing.T) {
		assert.Equal(t, "testing_1", cfg.GetDatabaseName(1))
	})

	t.Run("configured prefix", func(t *testing.T) {
		c := New()
		c.DatabasePrefix = "app_test"
		assert.Equal(t, "app_test_3", c.GetDatabaseName(3))
	})

	t.Run("blank prefix falls back", func(t *testing.T) {
		c := New()
		c.DatabasePrefix = "  "
		assert.Equal(t, "testing_2", c.GetDatabaseName(2))
	})
}

func TestNew(t *testing.T) {
	cfg := New()

	assert.Equal(t, DefaultProjectPath, cfg.ProjectPath)
	assert.Equal(t, DefaultProcessors, cfg.Processors)
	assert.Equal(t, DefaultInclude, cfg.Include)
	assert.True(t, cfg.ShowCodeLens)
	assert.Len(t, cfg.PathsToIgnore, len(DefaultPathsToIgnore))

	cfg.PathsToIgnore[0] = "changed"
	assert.NotEqual(t, "changed", DefaultPathsToIgnore[0], "defaults must be copied")
}

func TestConfig_ApplyFlags(t *testing.T) {
	cfg := New()
	cfg.ApplyFlags(Flags{Processors: 0, NameFilter: "*math*"})
	assert.Equal(t, DefaultProcessors, cfg.Processors)
	assert.Equal(t, "*math*", cfg.Flags.NameFilter)

	cfg.ApplyFlags(Flags{Processors: 8})
	assert.Equal(t, 8, cfg.Processors)
}

func TestLoad_ProjectFile(t *testing.T) {
	dir := t.TempDir()
	yamlContent := `jest_path: ./bin/jest
show_code_lens: false
include:
  - "src/**/*.test.ts"
processors: 2
database:
  prefix: ci
migrate:
  command: npx knex migrate:latest
  fresh: --fresh
output:
  dir: out
watch:
  debounce_ms: 50
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectFileName), []byte(yamlContent), 0644))
	t.Setenv("JTR_JEST_PATH", "")
	t.Setenv("DB_DATABASE_PREFIX", "")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "./bin/jest", cfg.JestPath)
	assert.False(t, cfg.ShowCodeLens)
	assert.Equal(t, []string{"src/**/*.test.ts"}, cfg.Include)
	assert.Equal(t, DefaultExclude, cfg.Exclude)
	assert.Equal(t, 2, cfg.Processors)
	assert.Equal(t, "ci_1", cfg.GetDatabaseName(1))
	assert.Equal(t, "npx knex migrate:latest", cfg.MigrateCommand)
	assert.Equal(t, "--fresh", cfg.MigrateFresh)
	assert.Equal(t, filepath.Join(dir, "out", DefaultOutputJSONFile), cfg.GetOutputPath())
	assert.Equal(t, 50*time.Millisecond, cfg.WatchDebounce)
}

func TestLoad_MissingProjectFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.True(t, cfg.ShowCodeLens)
	assert.Equal(t, DefaultWatchDebounce, cfg.WatchDebounce)
}

func TestLoad_MalformedProjectFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectFileName), []byte("include: [unclosed"), 0644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("JTR_JEST_PATH", "/opt/jest")
	t.Setenv("DB_DATABASE_PREFIX", "envdb")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/opt/jest", cfg.JestPath)
	assert.Equal(t, "envdb_4", cfg.GetDatabaseName(4))
}
