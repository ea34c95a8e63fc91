package config

import "time"

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultTestPath is the default test path, relative to the project
	DefaultTestPath = "."
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "test-results.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = "storage"
	// DefaultProcessors is the default number of parallel jest processes
	DefaultProcessors = 4
	// DefaultDatabasePrefix names worker databases <prefix>_<n>
	DefaultDatabasePrefix = "testing"
	// DefaultWatchDebounce batches file events before the cache is invalidated
	DefaultWatchDebounce = 200 * time.Millisecond
	// ProjectFileName is the optional per-project configuration file
	ProjectFileName = ".jtr.yaml"
)

// DefaultInclude matches jest test files by naming convention
var DefaultInclude = []string{"**/*.{test,spec}.{js,jsx,ts,tsx}"}

// DefaultExclude keeps dependency trees out of discovery
var DefaultExclude = []string{"**/node_modules/**"}

// DefaultPathsToIgnore are directory names never descended into when scanning for tests
var DefaultPathsToIgnore = []string{
	"node_modules",
	"coverage",
	"dist",
	"build",
	"storage",
}
