package storage

import (
	"time"

	"jtr/internal/config"
	"jtr/internal/domain"
)

// Storage persists and loads test run results (e.g. for the faills viewer).
type Storage interface {
	Save(run Run) error
	Load() (*domain.TestResultsOutput, error)
	// SaveOutput writes the full output (e.g. after partial re-run updates).
	SaveOutput(output *domain.TestResultsOutput) error
}

// Run is everything recorded about one parallel run
type Run struct {
	Results     []domain.TestResult
	Failures    []domain.TestFailure
	PassedCases int
	Duration    time.Duration
	Workers     int
}

// JSONStorage stores results in a JSON file under the configured output path.
type JSONStorage struct {
	cfg *config.Config
	now func() time.Time
}

// NewJSONStorage returns a Storage that reads/writes the config's output JSON path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg, now: time.Now}
}
