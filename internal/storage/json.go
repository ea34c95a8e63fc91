package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"jtr/internal/domain"
)

// Save writes a run summary and its failures to the configured JSON output file.
func (s *JSONStorage) Save(run Run) error {
	passed := 0
	failed := 0
	for _, r := range run.Results {
		if r.Success {
			passed++
		} else {
			failed++
		}
	}

	details := run.Failures
	if details == nil {
		details = []domain.TestFailure{}
	}

	output := domain.TestResultsOutput{
		Meta: domain.TestResultsMeta{
			RunID:           uuid.NewString(),
			TotalTestFiles:  len(run.Results),
			FailedTestFiles: failed,
			PassedTestFiles: passed,
			PassedTestCases: run.PassedCases,
			FailedTestCases: len(run.Failures),
			Duration:        run.Duration.String(),
			DurationSeconds: run.Duration.Seconds(),
			Workers:         run.Workers,
			Timestamp:       s.now().Format(time.RFC3339),
		},
		Details: details,
	}
	return s.SaveOutput(&output)
}

// Load reads the last test results from the configured JSON output file.
func (s *JSONStorage) Load() (*domain.TestResultsOutput, error) {
	path := s.cfg.GetOutputPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}
	var output domain.TestResultsOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return &output, nil
}

// SaveOutput writes the full output to the configured JSON file (e.g. after re-running selected tests).
func (s *JSONStorage) SaveOutput(output *domain.TestResultsOutput) error {
	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	path := s.cfg.GetOutputPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}
