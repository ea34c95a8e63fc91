package domain

import "time"

// TestResult is the outcome of running jest against one test file
type TestResult struct {
	TestPath string        // test file that was executed
	WorkerID int           // pool worker that ran it
	Success  bool          // jest exited with status 0
	Output   string        // combined stdout/stderr
	Error    error         // exec error, if any
	Duration time.Duration // wall time of the jest process
}

// TestResultsMeta contains metadata about a parallel run
type TestResultsMeta struct {
	RunID           string  `json:"run_id"`
	TotalTestFiles  int     `json:"total_test_files"`
	FailedTestFiles int     `json:"failed_test_files"`
	PassedTestFiles int     `json:"passed_test_files"`
	PassedTestCases int     `json:"passed_test_cases"`
	FailedTestCases int     `json:"failed_test_cases"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Workers         int     `json:"workers"`
	Timestamp       string  `json:"timestamp"`
}

// TestResultsOutput is the complete stored result of a run
type TestResultsOutput struct {
	Meta    TestResultsMeta `json:"meta"`
	Details []TestFailure   `json:"details"`
}
