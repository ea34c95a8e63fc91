package parser

import "jtr/internal/domain"

// Parser parses test results and extracts failures
type Parser interface {
	ParseFailure(result domain.TestResult) []domain.TestFailure
	ParseTestCounts(result domain.TestResult) (passed, failed int)
}
