package execution

import "jtr/internal/domain"

// Progress receives updates while a pool runs
type Progress interface {
	Update(completedFiles, passedCases, failedCases int)
	Finish()
}

// CaseCounter extracts passed and failed test-case counts from a file result
type CaseCounter interface {
	ParseTestCounts(result domain.TestResult) (passed, failed int)
}
