package domain

// TestFailure is one failed test reported by jest
type TestFailure struct {
	TestName   string   `json:"test_name"` // qualified name as printed by jest
	FilePath   string   `json:"file_path"`
	Message    string   `json:"message"`
	StackTrace []string `json:"stack_trace"`
	File       string   `json:"file"`
	Line       int      `json:"line"`
	Column     int      `json:"column"`
	Resolved   bool     `json:"resolved,omitempty"`
}
