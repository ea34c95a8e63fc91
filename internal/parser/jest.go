package parser

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"jtr/internal/domain"
)

var (
	ansiPattern      = regexp.MustCompile(`\x1b\[[0-9;]*m`)
	summaryPattern   = regexp.MustCompile(`(?m)^Tests:\s+(.+)$`)
	countPattern     = regexp.MustCompile(`(\d+) (passed|failed|skipped|todo|total)`)
	headerPattern    = regexp.MustCompile(`^\s*● (.+?)\s*$`)
	codeFramePattern = regexp.MustCompile(`^\s*(>\s*)?\d*\s*\|`)
	locationPattern  = regexp.MustCompile(`\(?([^()\s]+):(\d+):(\d+)\)?$`)
)

// headers jest prints with ● that are not failed tests
var nonFailureHeaders = map[string]bool{
	"Console": true,
}

// JestParser parses the output of the default jest reporter
type JestParser struct{}

// NewJestParser creates a new JestParser
func NewJestParser() *JestParser {
	return &JestParser{}
}

// ParseTestCounts extracts passed and failed test case counts from the "Tests:" summary line.
// Returns (passed, failed). Without a summary it counts the file as one case.
func (p *JestParser) ParseTestCounts(result domain.TestResult) (passed, failed int) {
	output := ansiPattern.ReplaceAllString(result.Output, "")

	if m := summaryPattern.FindStringSubmatch(output); m != nil {
		for _, c := range countPattern.FindAllStringSubmatch(m[1], -1) {
			n, _ := strconv.Atoi(c[1])
			switch c[2] {
			case "passed":
				passed = n
			case "failed":
				failed = n
			}
		}
		if passed > 0 || failed > 0 {
			return passed, failed
		}
	}

	if result.Success {
		return 1, 0
	}
	return 0, 1
}

// ParseFailure returns one failure per "● Suite › test" block in the output
func (p *JestParser) ParseFailure(result domain.TestResult) []domain.TestFailure {
	output := ansiPattern.ReplaceAllString(result.Output, "")
	output = strings.ReplaceAll(output, "\r\n", "\n")
	lines := strings.Split(output, "\n")

	var failures []domain.TestFailure
	for i := 0; i < len(lines); i++ {
		m := headerPattern.FindStringSubmatch(lines[i])
		if m == nil || nonFailureHeaders[m[1]] {
			continue
		}
		end := blockEnd(lines, i+1)
		failures = append(failures, p.parseBlock(m[1], lines[i+1:end], result.TestPath))
		i = end - 1
	}
	return failures
}

func blockEnd(lines []string, from int) int {
	for j := from; j < len(lines); j++ {
		line := lines[j]
		if headerPattern.MatchString(line) ||
			strings.HasPrefix(line, "Test Suites:") ||
			strings.HasPrefix(line, "Tests:") ||
			strings.HasPrefix(line, "PASS ") ||
			strings.HasPrefix(line, "FAIL ") {
			return j
		}
	}
	return len(lines)
}

func (p *JestParser) parseBlock(name string, block []string, testPath string) domain.TestFailure {
	failure := domain.TestFailure{
		TestName:   name,
		FilePath:   testPath,
		StackTrace: []string{},
	}

	var message []string
	inFrame := false
	for _, line := range block {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "at "):
			failure.StackTrace = append(failure.StackTrace, trimmed)
			if failure.File == "" {
				p.locate(&failure, trimmed, testPath)
			}
		case codeFramePattern.MatchString(line):
			inFrame = true
		case !inFrame && len(failure.StackTrace) == 0:
			if len(message) == 0 && trimmed == "" {
				continue
			}
			message = append(message, strings.TrimPrefix(line, "    "))
		}
	}

	for len(message) > 0 && strings.TrimSpace(message[len(message)-1]) == "" {
		message = message[:len(message)-1]
	}
	failure.Message = strings.Join(message, "\n")
	return failure
}

// locate records the first stack frame that points into the test file itself
func (p *JestParser) locate(failure *domain.TestFailure, frame, testPath string) {
	m := locationPattern.FindStringSubmatch(frame)
	if m == nil {
		return
	}
	file := m[1]
	if testPath != "" && filepath.Base(file) != filepath.Base(testPath) {
		return
	}
	failure.File = file
	failure.Line, _ = strconv.Atoi(m[2])
	failure.Column, _ = strconv.Atoi(m[3])
}
