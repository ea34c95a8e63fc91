package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"

	"jtr/internal/config"
	"jtr/internal/domain"
)

var (
	suiteColor   = color.New(color.FgCyan)
	testColor    = color.New(color.FgYellow)
	skippedColor = color.New(color.FgHiBlack)
	focusedColor = color.New(color.FgGreen)
	fileColor    = color.New(color.FgCyan, color.Bold)
	failColor    = color.New(color.FgRed)
	passColor    = color.New(color.FgGreen)
	plainColor   = color.New(color.FgWhite)
	locColor     = color.New(color.FgHiBlack)
)

// Formatter formats and displays output
type Formatter struct {
	config *config.Config
	out    io.Writer
}

// NewFormatter creates a new Formatter writing to stdout
func NewFormatter(cfg *config.Config) *Formatter {
	return &Formatter{config: cfg, out: os.Stdout}
}

// SetOutput redirects the formatter
func (f *Formatter) SetOutput(w io.Writer) {
	f.out = w
}

func (f *Formatter) relative(path string) string {
	if rel, err := filepath.Rel(f.config.GetProjectRoot(), path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

// PrintForest prints every file as a root with its suites and tests nested below.
// Files in failedPaths are marked with [F] (from the last stored run).
func (f *Formatter) PrintForest(groups []FileGroup, failedPaths map[string]struct{}) {
	total := 0
	for _, g := range groups {
		total += domain.Count(g.Forest)
	}
	passColor.Fprintf(f.out, "Found %d test file(s) with %d suites and tests:\n\n", len(groups), total)

	for i, g := range groups {
		isLastFile := i == len(groups)-1
		marker := ""
		if _, ok := failedPaths[f.relative(g.Path)]; ok {
			marker = " " + failColor.Sprint("[F]")
		}
		connector := "├── "
		childPrefix := "│   "
		if isLastFile {
			connector = "└── "
			childPrefix = "    "
		}
		fmt.Fprintf(f.out, "%s%s%s\n", connector, fileColor.Sprint(f.relative(g.Path)), marker)

		if len(g.Forest) == 0 {
			fmt.Fprintf(f.out, "%s└── %s\n", childPrefix, failColor.Sprint("(no tests found)"))
		}
		f.printNodes(g.Forest, childPrefix)

		if !isLastFile {
			fmt.Fprintln(f.out)
		}
	}
}

func (f *Formatter) printNodes(nodes []*domain.TestNode, prefix string) {
	for i, n := range nodes {
		last := i == len(nodes)-1
		connector := "├── "
		next := prefix + "│   "
		if last {
			connector = "└── "
			next = prefix + "    "
		}
		fmt.Fprintf(f.out, "%s%s%s %s\n",
			prefix, connector,
			nodeColor(n).Sprint(n.Name),
			locColor.Sprintf("%s:%d:%d", n.Keyword, n.Line+1, n.Column+1))
		f.printNodes(n.Children, next)
	}
}

func nodeColor(n *domain.TestNode) *color.Color {
	switch {
	case n.Modifier == domain.ModifierSkip:
		return skippedColor
	case n.Modifier == domain.ModifierOnly:
		return focusedColor
	case n.IsSuite():
		return suiteColor
	}
	return testColor
}

// PrintFiles prints a flat list of test files
func (f *Formatter) PrintFiles(files []string, failedPaths map[string]struct{}) {
	passColor.Fprintf(f.out, "Found %d test file(s):\n\n", len(files))
	for i, file := range files {
		rel := f.relative(file)
		marker := ""
		if _, ok := failedPaths[rel]; ok {
			marker = " " + failColor.Sprint("[F]")
		}
		connector := "├── "
		if i == len(files)-1 {
			connector = "└── "
		}
		fmt.Fprintf(f.out, "%s%s%s\n", connector, fileColor.Sprint(rel), marker)
	}
}

// FailedPaths returns the project-relative files that failed in a stored run
func (f *Formatter) FailedPaths(output *domain.TestResultsOutput) map[string]struct{} {
	paths := make(map[string]struct{})
	if output == nil {
		return paths
	}
	for _, d := range output.Details {
		if d.Resolved {
			continue
		}
		paths[f.relative(d.FilePath)] = struct{}{}
	}
	return paths
}

// PrintMetaStats displays the summary of a stored run
func (f *Formatter) PrintMetaStats(output *domain.TestResultsOutput) {
	meta := output.Meta
	row := func(label string, c *color.Color, value any) {
		fmt.Fprintf(f.out, "│ %-31s │ ", label)
		c.Fprintf(f.out, "%-27v", value)
		fmt.Fprint(f.out, " │\n")
	}
	sep := func() {
		fmt.Fprintln(f.out, "├─────────────────────────────────┼─────────────────────────────┤")
	}

	fmt.Fprintln(f.out)
	suiteColor.Fprintln(f.out, "╔═══════════════════════════════════════════════════════════════╗")
	suiteColor.Fprintln(f.out, "║                    Test Execution Statistics                  ║")
	suiteColor.Fprintln(f.out, "╚═══════════════════════════════════════════════════════════════╝")
	fmt.Fprintln(f.out, "┌─────────────────────────────────┬─────────────────────────────┐")
	row("Total Test Files", plainColor, meta.TotalTestFiles)
	sep()
	row("Passed Test Files", passColor, meta.PassedTestFiles)
	sep()
	row("Failed Test Files", failColor, meta.FailedTestFiles)
	sep()
	row("Passed Test Cases", passColor, meta.PassedTestCases)
	sep()
	row("Failed Test Cases", failColor, meta.FailedTestCases)
	sep()
	row("Duration", plainColor, fmt.Sprintf("%.2fs", meta.DurationSeconds))
	sep()
	row("Workers", plainColor, meta.Workers)
	sep()
	row("Timestamp", plainColor, meta.Timestamp)
	fmt.Fprintln(f.out, "└─────────────────────────────────┴─────────────────────────────┘")

	fmt.Fprintln(f.out)
	if meta.FailedTestFiles == 0 {
		passColor.Fprintln(f.out, "✓ All tests passed!")
		return
	}
	failColor.Fprintf(f.out, "✗ %d test file(s) failed with %d test case failure(s)\n\n", meta.FailedTestFiles, meta.FailedTestCases)
	f.printFailures(output.Details)
}

// printFailures prints failed test names grouped under their files
func (f *Formatter) printFailures(failures []domain.TestFailure) {
	byFile := make(map[string][]string)
	for _, failure := range failures {
		byFile[failure.FilePath] = append(byFile[failure.FilePath], failure.TestName)
	}
	files := make([]string, 0, len(byFile))
	for file := range byFile {
		files = append(files, file)
	}
	sort.Strings(files)

	for i, file := range files {
		connector, prefix := "├── ", "│   "
		if i == len(files)-1 {
			connector, prefix = "└── ", "    "
		}
		fmt.Fprintf(f.out, "%s%s\n", connector, testColor.Sprint(f.relative(file)))
		names := byFile[file]
		for j, name := range names {
			c := "├── "
			if j == len(names)-1 {
				c = "└── "
			}
			fmt.Fprintf(f.out, "%s%s%s\n", prefix, c, failColor.Sprint(name))
		}
	}
}
