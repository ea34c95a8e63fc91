package discovery

import (
	"path/filepath"
	"strings"

	"jtr/internal/domain"
)

// Filter narrows test files and nodes by name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName keeps the files whose base name matches pattern.
// Patterns may use * and ? ("*math.test.js", "*auth*"); a pattern without wildcards is a substring.
func (f *Filter) FilterByName(files []string, pattern string) []string {
	if pattern == "" {
		return files
	}

	var filtered []string
	for _, file := range files {
		if matchName(pattern, filepath.Base(file)) {
			filtered = append(filtered, file)
		}
	}
	return filtered
}

// FilterForest keeps the nodes whose qualified name matches pattern, together with their
// ancestor suites. Matching suites keep all of their children. The input is not modified.
func (f *Filter) FilterForest(forest []*domain.TestNode, pattern string) []*domain.TestNode {
	if pattern == "" {
		return forest
	}

	var keep func(nodes []*domain.TestNode) []*domain.TestNode
	keep = func(nodes []*domain.TestNode) []*domain.TestNode {
		var out []*domain.TestNode
		for _, n := range nodes {
			if matchName(pattern, n.QualifiedName) {
				out = append(out, n)
				continue
			}
			if !n.IsSuite() {
				continue
			}
			if children := keep(n.Children); len(children) > 0 {
				clone := *n
				clone.Children = children
				out = append(out, &clone)
			}
		}
		return out
	}
	return keep(forest)
}

func matchName(pattern, name string) bool {
	if matched, err := filepath.Match(pattern, name); err == nil && matched {
		return true
	}

	if !strings.ContainsAny(pattern, "*?") {
		return strings.Contains(name, pattern)
	}

	// filepath.Match is anchored and stops at separators; fall back to ordered substrings
	parts := strings.Split(strings.ReplaceAll(pattern, "?", "*"), "*")
	rest := name
	nonEmpty := false
	for _, part := range parts {
		if part == "" {
			continue
		}
		nonEmpty = true
		idx := strings.Index(rest, part)
		if idx < 0 {
			return false
		}
		rest = rest[idx+len(part):]
	}
	return nonEmpty
}
