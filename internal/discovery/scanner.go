package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog/log"
)

// Scanner finds jest test files below a root directory
type Scanner struct {
	include  []string
	exclude  []string
	skipDirs map[string]bool
}

// NewScanner creates a Scanner. include and exclude are doublestar globs matched against
// root-relative slash paths; skipDirs are directory names never descended into.
func NewScanner(include, exclude, skipDirs []string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	return &Scanner{include: include, exclude: exclude, skipDirs: skipMap}
}

// Scan returns the absolute paths of all test files under root, sorted.
func (s *Scanner) Scan(root string) ([]string, error) {
	root, err := filepath.Abs(filepath.Clean(root))
	if err != nil {
		return nil, fmt.Errorf("resolve test path: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("test path does not exist: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("test path is not a directory: %s", root)
	}

	var testFiles []string
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("skipping unreadable entry")
			return nil
		}
		if d.IsDir() {
			if path != root && s.SkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if s.matches(filepath.ToSlash(rel)) {
			testFiles = append(testFiles, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(testFiles)
	return testFiles, nil
}

// SkipDir reports whether a directory with this name is never scanned.
func (s *Scanner) SkipDir(name string) bool {
	if strings.HasPrefix(name, ".") && name != "." && name != ".." {
		return true
	}
	return s.skipDirs[name]
}

// IsTestFile reports whether path, relative to root, is a test file.
func (s *Scanner) IsTestFile(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	return s.matches(filepath.ToSlash(rel))
}

func (s *Scanner) matches(rel string) bool {
	for _, pattern := range s.exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return false
		}
	}
	for _, pattern := range s.include {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
