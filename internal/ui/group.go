package ui

import (
	"path/filepath"
	"sort"

	"jtr/internal/domain"
)

// FileGroup is the parsed forest of one test file
type FileGroup struct {
	Path   string
	Label  string
	Forest []*domain.TestNode
}

// GroupByFile turns a path-to-forest map into groups sorted by path
func GroupByFile(forests map[string][]*domain.TestNode) []FileGroup {
	groups := make([]FileGroup, 0, len(forests))
	for path, forest := range forests {
		groups = append(groups, FileGroup{
			Path:   path,
			Label:  filepath.Base(path),
			Forest: forest,
		})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Path < groups[j].Path })
	return groups
}
