package commands

import (
	"context"
	"encoding/json"
	"io"
	"path/filepath"

	"jtr/internal/config"
	"jtr/internal/discovery"
	"jtr/internal/domain"
	"jtr/internal/ui"
)

// fileForest is the JSON shape of one parsed file
type fileForest struct {
	File  string             `json:"file"`
	Tests []*domain.TestNode `json:"tests"`
}

// discoverFiles scans the test path and applies the file-name filter
func discoverFiles(cfg *config.Config, scanner *discovery.Scanner, filter *discovery.Filter) ([]string, error) {
	files, err := scanner.Scan(cfg.GetTestPath())
	if err != nil {
		return nil, err
	}
	return filter.FilterByName(files, cfg.Flags.NameFilter), nil
}

// discoverGroups parses the discovered files and applies the test-name filter
func discoverGroups(ctx context.Context, cfg *config.Config, scanner *discovery.Scanner, filter *discovery.Filter, cache *discovery.Cache) ([]ui.FileGroup, error) {
	files, err := discoverFiles(cfg, scanner, filter)
	if err != nil {
		return nil, err
	}
	forests, err := cache.ParseAll(ctx, files)
	if err != nil {
		return nil, err
	}
	if pattern := cfg.Flags.TestFilter; pattern != "" {
		for path, forest := range forests {
			kept := filter.FilterForest(forest, pattern)
			if len(kept) == 0 {
				delete(forests, path)
				continue
			}
			forests[path] = kept
		}
	}
	return ui.GroupByFile(forests), nil
}

// absPath resolves a user-supplied path against the project root
func absPath(cfg *config.Config, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cfg.GetProjectRoot(), path)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
