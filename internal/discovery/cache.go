package discovery

import (
	"context"
	"runtime"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"jtr/internal/domain"
)

// Cache memoizes the last parse of each file. Entries never expire; callers invalidate.
type Cache struct {
	parser *Parser

	mu      sync.RWMutex
	entries map[string][]*domain.TestNode
}

// NewCache creates an empty cache backed by parser
func NewCache(parser *Parser) *Cache {
	return &Cache{
		parser:  parser,
		entries: make(map[string][]*domain.TestNode),
	}
}

// Parse returns the cached forest for path, parsing the file on a miss.
// Concurrent misses on the same path may both parse; the last store wins.
func (c *Cache) Parse(path string) []*domain.TestNode {
	c.mu.RLock()
	forest, ok := c.entries[path]
	c.mu.RUnlock()
	if ok {
		return forest
	}

	forest = c.parser.ParseFile(path)

	c.mu.Lock()
	c.entries[path] = forest
	c.mu.Unlock()

	log.Debug().Str("file", path).Int("nodes", domain.Count(forest)).Msg("parsed test file")
	return forest
}

// Invalidate drops every cached forest.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string][]*domain.TestNode)
	c.mu.Unlock()
}

// Len returns the number of cached files
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// ParseAll parses paths concurrently and returns the non-empty forests keyed by path.
func (c *Cache) ParseAll(ctx context.Context, paths []string) (map[string][]*domain.TestNode, error) {
	forests := make([][]*domain.TestNode, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			forests[i] = c.Parse(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := make(map[string][]*domain.TestNode, len(paths))
	for i, path := range paths {
		if len(forests[i]) > 0 {
			all[path] = forests[i]
		}
	}
	return all, nil
}
