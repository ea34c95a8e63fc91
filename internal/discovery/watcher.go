package discovery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watcher invalidates the parse cache when test files are created, modified or removed.
type Watcher struct {
	watcher  *fsnotify.Watcher
	scanner  *Scanner
	cache    *Cache
	debounce time.Duration
	onChange func(paths []string)

	root    string
	hashes  map[string]uint64
	pending map[string]fsnotify.Op

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher creates a watcher; call Start to begin watching.
func NewWatcher(scanner *Scanner, cache *Cache, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}
	return &Watcher{
		watcher:  fw,
		scanner:  scanner,
		cache:    cache,
		debounce: debounce,
		hashes:   make(map[string]uint64),
		pending:  make(map[string]fsnotify.Op),
	}, nil
}

// OnChange registers fn to run after the cache was invalidated for a batch of changed files.
// It must be set before Start.
func (w *Watcher) OnChange(fn func(paths []string)) {
	w.onChange = fn
}

// Start watches root and every non-skipped directory below it.
func (w *Watcher) Start(ctx context.Context, root string) error {
	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve watch root: %w", err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return fmt.Errorf("watch root is not a directory: %s", root)
	}
	w.root = root

	if err := w.addWatches(root); err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}

	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.processEvents(ctx)

	log.Debug().Str("root", root).Msg("file watcher started")
	return nil
}

// Stop stops watching and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	if w.cancel != nil {
		w.cancel()
	}
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) addWatches(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			if w.scanner.IsTestFile(w.root, path) {
				if sum, ok := hashFile(path); ok {
					w.hashes[path] = sum
				}
			}
			return nil
		}
		if path != w.root && w.scanner.SkipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			log.Warn().Err(err).Str("dir", path).Msg("cannot watch directory")
		}
		return nil
	})
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.handleEvent(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("file watcher error")

		case <-fire:
			fire = nil
			w.flush()
		}
	}
}

// handleEvent records a relevant event and reports whether a flush should be scheduled.
func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	path := event.Name

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !w.scanner.SkipDir(info.Name()) {
				if err := w.addWatches(path); err != nil {
					log.Warn().Err(err).Str("dir", path).Msg("cannot watch new directory")
				}
			}
			return false
		}
	}

	if !w.scanner.IsTestFile(w.root, path) {
		return false
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		delete(w.hashes, path)
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		sum, ok := hashFile(path)
		if !ok {
			return false
		}
		if prev, seen := w.hashes[path]; seen && prev == sum {
			return false
		}
		w.hashes[path] = sum
	default:
		return false
	}

	w.pending[path] |= event.Op
	return true
}

func (w *Watcher) flush() {
	if len(w.pending) == 0 {
		return
	}
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	w.pending = make(map[string]fsnotify.Op)

	w.cache.Invalidate()
	log.Debug().Strs("files", paths).Msg("test files changed, cache invalidated")

	if w.onChange != nil {
		w.onChange(paths)
	}
}

func hashFile(path string) (uint64, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	return xxhash.Sum64(data), true
}
