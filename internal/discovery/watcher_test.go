package discovery

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type changeRecorder struct {
	mu      sync.Mutex
	batches [][]string
	signal  chan struct{}
}

func newChangeRecorder() *changeRecorder {
	return &changeRecorder{signal: make(chan struct{}, 16)}
}

func (r *changeRecorder) record(paths []string) {
	r.mu.Lock()
	r.batches = append(r.batches, paths)
	r.mu.Unlock()
	select {
	case r.signal <- struct{}{}:
	default:
	}
}

func (r *changeRecorder) wait(t *testing.T) {
	t.Helper()
	select {
	case <-r.signal:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change batch")
	}
}

func startWatcher(t *testing.T, root string, cache *Cache) (*Watcher, *changeRecorder) {
	t.Helper()
	scanner := NewScanner(testInclude, testExclude, nil)
	w, err := NewWatcher(scanner, cache, 20*time.Millisecond)
	require.NoError(t, err)

	rec := newChangeRecorder()
	w.OnChange(rec.record)
	require.NoError(t, w.Start(context.Background(), root))
	return w, rec
}

func TestWatcher_InvalidatesOnChange(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	path := filepath.Join(root, "a.test.js")
	writeFile(t, path, `test('before', () => {});`)

	cache := NewCache(NewParser())
	w, rec := startWatcher(t, root, cache)
	defer w.Stop()

	require.Equal(t, "before", cache.Parse(path)[0].Name)

	writeFile(t, path, `test('after', () => {});`)
	rec.wait(t)

	assert.Equal(t, 0, cache.Len())
	assert.Equal(t, "after", cache.Parse(path)[0].Name)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Contains(t, rec.batches[0], path)
}

func TestWatcher_CreateAndRemove(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	cache := NewCache(NewParser())
	w, rec := startWatcher(t, root, cache)
	defer w.Stop()

	path := filepath.Join(root, "new.spec.ts")
	writeFile(t, path, `it('fresh', () => {});`)
	rec.wait(t)

	require.NoError(t, os.Remove(path))
	rec.wait(t)
}

func TestWatcher_IgnoresNonTestFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	cache := NewCache(NewParser())
	w, rec := startWatcher(t, root, cache)
	defer w.Stop()

	writeFile(t, filepath.Join(root, "helper.js"), "module.exports = {}")
	select {
	case <-rec.signal:
		t.Fatal("non-test file triggered a change batch")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_IgnoresUnchangedContent(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	path := filepath.Join(root, "same.test.js")
	writeFile(t, path, `test('same', () => {});`)

	cache := NewCache(NewParser())
	w, rec := startWatcher(t, root, cache)
	defer w.Stop()

	cache.Parse(path)
	// replace the file atomically so no truncated content is ever observed
	tmp := filepath.Join(root, "same.tmp")
	writeFile(t, tmp, `test('same', () => {});`)
	require.NoError(t, os.Rename(tmp, path))

	select {
	case <-rec.signal:
		t.Fatal("rewrite with identical content triggered a change batch")
	case <-time.After(200 * time.Millisecond):
	}
	assert.Equal(t, 1, cache.Len())
}

func TestWatcher_WatchesNewDirectories(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	cache := NewCache(NewParser())
	w, rec := startWatcher(t, root, cache)
	defer w.Stop()

	dir := filepath.Join(root, "src")
	require.NoError(t, os.Mkdir(dir, 0755))
	// give the event loop a moment to register the new directory
	time.Sleep(100 * time.Millisecond)

	writeFile(t, filepath.Join(dir, "late.test.js"), `test('late', () => {});`)
	rec.wait(t)
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := NewWatcher(NewScanner(testInclude, testExclude, nil), NewCache(NewParser()), 0)
	require.NoError(t, err)
	assert.NoError(t, w.Stop())
}

func TestWatcher_StartMissingRoot(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := NewWatcher(NewScanner(testInclude, testExclude, nil), NewCache(NewParser()), 0)
	require.NoError(t, err)
	err = w.Start(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
	assert.NoError(t, w.Stop())
}
