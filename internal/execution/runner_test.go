package execution

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeJest prints its arguments and database, and fails for files named *fail*
const fakeJest = `#!/bin/sh
echo "args: $*"
echo "db: $DB_DATABASE"
echo "env: $NODE_ENV"
case "$1" in
  *fail*) exit 1 ;;
esac
exit 0
`

func newFakeRunner(t *testing.T) *Runner {
	t.Helper()
	cfg := newTestConfig(t)
	cfg.DatabasePrefix = "testing"
	script := filepath.Join(t.TempDir(), "jest")
	require.NoError(t, os.WriteFile(script, []byte(fakeJest), 0755))
	cfg.JestPath = script
	return NewRunner(cfg, NewLocator(cfg))
}

func TestRunner_Run(t *testing.T) {
	r := newFakeRunner(t)

	result := r.Run(context.Background(), "src/ok.test.js", 3)
	require.NoError(t, result.Error)
	assert.True(t, result.Success)
	assert.Equal(t, "src/ok.test.js", result.TestPath)
	assert.Equal(t, 3, result.WorkerID)
	assert.Contains(t, result.Output, "args: src/ok.test.js --no-coverage --ci")
	assert.Contains(t, result.Output, "db: testing_3")
	assert.Contains(t, result.Output, "env: test")
	assert.True(t, result.Duration > 0)
}

func TestRunner_RunFailure(t *testing.T) {
	r := newFakeRunner(t)

	result := r.Run(context.Background(), "src/fail.test.js", 1)
	assert.False(t, result.Success)
	assert.Error(t, result.Error)
}

func TestRunner_RunTestStreams(t *testing.T) {
	r := newFakeRunner(t)
	var stdout, stderr bytes.Buffer
	r.SetOutput(&stdout, &stderr)

	require.NoError(t, r.RunTest(context.Background(), "Math › add (1)", "src/math.test.js"))
	assert.Equal(t, `args: src/math.test.js --testNamePattern Math › add \(1\) --no-coverage`,
		strings.SplitN(stdout.String(), "\n", 2)[0])
}

func TestRunner_RunFileFailure(t *testing.T) {
	r := newFakeRunner(t)
	r.SetOutput(&bytes.Buffer{}, &bytes.Buffer{})
	assert.Error(t, r.RunFile(context.Background(), "src/fail.test.js"))
}

func TestRunner_JestNotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	cfg := newTestConfig(t)
	r := NewRunner(cfg, NewLocator(cfg))

	assert.ErrorIs(t, r.RunAll(context.Background()), ErrJestNotFound)
	result := r.Run(context.Background(), "a.test.js", 1)
	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Error, ErrJestNotFound)
}
