package execution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTestFile(t *testing.T) {
	for _, name := range []string{"a.test.js", "b.spec.ts", "c.test.tsx", "d.spec.jsx"} {
		assert.True(t, IsTestFile(name), name)
	}
	for _, name := range []string{"a.js", "test.js", "a.test.mjs", "a.test.js.map"} {
		assert.False(t, IsTestFile(name), name)
	}
}

func TestDebugger_LaunchConfig(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.JestPath = "/bin/jest"
	d := NewDebugger(cfg, NewLocator(cfg))

	lc := d.LaunchConfig("Math › add", "/p/src/math.test.js")
	assert.Equal(t, "node", lc.Type)
	assert.Equal(t, "launch", lc.Request)
	assert.Equal(t, "Debug Jest: Math › add", lc.Name)
	assert.Equal(t, "/bin/jest", lc.Program)
	assert.Equal(t, DebugTestArgs("Math › add", "/p/src/math.test.js"), lc.Args)
	assert.Equal(t, cfg.GetProjectRoot(), lc.Cwd)
	assert.Equal(t, "test", lc.Env["NODE_ENV"])

	file := d.LaunchConfig("", "/p/src/math.test.js")
	assert.Equal(t, "Debug Jest File: math.test.js", file.Name)
	assert.Equal(t, DebugFileArgs("/p/src/math.test.js"), file.Args)
}

func TestDebugger_Resolve(t *testing.T) {
	d := NewDebugger(newTestConfig(t), NewLocator(newTestConfig(t)))

	t.Run("empty config on a test file", func(t *testing.T) {
		lc := d.Resolve(LaunchConfig{}, "/p/src/a.test.ts")
		assert.Equal(t, "Debug Jest Tests", lc.Name)
		assert.Equal(t, workspaceJest, lc.Program)
		assert.Equal(t, []string{"${file}", "--runInBand", "--no-cache", "--no-coverage"}, lc.Args)
		assert.True(t, lc.SourceMaps)
		assert.Equal(t, defaultSourceMapLocations, lc.ResolveSourceMapLocations)
	})

	t.Run("empty config elsewhere stays empty", func(t *testing.T) {
		assert.Equal(t, LaunchConfig{}, d.Resolve(LaunchConfig{}, "/p/src/a.ts"))
	})

	t.Run("jest config gains runInBand once", func(t *testing.T) {
		in := LaunchConfig{Type: "node", Request: "launch", Name: "My Jest", Args: []string{"x.test.js"}}
		lc := d.Resolve(in, "")
		assert.Equal(t, []string{"x.test.js", "--runInBand"}, lc.Args)
		assert.Equal(t, []string{"x.test.js"}, in.Args)
		assert.Equal(t, integratedTerm, lc.Console)

		again := d.Resolve(lc, "")
		assert.Equal(t, []string{"x.test.js", "--runInBand"}, again.Args)
	})

	t.Run("explicit console kept", func(t *testing.T) {
		lc := d.Resolve(LaunchConfig{Type: "node", Name: "Jest", Console: "internalConsole"}, "")
		assert.Equal(t, "internalConsole", lc.Console)
		assert.Nil(t, lc.Args)
	})

	t.Run("other configs untouched", func(t *testing.T) {
		in := LaunchConfig{Type: "node", Request: "launch", Name: "Server", Args: []string{"a"}}
		assert.Equal(t, in, d.Resolve(in, "a.test.js"))
	})
}

func TestDebugger_Provide(t *testing.T) {
	d := NewDebugger(newTestConfig(t), NewLocator(newTestConfig(t)))
	configs := d.Provide()
	require.Len(t, configs, 2)
	assert.Equal(t, "Debug Jest Current File", configs[0].Name)
	assert.Equal(t, "${file}", configs[0].Args[0])
	assert.Equal(t, "Debug Jest All Tests", configs[1].Name)
	assert.NotContains(t, configs[1].Args, "${file}")
	for _, c := range configs {
		assert.True(t, c.SourceMaps)
		assert.Contains(t, c.Args, "--runInBand")
	}
}
