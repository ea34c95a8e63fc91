package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jtr/internal/domain"
)

const mathSource = `describe('Math operations', () => {
    test('should add numbers correctly', () => {});
    it('should subtract numbers correctly', () => {});
});
test('standalone test', () => {});
`

func TestParser_ParseContent_SimpleFile(t *testing.T) {
	forest := NewParser().ParseContent(mathSource, "/src/math.test.js")
	require.Len(t, forest, 2)

	suite := forest[0]
	assert.Equal(t, "Math operations", suite.Name)
	assert.Equal(t, "Math operations", suite.QualifiedName)
	assert.Equal(t, domain.KindSuite, suite.Kind)
	assert.Equal(t, "/src/math.test.js", suite.SourceFile)
	assert.Equal(t, 0, suite.Line)
	assert.Equal(t, 0, suite.Column)
	require.Len(t, suite.Children, 2)

	add := suite.Children[0]
	assert.Equal(t, "should add numbers correctly", add.Name)
	assert.Equal(t, "Math operations › should add numbers correctly", add.QualifiedName)
	assert.Equal(t, domain.KindTest, add.Kind)
	assert.Equal(t, "test", add.Keyword)
	assert.Equal(t, 1, add.Line)
	assert.Equal(t, 4, add.Column)
	assert.Nil(t, add.Children)

	sub := suite.Children[1]
	assert.Equal(t, "should subtract numbers correctly", sub.Name)
	assert.Equal(t, "Math operations › should subtract numbers correctly", sub.QualifiedName)
	assert.Equal(t, domain.KindTest, sub.Kind)
	assert.Equal(t, "it", sub.Keyword)

	standalone := forest[1]
	assert.Equal(t, "standalone test", standalone.Name)
	assert.Equal(t, "standalone test", standalone.QualifiedName)
	assert.Equal(t, domain.KindTest, standalone.Kind)
	assert.Equal(t, 4, standalone.Line)
}

func TestParser_ParseContent_NestedSuites(t *testing.T) {
	src := `
describe('Outer', () => {
    describe('Inner', () => {
        test('deeply nested test', () => {
            expect(true).toBe(true);
        });
    });

    test('outer level test', () => {
        expect(true).toBe(true);
    });
});
`
	forest := NewParser().ParseContent(src, "nested.test.js")
	require.Len(t, forest, 1)

	outer := forest[0]
	require.Len(t, outer.Children, 2)

	inner := outer.Children[0]
	assert.Equal(t, "Inner", inner.Name)
	assert.Equal(t, "Outer › Inner", inner.QualifiedName)
	assert.Equal(t, domain.KindSuite, inner.Kind)
	assert.Equal(t, 4, inner.Column)
	require.Len(t, inner.Children, 1)
	assert.Equal(t, "Outer › Inner › deeply nested test", inner.Children[0].QualifiedName)

	assert.Equal(t, "outer level test", outer.Children[1].Name)
	assert.Equal(t, "Outer › outer level test", outer.Children[1].QualifiedName)
}

func TestParser_ParseContent_Modifiers(t *testing.T) {
	src := `describe.skip('Test modifiers', () => {
    test.only('focused test', () => {});
    test.skip('skipped test', () => {});
    it.only('focused it', () => {});
    it.skip('skipped it', () => {});
});
describe.only('focused suite', () => {
});
`
	forest := NewParser().ParseContent(src, "modifiers.test.js")
	require.Len(t, forest, 2)

	suite := forest[0]
	assert.Equal(t, "Test modifiers", suite.Name)
	assert.Equal(t, domain.KindSuite, suite.Kind)
	assert.Equal(t, domain.ModifierSkip, suite.Modifier)
	require.Len(t, suite.Children, 4)

	expected := []struct {
		name     string
		modifier domain.Modifier
	}{
		{"focused test", domain.ModifierOnly},
		{"skipped test", domain.ModifierSkip},
		{"focused it", domain.ModifierOnly},
		{"skipped it", domain.ModifierSkip},
	}
	for i, exp := range expected {
		child := suite.Children[i]
		assert.Equal(t, exp.name, child.Name)
		assert.Equal(t, domain.KindTest, child.Kind)
		assert.Equal(t, exp.modifier, child.Modifier)
		assert.Equal(t, "Test modifiers › "+exp.name, child.QualifiedName)
	}

	focused := forest[1]
	assert.Equal(t, domain.ModifierOnly, focused.Modifier)
	assert.Equal(t, "focused suite", focused.Name)
	assert.NotNil(t, focused.Children)
	assert.Empty(t, focused.Children)
}

func TestParser_ParseContent_QuoteStyles(t *testing.T) {
	src := "test(\"it's a double-quoted name\", () => {});\n" +
		"test('say \"hi\"', () => {});\n" +
		"test(`template ${'x'} name`, () => {});\n" +
		"it(  'spaced'  , () => {});\n"

	forest := NewParser().ParseContent(src, "quotes.test.js")
	require.Len(t, forest, 4)
	assert.Equal(t, "it's a double-quoted name", forest[0].Name)
	assert.Equal(t, `say "hi"`, forest[1].Name)
	assert.Equal(t, "template ${'x'} name", forest[2].Name)
	assert.Equal(t, "spaced", forest[3].Name)
}

func TestParser_ParseContent_RootDeclarationsInOrder(t *testing.T) {
	src := `test('one', () => {});
it('two', () => {});
it.only('three', () => {});
test.skip('four', () => {});
`
	forest := NewParser().ParseContent(src, "flat.test.js")
	require.Len(t, forest, 4)
	for i, name := range []string{"one", "two", "three", "four"} {
		assert.Equal(t, name, forest[i].Name)
		assert.Equal(t, name, forest[i].QualifiedName)
		assert.Equal(t, i, forest[i].Line)
	}
}

func TestParser_ParseContent_Unrecognized(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"comment only", "// Empty test file\n"},
		{"computed name", "test(name, () => {});\n"},
		{"multi-line literal", "test(\n  'later',\n  () => {});\n"},
		{"empty literal", "test('', () => {});\n"},
		{"prefixed call", "await test('x', () => {});\n"},
		{"similar identifier", "testing('x', () => {});\nitems('y');\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forest := NewParser().ParseContent(tt.src, "x.test.js")
			assert.NotNil(t, forest)
			assert.Empty(t, forest)
		})
	}
}

func TestParser_ParseContent_UnrelatedBracesDoNotCloseSuite(t *testing.T) {
	src := `describe('suite', () => {
    test('a', () => {
        const obj = { a: 1 };
        if (obj) {
            run();
        }
    });
    test('b', () => {});
});
test('root', () => {});
`
	forest := NewParser().ParseContent(src, "braces.test.js")
	require.Len(t, forest, 2)
	require.Len(t, forest[0].Children, 2)
	assert.Equal(t, "suite › b", forest[0].Children[1].QualifiedName)
	assert.Equal(t, "root", forest[1].QualifiedName)
}

func TestParser_ParseContent_IndentationGatedPops(t *testing.T) {
	t.Run("closing line at declaring indentation pops one level", func(t *testing.T) {
		src := `describe('A', () => {
  describe('B', () => {
  });
  test('in A', () => {});
});
test('root', () => {});
`
		forest := NewParser().ParseContent(src, "x.test.js")
		require.Len(t, forest, 2)
		require.Len(t, forest[0].Children, 2)
		assert.Equal(t, "A › in A", forest[0].Children[1].QualifiedName)
		assert.Equal(t, "root", forest[1].QualifiedName)
	})

	t.Run("balanced braces pop nothing", func(t *testing.T) {
		src := `describe('A', () => {
const x = {};
test('still in A', () => {});
});
`
		forest := NewParser().ParseContent(src, "x.test.js")
		require.Len(t, forest, 1)
		require.Len(t, forest[0].Children, 1)
		assert.Equal(t, "A › still in A", forest[0].Children[0].QualifiedName)
	})

	t.Run("deeper closing line does not pop", func(t *testing.T) {
		src := `describe('A', () => {
    helper(() => {
    });
    test('in A', () => {});
});
`
		forest := NewParser().ParseContent(src, "x.test.js")
		require.Len(t, forest, 1)
		require.Len(t, forest[0].Children, 1)
	})

	t.Run("each net brace is gated on its own", func(t *testing.T) {
		// two suites closed on one line: B pops (indent 0 <= 2), then A pops (0 <= 0)
		src := `describe('A', () => {
  describe('B', () => {
    test('in B', () => {});
}); });
test('root', () => {});
`
		forest := NewParser().ParseContent(src, "x.test.js")
		require.Len(t, forest, 2)
		assert.Equal(t, "root", forest[1].QualifiedName)
	})

	t.Run("gate stops at a shallower suite", func(t *testing.T) {
		// net two closing braces at indent 2: B (indent 2) pops, A (indent 0) stays
		src := `describe('A', () => {
  describe('B', () => {
  }); }
  test('in A', () => {});
});
`
		forest := NewParser().ParseContent(src, "x.test.js")
		require.Len(t, forest, 1)
		require.Len(t, forest[0].Children, 2)
		assert.Equal(t, "A › in A", forest[0].Children[1].QualifiedName)
	})
}

func TestParser_ParseContent_CRLF(t *testing.T) {
	src := "describe('win', () => {\r\n  test('crlf', () => {});\r\n});\r\n"
	forest := NewParser().ParseContent(src, "crlf.test.js")
	require.Len(t, forest, 1)
	require.Len(t, forest[0].Children, 1)
	assert.Equal(t, "win › crlf", forest[0].Children[0].QualifiedName)
}

func TestParser_ParseContent_Deterministic(t *testing.T) {
	p := NewParser()
	assert.Equal(t, p.ParseContent(mathSource, "a.test.js"), p.ParseContent(mathSource, "a.test.js"))
}

func TestParser_ParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "math.test.js")
	require.NoError(t, os.WriteFile(path, []byte(mathSource), 0644))

	p := NewParser()

	t.Run("reads and parses", func(t *testing.T) {
		forest := p.ParseFile(path)
		require.Len(t, forest, 2)
		assert.Equal(t, path, forest[0].SourceFile)
		assert.Equal(t, path, forest[0].Children[0].SourceFile)
	})

	t.Run("missing file yields empty forest", func(t *testing.T) {
		forest := p.ParseFile(filepath.Join(dir, "missing.test.js"))
		assert.NotNil(t, forest)
		assert.Empty(t, forest)
	})

	t.Run("directory yields empty forest", func(t *testing.T) {
		assert.Empty(t, p.ParseFile(dir))
	})
}
