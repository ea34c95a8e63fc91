package discovery

import (
	"os"
	"regexp"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"

	"jtr/internal/domain"
)

// literal matches the first call argument: a non-empty single, double or backtick quoted string.
// Escaped quotes are not handled; the literal ends at the first matching delimiter.
const literal = `\s*\(\s*(?:'([^']+)'|"([^"]+)"|` + "`([^`]+)`)"

var (
	// describe, describe.only, describe.skip
	suitePattern = regexp.MustCompile(`^\s*(describe(?:\.only|\.skip)?)` + literal)
	// test, it and their .only/.skip variants
	testPattern = regexp.MustCompile(`^\s*((?:test|it)(?:\.only|\.skip)?)` + literal)
)

// Parser turns jest test sources into a forest of suites and tests by scanning lines.
// It holds no state between calls.
type Parser struct{}

// NewParser creates a new Parser
func NewParser() *Parser {
	return &Parser{}
}

// ParseFile reads and parses a test file. Read failures are logged and yield an empty forest.
func (p *Parser) ParseFile(filePath string) []*domain.TestNode {
	content, err := os.ReadFile(filePath)
	if err != nil {
		log.Warn().Err(err).Str("file", filePath).Msg("cannot read test file")
		return []*domain.TestNode{}
	}
	return p.ParseContent(string(content), filePath)
}

// openSuite is a suite still in scope, with the indentation of its declaring line.
type openSuite struct {
	node   *domain.TestNode
	indent int
}

// ParseContent parses source text in a single pass over its lines.
func (p *Parser) ParseContent(content, filePath string) []*domain.TestNode {
	roots := []*domain.TestNode{}
	var stack []openSuite

	attach := func(node *domain.TestNode) {
		if len(stack) > 0 {
			parent := stack[len(stack)-1].node
			parent.Children = append(parent.Children, node)
			return
		}
		roots = append(roots, node)
	}

	for i, line := range strings.Split(content, "\n") {
		if node := matchDeclaration(suitePattern, line, domain.KindSuite); node != nil {
			node.QualifiedName = qualify(stack, node.Name)
			node.SourceFile = filePath
			node.Line = i
			node.Children = []*domain.TestNode{}
			attach(node)
			stack = append(stack, openSuite{node: node, indent: indentOf(line)})
		} else if node := matchDeclaration(testPattern, line, domain.KindTest); node != nil {
			node.QualifiedName = qualify(stack, node.Name)
			node.SourceFile = filePath
			node.Line = i
			attach(node)
		}

		if !strings.Contains(line, "}") {
			continue
		}
		closing := strings.Count(line, "}") - strings.Count(line, "{")
		current := indentOf(line)
		// Every net closing brace is gated on its own against the current top of the stack,
		// so unrelated braces inside callback bodies do not close the suite.
		for j := 0; j < closing && len(stack) > 0; j++ {
			if current <= stack[len(stack)-1].indent {
				stack = stack[:len(stack)-1]
			}
		}
	}

	return roots
}

// matchDeclaration returns a node with name, keyword, modifier and column set, or nil.
func matchDeclaration(pattern *regexp.Regexp, line string, kind domain.Kind) *domain.TestNode {
	m := pattern.FindStringSubmatchIndex(line)
	if m == nil {
		return nil
	}
	keyword := line[m[2]:m[3]]
	var name string
	for g := 2; g <= 4; g++ {
		if start := m[2*g]; start >= 0 {
			name = line[start:m[2*g+1]]
			break
		}
	}
	return &domain.TestNode{
		Name:     name,
		Kind:     kind,
		Keyword:  keyword,
		Modifier: modifierOf(keyword),
		Column:   m[2],
	}
}

func modifierOf(keyword string) domain.Modifier {
	switch {
	case strings.HasSuffix(keyword, ".only"):
		return domain.ModifierOnly
	case strings.HasSuffix(keyword, ".skip"):
		return domain.ModifierSkip
	}
	return domain.ModifierNone
}

func qualify(stack []openSuite, name string) string {
	names := make([]string, len(stack))
	for i, s := range stack {
		names[i] = s.node.Name
	}
	return domain.QualifiedName(names, name)
}

// indentOf returns the byte offset of the first non-space character, or -1 for blank lines.
func indentOf(line string) int {
	return strings.IndexFunc(line, func(r rune) bool { return !unicode.IsSpace(r) })
}
