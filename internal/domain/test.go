package domain

import "encoding/json"

// Kind distinguishes grouping declarations from leaf declarations.
type Kind string

const (
	KindSuite Kind = "suite"
	KindTest  Kind = "test"
)

// Modifier is the focus/skip suffix of a declaration keyword (describe.only, it.skip).
type Modifier string

const (
	ModifierNone Modifier = ""
	ModifierOnly Modifier = "only"
	ModifierSkip Modifier = "skip"
)

// TestNode is one parsed suite or test.
type TestNode struct {
	Name          string   `json:"name"`
	QualifiedName string   `json:"qualified_name"`
	Kind          Kind     `json:"kind"`
	Keyword       string   `json:"keyword"` // spelling as written, e.g. "it.skip"
	Modifier      Modifier `json:"modifier,omitempty"`
	SourceFile    string   `json:"source_file"`
	// Line and Column are zero-based and point at the declaring keyword.
	Line     int         `json:"line"`
	Column   int         `json:"column"`
	Children []*TestNode `json:"children,omitempty"`
}

// IsSuite reports whether the node groups other nodes.
func (n *TestNode) IsSuite() bool {
	return n.Kind == KindSuite
}

// MarshalJSON always emits children for suites, even when empty, and never for tests.
func (n *TestNode) MarshalJSON() ([]byte, error) {
	type alias TestNode
	var children *[]*TestNode
	if n.IsSuite() {
		c := n.Children
		if c == nil {
			c = []*TestNode{}
		}
		children = &c
	}
	return json.Marshal(struct {
		*alias
		Children *[]*TestNode `json:"children,omitempty"`
	}{
		alias:    (*alias)(n),
		Children: children,
	})
}

// Count returns the number of nodes in the forest, suites included.
func Count(forest []*TestNode) int {
	total := 0
	Walk(forest, func(*TestNode, []*TestNode) bool {
		total++
		return true
	})
	return total
}
