package domain

// Entry pairs a node with its ancestor chain, outermost first.
type Entry struct {
	Node      *TestNode
	Ancestors []*TestNode
}

// Depth is the number of enclosing suites.
func (e Entry) Depth() int {
	return len(e.Ancestors)
}

// Walk visits the forest depth-first in pre-order. Returning false from fn stops the walk.
// The ancestors slice is only valid for the duration of the call.
func Walk(forest []*TestNode, fn func(node *TestNode, ancestors []*TestNode) bool) {
	var visit func(nodes []*TestNode, ancestors []*TestNode) bool
	visit = func(nodes []*TestNode, ancestors []*TestNode) bool {
		for _, n := range nodes {
			if !fn(n, ancestors) {
				return false
			}
			if len(n.Children) > 0 {
				if !visit(n.Children, append(ancestors, n)) {
					return false
				}
			}
		}
		return true
	}
	visit(forest, nil)
}

// Flatten returns every node of the forest in depth-first pre-order.
func Flatten(forest []*TestNode) []Entry {
	var entries []Entry
	Walk(forest, func(node *TestNode, ancestors []*TestNode) bool {
		chain := make([]*TestNode, len(ancestors))
		copy(chain, ancestors)
		entries = append(entries, Entry{Node: node, Ancestors: chain})
		return true
	})
	return entries
}

// Find returns the first node whose qualified name matches.
func Find(forest []*TestNode, qualifiedName string) *TestNode {
	var found *TestNode
	Walk(forest, func(node *TestNode, _ []*TestNode) bool {
		if node.QualifiedName == qualifiedName {
			found = node
			return false
		}
		return true
	})
	return found
}
