package domain

import "strings"

// Separator joins suite names into a qualified name. Jest prints the same glyph.
const Separator = " › "

// QualifiedName joins the ancestor names (outer to inner) and name with Separator.
func QualifiedName(ancestors []string, name string) string {
	parts := make([]string, 0, len(ancestors)+1)
	parts = append(parts, ancestors...)
	parts = append(parts, name)
	return strings.Join(parts, Separator)
}

// QualifiedNameOf is QualifiedName for a chain of ancestor nodes.
func QualifiedNameOf(chain []*TestNode, name string) string {
	names := make([]string, len(chain))
	for i, n := range chain {
		names[i] = n.Name
	}
	return QualifiedName(names, name)
}
