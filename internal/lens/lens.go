// Package lens turns a parsed test forest into the inline "Run" and "Debug" actions an editor
// shows above each describe, test and it call.
package lens

import (
	"fmt"
	"unicode/utf16"

	"jtr/internal/domain"
)

// Command identifiers understood by the editor integration
const (
	RunCommand   = "jest-runner.runTest"
	DebugCommand = "jest-runner.debugTest"
)

// Range is a single-line span; columns are 0-based and EndColumn is exclusive.
// The span covers the name length in UTF-16 code units, the unit editors count in.
type Range struct {
	Line        int `json:"line"`
	StartColumn int `json:"start_column"`
	EndColumn   int `json:"end_column"`
}

// Lens is one clickable action attached to a test declaration
type Lens struct {
	Title     string   `json:"title"`
	Command   string   `json:"command"`
	Arguments []string `json:"arguments"`
	Tooltip   string   `json:"tooltip"`
	Range     Range    `json:"range"`
}

// Build returns a Run and a Debug lens for every node, in depth-first order.
// Nothing is returned when lenses are disabled.
func Build(forest []*domain.TestNode, enabled bool) []Lens {
	if !enabled {
		return []Lens{}
	}

	lenses := make([]Lens, 0, 2*domain.Count(forest))
	for _, entry := range domain.Flatten(forest) {
		node := entry.Node
		r := Range{
			Line:        node.Line,
			StartColumn: node.Column,
			EndColumn:   node.Column + utf16Len(node.Name),
		}
		args := []string{node.QualifiedName, node.SourceFile}
		lenses = append(lenses,
			Lens{
				Title:     "Run",
				Command:   RunCommand,
				Arguments: args,
				Tooltip:   fmt.Sprintf("Run '%s'", node.Name),
				Range:     r,
			},
			Lens{
				Title:     "Debug",
				Command:   DebugCommand,
				Arguments: []string{node.QualifiedName, node.SourceFile},
				Tooltip:   fmt.Sprintf("Debug '%s'", node.Name),
				Range:     r,
			},
		)
	}
	return lenses
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}
