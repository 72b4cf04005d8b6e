// Copyright © 2024 The ELPS authors

// Package scopetypes defines the data model shared by the scope graph:
// files, callables, namespaces, and the small position/range types used
// to anchor diagnostics. It has no dependency on the scope or diagnostic
// packages so that both can import it without a cycle.
package scopetypes

import "fmt"

// Position is a zero-based line/character location, matching the LSP
// convention the rest of the toolchain uses.
type Position struct {
	Line      int
	Character int
}

// Range spans from Start (inclusive) to End (exclusive).
type Range struct {
	Start Position
	End   Position
}

// InterpolatedRange marks a programmatically synthesized node that has no
// real source location.
var InterpolatedRange = Range{
	Start: Position{Line: -1, Character: -1},
	End:   Position{Line: -1, Character: -1},
}

// IsInterpolated reports whether r is the synthesized-node sentinel.
func (r Range) IsInterpolated() bool {
	return r.Start.Line == -1 && r.Start.Character == -1
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character)
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}
