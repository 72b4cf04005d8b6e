// Copyright © 2024 The ELPS authors

package scope

import (
	"strings"

	"github.com/stbscript/bsc/cache"
	"github.com/stbscript/bsc/scopetypes"
)

// NamespaceContainer is one node of the namespace tree: every prefix of
// every declared namespace path gets an entry. Sibling bodies declared
// under the same full name (in the same file or across files) coalesce
// their statements into one entry. Parent-child links are one-directional
// (a node owns its children); a parent is found by looking up the
// dotted prefix in the flat lookup map, never by a back-reference, so
// the tree cannot form ownership cycles.
type NamespaceContainer struct {
	File               scopetypes.BscFile
	FullName           string
	LowerFullName      string
	NameRange          scopetypes.Range
	LastPartName       string
	Statements         []scopetypes.NamespaceStatement
	ClassStatements    map[string]*scopetypes.ClassStatement
	FunctionStatements map[string]*scopetypes.Callable
	Namespaces         map[string]*NamespaceContainer
}

// BuildNamespaceLookup builds the map<lowercase-full-name,
// NamespaceContainer> tree over every file reachable from the scope.
func (s *Scope) BuildNamespaceLookup() map[string]*NamespaceContainer {
	return cache.GetOrAddTyped(s.cache, "namespaceLookup", func() map[string]*NamespaceContainer {
		return buildNamespaceLookup(s)
	})
}

func buildNamespaceLookup(s *Scope) map[string]*NamespaceContainer {
	order := scopetypes.NewOrderedMap[string, *NamespaceContainer]()

	s.EnumerateAllFiles(func(f scopetypes.BscFile) {
		refs := f.References()
		if refs == nil {
			return
		}
		for _, stmt := range refs.Namespaces {
			insertNamespaceStatement(order, stmt)
		}
	})

	// Parent-child wiring runs after the coalescing pass, in insertion
	// order, so a child is always wired to a fully coalesced parent.
	for _, key := range order.Keys() {
		idx := strings.LastIndex(key, ".")
		if idx < 0 {
			continue
		}
		child, _ := order.Get(key)
		parent, ok := order.Get(key[:idx])
		if !ok {
			continue
		}
		parent.Namespaces[key[idx+1:]] = child
	}

	out := make(map[string]*NamespaceContainer, order.Len())
	for _, key := range order.Keys() {
		v, _ := order.Get(key)
		out[key] = v
	}
	return out
}

// insertNamespaceStatement walks every prefix of stmt's full name,
// creating a NamespaceContainer the first time a prefix is seen and
// coalescing stmt's body into the entry for its exact (deepest) prefix.
// A strict-ancestor prefix that is never separately declared on its own
// still gets a File/NameRange, anchored to the first descendant
// statement reached during the walk — this is what lets a diagnostic
// about an undeclared-on-its-own prefix (e.g. "Net" when only "Net.Http"
// is declared) still point somewhere concrete.
func insertNamespaceStatement(order *scopetypes.OrderedMap[string, *NamespaceContainer], stmt scopetypes.NamespaceStatement) {
	parts := strings.Split(stmt.FullName, ".")
	lowerParts := strings.Split(stmt.LowerFullName, ".")
	if len(parts) != len(lowerParts) {
		return
	}

	for i := range parts {
		prefixOriginal := strings.Join(parts[:i+1], ".")
		prefixLower := strings.Join(lowerParts[:i+1], ".")

		container, exists := order.Get(prefixLower)
		if !exists {
			container = &NamespaceContainer{
				FullName:           prefixOriginal,
				LowerFullName:      prefixLower,
				LastPartName:       parts[i],
				ClassStatements:    make(map[string]*scopetypes.ClassStatement),
				FunctionStatements: make(map[string]*scopetypes.Callable),
				Namespaces:         make(map[string]*NamespaceContainer),
			}
			order.Set(prefixLower, container)
		}

		isExactMatch := i == len(parts)-1

		if container.File == nil {
			container.File = stmt.File
			container.NameRange = stmt.NameRange
		}

		if isExactMatch {
			container.Statements = append(container.Statements, stmt)
			for _, cs := range stmt.ClassStatements {
				container.ClassStatements[cs.LowerName] = cs
			}
			for _, fn := range stmt.FunctionStatements {
				container.FunctionStatements[fn.LowerName] = fn
			}
			// A sibling body's own declaration range takes precedence
			// over an anchor borrowed from a deeper descendant seen
			// earlier under some other prefix walk.
			if container.NameRange.IsInterpolated() || len(container.Statements) == 1 {
				container.NameRange = stmt.NameRange
				container.File = stmt.File
			}
		}
	}
}
