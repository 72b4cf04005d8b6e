// Copyright © 2024 The ELPS authors

package scope

import "github.com/stbscript/bsc/scopetypes"

// ParseMode selects which completion-filtering rules apply.
type ParseMode int

const (
	// ParseModeBrightScript surfaces every reachable callable.
	ParseModeBrightScript ParseMode = iota
	// ParseModeBrighter filters out callables that live inside a
	// namespace; a separate namespace-completion path outside this
	// core surfaces those instead.
	ParseModeBrighter
)

// Location identifies a file and position, used by GetDefinition.
type Location struct {
	File     scopetypes.BscFile
	Position scopetypes.Position
}

// GetCallablesAsCompletions returns one completion per reachable
// callable. In ParseModeBrighter, namespaced callables are filtered out.
func (s *Scope) GetCallablesAsCompletions(mode ParseMode) []scopetypes.CompletionItem {
	var out []scopetypes.CompletionItem
	for _, c := range s.GetAllCallables() {
		if mode == ParseModeBrighter && c.Callable.HasNamespace {
			continue
		}
		out = append(out, scopetypes.CompletionItem{
			Label:         c.Callable.Name,
			Kind:          scopetypes.CompletionKindFunction,
			Detail:        c.Callable.ShortDescription,
			Documentation: c.Callable.Documentation,
			IsMarkdown:    c.Callable.Documentation != "",
		})
	}
	return out
}

// GetDefinition is a virtual hook for definition lookup; the base
// implementation returns no results. A specialized scope variant, or a
// caller-supplied capability, may override this behavior.
func (s *Scope) GetDefinition(file scopetypes.BscFile, position scopetypes.Position) []Location {
	return nil
}
