// Copyright © 2024 The ELPS authors

package scope

import (
	"strings"
	"sync"

	"github.com/stbscript/bsc/cache"
	"github.com/stbscript/bsc/depgraph"
	"github.com/stbscript/bsc/diagnostic"
	"github.com/stbscript/bsc/scopetypes"
)

type validationState int

const (
	stateInvalid validationState = iota
	stateValidating
	stateValid
)

// scopeCapabilities is the extension point Scope defers to for
// parent resolution and own-file enumeration, so a specialized variant
// (the XML-component scope) can substitute its own behavior without
// Scope needing a type switch anywhere in the validator.
type scopeCapabilities interface {
	resolveParent(s *Scope) (*Scope, bool)
	ownFiles(s *Scope) []scopetypes.BscFile
}

// Config bundles the collaborators a Scope needs. Fields left nil fall
// back to no-op or process-default implementations.
type Config struct {
	Name               string
	DependencyGraphKey string
	Catalog            *ScopeCatalog
	Graph              *depgraph.Graph
	Files              FileProvider
	ClassValidator     ClassValidator
	Plugins            PluginBus
	Builtins           BuiltinRegistry
	Logger             Logger
}

// Scope holds references to member files, a parent link (by name via
// the catalog), the dependency-graph key, computed lookup tables,
// diagnostics, and the validation state machine. It owns its cache and
// diagnostic list exclusively; cached lookups run without taking mu.
type Scope struct {
	mu sync.Mutex

	name               string
	dependencyGraphKey string
	catalog            *ScopeCatalog
	graph              *depgraph.Graph
	files              FileProvider
	classValidator     ClassValidator
	plugins            PluginBus
	builtins           BuiltinRegistry
	logger             Logger
	caps               scopeCapabilities

	cache       *cache.Cache
	diagnostics []diagnostic.Diagnostic
	state       validationState
	unsubscribe depgraph.UnsubscribeFunc
}

// New creates a generic Scope and subscribes it to its dependency-graph
// key. The caller is responsible for registering it with cfg.Catalog
// (New does not do this itself, since a scope may be constructed before
// the catalog knows its final name during bulk loading) and for calling
// Dispose when the scope is torn down.
func New(cfg Config) *Scope {
	return newScope(cfg, genericCapabilities{})
}

func newScope(cfg Config, caps scopeCapabilities) *Scope {
	s := &Scope{
		name:               cfg.Name,
		dependencyGraphKey: cfg.DependencyGraphKey,
		catalog:            cfg.Catalog,
		graph:              cfg.Graph,
		files:              cfg.Files,
		classValidator:     cfg.ClassValidator,
		plugins:            cfg.Plugins,
		builtins:           cfg.Builtins,
		logger:             cfg.Logger,
		caps:               caps,
		cache:              cache.New(),
		state:              stateInvalid,
	}
	if s.plugins == nil {
		s.plugins = NopPluginBus{}
	}
	if s.builtins == nil {
		s.builtins = DefaultBuiltins()
	}
	if s.logger == nil {
		s.logger = NopLogger{}
	}
	if s.graph != nil {
		s.unsubscribe = s.graph.OnChange(s.dependencyGraphKey, func(string) {
			s.Invalidate()
		}, false)
	}
	return s
}

// Name identifies the scope. Satisfies scopetypes.ScopeRef.
func (s *Scope) Name() string { return s.name }

// Dispose releases the scope's dependency-graph subscription. It must
// be called exactly once, on all exit paths, when the scope's backing
// container is removed from the program.
func (s *Scope) Dispose() {
	s.mu.Lock()
	unsub := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// GetParentScope returns the global scope for non-global scopes, or
// none for the global scope itself. Specialized scope variants may
// substitute a more specific parent.
func (s *Scope) GetParentScope() (*Scope, bool) {
	return s.caps.resolveParent(s)
}

// GetOwnFiles returns direct-dependency files only (not inherited).
func (s *Scope) GetOwnFiles() []scopetypes.BscFile {
	return s.caps.ownFiles(s)
}

// GetAllFiles returns the union of own and inherited files, deduplicated
// by pkgPath and ordered by dependency-graph traversal order: own files
// first (in the graph's direct-edge order), then the parent's all-files
// with duplicates dropped.
func (s *Scope) GetAllFiles() []scopetypes.BscFile {
	return cache.GetOrAddTyped(s.cache, "allFiles", func() []scopetypes.BscFile {
		seen := make(map[string]bool)
		var out []scopetypes.BscFile
		for _, f := range s.GetOwnFiles() {
			if seen[f.LowerPkgPath()] {
				continue
			}
			seen[f.LowerPkgPath()] = true
			out = append(out, f)
		}
		if parent, ok := s.GetParentScope(); ok {
			for _, f := range parent.GetAllFiles() {
				if seen[f.LowerPkgPath()] {
					continue
				}
				seen[f.LowerPkgPath()] = true
				out = append(out, f)
			}
		}
		return out
	})
}

// EnumerateOwnFiles calls cb for each own file whose HasTypedef is
// false. A typedef'd file contributes nothing to a scope.
func (s *Scope) EnumerateOwnFiles(cb func(scopetypes.BscFile)) {
	for _, f := range s.GetOwnFiles() {
		if f.HasTypedef() {
			continue
		}
		cb(f)
	}
}

// EnumerateAllFiles calls cb for each reachable file whose HasTypedef is
// false.
func (s *Scope) EnumerateAllFiles(cb func(scopetypes.BscFile)) {
	for _, f := range s.GetAllFiles() {
		if f.HasTypedef() {
			continue
		}
		cb(f)
	}
}

// GetOwnCallables returns one CallableContainer per callable declared in
// an own, non-typedef file, in file iteration order.
func (s *Scope) GetOwnCallables() []*scopetypes.CallableContainer {
	return cache.GetOrAddTyped(s.cache, "ownCallables", func() []*scopetypes.CallableContainer {
		var out []*scopetypes.CallableContainer
		s.EnumerateOwnFiles(func(f scopetypes.BscFile) {
			for _, c := range f.Callables() {
				out = append(out, &scopetypes.CallableContainer{Callable: c, Scope: s})
			}
		})
		return out
	})
}

// GetAllCallables returns own callables concatenated with the parent's
// all-callables; each container records the scope that surfaced it.
func (s *Scope) GetAllCallables() []*scopetypes.CallableContainer {
	return cache.GetOrAddTyped(s.cache, "allCallables", func() []*scopetypes.CallableContainer {
		out := append([]*scopetypes.CallableContainer(nil), s.GetOwnCallables()...)
		if parent, ok := s.GetParentScope(); ok {
			out = append(out, parent.GetAllCallables()...)
		}
		return out
	})
}

// GetCallableByName looks up a callable case-insensitively; the first
// match wins, own scope before parent.
func (s *Scope) GetCallableByName(name string) (*scopetypes.CallableContainer, bool) {
	lower := strings.ToLower(name)
	for _, c := range s.GetOwnCallables() {
		if c.Callable.LowerName == lower {
			return c, true
		}
	}
	if parent, ok := s.GetParentScope(); ok {
		return parent.GetCallableByName(name)
	}
	return nil, false
}

// GetClass looks up a declared class by lowercase name, own scope
// before parent.
func (s *Scope) GetClass(lowerName string) (*scopetypes.ClassStatement, bool) {
	classes := cache.GetOrAddTyped(s.cache, "ownClasses", func() map[string]*scopetypes.ClassStatement {
		out := make(map[string]*scopetypes.ClassStatement)
		s.EnumerateOwnFiles(func(f scopetypes.BscFile) {
			refs := f.References()
			if refs == nil {
				return
			}
			for _, c := range refs.Classes {
				if _, exists := out[c.LowerName]; !exists {
					out[c.LowerName] = c
				}
			}
		})
		return out
	})
	if c, ok := classes[lowerName]; ok {
		return c, true
	}
	if parent, ok := s.GetParentScope(); ok {
		return parent.GetClass(lowerName)
	}
	return nil, false
}

// IsKnownNamespace reports whether name equals or is a prefix of any
// declared namespace. The namespace tree already materializes every
// prefix of every declared namespace as its own entry (see namespace.go),
// so this is a direct membership test — replacing the nested-loop check
// whose inner return never escaped the outer loop.
func (s *Scope) IsKnownNamespace(name string) bool {
	_, ok := s.BuildNamespaceLookup()[strings.ToLower(name)]
	return ok
}

// GetNewExpressions decorates raw `new` expressions from every reachable
// file with their owning file.
func (s *Scope) GetNewExpressions() []scopetypes.NewExpressionInfo {
	return cache.GetOrAddTyped(s.cache, "newExpressions", func() []scopetypes.NewExpressionInfo {
		var out []scopetypes.NewExpressionInfo
		s.EnumerateAllFiles(func(f scopetypes.BscFile) {
			refs := f.References()
			if refs == nil {
				return
			}
			for _, ne := range refs.NewExpressions {
				out = append(out, scopetypes.NewExpressionInfo{NewExpression: ne, File: f})
			}
		})
		return out
	})
}

// Diagnostics returns the diagnostics produced by the most recent
// successful validate() call.
func (s *Scope) Diagnostics() []diagnostic.Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]diagnostic.Diagnostic(nil), s.diagnostics...)
}

// GetDiagnostics returns the scope's diagnostics with isSuppressed
// filtering applied. isSuppressed is a host-supplied predicate (e.g.
// backed by inline suppression comments); passing nil returns every
// diagnostic unfiltered.
func (s *Scope) GetDiagnostics(isSuppressed func(diagnostic.Diagnostic) bool) []diagnostic.Diagnostic {
	all := s.Diagnostics()
	if isSuppressed == nil {
		return all
	}
	out := make([]diagnostic.Diagnostic, 0, len(all))
	for _, d := range all {
		if !isSuppressed(d) {
			out = append(out, d)
		}
	}
	return out
}

// Invalidate transitions the scope to invalid and clears its cache. Any
// dependency change must do this before the cache may be read again.
func (s *Scope) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = stateInvalid
	s.cache.Clear()
}

// IsValidated reports whether the scope's cache currently reflects the
// dependency set as of the last successful validate() call.
func (s *Scope) IsValidated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == stateValid
}

func (s *Scope) finishValidating(diags []diagnostic.Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diagnostics = diags
	s.state = stateValid
}
