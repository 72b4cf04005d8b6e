// Copyright © 2024 The ELPS authors

package scope

import (
	"strings"

	"github.com/stbscript/bsc/depgraph"
	"github.com/stbscript/bsc/scopetypes"
)

// fakeFile is a minimal in-memory scopetypes.BscFile used by tests. It
// deliberately mirrors only the fields a given test needs; zero values
// are valid empty containers everywhere else.
type fakeFile struct {
	pkgPath      string
	pathAbsolute string
	extension    string
	hasTypedef   bool

	callables   []*scopetypes.Callable
	calls       []*scopetypes.FunctionCall
	fnScopes    []*scopetypes.FunctionScope
	completions []scopetypes.CompletionItem
	refs        *scopetypes.ParserReferences

	ownImports       []scopetypes.ScriptImport
	scriptTagImports []scopetypes.ScriptImport
}

func (f *fakeFile) PkgPath() string      { return f.pkgPath }
func (f *fakeFile) LowerPkgPath() string { return strings.ToLower(f.pkgPath) }
func (f *fakeFile) PathAbsolute() string {
	if f.pathAbsolute != "" {
		return f.pathAbsolute
	}
	return f.pkgPath
}
func (f *fakeFile) Extension() string                             { return f.extension }
func (f *fakeFile) HasTypedef() bool                               { return f.hasTypedef }
func (f *fakeFile) Callables() []*scopetypes.Callable              { return f.callables }
func (f *fakeFile) FunctionCalls() []*scopetypes.FunctionCall      { return f.calls }
func (f *fakeFile) FunctionScopes() []*scopetypes.FunctionScope    { return f.fnScopes }
func (f *fakeFile) PropertyNameCompletions() []scopetypes.CompletionItem {
	return f.completions
}
func (f *fakeFile) References() *scopetypes.ParserReferences {
	if f.refs == nil {
		return &scopetypes.ParserReferences{}
	}
	return f.refs
}
func (f *fakeFile) OwnScriptImports() []scopetypes.ScriptImport { return f.ownImports }
func (f *fakeFile) ScriptTagImports() []scopetypes.ScriptImport { return f.scriptTagImports }

// fakeFileProvider resolves files and components from in-memory maps
// keyed by lowercase pkgPath / component name.
type fakeFileProvider struct {
	files      map[string]scopetypes.BscFile
	components map[string]ComponentRef
}

func newFakeFileProvider() *fakeFileProvider {
	return &fakeFileProvider{
		files:      make(map[string]scopetypes.BscFile),
		components: make(map[string]ComponentRef),
	}
}

func (p *fakeFileProvider) addFile(f *fakeFile) {
	p.files[strings.ToLower(f.pkgPath)] = f
}

func (p *fakeFileProvider) GetFileByPkgPath(pkgPath string) (scopetypes.BscFile, bool) {
	f, ok := p.files[strings.ToLower(pkgPath)]
	return f, ok
}

func (p *fakeFileProvider) GetComponent(name string) (ComponentRef, bool) {
	c, ok := p.components[strings.ToLower(name)]
	return c, ok
}

// testHarness wires a catalog, dependency graph, and file provider for
// tests, with a global scope already registered.
type testHarness struct {
	catalog  *ScopeCatalog
	graph    *depgraph.Graph
	provider *fakeFileProvider
}

func newTestHarness() *testHarness {
	h := &testHarness{
		catalog:  NewScopeCatalog(),
		graph:    depgraph.New(),
		provider: newFakeFileProvider(),
	}
	global := New(Config{
		Name:               GlobalScopeName,
		DependencyGraphKey: "scope:global",
		Catalog:            h.catalog,
		Graph:              h.graph,
		Files:              h.provider,
	})
	h.catalog.Add(global)
	return h
}

// newScope creates a non-global scope named name, wires files as its
// direct dependencies, and registers it in the catalog.
func (h *testHarness) newScope(name string, files ...*fakeFile) *Scope {
	key := "scope:" + name
	for _, f := range files {
		h.provider.addFile(f)
		h.graph.AddEdge(key, f.pkgPath)
	}
	s := New(Config{
		Name:               name,
		DependencyGraphKey: key,
		Catalog:            h.catalog,
		Graph:              h.graph,
		Files:              h.provider,
	})
	h.catalog.Add(s)
	return s
}

func pos(line, char int) scopetypes.Position {
	return scopetypes.Position{Line: line, Character: char}
}

func rng(startLine, startChar, endLine, endChar int) scopetypes.Range {
	return scopetypes.Range{Start: pos(startLine, startChar), End: pos(endLine, endChar)}
}
