// Copyright © 2024 The ELPS authors

package classvalidator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stbscript/bsc/classvalidator"
	"github.com/stbscript/bsc/depgraph"
	"github.com/stbscript/bsc/scope"
	"github.com/stbscript/bsc/scopetypes"
)

type stubFile struct {
	pkgPath string
	classes []*scopetypes.ClassStatement
}

func (f *stubFile) PkgPath() string                                   { return f.pkgPath }
func (f *stubFile) LowerPkgPath() string                               { return f.pkgPath }
func (f *stubFile) PathAbsolute() string                               { return f.pkgPath }
func (f *stubFile) Extension() string                                  { return ".bs" }
func (f *stubFile) HasTypedef() bool                                   { return false }
func (f *stubFile) Callables() []*scopetypes.Callable                  { return nil }
func (f *stubFile) FunctionCalls() []*scopetypes.FunctionCall          { return nil }
func (f *stubFile) FunctionScopes() []*scopetypes.FunctionScope        { return nil }
func (f *stubFile) PropertyNameCompletions() []scopetypes.CompletionItem {
	return nil
}
func (f *stubFile) References() *scopetypes.ParserReferences {
	return &scopetypes.ParserReferences{Classes: f.classes}
}
func (f *stubFile) OwnScriptImports() []scopetypes.ScriptImport { return nil }
func (f *stubFile) ScriptTagImports() []scopetypes.ScriptImport { return nil }

type stubProvider struct {
	files map[string]scopetypes.BscFile
}

func (p *stubProvider) GetFileByPkgPath(pkgPath string) (scopetypes.BscFile, bool) {
	f, ok := p.files[pkgPath]
	return f, ok
}

func (p *stubProvider) GetComponent(string) (scope.ComponentRef, bool) {
	return scope.ComponentRef{}, false
}

func newScopeWithClasses(t *testing.T, classes ...*scopetypes.ClassStatement) *scope.Scope {
	t.Helper()
	f := &stubFile{pkgPath: "source/main.bs", classes: classes}
	provider := &stubProvider{files: map[string]scopetypes.BscFile{f.pkgPath: f}}
	graph := depgraph.New()
	graph.AddEdge("scope:main", f.pkgPath)

	return scope.New(scope.Config{
		Name:               "main",
		DependencyGraphKey: "scope:main",
		Catalog:            scope.NewScopeCatalog(),
		Graph:              graph,
		Files:              provider,
		ClassValidator:     classvalidator.New(),
	})
}

func TestValidate_NoCycle(t *testing.T) {
	base := &scopetypes.ClassStatement{Name: "Base", LowerName: "base", NameRange: scopetypes.Range{}}
	child := &scopetypes.ClassStatement{Name: "Child", LowerName: "child", ParentName: "Base", NameRange: scopetypes.Range{}}
	base.File = &stubFile{pkgPath: "source/main.bs"}
	child.File = base.File

	v := classvalidator.New()
	s := newScopeWithClasses(t, base, child)
	v.Validate(s)

	assert.Empty(t, v.Diagnostics())
}

func TestValidate_DirectCycle(t *testing.T) {
	a := &scopetypes.ClassStatement{Name: "A", LowerName: "a", ParentName: "B"}
	b := &scopetypes.ClassStatement{Name: "B", LowerName: "b", ParentName: "A"}
	f := &stubFile{pkgPath: "source/main.bs"}
	a.File, b.File = f, f

	v := classvalidator.New()
	s := newScopeWithClasses(t, a, b)
	v.Validate(s)

	diags := v.Diagnostics()
	require.NotEmpty(t, diags)
	assert.Contains(t, diags[0].Message, "circular inheritance")
}

func TestValidate_UnresolvedParentIsNotACycle(t *testing.T) {
	orphan := &scopetypes.ClassStatement{Name: "Orphan", LowerName: "orphan", ParentName: "Nowhere"}
	orphan.File = &stubFile{pkgPath: "source/main.bs"}

	v := classvalidator.New()
	s := newScopeWithClasses(t, orphan)
	v.Validate(s)

	assert.Empty(t, v.Diagnostics())
}
