// Copyright © 2024 The ELPS authors

package scope

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stbscript/bsc/diagnostic"
	"github.com/stbscript/bsc/scopetypes"
)

func callable(name string, params ...scopetypes.Param) *scopetypes.Callable {
	return &scopetypes.Callable{
		Name:      name,
		LowerName: strings.ToLower(name),
		Params:    params,
		NameRange: rng(0, 0, 0, len(name)),
	}
}

// Scenario 1: unknown call.
func TestScenario_UnknownCall(t *testing.T) {
	h := newTestHarness()
	f := &fakeFile{
		pkgPath:   "source/main.brs",
		extension: ".brs",
		calls: []*scopetypes.FunctionCall{
			{Name: "foo", LowerName: "foo", NameRange: rng(0, 12, 0, 15), Range: rng(0, 12, 0, 17), ArgCount: 0},
		},
	}
	s := h.newScope("main", f)

	s.Validate(false)
	diags := s.Diagnostics()

	require.Len(t, filterCode(diags, diagnostic.CodeCallToUnknownFunction), 1)
	d := filterCode(diags, diagnostic.CodeCallToUnknownFunction)[0]
	assert.Equal(t, rng(0, 12, 0, 15), d.Range)
}

// Scenario 2: arity mismatch.
func TestScenario_ArityMismatch(t *testing.T) {
	h := newTestHarness()
	greet := callable("greet", scopetypes.Param{Name: "name"}, scopetypes.Param{Name: "prefix", IsOptional: true})
	f := &fakeFile{
		pkgPath:   "source/main.brs",
		extension: ".brs",
		callables: []*scopetypes.Callable{greet},
		calls: []*scopetypes.FunctionCall{
			{Name: "greet", LowerName: "greet", NameRange: rng(1, 0, 1, 5), Range: rng(1, 0, 1, 20), ArgCount: 3},
		},
	}
	s := h.newScope("main", f)

	s.Validate(false)
	diags := filterCode(s.Diagnostics(), diagnostic.CodeMismatchArgumentCount)

	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "1-2")
	assert.Contains(t, diags[0].Message, "3")
}

// Scenario 3: duplicate declarations, sorted by declaring-file path.
func TestScenario_DuplicateDeclarations(t *testing.T) {
	h := newTestHarness()
	runA := callable("run")
	runB := callable("run")

	fa := &fakeFile{pkgPath: "source/a.brs", pathAbsolute: "/proj/source/a.brs", callables: []*scopetypes.Callable{runB}}
	fb := &fakeFile{pkgPath: "source/b.brs", pathAbsolute: "/proj/source/b.brs", callables: []*scopetypes.Callable{runA}}
	runA.File = fb
	runB.File = fa

	s := h.newScope("main", fa, fb)
	s.Validate(false)

	diags := filterCode(s.Diagnostics(), diagnostic.CodeDuplicateFunctionImplementation)
	require.Len(t, diags, 2)
	assert.Equal(t, "source/a.brs", diags[0].File)
	assert.Equal(t, "source/b.brs", diags[1].File)
}

// Scenario 4: init override exception.
func TestScenario_InitOverrideIsExempt(t *testing.T) {
	h := newTestHarness()
	parentInit := callable("init")
	parentFile := &fakeFile{pkgPath: "source/parent.brs", callables: []*scopetypes.Callable{parentInit}}
	parentInit.File = parentFile
	parent := h.newScope("parent", parentFile)

	childInit := callable("init")
	childFile := &fakeFile{pkgPath: "source/child.brs", callables: []*scopetypes.Callable{childInit}}
	childInit.File = childFile
	child := h.newScope("child", childFile)
	child.caps = childOfParentCapabilities{parentName: "parent"}
	_ = parent

	child.Validate(false)
	diags := filterCode(child.Diagnostics(), diagnostic.CodeOverridesAncestorFunction)
	assert.Empty(t, diags)
}

// childOfParentCapabilities is a test-only capability set letting a
// scope's parent be an arbitrary named scope instead of always global,
// so the override-exception scenario can set up a real ancestor chain.
type childOfParentCapabilities struct {
	parentName string
}

func (c childOfParentCapabilities) resolveParent(s *Scope) (*Scope, bool) {
	return s.catalog.Get(c.parentName)
}

func (c childOfParentCapabilities) ownFiles(s *Scope) []scopetypes.BscFile {
	return resolveOwnFilesFromGraph(s, s.dependencyGraphKey)
}

// Scenario 5: namespace collision with related information.
func TestScenario_NamespaceCollision(t *testing.T) {
	h := newTestHarness()
	nsRange := rng(2, 10, 2, 18)
	f := &fakeFile{
		pkgPath: "source/main.bs",
		callables: []*scopetypes.Callable{
			{Name: "handle", LowerName: "handle", Params: []scopetypes.Param{{Name: "net"}}, NameRange: rng(5, 0, 5, 6)},
		},
		refs: &scopetypes.ParserReferences{
			Namespaces: []scopetypes.NamespaceStatement{
				{FullName: "Net.Http", LowerFullName: "net.http", NameRange: nsRange, LastPartName: "Http"},
			},
		},
	}
	f.callables[0].File = f
	s := h.newScope("main", f)

	s.Validate(false)
	diags := filterCode(s.Diagnostics(), diagnostic.CodeParameterMayNotHaveSameNameAsNamespace)

	require.Len(t, diags, 1)
	require.Len(t, diags[0].RelatedInformation, 1)
	assert.Equal(t, nsRange, diags[0].RelatedInformation[0].Location.Range)
}

// Scenario 6: script import case mismatch.
func TestScenario_ScriptImportCaseMismatch(t *testing.T) {
	h := newTestHarness()
	lib := &fakeFile{pkgPath: "pkg:/lib/Foo.brs"}
	main := &fakeFile{
		pkgPath: "pkg:/main.brs",
		ownImports: []scopetypes.ScriptImport{
			{Text: "Pkg:/Lib/foo.brs", Range: rng(0, 0, 0, 20)},
		},
	}
	s := h.newScope("main", main, lib)

	s.Validate(false)
	diags := filterCode(s.Diagnostics(), diagnostic.CodeScriptImportCaseMismatch)

	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "pkg:/lib/Foo.brs")
}

func filterCode(diags []diagnostic.Diagnostic, code string) []diagnostic.Diagnostic {
	var out []diagnostic.Diagnostic
	for _, d := range diags {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}
