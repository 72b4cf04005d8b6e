// Copyright © 2024 The ELPS authors

package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stbscript/bsc/scopetypes"
)

func TestBuildNamespaceLookup_EveryPrefixGetsAnEntry(t *testing.T) {
	h := newTestHarness()
	f := &fakeFile{
		pkgPath: "source/a.bs",
		refs: &scopetypes.ParserReferences{
			Namespaces: []scopetypes.NamespaceStatement{
				{FullName: "Net.Http.Client", LowerFullName: "net.http.client", NameRange: rng(3, 0, 3, 20), LastPartName: "Client"},
			},
		},
	}
	s := h.newScope("main", f)

	lookup := s.BuildNamespaceLookup()
	require.Contains(t, lookup, "net")
	require.Contains(t, lookup, "net.http")
	require.Contains(t, lookup, "net.http.client")

	child, ok := lookup["net.http"].Namespaces["client"]
	require.True(t, ok)
	assert.Same(t, lookup["net.http.client"], child)
}

func TestBuildNamespaceLookup_SiblingBodiesCoalesce(t *testing.T) {
	h := newTestHarness()
	fooFn := callable("foo")
	fileA := &fakeFile{
		pkgPath: "source/a.bs",
		refs: &scopetypes.ParserReferences{
			Namespaces: []scopetypes.NamespaceStatement{
				{FullName: "Util", LowerFullName: "util", NameRange: rng(0, 0, 0, 4), FunctionStatements: []*scopetypes.Callable{fooFn}},
			},
		},
	}
	barFn := callable("bar")
	fileB := &fakeFile{
		pkgPath: "source/b.bs",
		refs: &scopetypes.ParserReferences{
			Namespaces: []scopetypes.NamespaceStatement{
				{FullName: "Util", LowerFullName: "util", NameRange: rng(0, 0, 0, 4), FunctionStatements: []*scopetypes.Callable{barFn}},
			},
		},
	}
	s := h.newScope("main", fileA, fileB)

	lookup := s.BuildNamespaceLookup()
	util := lookup["util"]
	require.NotNil(t, util)
	assert.Len(t, util.Statements, 2)
	assert.Contains(t, util.FunctionStatements, "foo")
	assert.Contains(t, util.FunctionStatements, "bar")
}

func TestBuildNamespaceLookup_ParentChildWiring(t *testing.T) {
	h := newTestHarness()
	f := &fakeFile{
		pkgPath: "source/a.bs",
		refs: &scopetypes.ParserReferences{
			Namespaces: []scopetypes.NamespaceStatement{
				{FullName: "A.B", LowerFullName: "a.b", NameRange: rng(0, 0, 0, 3)},
			},
		},
	}
	s := h.newScope("main", f)

	lookup := s.BuildNamespaceLookup()
	a := lookup["a"]
	require.NotNil(t, a)
	child, ok := a.Namespaces["b"]
	require.True(t, ok)
	assert.Equal(t, lookup["a.b"], child)
}
