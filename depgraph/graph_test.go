// Copyright © 2024 The ELPS authors

package depgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAllDependencies_Transitive(t *testing.T) {
	g := New()
	g.AddEdge("scope:main", "file:a.brs")
	g.AddEdge("file:a.brs", "file:b.brs")
	g.AddEdge("file:b.brs", "file:c.brs")

	deps := g.GetAllDependencies("scope:main")
	assert.ElementsMatch(t, []string{"file:a.brs", "file:b.brs", "file:c.brs"}, deps)
}

func TestGetAllDependencies_Deduped(t *testing.T) {
	g := New()
	g.AddEdge("scope:main", "file:a.brs")
	g.AddEdge("scope:main", "file:b.brs")
	g.AddEdge("file:a.brs", "file:c.brs")
	g.AddEdge("file:b.brs", "file:c.brs")

	deps := g.GetAllDependencies("scope:main")
	count := 0
	for _, d := range deps {
		if d == "file:c.brs" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestOnChange_FiresOnDirectEdgeUpdate(t *testing.T) {
	g := New()
	var fired []string
	unsub := g.OnChange("scope:main", func(key string) {
		fired = append(fired, key)
	}, false)
	defer unsub()

	g.AddEdge("scope:main", "file:a.brs")
	require.Len(t, fired, 1)
	assert.Equal(t, "scope:main", fired[0])
}

func TestOnChange_FiresOnReachableMutation(t *testing.T) {
	g := New()
	g.AddEdge("scope:main", "file:a.brs")

	var fired int
	unsub := g.OnChange("scope:main", func(key string) {
		fired++
	}, false)
	defer unsub()

	// a.brs gaining a new dependency changes what's reachable from
	// scope:main, so scope:main's subscriber must be notified.
	g.AddEdge("file:a.brs", "file:b.brs")
	assert.Equal(t, 1, fired)
}

func TestOnChange_DoesNotFireOnUnrelatedMutation(t *testing.T) {
	g := New()
	g.AddEdge("scope:main", "file:a.brs")

	var fired int
	unsub := g.OnChange("scope:main", func(key string) {
		fired++
	}, false)
	defer unsub()

	g.AddEdge("scope:other", "file:z.brs")
	assert.Equal(t, 0, fired)
}

func TestOnChange_EmitImmediately(t *testing.T) {
	g := New()
	var fired []string
	unsub := g.OnChange("scope:main", func(key string) {
		fired = append(fired, key)
	}, true)
	defer unsub()

	require.Len(t, fired, 1)
	assert.Equal(t, "scope:main", fired[0])
}

func TestUnsubscribe_StopsFurtherNotifications(t *testing.T) {
	g := New()
	var fired int
	unsub := g.OnChange("scope:main", func(key string) {
		fired++
	}, false)

	unsub()
	g.AddEdge("scope:main", "file:a.brs")
	assert.Equal(t, 0, fired)
}

func TestGetOwnDependencies_DirectOnly(t *testing.T) {
	g := New()
	g.AddEdge("scope:main", "file:a.brs")
	g.AddEdge("file:a.brs", "file:b.brs")

	own := g.GetOwnDependencies("scope:main")
	assert.Equal(t, []string{"file:a.brs"}, own)
}

func TestRemoveEdge_NotifiesAndShrinksClosure(t *testing.T) {
	g := New()
	g.AddEdge("scope:main", "file:a.brs")
	g.AddEdge("scope:main", "file:b.brs")

	var fired int
	unsub := g.OnChange("scope:main", func(string) { fired++ }, false)
	defer unsub()

	g.RemoveEdge("scope:main", "file:a.brs")
	assert.Equal(t, 1, fired)
	deps := g.GetAllDependencies("scope:main")
	assert.ElementsMatch(t, []string{"file:b.brs"}, deps)
}
