// Copyright © 2024 The ELPS authors

// Package depgraph implements the dependency graph that drives scope
// membership and invalidation: a directed graph over opaque string keys
// (file paths, `component:` identifiers, scope names) with change
// notification by key.
//
// The traversal and edge-set shape are grounded in the deterministic
// BFS walk and sorted edge set used by a Go import-dependency reporter
// in the reference corpus; the subscription model is this package's own
// addition to satisfy the invalidation protocol.
package depgraph

import "sync"

// UnsubscribeFunc removes a previously registered change handler.
type UnsubscribeFunc func()

// ChangeHandler is called with the subscription key when a change
// reachable from that key occurs. Handlers must be idempotent; ordering
// between handlers registered on the same key is unspecified.
type ChangeHandler func(key string)

type subscription struct {
	id      int
	handler ChangeHandler
}

// Graph is a directed graph over opaque string keys. It is safe for
// concurrent use.
type Graph struct {
	mu   sync.Mutex
	edge map[string]map[string]bool // from -> set of to
	subs map[string][]*subscription
	next int
}

// New creates an empty dependency graph.
func New() *Graph {
	return &Graph{
		edge: make(map[string]map[string]bool),
		subs: make(map[string][]*subscription),
	}
}

// AddEdge records that `from` depends on `to`. Adding an edge that
// already exists is a no-op change-wise (no notification fires for a
// redundant call).
func (g *Graph) AddEdge(from, to string) {
	g.mu.Lock()
	if g.edge[from] == nil {
		g.edge[from] = make(map[string]bool)
	}
	if g.edge[from][to] {
		g.mu.Unlock()
		return
	}
	g.edge[from][to] = true
	g.mu.Unlock()
	g.notifyChange(from)
}

// RemoveEdge removes a previously recorded dependency.
func (g *Graph) RemoveEdge(from, to string) {
	g.mu.Lock()
	if g.edge[from] == nil || !g.edge[from][to] {
		g.mu.Unlock()
		return
	}
	delete(g.edge[from], to)
	g.mu.Unlock()
	g.notifyChange(from)
}

// GetAllDependencies returns the transitive closure of key's dependencies
// in stable, deduplicated, breadth-first traversal order. key itself is
// never included, even when a cycle leads back to it.
func (g *Graph) GetAllDependencies(key string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.bfs(key)
}

// GetOwnDependencies returns key's direct dependencies only, in stable
// sorted order. Scopes use this (not GetAllDependencies) to compute
// their own-files set, since "own" means direct dependency, not
// transitive (see the header contract discussion in the scope package).
func (g *Graph) GetOwnDependencies(key string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.orderedNeighbors(key)
}

// bfs must be called with g.mu held.
func (g *Graph) bfs(key string) []string {
	var order []string
	seen := map[string]bool{key: true}
	frontier := g.orderedNeighbors(key)
	for len(frontier) > 0 {
		next := frontier[0]
		frontier = frontier[1:]
		if seen[next] {
			continue
		}
		seen[next] = true
		order = append(order, next)
		frontier = append(frontier, g.orderedNeighbors(next)...)
	}
	return order
}

// orderedNeighbors returns from's direct dependencies. Go map iteration
// is randomized, so results are sorted for determinism; callers that
// need insertion order should track it themselves (this graph only
// promises a *stable*, not insertion, order across repeated calls).
func (g *Graph) orderedNeighbors(from string) []string {
	m := g.edge[from]
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sortStrings(out)
	return out
}

// OnChange subscribes handler to changes reachable from key: either a
// direct edge update on key, or a structural mutation on any node key
// can reach. If emitImmediately is true, handler fires once synchronously
// at subscription time with key. The returned func removes the
// subscription.
func (g *Graph) OnChange(key string, handler ChangeHandler, emitImmediately bool) UnsubscribeFunc {
	g.mu.Lock()
	g.next++
	id := g.next
	sub := &subscription{id: id, handler: handler}
	g.subs[key] = append(g.subs[key], sub)
	g.mu.Unlock()

	if emitImmediately {
		handler(key)
	}

	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		list := g.subs[key]
		for i, s := range list {
			if s.id == id {
				g.subs[key] = append(list[:i], list[i+1:]...)
				break
			}
		}
		if len(g.subs[key]) == 0 {
			delete(g.subs, key)
		}
	}
}

// notifyChange fires every subscriber whose key is `changed` or can
// reach `changed` through the graph.
func (g *Graph) notifyChange(changed string) {
	g.mu.Lock()
	type firing struct {
		key      string
		handlers []ChangeHandler
	}
	var toFire []firing
	for key, subs := range g.subs {
		if key != changed && !g.canReach(key, changed) {
			continue
		}
		handlers := make([]ChangeHandler, len(subs))
		for i, s := range subs {
			handlers[i] = s.handler
		}
		toFire = append(toFire, firing{key: key, handlers: handlers})
	}
	g.mu.Unlock()

	for _, f := range toFire {
		for _, h := range f.handlers {
			h(f.key)
		}
	}
}

// canReach must be called with g.mu held.
func (g *Graph) canReach(from, target string) bool {
	if from == target {
		return true
	}
	seen := map[string]bool{from: true}
	queue := g.orderedNeighbors(from)
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n == target {
			return true
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		queue = append(queue, g.orderedNeighbors(n)...)
	}
	return false
}
