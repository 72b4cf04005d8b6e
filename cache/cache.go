// Copyright © 2024 The ELPS authors

// Package cache implements the per-scope memoization store described by
// the scope graph: named slots computed on demand and cleared atomically
// on invalidation, with a sentinel "known-absent" value so a factory that
// legitimately produces nothing is not re-run on every lookup.
package cache


// absent is the sentinel stored for a slot whose factory returned nil.
// It is a distinct, unexported type so it can never collide with a
// legitimate cached value.
type absentMarker struct{}

var absent = absentMarker{}

// Cache is a string-keyed memoization store. It is not thread-safe on
// its own; external synchronization is the owner's responsibility. The
// owning Scope calls GetOrAdd without taking its own mutex.
type Cache struct {
	slots map[string]any
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{slots: make(map[string]any)}
}

// GetOrAdd returns the stored value for slot, or stores and returns
// factory()'s result if the slot is empty. If factory returns nil, the
// absent marker is stored so later calls skip re-invoking factory and
// still return nil.
func (c *Cache) GetOrAdd(slot string, factory func() any) any {
	if v, ok := c.slots[slot]; ok {
		if _, isAbsent := v.(absentMarker); isAbsent {
			return nil
		}
		return v
	}
	v := factory()
	if v == nil {
		c.slots[slot] = absent
		return nil
	}
	c.slots[slot] = v
	return v
}

// Clear drops all slots.
func (c *Cache) Clear() {
	c.slots = make(map[string]any)
}
