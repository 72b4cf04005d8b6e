// Copyright © 2024 The ELPS authors

package cache

// GetOrAddTyped is a type-safe wrapper around Cache.GetOrAdd for callers
// that always store the same concrete type in a given slot.
func GetOrAddTyped[T any](c *Cache, slot string, factory func() T) T {
	v := c.GetOrAdd(slot, func() any {
		val := factory()
		return any(val)
	})
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}
