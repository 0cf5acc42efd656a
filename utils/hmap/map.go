// Package hmap provides a mutable hash map for keys that are not directly
// usable as Go map keys. Hash collisions are chained; lookups compare with
// the hasher's equality. The per-scope "latest binding" indexes are the
// main client: they see frequent in-place updates, where the overhead of a
// persistent map buys nothing.
package hmap

import "github.com/weft-analysis/weft/utils"

type entry[K, V any] struct {
	key   K
	value V
	next  *entry[K, V]
}

type Map[K, V any] struct {
	hasher utils.Hasher[K]
	// buckets is keyed by the hash; chains hold the colliding entries.
	buckets map[uint32]*entry[K, V]
}

// NewMap creates a map with the given hashing strategy. Order of V and K
// is swapped since K can be inferred from the hasher argument.
func NewMap[V, K any](hasher utils.Hasher[K]) *Map[K, V] {
	return &Map[K, V]{
		hasher:  hasher,
		buckets: make(map[uint32]*entry[K, V]),
	}
}

// Set binds key to value, replacing an existing binding.
func (m *Map[K, V]) Set(key K, value V) {
	h := m.hasher.Hash(key)
	for e := m.buckets[h]; e != nil; e = e.next {
		if m.hasher.Equal(key, e.key) {
			e.value = value
			return
		}
	}
	m.buckets[h] = &entry[K, V]{key, value, m.buckets[h]}
}

// GetOk returns the value bound to key, if any.
func (m *Map[K, V]) GetOk(key K) (res V, ok bool) {
	for e := m.buckets[m.hasher.Hash(key)]; e != nil; e = e.next {
		if m.hasher.Equal(key, e.key) {
			return e.value, true
		}
	}
	return
}

// Get returns the value bound to key, or the zero value.
func (m *Map[K, V]) Get(key K) V {
	v, _ := m.GetOk(key)
	return v
}
