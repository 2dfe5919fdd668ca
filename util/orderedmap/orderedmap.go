// Package orderedmap implements a generic, identity-keyed map that remembers insertion order.
// It backs the Def-Use map and the V-CFG succ/pred caches, all of which must preserve the order
// in which entries were produced (spec.md §4.4 "Memoization and determinism").
package orderedmap

// Pair is a key-value pair stored in the ordered map.
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// OrderedMap is an ordered map that supports iteration in insertion order. It is an internal
// helper and does not attempt to be a drop-in replacement for a full map implementation.
type OrderedMap[K comparable, V any] struct {
	// Pairs is the list of pairs in insertion order. Never modify directly - use Store. Safe to
	// range over read-only for iteration (e.g., to dump a cache or a Def-Use map deterministically).
	Pairs []*Pair[K, V]
	inner map[K]*Pair[K, V]
}

// New creates a new, empty OrderedMap.
func New[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{inner: make(map[K]*Pair[K, V])}
}

// Value returns the value stored for key, or the zero value if absent.
func (m *OrderedMap[K, V]) Value(key K) V {
	if p := m.inner[key]; p != nil {
		return p.Value
	}
	var v V
	return v
}

// Load returns the value stored for key, and whether it was present.
func (m *OrderedMap[K, V]) Load(key K) (V, bool) {
	if p := m.inner[key]; p != nil {
		return p.Value, true
	}
	var v V
	return v, false
}

// Has reports whether key has an entry.
func (m *OrderedMap[K, V]) Has(key K) bool {
	_, ok := m.inner[key]
	return ok
}

// Store stores value for key, overwriting any previous value but preserving the key's original
// position in Pairs.
func (m *OrderedMap[K, V]) Store(key K, value V) {
	if p := m.inner[key]; p != nil {
		p.Value = value
		return
	}
	p := &Pair[K, V]{Key: key, Value: value}
	m.Pairs = append(m.Pairs, p)
	m.inner[key] = p
}

// Delete removes key from the map, if present.
func (m *OrderedMap[K, V]) Delete(key K) {
	p, ok := m.inner[key]
	if !ok {
		return
	}
	delete(m.inner, key)
	for i, q := range m.Pairs {
		if q == p {
			m.Pairs = append(m.Pairs[:i], m.Pairs[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (m *OrderedMap[K, V]) Keys() []K {
	keys := make([]K, len(m.Pairs))
	for i, p := range m.Pairs {
		keys[i] = p.Key
	}
	return keys
}

// Len returns the number of entries.
func (m *OrderedMap[K, V]) Len() int {
	return len(m.Pairs)
}
