package seq

import "iter"

// ToMap indexes a sequence by key. When keys collide the last element wins.
func ToMap[K comparable, T any](s iter.Seq[T], key func(T) K) map[K]T {
	return ToMapFunc(s, key, func(v T) T { return v })
}

// ToMapFunc builds a map from a sequence using key and value selectors.
// When keys collide the last element wins.
func ToMapFunc[K comparable, V, T any](s iter.Seq[T], key func(T) K, value func(T) V) map[K]V {
	out := make(map[K]V)
	if s == nil {
		return out
	}
	for item := range s {
		out[key(item)] = value(item)
	}
	return out
}

// Groups maps keys to lists of values, remembering the order in which keys
// were first seen.
type Groups[K comparable, V any] struct {
	keys   []K
	values map[K][]V
}

// GroupBy groups a sequence by key. Keys keep first-seen order and each group
// keeps source order.
func GroupBy[K comparable, T any](s iter.Seq[T], key func(T) K) *Groups[K, T] {
	return GroupByFunc(s, key, func(v T) T { return v })
}

// GroupByFunc groups the projected values of a sequence by key.
func GroupByFunc[K comparable, V, T any](s iter.Seq[T], key func(T) K, value func(T) V) *Groups[K, V] {
	g := &Groups[K, V]{values: make(map[K][]V)}
	if s == nil {
		return g
	}
	for item := range s {
		k := key(item)
		list, seen := g.values[k]
		if !seen {
			g.keys = append(g.keys, k)
		}
		g.values[k] = append(list, value(item))
	}
	return g
}

// Len returns the number of distinct keys.
func (g *Groups[K, V]) Len() int { return len(g.keys) }

// Keys returns the keys in first-seen order.
func (g *Groups[K, V]) Keys() []K {
	out := make([]K, len(g.keys))
	copy(out, g.keys)
	return out
}

// Get returns the values grouped under k, or nil.
func (g *Groups[K, V]) Get(k K) []V { return g.values[k] }

// All yields each key with its values in first-seen key order.
func (g *Groups[K, V]) All() iter.Seq2[K, []V] {
	return func(yield func(K, []V) bool) {
		for _, k := range g.keys {
			if !yield(k, g.values[k]) {
				return
			}
		}
	}
}

// Map returns the groups as a plain map. The value slices are copied.
func (g *Groups[K, V]) Map() map[K][]V {
	out := make(map[K][]V, len(g.keys))
	for _, k := range g.keys {
		out[k] = append([]V(nil), g.values[k]...)
	}
	return out
}
