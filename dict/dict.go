// Package dict provides lookup and insert helpers for Go maps.
package dict

// Get returns the value stored under k, or the zero value if k is absent.
func Get[M ~map[K]V, K comparable, V any](m M, k K) V {
	var zero V
	return GetOr(m, k, zero)
}

// GetOr returns the value stored under k, or def if k is absent.
// A stored zero value is returned as-is; only absence selects def.
func GetOr[M ~map[K]V, K comparable, V any](m M, k K, def V) V {
	if v, ok := m[k]; ok {
		return v
	}
	return def
}

// AddIfNew stores v under k only if k is absent, and returns m so calls can
// be chained. An existing value is never overwritten. A nil m is replaced by
// a new map, so always use the returned value.
//
//	m = dict.AddIfNew(m, 2, "two")
func AddIfNew[M ~map[K]V, K comparable, V any](m M, k K, v V) M {
	if m == nil {
		m = make(M)
	}
	if _, ok := m[k]; !ok {
		m[k] = v
	}
	return m
}
