// Package orderedmap provides a map that iterates its elements in insertion
// order.
package orderedmap

// Map is a map datastructure that allows accessing it's element in the order
// they were added.
type Map[K comparable, V any] struct {
	order   []K
	m       map[K]V
	zeroval V
}

func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{
		m: map[K]V{},
	}
}

// EnqueueIfNotExist adds val to the map if K does not exist.
// It returns the value that is stored for the key after the operation and if
// val was added.
func (m *Map[K, V]) EnqueueIfNotExist(key K, val V) (stored V, added bool) {
	if v, exist := m.m[key]; exist {
		return v, false
	}

	m.m[key] = val
	m.order = append(m.order, key)

	return val, true
}

// Get returns the value for the given key.
// If the key does not exist, the zero value is returned
func (m *Map[K, V]) Get(key K) V {
	v, exist := m.m[key]
	if !exist {
		return m.zeroval
	}

	return v
}

// Len returns the number of elements in the maps.
func (m *Map[K, V]) Len() int {
	return len(m.order)
}

// Foreach iterates through the map in order.
// When fn returns false the iteration is aborted.
func (m *Map[K, V]) Foreach(fn func(V) bool) {
	for _, k := range m.order {
		if !fn(m.m[k]) {
			return
		}
	}
}

// AsSlice returns a new slice containing the elements of the orderedMap in
// order.
func (m *Map[K, V]) AsSlice() []V {
	result := make([]V, 0, len(m.order))

	for _, k := range m.order {
		result = append(result, m.m[k])
	}

	return result
}
