package assoc

import "iter"

// Index is the hashed store for comparable keys: a position map over an ordered
// slice. Lookups match == exactly as List does with an == equality.
type Index[K comparable, V any] struct {
	pos     map[K]int
	entries []entry[K, V]
}

func NewIndex[K comparable, V any]() *Index[K, V] {
	return &Index[K, V]{pos: make(map[K]int)}
}

func (x *Index[K, V]) Get(k K) (V, bool) {
	if i, ok := x.pos[k]; ok {
		return x.entries[i].val, true
	}
	var zero V
	return zero, false
}

func (x *Index[K, V]) Put(k K, v V) {
	if i, ok := x.pos[k]; ok {
		x.entries[i].val = v
		return
	}
	x.pos[k] = len(x.entries)
	x.entries = append(x.entries, entry[K, V]{key: k, val: v})
}

func (x *Index[K, V]) Len() int { return len(x.entries) }

func (x *Index[K, V]) All() iter.Seq2[K, V] { return all(x.entries) }
