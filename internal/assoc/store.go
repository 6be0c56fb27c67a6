// Package assoc provides ordered key/value stores keyed by equality.
//
// Entries keep first-occurrence order: a key's position is fixed the first time
// it is Put, and later Puts replace the value in place.
package assoc

import "iter"

// Store is the capability the distribution engine needs from its backing storage.
type Store[K, V any] interface {
	Get(k K) (V, bool)
	Put(k K, v V)
	Len() int
	All() iter.Seq2[K, V]
}

// Merge folds v into the slot for k using add, or creates the slot.
func Merge[K, V any](s Store[K, V], k K, v V, add func(a, b V) V) {
	if cur, ok := s.Get(k); ok {
		s.Put(k, add(cur, v))
		return
	}
	s.Put(k, v)
}

type entry[K, V any] struct {
	key K
	val V
}

func all[K, V any](entries []entry[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, e := range entries {
			if !yield(e.key, e.val) {
				return
			}
		}
	}
}
