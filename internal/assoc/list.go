package assoc

import "iter"

// List is a linear-scan store. Keys only need an equality function, so any
// type works, at O(n) per lookup.
type List[K, V any] struct {
	eq      func(a, b K) bool
	entries []entry[K, V]
}

func NewList[K, V any](eq func(a, b K) bool) *List[K, V] {
	return &List[K, V]{eq: eq}
}

func (l *List[K, V]) find(k K) int {
	for i, e := range l.entries {
		if l.eq(k, e.key) {
			return i
		}
	}
	return -1
}

func (l *List[K, V]) Get(k K) (V, bool) {
	if i := l.find(k); i >= 0 {
		return l.entries[i].val, true
	}
	var zero V
	return zero, false
}

func (l *List[K, V]) Put(k K, v V) {
	if i := l.find(k); i >= 0 {
		l.entries[i].val = v
		return
	}
	l.entries = append(l.entries, entry[K, V]{key: k, val: v})
}

func (l *List[K, V]) Len() int { return len(l.entries) }

func (l *List[K, V]) All() iter.Seq2[K, V] { return all(l.entries) }
