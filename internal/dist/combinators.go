package dist

import "iter"

// Map converts a Distribution[T] into a Distribution[U] by mapping outcomes.
// Outcomes that collapse onto the same U have their probabilities summed.
func Map[T any, U comparable](d Distribution[T], f func(T) U) Distribution[U] {
	return regroup(comparableKeys[U](), mapped(d, f))
}

// MapFunc is Map for outcomes compared with eq. Nested distributions are built
// with MapFunc(d, f, Distribution[U].Equal).
func MapFunc[T, U any](d Distribution[T], f func(T) U, eq func(a, b U) bool) Distribution[U] {
	return regroup(funcKeys(eq), mapped(d, f))
}

func mapped[T, U any](d Distribution[T], f func(T) U) iter.Seq[Pair[U]] {
	return func(yield func(Pair[U]) bool) {
		for t, p := range d.All() {
			if !yield(Pair[U]{Outcome: f(t), Prob: p}) {
				return
			}
		}
	}
}

// AndThen chains d into a second experiment chosen by its outcome. Each path
// is weighted by the product of its probabilities and equal outcomes reached by
// different paths are summed.
func AndThen[T any, U comparable](d Distribution[T], f func(T) Distribution[U]) Distribution[U] {
	return regroup(comparableKeys[U](), bound(d, f))
}

func AndThenFunc[T, U any](d Distribution[T], f func(T) Distribution[U], eq func(a, b U) bool) Distribution[U] {
	return regroup(funcKeys(eq), bound(d, f))
}

func bound[T, U any](d Distribution[T], f func(T) Distribution[U]) iter.Seq[Pair[U]] {
	return func(yield func(Pair[U]) bool) {
		for t, p := range d.All() {
			for u, p2 := range f(t).All() {
				if !yield(Pair[U]{Outcome: u, Prob: p.Mul(p2)}) {
					return
				}
			}
		}
	}
}

// Flatten collapses a distribution over experiments into the distribution of
// their outcomes.
func Flatten[T comparable](dd Distribution[Distribution[T]]) Distribution[T] {
	return AndThen(dd, identity[T])
}

func FlattenFunc[T any](dd Distribution[Distribution[T]], eq func(a, b T) bool) Distribution[T] {
	return AndThenFunc(dd, identity[T], eq)
}

func identity[T any](d Distribution[T]) Distribution[T] { return d }

// Given conditions d on pred, renormalizing the retained outcomes. It returns
// ErrImpossibleCondition when the retained mass is zero.
func (d Distribution[T]) Given(pred func(T) bool) (Distribution[T], error) {
	if d.entries == nil {
		return Distribution[T]{}, ErrImpossibleCondition
	}
	kept := regroup(d.keys, func(yield func(Pair[T]) bool) {
		for p := range d.pairs() {
			if pred(p.Outcome) && !yield(p) {
				return
			}
		}
	})
	return kept.normalize()
}

func (d Distribution[T]) normalize() (Distribution[T], error) {
	factor := d.Total().Float64()
	if factor == 0 {
		return Distribution[T]{}, ErrImpossibleCondition
	}
	return regroup(d.keys, func(yield func(Pair[T]) bool) {
		for t, p := range d.All() {
			if !yield(Pair[T]{Outcome: t, Prob: p.DivScalar(factor)}) {
				return
			}
		}
	}), nil
}

// Joint pairs two independent distributions.
func Joint[T, U comparable](x Distribution[T], y Distribution[U]) Distribution[Tuple[T, U]] {
	return AndThen(x, func(t T) Distribution[Tuple[T, U]] {
		return Map(y, func(u U) Tuple[T, U] { return Tuple[T, U]{First: t, Second: u} })
	})
}

// Tuple is a comparable pair of outcomes.
type Tuple[T, U comparable] struct {
	First  T
	Second U
}

