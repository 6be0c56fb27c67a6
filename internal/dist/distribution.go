package dist

import (
	"fmt"
	"iter"
	"strings"

	"github.com/xtding233/gacha-odds/internal/assoc"
	"github.com/xtding233/gacha-odds/internal/prob"
)

// Pair is one outcome with its probability.
type Pair[T any] struct {
	Outcome T
	Prob    prob.Probability
}

// P builds a Pair from a plain float. It panics when p is outside [0, 1].
func P[T any](outcome T, p float64) Pair[T] {
	return Pair[T]{Outcome: outcome, Prob: prob.MustNew(p)}
}

// keying carries how outcomes of one type are compared and stored.
type keying[T any] struct {
	eq    func(a, b T) bool
	store func() assoc.Store[T, prob.Probability]
}

func comparableKeys[T comparable]() keying[T] {
	return keying[T]{
		eq:    func(a, b T) bool { return a == b },
		store: func() assoc.Store[T, prob.Probability] { return assoc.NewIndex[T, prob.Probability]() },
	}
}

func funcKeys[T any](eq func(a, b T) bool) keying[T] {
	return keying[T]{
		eq:    eq,
		store: func() assoc.Store[T, prob.Probability] { return assoc.NewList[T, prob.Probability](eq) },
	}
}

// Distribution is a discrete probability distribution over the outcomes T.
// The zero value is an empty distribution.
type Distribution[T any] struct {
	keys    keying[T]
	entries assoc.Store[T, prob.Probability]
}

// regroup merges repeated outcomes, summing their probabilities in first-occurrence order.
func regroup[T any](keys keying[T], pairs iter.Seq[Pair[T]]) Distribution[T] {
	s := keys.store()
	for p := range pairs {
		assoc.Merge(s, p.Outcome, p.Prob, prob.Probability.Add)
	}
	return Distribution[T]{keys: keys, entries: s}
}

func fromSlice[T any](pairs []Pair[T]) iter.Seq[Pair[T]] {
	return func(yield func(Pair[T]) bool) {
		for _, p := range pairs {
			if !yield(p) {
				return
			}
		}
	}
}

// New creates a distribution from outcome probabilities. Repeated outcomes are merged.
func New[T comparable](pairs ...Pair[T]) Distribution[T] {
	return regroup(comparableKeys[T](), fromSlice(pairs))
}

// NewFunc is New for outcomes compared with eq.
func NewFunc[T any](eq func(a, b T) bool, pairs ...Pair[T]) Distribution[T] {
	return regroup(funcKeys(eq), fromSlice(pairs))
}

// Always creates a distribution where t always occurs.
func Always[T comparable](t T) Distribution[T] {
	return New(Pair[T]{Outcome: t, Prob: prob.One})
}

func AlwaysFunc[T any](eq func(a, b T) bool, t T) Distribution[T] {
	return NewFunc(eq, Pair[T]{Outcome: t, Prob: prob.One})
}

// Uniform spreads probability evenly over outcomes. Duplicates are merged, so
// Uniform(1, 1, 2) gives 1 a probability of 2/3.
func Uniform[T comparable](outcomes ...T) (Distribution[T], error) {
	return uniform(comparableKeys[T](), outcomes)
}

func UniformFunc[T any](eq func(a, b T) bool, outcomes ...T) (Distribution[T], error) {
	return uniform(funcKeys(eq), outcomes)
}

func uniform[T any](keys keying[T], outcomes []T) (Distribution[T], error) {
	if len(outcomes) == 0 {
		return Distribution[T]{}, ErrEmptyUniform
	}
	p := prob.One.DivScalar(float64(len(outcomes)))
	return regroup(keys, func(yield func(Pair[T]) bool) {
		for _, t := range outcomes {
			if !yield(Pair[T]{Outcome: t, Prob: p}) {
				return
			}
		}
	}), nil
}

// Pmf returns the probability of t, or prob.Zero when t is not an outcome.
func (d Distribution[T]) Pmf(t T) prob.Probability {
	if d.entries == nil {
		return prob.Zero
	}
	p, ok := d.entries.Get(t)
	if !ok {
		return prob.Zero
	}
	return p
}

// Len is the number of distinct outcomes.
func (d Distribution[T]) Len() int {
	if d.entries == nil {
		return 0
	}
	return d.entries.Len()
}

// All iterates outcomes and probabilities in first-occurrence order.
func (d Distribution[T]) All() iter.Seq2[T, prob.Probability] {
	if d.entries == nil {
		return func(func(T, prob.Probability) bool) {}
	}
	return d.entries.All()
}

func (d Distribution[T]) pairs() iter.Seq[Pair[T]] {
	return func(yield func(Pair[T]) bool) {
		for t, p := range d.All() {
			if !yield(Pair[T]{Outcome: t, Prob: p}) {
				return
			}
		}
	}
}

// Entries returns a copy of the (outcome, probability) pairs.
func (d Distribution[T]) Entries() []Pair[T] {
	out := make([]Pair[T], 0, d.Len())
	for p := range d.pairs() {
		out = append(out, p)
	}
	return out
}

func (d Distribution[T]) Outcomes() []T {
	out := make([]T, 0, d.Len())
	for t := range d.All() {
		out = append(out, t)
	}
	return out
}

// Total is the summed probability mass, 1 up to rounding for well-formed input.
func (d Distribution[T]) Total() prob.Probability {
	total := prob.Zero
	for _, p := range d.All() {
		total = total.Add(p)
	}
	return total
}

// Equal reports whether both distributions hold equal outcomes with identical
// probabilities in the same order.
func (d Distribution[T]) Equal(o Distribution[T]) bool {
	if d.Len() != o.Len() {
		return false
	}
	if d.Len() == 0 {
		return true
	}
	a, b := d.Entries(), o.Entries()
	for i := range a {
		if a[i].Prob != b[i].Prob || !d.keys.eq(a[i].Outcome, b[i].Outcome) {
			return false
		}
	}
	return true
}

func (d Distribution[T]) String() string {
	var b strings.Builder
	b.WriteByte('{')
	i := 0
	for t, p := range d.All() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v: %v", t, p)
		i++
	}
	b.WriteByte('}')
	return b.String()
}
