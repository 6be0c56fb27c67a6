package dist

import "github.com/xtding233/gacha-odds/internal/prob"

// Real is any outcome type that embeds into the reals.
type Real interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Addable is any comparable outcome type supporting +.
type Addable interface {
	Real | ~string
}

// Expectation is the expected value of the random variable whose realization
// is the outcome itself.
func Expectation[T Real](d Distribution[T]) float64 {
	return ExpectationFunc(d, func(t T) float64 { return float64(t) })
}

// ExpectationFunc is the expected value of f over d.
func ExpectationFunc[T any](d Distribution[T], f func(T) float64) float64 {
	var sum float64
	for t, p := range d.All() {
		sum += f(t) * p.Float64()
	}
	return sum
}

// Variance is E[(X - E[X])^2].
func Variance[T Real](d Distribution[T]) float64 {
	mean := Expectation(d)
	return ExpectationFunc(d, func(t T) float64 {
		dx := float64(t) - mean
		return dx * dx
	})
}

// Convolve is the distribution of x + y for independent x and y.
func Convolve[T Addable](x, y Distribution[T]) Distribution[T] {
	return convolve(comparableKeys[T](), x, y, func(a, b T) T { return a + b })
}

// ConvolveFunc is Convolve with a caller supplied addition and equality.
func ConvolveFunc[T any](x, y Distribution[T], add func(a, b T) T, eq func(a, b T) bool) Distribution[T] {
	return convolve(funcKeys(eq), x, y, add)
}

func convolve[T any](keys keying[T], x, y Distribution[T], add func(a, b T) T) Distribution[T] {
	return regroup(keys, func(yield func(Pair[T]) bool) {
		for a, pa := range x.All() {
			for b, pb := range y.All() {
				if !yield(Pair[T]{Outcome: add(a, b), Prob: pa.Mul(pb)}) {
					return
				}
			}
		}
	})
}

// Sum convolves d with itself n times; n <= 0 gives Always(0).
func Sum[T Addable](d Distribution[T], n int) Distribution[T] {
	var zero T
	acc := Always(zero)
	for range n {
		acc = Convolve(acc, d)
	}
	return acc
}

// Cdf returns P(X <= t).
func Cdf[T Real](d Distribution[T], t T) prob.Probability {
	total := prob.Zero
	for o, p := range d.All() {
		if o <= t {
			total = total.Add(p)
		}
	}
	return total
}
