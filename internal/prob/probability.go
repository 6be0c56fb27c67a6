// Package prob holds the probability value type shared by the distribution engine.
package prob

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidProbability = errors.New("invalid probability; must be 0..1")

// Probability is a light container for a probability magnitude.
//
// Only New and MustNew check the range. Arithmetic never re-validates, so values
// produced by merging, normalizing or multiplying may drift outside [0, 1] by
// floating-point error; callers renormalize explicitly when they need to.
// A direct Probability(x) conversion is unchecked as well; use New for input.
type Probability float64

const (
	Zero Probability = 0
	One  Probability = 1
)

// Validate reports whether v can be used as a probability.
func Validate(v float64) error {
	// NaN fails every comparison, and ±Inf is out of range.
	if math.IsNaN(v) || v < 0 || v > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidProbability, v)
	}
	return nil
}

// New converts v into a Probability, failing when v lies outside [0, 1].
func New(v float64) (Probability, error) {
	if err := Validate(v); err != nil {
		return Zero, err
	}
	return Probability(v), nil
}

// MustNew is like New but panics on an out-of-range value.
func MustNew(v float64) Probability {
	p, err := New(v)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Probability) Float64() float64 { return float64(p) }

func (p Probability) Add(q Probability) Probability { return p + q }

func (p Probability) Sub(q Probability) Probability { return p - q }

func (p Probability) Mul(q Probability) Probability { return p * q }

// Div divides by another probability. Dividing by Zero yields Inf or NaN.
func (p Probability) Div(q Probability) Probability { return p / q }

// DivScalar divides by a plain real; used when renormalizing by a mass total.
func (p Probability) DivScalar(f float64) Probability { return Probability(float64(p) / f) }

// Complement returns 1 - p.
func (p Probability) Complement() Probability { return One - p }

func (p Probability) String() string {
	return fmt.Sprintf("%g", float64(p))
}
