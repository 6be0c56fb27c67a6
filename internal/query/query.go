// Package query compiles textual events like "x >= 8 && x % 2 == 0" over an
// integer outcome and applies them to distributions.
package query

import (
	"errors"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/xtding233/gacha-odds/internal/dist"
	"github.com/xtding233/gacha-odds/internal/prob"
)

var ErrInvalidEvent = errors.New("invalid event expression")

// Env is what an event expression sees: the outcome as x.
type Env struct {
	X int `expr:"x"`
}

// Event is a compiled boolean expression over one outcome.
type Event struct {
	src     string
	program *vm.Program
}

// Compile checks src once; the result can be evaluated many times.
func Compile(src string) (*Event, error) {
	program, err := expr.Compile(src, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}
	return &Event{src: src, program: program}, nil
}

func (e *Event) String() string { return e.src }

// Match evaluates the event for outcome x.
func (e *Event) Match(x int) (bool, error) {
	out, err := expr.Run(e.program, Env{X: x})
	if err != nil {
		return false, fmt.Errorf("%w: %q at x=%d: %w", ErrInvalidEvent, e.src, x, err)
	}
	ok, isBool := out.(bool)
	if !isBool {
		return false, fmt.Errorf("%w: %q did not return a bool", ErrInvalidEvent, e.src)
	}
	return ok, nil
}

// matches evaluates e on every outcome up front so evaluation errors surface
// before conditioning.
func (e *Event) matches(d dist.Distribution[int]) (map[int]bool, error) {
	keep := make(map[int]bool, d.Len())
	for x := range d.All() {
		ok, err := e.Match(x)
		if err != nil {
			return nil, err
		}
		keep[x] = ok
	}
	return keep, nil
}

// Probability is P(event) under d.
func (e *Event) Probability(d dist.Distribution[int]) (prob.Probability, error) {
	keep, err := e.matches(d)
	if err != nil {
		return prob.Zero, err
	}
	total := prob.Zero
	for x, p := range d.All() {
		if keep[x] {
			total = total.Add(p)
		}
	}
	return total, nil
}

// Condition is d given the event.
func (e *Event) Condition(d dist.Distribution[int]) (dist.Distribution[int], error) {
	keep, err := e.matches(d)
	if err != nil {
		return dist.Distribution[int]{}, err
	}
	return d.Given(func(x int) bool { return keep[x] })
}
