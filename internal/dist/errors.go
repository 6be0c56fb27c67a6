package dist

import "errors"

var (
	// ErrEmptyUniform is returned when a uniform distribution is requested over no outcomes.
	ErrEmptyUniform = errors.New("uniform distribution needs at least one outcome")
	// ErrImpossibleCondition is returned by Given when the event has zero probability.
	ErrImpossibleCondition = errors.New("conditioning event has zero probability")
)
