package gacha

import (
	"errors"
	"fmt"

	"github.com/xtding233/gacha-odds/internal/prob"
)

var (
	ErrInvalidParams   = errors.New("invalid odds params")
	ErrUnknownGoal     = errors.New("unknown trial goal")
	ErrSupportTooLarge = errors.New("distribution support exceeds limit")
)

func validateProb(name string, p float64) (prob.Probability, error) {
	v, err := prob.New(p)
	if err != nil {
		return prob.Zero, fmt.Errorf("%w: %s: %w", ErrInvalidParams, name, err)
	}
	return v, nil
}
