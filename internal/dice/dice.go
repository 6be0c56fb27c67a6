// Package dice computes exact distributions of dice roll totals.
package dice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xtding233/gacha-odds/internal/dist"
)

var (
	// ErrMissingDice indicates a roll had no dice specified.
	ErrMissingDice = errors.New("at least one die must be provided")
	// ErrInvalidDiceSpec indicates a die specification has invalid fields.
	ErrInvalidDiceSpec = errors.New("dice must have positive sides and count")
)

const (
	// MaxDice bounds the number of dice in one roll.
	MaxDice = 100
	// MaxSides bounds the faces of a single die.
	MaxSides = 1000
	// MaxFaces bounds Count*Sides summed over a roll, which sizes the support
	// and the convolution work.
	MaxFaces = 2000
)

// Spec is Count dice with Sides faces each.
type Spec struct {
	Count int
	Sides int
}

func (s Spec) String() string { return fmt.Sprintf("%dd%d", s.Count, s.Sides) }

// Roll is a set of dice plus a flat modifier, e.g. 2d6+1d8+3.
type Roll struct {
	Dice     []Spec
	Modifier int
}

func (r Roll) String() string {
	parts := make([]string, 0, len(r.Dice)+1)
	for _, s := range r.Dice {
		parts = append(parts, s.String())
	}
	out := strings.Join(parts, "+")
	switch {
	case r.Modifier > 0:
		out += "+" + strconv.Itoa(r.Modifier)
	case r.Modifier < 0:
		out += strconv.Itoa(r.Modifier)
	}
	return out
}

// Parse reads notation like "2d6+1d8-1". A bare "d20" means one die.
func Parse(s string) (Roll, error) {
	s = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "")
	if s == "" {
		return Roll{}, ErrMissingDice
	}
	s = strings.ReplaceAll(s, "-", "+-")

	var r Roll
	for _, term := range strings.Split(s, "+") {
		if term == "" {
			continue
		}
		count, sides, isDie := strings.Cut(term, "d")
		if !isDie {
			v, err := strconv.Atoi(term)
			if err != nil {
				return Roll{}, fmt.Errorf("%w: %q", ErrInvalidDiceSpec, term)
			}
			r.Modifier += v
			continue
		}
		n := 1
		if count != "" {
			v, err := strconv.Atoi(count)
			if err != nil {
				return Roll{}, fmt.Errorf("%w: %q", ErrInvalidDiceSpec, term)
			}
			n = v
		}
		f, err := strconv.Atoi(sides)
		if err != nil {
			return Roll{}, fmt.Errorf("%w: %q", ErrInvalidDiceSpec, term)
		}
		r.Dice = append(r.Dice, Spec{Count: n, Sides: f})
	}
	if err := r.validate(); err != nil {
		return Roll{}, err
	}
	return r, nil
}

func (r Roll) validate() error {
	if len(r.Dice) == 0 {
		return ErrMissingDice
	}
	total, faces := 0, 0
	for _, s := range r.Dice {
		if s.Sides <= 0 || s.Count <= 0 {
			return fmt.Errorf("%w: %s", ErrInvalidDiceSpec, s)
		}
		if s.Sides > MaxSides {
			return fmt.Errorf("%w: more than %d sides", ErrInvalidDiceSpec, MaxSides)
		}
		total += s.Count
		if total > MaxDice {
			return fmt.Errorf("%w: more than %d dice", ErrInvalidDiceSpec, MaxDice)
		}
		faces += s.Count * s.Sides
	}
	if faces > MaxFaces {
		return fmt.Errorf("%w: more than %d faces in total", ErrInvalidDiceSpec, MaxFaces)
	}
	return nil
}

// Die is the uniform distribution over 1..sides.
func Die(sides int) (dist.Distribution[int], error) {
	if sides <= 0 || sides > MaxSides {
		return dist.Distribution[int]{}, fmt.Errorf("%w: d%d", ErrInvalidDiceSpec, sides)
	}
	faces := make([]int, sides)
	for i := range faces {
		faces[i] = i + 1
	}
	return dist.Uniform(faces...)
}

// Distribution is the exact distribution of the roll's total.
//
// Dice specs are convolved in slice order, so outcomes appear in the order the
// totals are first reached.
func (r Roll) Distribution() (dist.Distribution[int], error) {
	if err := r.validate(); err != nil {
		return dist.Distribution[int]{}, err
	}
	total := dist.Always(0)
	for _, s := range r.Dice {
		die, err := Die(s.Sides)
		if err != nil {
			return dist.Distribution[int]{}, err
		}
		total = dist.Convolve(total, dist.Sum(die, s.Count))
	}
	if r.Modifier == 0 {
		return total, nil
	}
	return dist.Map(total, func(v int) int { return v + r.Modifier }), nil
}
