package gacha

import (
	"context"

	"github.com/xtding233/gacha-odds/internal/dist"
	"github.com/xtding233/gacha-odds/internal/prob"
)

// DefaultMaxStates bounds the number of live states while unrolling a model.
const DefaultMaxStates = 1 << 16

// Model is a validated pity model: the hit chance of every draw in a pity
// cycle, plus the optional banner layer deciding featured versus off-banner.
type Model struct {
	Pity    int
	Cushion int
	// hit[c] is the chance of a hit on a draw taken c draws after the last hit.
	hit    []prob.Probability
	banner *bannerRules

	MaxStates int
}

// NewModel validates p and precomputes the per-draw hit chances.
func NewModel(p Params) (*Model, error) {
	if p.Pity < 1 {
		return nil, ErrInvalidParams
	}
	if _, err := validateProb("p_base", p.PBase); err != nil {
		return nil, err
	}
	soft, err := p.softConfig()
	if err != nil {
		return nil, err
	}

	m := &Model{
		Pity:      p.Pity,
		Cushion:   min(max(p.Cushion, 0), p.Pity-1),
		hit:       make([]prob.Probability, p.Pity),
		MaxStates: DefaultMaxStates,
	}
	for c := range m.hit {
		raw := p.PBase
		switch {
		case c+1 >= p.Pity:
			raw = 1
		case soft != nil:
			raw = soft.rampProb(p.PBase, c)
		}
		if m.hit[c], err = validateProb("effective hit chance", raw); err != nil {
			return nil, err
		}
	}
	if m.banner, err = newBannerRules(p.OffProbs, p.MaxOff); err != nil {
		return nil, err
	}
	return m, nil
}

// HitProb is the chance of a hit on a draw taken count draws after the last hit.
func (m *Model) HitProb(count int) prob.Probability {
	if count < 0 {
		count = 0
	}
	if count >= len(m.hit) {
		return prob.One
	}
	return m.hit[count]
}

// branch is a two-way split that drops impossible sides, so certain draws do
// not leave zero-mass states behind.
func branch[S comparable](p prob.Probability, yes, no S) dist.Distribution[S] {
	switch {
	case p >= prob.One:
		return dist.Always(yes)
	case p <= prob.Zero:
		return dist.Always(no)
	}
	return dist.New(
		dist.Pair[S]{Outcome: yes, Prob: p},
		dist.Pair[S]{Outcome: no, Prob: p.Complement()},
	)
}

type cycle struct {
	Draws int
	Count int
	Done  bool
}

// FirstHit is the distribution of draws until the first hit, starting with
// Cushion draws already made since the last hit.
func (m *Model) FirstHit(ctx context.Context) (dist.Distribution[int], error) {
	start := cycle{Count: m.Cushion}
	d, err := unroll(ctx, start, func(s cycle) bool { return s.Done }, func(s cycle) dist.Distribution[cycle] {
		return branch(m.HitProb(s.Count),
			cycle{Draws: s.Draws + 1, Done: true},
			cycle{Draws: s.Draws + 1, Count: s.Count + 1},
		)
	}, m.Pity, m.MaxStates)
	if err != nil {
		return dist.Distribution[int]{}, err
	}
	return dist.Map(d, func(s cycle) int { return s.Draws }), nil
}

// unroll steps start until every outcome is done, taking at most limit steps
// and never holding more than maxStates distinct states. ctx is checked
// before every step.
func unroll[S comparable](ctx context.Context, start S, done func(S) bool, step func(S) dist.Distribution[S], limit, maxStates int) (dist.Distribution[S], error) {
	d := dist.Always(start)
	for range limit {
		if allDone(d, done) {
			return d, nil
		}
		if err := ctx.Err(); err != nil {
			return dist.Distribution[S]{}, err
		}
		d = dist.AndThen(d, func(s S) dist.Distribution[S] {
			if done(s) {
				return dist.Always(s)
			}
			return step(s)
		})
		if maxStates > 0 && d.Len() > maxStates {
			return dist.Distribution[S]{}, ErrSupportTooLarge
		}
	}
	if !allDone(d, done) {
		return dist.Distribution[S]{}, ErrSupportTooLarge
	}
	return d, nil
}

func allDone[S any](d dist.Distribution[S], done func(S) bool) bool {
	for s := range d.All() {
		if !done(s) {
			return false
		}
	}
	return true
}

// steps applies step exactly n times with no terminal states.
func steps[S comparable](ctx context.Context, start S, step func(S) dist.Distribution[S], n, maxStates int) (dist.Distribution[S], error) {
	d := dist.Always(start)
	for range n {
		if err := ctx.Err(); err != nil {
			return dist.Distribution[S]{}, err
		}
		d = dist.AndThen(d, step)
		if maxStates > 0 && d.Len() > maxStates {
			return dist.Distribution[S]{}, ErrSupportTooLarge
		}
	}
	return d, nil
}
