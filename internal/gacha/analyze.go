package gacha

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/xtding233/gacha-odds/internal/dist"
)

// TrialGoal selects what a trial measures.
type TrialGoal string

const (
	// Draws until the first high-rarity Hit (ignores UP/off layer).
	GoalFirstHit TrialGoal = "first_hit"
	// Draws until the first UP (respects multi-off/guarantee banner rules).
	GoalFirstUP TrialGoal = "first_up"
	// Given a fixed budget N, count number of Hits or UPs (UPs when a banner is configured).
	GoalFixedBudget TrialGoal = "fixed_budget"
)

// Params describes the mechanics of one pool.
type Params struct {
	// Base probability far from pity.
	PBase float64

	// Soft/Hard pity configuration.
	Pity       int
	StartAt    *int     // optional: start index for ramp; ignored if nil
	StartPct   *float64 // optional: start percentage (0..1); unused if StartAt is provided
	TargetProb *float64 // optional: target probability at (Pity-1)
	Increment  *float64 // optional: per-draw increment from StartAt; takes precedence over TargetProb
	Easing     string   // "linear", "easeOutQuad", "easeInOutCubic"; default linear
	Cushion    int      // carry-over draws since last Hit when entering this pool

	// Banner multi-off configuration. If OffProbs is empty, banner is disabled.
	OffProbs []float64 // e.g., [0.5] or [0.5,0.4,0.3]
	MaxOff   int       // <=0 means defaults to len(OffProbs)
}

// softConfig builds the ramp config, or nil when no soft pity is configured.
func (p Params) softConfig() (*SoftPityConfig, error) {
	hasRamp := p.TargetProb != nil || p.Increment != nil
	if !hasRamp || (p.StartAt == nil && p.StartPct == nil) {
		return nil, nil
	}
	startAt := 0
	if p.StartAt != nil {
		startAt = *p.StartAt
	} else {
		sp := min(max(*p.StartPct, 0), 1)
		startAt = int(math.Ceil(sp * float64(p.Pity)))
		if startAt >= p.Pity {
			startAt = p.Pity - 1
		}
	}
	cfg := &SoftPityConfig{
		Pity:    p.Pity,
		StartAt: startAt,
		Easing:  Easing(p.Easing),
	}
	if p.Increment != nil {
		cfg.Increment = *p.Increment
		if cfg.Increment <= 0 {
			return nil, ErrSoftPityConfig
		}
	} else {
		cfg.TargetProb = *p.TargetProb
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Budget controls the number of draws used in GoalFixedBudget.
type Budget struct {
	NumDraws int
}

// Stats summarizes a distribution over draw or hit counts.
type Stats struct {
	Mean    float64 `json:"mean"`
	Var     float64 `json:"var"`
	StdDev  float64 `json:"stddev"`
	P50     float64 `json:"p50"`
	P90     float64 `json:"p90"`
	P99     float64 `json:"p99"`
	Min     int     `json:"min"`
	Max     int     `json:"max"`
	Support int     `json:"support"`
}

// Result is the exact distribution for one goal with its summary.
type Result struct {
	Goal  TrialGoal
	Dist  dist.Distribution[int]
	Stats Stats
}

// calcStats computes mean/variance/percentiles of an integer distribution.
func calcStats(d dist.Distribution[int]) Stats {
	entries := d.Entries()
	if len(entries) == 0 {
		return Stats{}
	}
	slices.SortFunc(entries, func(a, b dist.Pair[int]) int { return cmp.Compare(a.Outcome, b.Outcome) })
	xs := make([]float64, len(entries))
	ws := make([]float64, len(entries))
	for i, e := range entries {
		xs[i] = float64(e.Outcome)
		ws[i] = e.Prob.Float64()
	}
	variance := dist.Variance(d)
	return Stats{
		Mean:    dist.Expectation(d),
		Var:     variance,
		StdDev:  math.Sqrt(variance),
		P50:     stat.Quantile(0.50, stat.Empirical, xs, ws),
		P90:     stat.Quantile(0.90, stat.Empirical, xs, ws),
		P99:     stat.Quantile(0.99, stat.Empirical, xs, ws),
		Min:     entries[0].Outcome,
		Max:     entries[len(entries)-1].Outcome,
		Support: len(entries),
	}
}

// HitsWithin is the distribution of hits in n draws, counting only featured
// hits when a banner layer is configured.
func (m *Model) HitsWithin(ctx context.Context, n int) (dist.Distribution[int], error) {
	if n <= 0 {
		return dist.Always(0), nil
	}
	start := bannerState{Count: m.Cushion}
	var step func(bannerState) dist.Distribution[bannerState]
	if m.banner == nil {
		step = func(s bannerState) dist.Distribution[bannerState] {
			return branch(m.HitProb(s.Count),
				bannerState{Ups: s.Ups + 1},
				bannerState{Count: s.Count + 1, Ups: s.Ups},
			)
		}
	} else {
		countUp := func(s bannerState) bannerState {
			s.Ups++
			return s
		}
		step = func(s bannerState) dist.Distribution[bannerState] { return m.pull(s, countUp) }
	}
	d, err := steps(ctx, start, step, n, m.MaxStates)
	if err != nil {
		return dist.Distribution[int]{}, err
	}
	return dist.Map(d, func(s bannerState) int { return s.Ups }), nil
}

// Distribution returns the exact distribution measured by goal.
func (m *Model) Distribution(ctx context.Context, goal TrialGoal, budget *Budget) (dist.Distribution[int], error) {
	switch goal {
	case GoalFirstHit:
		return m.FirstHit(ctx)
	case GoalFirstUP:
		return m.FirstUp(ctx)
	case GoalFixedBudget:
		n := 0
		if budget != nil {
			n = budget.NumDraws
		}
		return m.HitsWithin(ctx, n)
	}
	return dist.Distribution[int]{}, fmt.Errorf("%w: %q", ErrUnknownGoal, goal)
}

// Analyze computes the exact distribution for goal and summarizes it.
func Analyze(ctx context.Context, p Params, goal TrialGoal, budget *Budget) (Result, error) {
	m, err := NewModel(p)
	if err != nil {
		return Result{}, err
	}
	return m.Analyze(ctx, goal, budget)
}

func (m *Model) Analyze(ctx context.Context, goal TrialGoal, budget *Budget) (Result, error) {
	d, err := m.Distribution(ctx, goal, budget)
	if err != nil {
		return Result{}, err
	}
	return Result{Goal: goal, Dist: d, Stats: calcStats(d)}, nil
}
