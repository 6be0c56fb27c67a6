// Package odds answers odds questions for the server and CLI: pity pull
// distributions from game configs, and dice rolls with optional events.
package odds

import (
	"context"
	"errors"
	"fmt"

	"github.com/xtding233/gacha-odds/internal/dice"
	"github.com/xtding233/gacha-odds/internal/dist"
	"github.com/xtding233/gacha-odds/internal/gacha"
	"github.com/xtding233/gacha-odds/internal/game"
	"github.com/xtding233/gacha-odds/internal/pricing"
	"github.com/xtding233/gacha-odds/internal/query"
)

var ErrBadRequest = errors.New("bad request")

// DefaultMaxDraws bounds a fixed draw budget when Service.MaxDraws is unset.
const DefaultMaxDraws = 1000

// Mass is one row of a probability mass function.
type Mass struct {
	Outcome int     `json:"outcome"`
	P       float64 `json:"p"`
	Cum     float64 `json:"cum"`
}

func table(d dist.Distribution[int]) []Mass {
	rows := make([]Mass, 0, d.Len())
	var cum float64
	for x, p := range d.All() {
		cum += p.Float64()
		rows = append(rows, Mass{Outcome: x, P: p.Float64(), Cum: cum})
	}
	return rows
}

// Service resolves configs and builds reports.
type Service struct {
	Resolver  game.Resolver
	MaxStates int
	MaxDraws  int
}

func (s *Service) maxDraws() int {
	if s.MaxDraws > 0 {
		return s.MaxDraws
	}
	return DefaultMaxDraws
}

// PullRequest selects a game pool and what to measure.
type PullRequest struct {
	Game      string
	Pool      string
	Goal      gacha.TrialGoal
	Draws     int
	Overrides game.Overrides
	// BudgetCents, when set, asks for the chance to reach the goal with
	// what that much money buys.
	BudgetCents int
	// FirstTime lists packs whose first-time bonus is still available.
	FirstTime []string
}

type PullReport struct {
	Game           string          `json:"game"`
	Pool           string          `json:"pool,omitempty"`
	Goal           gacha.TrialGoal `json:"goal"`
	Version        string          `json:"version,omitempty"`
	Stats          gacha.Stats     `json:"stats"`
	PMF            []Mass          `json:"pmf"`
	Token          string          `json:"token,omitempty"`
	ExpectedTokens float64         `json:"expected_tokens,omitempty"`
	Currency       string          `json:"currency,omitempty"`
	ExpectedCents  float64         `json:"expected_cents,omitempty"`
	Budget         *BudgetReport   `json:"budget,omitempty"`
}

// BudgetReport is what a money budget buys and the chance it is enough.
type BudgetReport struct {
	Cents   int          `json:"cents"`
	Plan    pricing.Plan `json:"plan"`
	Draws   int          `json:"draws"`
	PWithin float64      `json:"p_within"`
}

// Pull computes the exact distribution for req. Long computations stop when
// ctx is done.
func (s *Service) Pull(ctx context.Context, req PullRequest) (PullReport, error) {
	if req.Game == "" {
		return PullReport{}, fmt.Errorf("%w: game is required", ErrBadRequest)
	}
	if req.Draws < 0 || req.Draws > s.maxDraws() {
		return PullReport{}, fmt.Errorf("%w: draws must be in [0,%d]", ErrBadRequest, s.maxDraws())
	}
	if req.Goal == "" {
		req.Goal = gacha.GoalFirstUP
	}
	_, ep, err := s.Resolver.Resolve(req.Game, req.Pool, req.Overrides)
	if err != nil {
		return PullReport{}, err
	}
	m, err := gacha.NewModel(ep.GachaParams())
	if err != nil {
		return PullReport{}, err
	}
	if s.MaxStates > 0 {
		m.MaxStates = s.MaxStates
	}
	res, err := m.Analyze(ctx, req.Goal, &gacha.Budget{NumDraws: req.Draws})
	if err != nil {
		return PullReport{}, err
	}

	rep := PullReport{
		Game:    req.Game,
		Pool:    req.Pool,
		Goal:    res.Goal,
		Version: ep.Version,
		Stats:   res.Stats,
		PMF:     table(res.Dist),
		Token:   ep.Tokens.Name,
	}
	// token spend only makes sense when the outcome counts draws
	if req.Goal == gacha.GoalFixedBudget || ep.Tokens.PerDraw <= 0 {
		return rep, nil
	}
	cost := ep.Tokens.Cost(res.Dist)
	rep.ExpectedTokens = dist.Expectation(cost)
	if ep.Store == nil {
		return rep, nil
	}

	first := make(pricing.FirstTimeState, len(req.FirstTime))
	for _, id := range req.FirstTime {
		first[id] = true
	}
	spend, err := pricing.Spend(*ep.Store, cost, first)
	if err != nil {
		return PullReport{}, err
	}
	rep.Currency = ep.Store.Currency
	rep.ExpectedCents = dist.Expectation(spend)

	if req.BudgetCents > 0 {
		plan, err := pricing.MaxTokensUnderBudget(*ep.Store, req.BudgetCents, first)
		if err != nil {
			return PullReport{}, err
		}
		draws := ep.Tokens.DrawsFor(plan.TotalTokens)
		rep.Budget = &BudgetReport{
			Cents:   req.BudgetCents,
			Plan:    plan,
			Draws:   draws,
			PWithin: dist.Cdf(res.Dist, draws).Float64(),
		}
	}
	return rep, nil
}

type DiceReport struct {
	Roll        string  `json:"roll"`
	Given       string  `json:"given,omitempty"`
	PGiven      float64 `json:"p_given,omitempty"`
	Expectation float64 `json:"expectation"`
	Variance    float64 `json:"variance"`
	PMF         []Mass  `json:"pmf"`
}

// Dice computes the distribution of a roll's total, conditioned on given when set.
func (s *Service) Dice(roll, given string) (DiceReport, error) {
	r, err := dice.Parse(roll)
	if err != nil {
		return DiceReport{}, err
	}
	d, err := r.Distribution()
	if err != nil {
		return DiceReport{}, err
	}
	rep := DiceReport{Roll: r.String()}
	if given != "" {
		ev, err := query.Compile(given)
		if err != nil {
			return DiceReport{}, err
		}
		p, err := ev.Probability(d)
		if err != nil {
			return DiceReport{}, err
		}
		if d, err = ev.Condition(d); err != nil {
			return DiceReport{}, err
		}
		rep.Given = ev.String()
		rep.PGiven = p.Float64()
	}
	rep.Expectation = dist.Expectation(d)
	rep.Variance = dist.Variance(d)
	rep.PMF = table(d)
	return rep, nil
}

// IsClientError reports whether err was caused by the request rather than the server.
func IsClientError(err error) bool {
	for _, target := range []error{
		ErrBadRequest,
		game.ErrInvalidName,
		game.ErrInvalidConfig,
		gacha.ErrInvalidParams,
		gacha.ErrSoftPityConfig,
		gacha.ErrUnknownGoal,
		gacha.ErrSupportTooLarge,
		dice.ErrMissingDice,
		dice.ErrInvalidDiceSpec,
		query.ErrInvalidEvent,
		dist.ErrImpossibleCondition,
		pricing.ErrTargetTooLarge,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
