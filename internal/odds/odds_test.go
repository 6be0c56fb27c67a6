package odds_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/gacha-odds/internal/gacha"
	"github.com/xtding233/gacha-odds/internal/game"
	"github.com/xtding233/gacha-odds/internal/odds"
)

func newService(t *testing.T) *odds.Service {
	t.Helper()
	l := game.NewLoader(t.TempDir())
	path := l.Paths().GamePath("coin")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	body := `version: "7"
draw:
  p_base: 0.5
  pity: 3
banner:
  off_probs: [0.5]
  max_off: 1
tokens:
  name: gem
  per_draw: 100
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return &odds.Service{Resolver: l}
}

func TestPullFirstHit(t *testing.T) {
	svc := newService(t)
	rep, err := svc.Pull(t.Context(), odds.PullRequest{Game: "coin", Goal: gacha.GoalFirstHit})
	require.NoError(t, err)

	assert.Equal(t, "7", rep.Version)
	require.Len(t, rep.PMF, 3)
	assert.Equal(t, odds.Mass{Outcome: 1, P: 0.5, Cum: 0.5}, rep.PMF[0])
	assert.InDelta(t, 1.0, rep.PMF[2].Cum, 1e-12)
	assert.InDelta(t, 1.75, rep.Stats.Mean, 1e-12)
	assert.InDelta(t, 175.0, rep.ExpectedTokens, 1e-9)
	assert.Equal(t, "gem", rep.Token)
}

func TestPullDefaultsToFirstUp(t *testing.T) {
	svc := newService(t)
	rep, err := svc.Pull(t.Context(), odds.PullRequest{Game: "coin"})
	require.NoError(t, err)
	assert.Equal(t, gacha.GoalFirstUP, rep.Goal)
	// half the time the first hit is off-banner and a second cycle follows
	assert.InDelta(t, 1.75*1.5, rep.Stats.Mean, 1e-12)
}

func TestPullFixedBudgetHasNoTokenCost(t *testing.T) {
	svc := newService(t)
	rep, err := svc.Pull(t.Context(), odds.PullRequest{Game: "coin", Goal: gacha.GoalFixedBudget, Draws: 6})
	require.NoError(t, err)
	assert.Zero(t, rep.ExpectedTokens)
	// pity 3 with one off-banner guarantee forces a featured hit by draw 6
	assert.Equal(t, 1, rep.Stats.Min)
}

func TestPullErrors(t *testing.T) {
	svc := newService(t)

	_, err := svc.Pull(t.Context(), odds.PullRequest{})
	require.ErrorIs(t, err, odds.ErrBadRequest)
	assert.True(t, odds.IsClientError(err))

	_, err = svc.Pull(t.Context(), odds.PullRequest{Game: "coin", Goal: "sometimes"})
	require.ErrorIs(t, err, gacha.ErrUnknownGoal)
	assert.True(t, odds.IsClientError(err))

	_, err = svc.Pull(t.Context(), odds.PullRequest{Game: "missing"})
	require.Error(t, err)
	assert.True(t, odds.IsClientError(err), "missing game has no pity configured: %v", err)

	svc.MaxStates = 2
	_, err = svc.Pull(t.Context(), odds.PullRequest{Game: "coin", Goal: gacha.GoalFixedBudget, Draws: 30})
	require.ErrorIs(t, err, gacha.ErrSupportTooLarge)
}

func TestDice(t *testing.T) {
	svc := &odds.Service{}
	rep, err := svc.Dice("1d6", "x <= 4")
	require.NoError(t, err)
	assert.Equal(t, "1d6", rep.Roll)
	assert.InDelta(t, 2.5, rep.Expectation, 1e-12)
	assert.InDelta(t, 4.0/6.0, rep.PGiven, 1e-12)
	assert.Len(t, rep.PMF, 4)

	rep, err = svc.Dice("2d6", "")
	require.NoError(t, err)
	assert.InDelta(t, 7.0, rep.Expectation, 1e-12)
	assert.InDelta(t, 35.0/6.0, rep.Variance, 1e-9)
}

func TestDiceErrors(t *testing.T) {
	svc := &odds.Service{}
	for _, tc := range []struct{ roll, given string }{
		{"", ""},
		{"2d0", ""},
		{"1d6", "x >"},
		{"1d6", "x > 6"},
	} {
		_, err := svc.Dice(tc.roll, tc.given)
		require.Error(t, err, "%q given %q", tc.roll, tc.given)
		assert.True(t, odds.IsClientError(err))
	}
	assert.False(t, odds.IsClientError(errors.New("disk on fire")))
}

func TestPullSpendAndBudget(t *testing.T) {
	svc := newService(t)
	l := svc.Resolver.(*game.Loader)
	path := l.Paths().PoolPath("coin", "shop")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`store:
  currency: CAD
  packs:
    - {id: "p", tokens: 100, price_cents: 200}
    - {id: "big", tokens: 250, price_cents: 550, first_time_x2: true}
`), 0o644))

	rep, err := svc.Pull(t.Context(), odds.PullRequest{Game: "coin", Pool: "shop", Goal: gacha.GoalFirstHit, BudgetCents: 450})
	require.NoError(t, err)
	assert.Equal(t, "CAD", rep.Currency)
	// 1, 2 or 3 draws cost 100, 200 or 300 gems, bought as 100-gem packs
	assert.InDelta(t, 350.0, rep.ExpectedCents, 1e-9)
	require.NotNil(t, rep.Budget)
	assert.Equal(t, 200, rep.Budget.Plan.TotalTokens)
	assert.Equal(t, 2, rep.Budget.Draws)
	assert.InDelta(t, 0.75, rep.Budget.PWithin, 1e-12)

	// a first-time doubled big pack covers every outcome for 550
	rep, err = svc.Pull(t.Context(), odds.PullRequest{Game: "coin", Pool: "shop", Goal: gacha.GoalFirstHit, FirstTime: []string{"big"}})
	require.NoError(t, err)
	assert.InDelta(t, 0.5*200+0.25*400+0.25*550, rep.ExpectedCents, 1e-9)
	assert.Nil(t, rep.Budget)
}

func TestPullRejectsOversizedBudget(t *testing.T) {
	svc := newService(t)
	for _, draws := range []int{-1, odds.DefaultMaxDraws + 1, 200000} {
		start := time.Now()
		_, err := svc.Pull(t.Context(), odds.PullRequest{Game: "coin", Goal: gacha.GoalFixedBudget, Draws: draws})
		require.ErrorIs(t, err, odds.ErrBadRequest, "draws=%d", draws)
		assert.Less(t, time.Since(start), 100*time.Millisecond)
	}

	svc.MaxDraws = 10
	_, err := svc.Pull(t.Context(), odds.PullRequest{Game: "coin", Goal: gacha.GoalFixedBudget, Draws: 11})
	require.ErrorIs(t, err, odds.ErrBadRequest)
	_, err = svc.Pull(t.Context(), odds.PullRequest{Game: "coin", Goal: gacha.GoalFixedBudget, Draws: 10})
	require.NoError(t, err)
}

func TestPullHonorsContext(t *testing.T) {
	svc := newService(t)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err := svc.Pull(ctx, odds.PullRequest{Game: "coin", Goal: gacha.GoalFixedBudget, Draws: 500})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, odds.IsClientError(err))
}
