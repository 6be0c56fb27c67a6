package gacha_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/gacha-odds/internal/gacha"
	"github.com/xtding233/gacha-odds/internal/prob"
)

func TestFirstUpFiftyFifty(t *testing.T) {
	m, err := gacha.NewModel(gacha.Params{PBase: 1, Pity: 1, OffProbs: []float64{0.5}, MaxOff: 1})
	require.NoError(t, err)

	d, err := m.FirstUp(t.Context())
	require.NoError(t, err)
	assert.Equal(t, prob.Probability(0.5), d.Pmf(1))
	assert.Equal(t, prob.Probability(0.5), d.Pmf(2))
}

func TestFirstUpTwoOffsBeforeGuarantee(t *testing.T) {
	m, err := gacha.NewModel(gacha.Params{PBase: 1, Pity: 1, OffProbs: []float64{0.5}, MaxOff: 2})
	require.NoError(t, err)

	d, err := m.FirstUp(t.Context())
	require.NoError(t, err)
	assert.Equal(t, prob.Probability(0.5), d.Pmf(1))
	assert.Equal(t, prob.Probability(0.25), d.Pmf(2))
	assert.Equal(t, prob.Probability(0.25), d.Pmf(3))
}

func TestFirstUpPerStreakOffProbs(t *testing.T) {
	// first off chance 0.5, then 0.2 repeating; guarantee after 3 offs
	m, err := gacha.NewModel(gacha.Params{PBase: 1, Pity: 1, OffProbs: []float64{0.5, 0.2}, MaxOff: 3})
	require.NoError(t, err)

	d, err := m.FirstUp(t.Context())
	require.NoError(t, err)
	assert.InDelta(t, 0.5, d.Pmf(1).Float64(), 1e-12)
	assert.InDelta(t, 0.4, d.Pmf(2).Float64(), 1e-12)
	assert.InDelta(t, 0.08, d.Pmf(3).Float64(), 1e-12)
	assert.InDelta(t, 0.02, d.Pmf(4).Float64(), 1e-12)
	assert.Equal(t, prob.Zero, d.Pmf(5))
}

func TestFirstUpWithoutBannerIsFirstHit(t *testing.T) {
	m, err := gacha.NewModel(gacha.Params{PBase: 0.5, Pity: 3})
	require.NoError(t, err)

	up, err := m.FirstUp(t.Context())
	require.NoError(t, err)
	hit, err := m.FirstHit(t.Context())
	require.NoError(t, err)
	assert.True(t, up.Equal(hit))
}

func TestFirstUpRealisticBanner(t *testing.T) {
	m, err := gacha.NewModel(gacha.Params{
		PBase:      0.006,
		Pity:       90,
		StartAt:    ptr(73),
		TargetProb: ptr(0.5),
		OffProbs:   []float64{0.5},
	})
	require.NoError(t, err)

	hit, err := m.FirstHit(t.Context())
	require.NoError(t, err)
	up, err := m.FirstUp(t.Context())
	require.NoError(t, err)

	assert.InDelta(t, 1.0, hit.Total().Float64(), 1e-9)
	assert.InDelta(t, 1.0, up.Total().Float64(), 1e-9)
	assert.Equal(t, 90, hit.Len())
	assert.Equal(t, prob.Zero, up.Pmf(181))
	assert.Greater(t, up.Pmf(180).Float64(), 0.0)
}
