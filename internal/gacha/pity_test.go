package gacha_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/gacha-odds/internal/gacha"
	"github.com/xtding233/gacha-odds/internal/prob"
)

func ptr[T any](v T) *T { return &v }

func TestHardPityGuaranteesHit(t *testing.T) {
	m, err := gacha.NewModel(gacha.Params{PBase: 0, Pity: 10})
	require.NoError(t, err)

	d, err := m.FirstHit(t.Context())
	require.NoError(t, err)
	assert.Equal(t, prob.One, d.Pmf(10))
	assert.Equal(t, 1, d.Len())
}

func TestCushionShortensCycle(t *testing.T) {
	m, err := gacha.NewModel(gacha.Params{PBase: 0, Pity: 10, Cushion: 3})
	require.NoError(t, err)
	d, err := m.FirstHit(t.Context())
	require.NoError(t, err)
	assert.Equal(t, prob.One, d.Pmf(7))

	// cushion is clamped below pity
	m, err = gacha.NewModel(gacha.Params{PBase: 0, Pity: 10, Cushion: 50})
	require.NoError(t, err)
	d, err = m.FirstHit(t.Context())
	require.NoError(t, err)
	assert.Equal(t, prob.One, d.Pmf(1))
}

func TestFirstHitGeometricTruncated(t *testing.T) {
	m, err := gacha.NewModel(gacha.Params{PBase: 0.5, Pity: 3})
	require.NoError(t, err)
	d, err := m.FirstHit(t.Context())
	require.NoError(t, err)

	assert.Equal(t, prob.Probability(0.5), d.Pmf(1))
	assert.Equal(t, prob.Probability(0.25), d.Pmf(2))
	assert.Equal(t, prob.Probability(0.25), d.Pmf(3))
	assert.Equal(t, []int{1, 2, 3}, d.Outcomes())
}

func TestCertainHit(t *testing.T) {
	m, err := gacha.NewModel(gacha.Params{PBase: 1, Pity: 90})
	require.NoError(t, err)
	d, err := m.FirstHit(t.Context())
	require.NoError(t, err)
	assert.Equal(t, prob.One, d.Pmf(1))
}

func TestSoftRampLinear(t *testing.T) {
	m, err := gacha.NewModel(gacha.Params{
		PBase:      0.1,
		Pity:       10,
		StartAt:    ptr(4),
		TargetProb: ptr(0.5),
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.1, m.HitProb(0).Float64(), 1e-12)
	assert.InDelta(t, 0.1, m.HitProb(4).Float64(), 1e-12)
	assert.InDelta(t, 0.42, m.HitProb(8).Float64(), 1e-12)
	assert.Equal(t, prob.One, m.HitProb(9))
	assert.Equal(t, prob.One, m.HitProb(20))
}

func TestSoftRampStartPct(t *testing.T) {
	m, err := gacha.NewModel(gacha.Params{
		PBase:      0.1,
		Pity:       10,
		StartPct:   ptr(0.4),
		TargetProb: ptr(0.5),
		Easing:     string(gacha.EaseOutQuad),
	})
	require.NoError(t, err)
	// start = ceil(0.4*10) = 4; t = 0.8 eases to 0.96
	assert.InDelta(t, 0.1+0.4*0.96, m.HitProb(8).Float64(), 1e-12)
}

func TestSoftRampIncrement(t *testing.T) {
	m, err := gacha.NewModel(gacha.Params{
		PBase:     0.1,
		Pity:      10,
		StartAt:   ptr(2),
		Increment: ptr(0.2),
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.1, m.HitProb(1).Float64(), 1e-12)
	assert.InDelta(t, 0.3, m.HitProb(2).Float64(), 1e-12)
	assert.InDelta(t, 0.9, m.HitProb(5).Float64(), 1e-12)
	assert.Less(t, m.HitProb(6).Float64(), 1.0)
}

func TestNewModelErrors(t *testing.T) {
	tests := []struct {
		name    string
		params  gacha.Params
		wantErr error
	}{
		{name: "zero pity", params: gacha.Params{PBase: 0.1}, wantErr: gacha.ErrInvalidParams},
		{name: "p_base above one", params: gacha.Params{PBase: 1.5, Pity: 10}, wantErr: gacha.ErrInvalidParams},
		{name: "off prob above one", params: gacha.Params{PBase: 0.1, Pity: 10, OffProbs: []float64{2}}, wantErr: gacha.ErrInvalidParams},
		{
			name:    "target out of range",
			params:  gacha.Params{PBase: 0.1, Pity: 10, StartAt: ptr(3), TargetProb: ptr(1.0)},
			wantErr: gacha.ErrSoftPityConfig,
		},
		{
			name:    "start too late",
			params:  gacha.Params{PBase: 0.1, Pity: 10, StartAt: ptr(9), TargetProb: ptr(0.5)},
			wantErr: gacha.ErrSoftPityConfig,
		},
		{
			name:    "unknown easing",
			params:  gacha.Params{PBase: 0.1, Pity: 10, StartAt: ptr(3), TargetProb: ptr(0.5), Easing: "bounce"},
			wantErr: gacha.ErrSoftPityConfig,
		},
		{
			name:    "negative increment",
			params:  gacha.Params{PBase: 0.1, Pity: 10, StartAt: ptr(3), Increment: ptr(-0.1)},
			wantErr: gacha.ErrSoftPityConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gacha.NewModel(tt.params)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
