package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/gacha-odds/internal/dist"
	"github.com/xtding233/gacha-odds/internal/pricing"
	"github.com/xtding233/gacha-odds/internal/prob"
)

func catalog(tax float64) pricing.Catalog {
	return pricing.Catalog{
		Currency: "CAD",
		TaxRate:  tax,
		Packs: []pricing.Pack{
			{ID: "A", Name: "Small", Tokens: 100, FirstTimeX2: true, PriceCents: 100},
			{ID: "B", Name: "Large", Tokens: 450, BonusTokens: 50, PriceCents: 400},
		},
	}
}

func TestMinCostAtLeastTokens(t *testing.T) {
	tests := []struct {
		name   string
		tax    float64
		first  pricing.FirstTimeState
		target int
		total  int
		tokens int
	}{
		{name: "nothing", target: 0, total: 0, tokens: 0},
		{name: "one small", target: 100, total: 100, tokens: 100},
		{name: "large beats five small", target: 450, total: 400, tokens: 500},
		{name: "large plus small", target: 600, total: 500, tokens: 600},
		{name: "tax on subtotal", tax: 0.13, target: 600, total: 565, tokens: 600},
		{name: "first time double", first: pricing.FirstTimeState{"A": true}, target: 200, total: 100, tokens: 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := pricing.MinCostAtLeastTokens(catalog(tt.tax), tt.target, tt.first)
			require.NoError(t, err)
			assert.Equal(t, tt.total, plan.TotalCents)
			assert.Equal(t, tt.tokens, plan.TotalTokens)
			assert.Equal(t, "CAD", plan.Currency)
		})
	}
}

func TestPlanGroupsPurchases(t *testing.T) {
	plan, err := pricing.MinCostAtLeastTokens(catalog(0), 1100, nil)
	require.NoError(t, err)
	assert.Equal(t, 900, plan.SubCents)

	qty := map[string]int{}
	for _, p := range plan.Purchases {
		qty[p.PackID] += p.Qty
		assert.Equal(t, p.Qty*p.UnitPrice, p.Subtotal)
	}
	assert.Equal(t, map[string]int{"A": 1, "B": 2}, qty)
}

func TestMaxTokensUnderBudget(t *testing.T) {
	plan, err := pricing.MaxTokensUnderBudget(catalog(0), 900, nil)
	require.NoError(t, err)
	assert.Equal(t, 1100, plan.TotalTokens)
	assert.Equal(t, 900, plan.TotalCents)

	// with 13% tax a subtotal above 796 overshoots 900
	plan, err = pricing.MaxTokensUnderBudget(catalog(0.13), 900, nil)
	require.NoError(t, err)
	assert.Equal(t, 800, plan.TotalTokens)
	assert.Equal(t, 791, plan.TotalCents)

	plan, err = pricing.MaxTokensUnderBudget(catalog(0), 0, nil)
	require.NoError(t, err)
	assert.Zero(t, plan.TotalTokens)
}

func TestTableMatchesPlans(t *testing.T) {
	tbl, err := pricing.NewTable(catalog(0.05), 2000, nil)
	require.NoError(t, err)
	assert.Equal(t, 2000, tbl.Limit())
	for _, n := range []int{1, 99, 100, 101, 499, 500, 1234, 2000} {
		plan := tbl.Plan(n)
		assert.GreaterOrEqual(t, plan.TotalTokens, n)
		assert.Equal(t, plan.TotalCents, tbl.TotalCents(n), "tokens %d", n)
		assert.Equal(t, plan.SubCents, tbl.SubtotalCents(n), "tokens %d", n)
	}
}

func TestSpend(t *testing.T) {
	tokens := dist.New(dist.P(100, 0.5), dist.P(600, 0.25), dist.P(700, 0.25))
	spend, err := pricing.Spend(catalog(0), tokens, nil)
	require.NoError(t, err)

	assert.Equal(t, prob.Probability(0.5), spend.Pmf(100))
	assert.Equal(t, prob.Probability(0.25), spend.Pmf(500))
	assert.Equal(t, prob.Probability(0.25), spend.Pmf(600))
	assert.InDelta(t, 325.0, dist.Expectation(spend), 1e-9)
}

func TestValidate(t *testing.T) {
	_, err := pricing.NewTable(pricing.Catalog{}, 10, nil)
	require.ErrorIs(t, err, pricing.ErrEmptyCatalog)

	bad := catalog(0)
	bad.Packs = append(bad.Packs, pricing.Pack{ID: "free", Tokens: 10})
	_, err = pricing.Spend(bad, dist.Always(10), nil)
	require.ErrorIs(t, err, pricing.ErrInvalidPack)

	_, err = pricing.NewTable(catalog(-0.1), 10, nil)
	require.ErrorIs(t, err, pricing.ErrInvalidPack)
}
