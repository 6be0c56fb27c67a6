package pricing

import (
	"fmt"
	"slices"

	"github.com/xtding233/gacha-odds/internal/dist"
)

// MaxTableTokens bounds the token range of a Table and the cents range of a
// budget search.
const MaxTableTokens = 1 << 22

// Table answers minimum-cost queries for every token target up to Limit.
// Build it once for the largest target and query it per outcome.
type Table struct {
	cat   Catalog
	vars  []variant
	limit int
	// cost[t] is the minimum subtotal holding at least t tokens; pick[t] is
	// the variant bought last on that plan.
	cost []int
	pick []int
}

// NewTable validates cat and solves the unbounded knapsack up to limit tokens.
func NewTable(cat Catalog, limit int, first FirstTimeState) (*Table, error) {
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	if limit < 0 || limit > MaxTableTokens {
		return nil, fmt.Errorf("%w: %d", ErrTargetTooLarge, limit)
	}
	vars := cat.variants(first)
	t := &Table{
		cat:   cat,
		vars:  vars,
		limit: limit,
		cost:  make([]int, limit+1),
		pick:  make([]int, limit+1),
	}
	t.pick[0] = -1
	for n := 1; n <= limit; n++ {
		best, pick := -1, -1
		for i, v := range vars {
			c := v.price + t.cost[max(n-v.tokens, 0)]
			if best < 0 || c < best {
				best, pick = c, i
			}
		}
		t.cost[n], t.pick[n] = best, pick
	}
	return t, nil
}

func (t *Table) Limit() int { return t.limit }

func (t *Table) clamp(tokens int) int { return min(max(tokens, 0), t.limit) }

// SubtotalCents is the cheapest pre-tax spend covering tokens.
func (t *Table) SubtotalCents(tokens int) int { return t.cost[t.clamp(tokens)] }

// TotalCents is SubtotalCents with tax applied.
func (t *Table) TotalCents(tokens int) int {
	_, total := applyTax(t.SubtotalCents(tokens), t.cat.TaxRate)
	return total
}

// Plan reconstructs the cheapest purchases covering tokens.
func (t *Table) Plan(tokens int) Plan {
	var chosen []variant
	for n := t.clamp(tokens); n > 0; {
		v := t.vars[t.pick[n]]
		chosen = append(chosen, v)
		n = max(n-v.tokens, 0)
	}
	return plan(t.cat, chosen)
}

// MinCostAtLeastTokens finds the minimum-cost combination to obtain at least
// targetTokens.
func MinCostAtLeastTokens(cat Catalog, targetTokens int, first FirstTimeState) (Plan, error) {
	t, err := NewTable(cat, max(targetTokens, 0), first)
	if err != nil {
		return Plan{}, err
	}
	return t.Plan(targetTokens), nil
}

// MaxTokensUnderBudget computes the most tokens purchasable with budgetCents
// after tax.
func MaxTokensUnderBudget(cat Catalog, budgetCents int, first FirstTimeState) (Plan, error) {
	if err := cat.Validate(); err != nil {
		return Plan{}, err
	}
	if budgetCents <= 0 {
		return Plan{Currency: cat.Currency}, nil
	}
	if budgetCents > MaxTableTokens {
		return Plan{}, fmt.Errorf("%w: budget %d", ErrTargetTooLarge, budgetCents)
	}
	vars := cat.variants(first)
	// tokens[c] is the most tokens a subtotal of at most c buys.
	tokens := make([]int, budgetCents+1)
	choose := make([]int, budgetCents+1)
	best := 0
	for c := 0; c <= budgetCents; c++ {
		choose[c] = -1
		if c > 0 {
			tokens[c] = tokens[c-1]
		}
		for i, v := range vars {
			if v.price > c {
				continue
			}
			if got := tokens[c-v.price] + v.tokens; got > tokens[c] {
				tokens[c], choose[c] = got, i
			}
		}
		if _, total := applyTax(c, cat.TaxRate); total <= budgetCents {
			best = c
		}
	}

	var chosen []variant
	for c := best; c > 0; {
		if choose[c] < 0 {
			c--
			continue
		}
		v := vars[choose[c]]
		chosen = append(chosen, v)
		c -= v.price
	}
	return plan(cat, chosen), nil
}

// Spend maps a distribution over token costs to one over total cents.
func Spend(cat Catalog, tokens dist.Distribution[int], first FirstTimeState) (dist.Distribution[int], error) {
	outcomes := tokens.Outcomes()
	if len(outcomes) == 0 {
		return dist.Distribution[int]{}, nil
	}
	t, err := NewTable(cat, max(slices.Max(outcomes), 0), first)
	if err != nil {
		return dist.Distribution[int]{}, err
	}
	return dist.Map(tokens, t.TotalCents), nil
}
