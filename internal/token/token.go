package token

import "github.com/xtding233/gacha-odds/internal/dist"

// Token defines how many units are required per draw.
type Token struct {
	Name       string // e.g. "Stellar Jade", "Star Stone"
	PerDraw    int    // tokens per single draw, e.g. 160, 250
	PerTenDraw int    // optional discounted ten-pull price; 0 means 10 * PerDraw
	PerNDraw   int    // optional discounted N-pull price
	N          int    // bundle size for PerNDraw; <= 1 disables it
}

// TokensForDraws returns how many tokens n draws cost, buying bundles first.
func (t Token) TokensForDraws(n int) int {
	if n <= 0 {
		return 0
	}
	if t.PerNDraw > 0 && t.N > 1 && n >= t.N {
		return n/t.N*t.PerNDraw + n%t.N*t.PerDraw
	}
	if t.PerTenDraw > 0 && n >= 10 {
		return n/10*t.PerTenDraw + n%10*t.PerDraw
	}
	return n * t.PerDraw
}

// Cost maps a distribution over draw counts to a distribution over token spend.
func (t Token) Cost(draws dist.Distribution[int]) dist.Distribution[int] {
	return dist.Map(draws, t.TokensForDraws)
}

// ExpectedCost is the expected token spend for draws.
func (t Token) ExpectedCost(draws dist.Distribution[int]) float64 {
	return dist.Expectation(t.Cost(draws))
}

// DrawsFor is the most draws tokens pays for. Bundle prices can make cost
// non-monotonic in draws, so every count up to the cheapest-rate bound is tried.
func (t Token) DrawsFor(tokens int) int {
	if t.PerDraw <= 0 || tokens <= 0 {
		return 0
	}
	rate := float64(t.PerDraw)
	if t.PerTenDraw > 0 {
		rate = min(rate, float64(t.PerTenDraw)/10)
	}
	if t.PerNDraw > 0 && t.N > 1 {
		rate = min(rate, float64(t.PerNDraw)/float64(t.N))
	}
	limit := int(float64(tokens)/rate) + 1
	best := 0
	for n := 1; n <= limit; n++ {
		if t.TokensForDraws(n) <= tokens {
			best = n
		}
	}
	return best
}
