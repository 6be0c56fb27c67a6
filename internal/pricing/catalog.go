// Package pricing turns token amounts into store purchases: the cheapest
// set of packs that covers a token target, and the spend distribution that
// follows from a distribution over token costs.
package pricing

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrEmptyCatalog = errors.New("catalog has no purchasable packs")
	ErrInvalidPack  = errors.New("invalid pack")
	// ErrTargetTooLarge is returned when a token target exceeds MaxTableTokens.
	ErrTargetTooLarge = errors.New("token target too large")
)

// Pack models a purchasable SKU in the store.
type Pack struct {
	ID          string // SKU id, e.g., "6480"
	Name        string // display name, e.g., "6480 Pack"
	Tokens      int    // base tokens granted
	BonusTokens int    // permanent extra tokens (non-first-time)
	FirstTimeX2 bool   // first purchase doubles base Tokens (not BonusTokens)
	PriceCents  int    // price in minor units
}

// Catalog is a regional product catalog and tax info.
type Catalog struct {
	Currency string // ISO code, e.g., "CAD"
	// TaxRate is applied on the subtotal; use 0 for tax-inclusive prices.
	TaxRate float64
	Packs   []Pack
}

// FirstTimeState marks packs whose first-time x2 is still available.
type FirstTimeState map[string]bool

// Plan summarizes a purchase plan.
type Plan struct {
	Purchases   []Purchase `json:"purchases,omitempty"`
	SubCents    int        `json:"sub_cents"`
	TaxCents    int        `json:"tax_cents"`
	TotalCents  int        `json:"total_cents"`
	TotalTokens int        `json:"total_tokens"`
	Currency    string     `json:"currency,omitempty"`
}

// Purchase is one line item in the plan.
type Purchase struct {
	PackID     string `json:"pack_id"`
	Name       string `json:"name"`
	Qty        int    `json:"qty"`
	UnitPrice  int    `json:"unit_price"`
	UnitTokens int    `json:"unit_tokens"` // x2/bonus applied
	Subtotal   int    `json:"subtotal"`
}

// Validate checks packs and tax.
func (c Catalog) Validate() error {
	if c.TaxRate < 0 || math.IsNaN(c.TaxRate) {
		return fmt.Errorf("%w: tax rate %v", ErrInvalidPack, c.TaxRate)
	}
	if len(c.Packs) == 0 {
		return ErrEmptyCatalog
	}
	for _, p := range c.Packs {
		if p.Tokens+p.BonusTokens <= 0 || p.Tokens < 0 || p.BonusTokens < 0 || p.PriceCents <= 0 {
			return fmt.Errorf("%w: %q", ErrInvalidPack, p.ID)
		}
	}
	return nil
}

// variant is one way to buy a pack: its first-time x2 or its normal price.
type variant struct {
	id, name string
	tokens   int
	price    int
}

// variants expands packs into effective variants. A first-time x2 variant is
// treated as repeatable, so plans are exact only for one x2 per pack.
func (c Catalog) variants(first FirstTimeState) []variant {
	var out []variant
	for _, p := range c.Packs {
		if p.FirstTimeX2 && first[p.ID] {
			out = append(out, variant{
				id:     p.ID + "#x2",
				name:   p.Name + " (x2)",
				tokens: p.Tokens*2 + p.BonusTokens,
				price:  p.PriceCents,
			})
		}
		out = append(out, variant{id: p.ID, name: p.Name, tokens: p.Tokens + p.BonusTokens, price: p.PriceCents})
	}
	return out
}

// applyTax computes tax and total given a subtotal and a tax rate.
func applyTax(sub int, taxRate float64) (tax int, total int) {
	if taxRate <= 0 {
		return 0, sub
	}
	t := int(math.Round(float64(sub) * taxRate))
	return t, sub + t
}

// plan groups chosen variants into line items in first-chosen order.
func plan(cat Catalog, chosen []variant) Plan {
	p := Plan{Currency: cat.Currency}
	idx := make(map[string]int)
	for _, v := range chosen {
		i, ok := idx[v.id]
		if !ok {
			i = len(p.Purchases)
			idx[v.id] = i
			p.Purchases = append(p.Purchases, Purchase{PackID: v.id, Name: v.name, UnitPrice: v.price, UnitTokens: v.tokens})
		}
		p.Purchases[i].Qty++
		p.Purchases[i].Subtotal += v.price
		p.SubCents += v.price
		p.TotalTokens += v.tokens
	}
	p.TaxCents, p.TotalCents = applyTax(p.SubCents, cat.TaxRate)
	return p
}
