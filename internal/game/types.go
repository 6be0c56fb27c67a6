// types.go
package game

import (
	"github.com/xtding233/gacha-odds/internal/gacha"
	"github.com/xtding233/gacha-odds/internal/pricing"
	"github.com/xtding233/gacha-odds/internal/token"
)

// RawConfig is loaded from YAML; every field is optional so files can layer.
type RawConfig struct {
	Version string        `yaml:"version"`
	Draw    DrawConfig    `yaml:"draw"`
	Banner  *BannerConfig `yaml:"banner,omitempty"`
	Tokens  *TokenConfig  `yaml:"tokens,omitempty"`
	Store   *StoreConfig  `yaml:"store,omitempty"`
	Notes   string        `yaml:"notes,omitempty"`
}

type DrawConfig struct {
	PBase   *float64 `yaml:"p_base"`
	Pity    *int     `yaml:"pity"`
	Cushion *int     `yaml:"cushion,omitempty"`
	Soft    *SoftCfg `yaml:"soft,omitempty"`
}

type SoftCfg struct {
	Mode      string   `yaml:"mode"` // "target_ramp" | "per_draw_increment" | "none"
	StartAt   *int     `yaml:"start_at,omitempty"`
	StartPct  *float64 `yaml:"start_pct,omitempty"`
	Target    *float64 `yaml:"target,omitempty"`
	Increment *float64 `yaml:"increment,omitempty"` // for per_draw_increment
	Easing    string   `yaml:"easing,omitempty"`
}

type BannerConfig struct {
	OffProbs []float64 `yaml:"off_probs"`
	MaxOff   int       `yaml:"max_off"`
}

type TokenConfig struct {
	Name       string `yaml:"name,omitempty"`
	PerDraw    *int   `yaml:"per_draw"`
	PerTenDraw *int   `yaml:"per_ten_draw"`
	PerNDraw   *int   `yaml:"per_n_draw,omitempty"`
	N          *int   `yaml:"n,omitempty"`
}

// StoreConfig lists the packs that sell tokens. Packs replace lower layers as a whole.
type StoreConfig struct {
	Currency string       `yaml:"currency"`
	TaxRate  *float64     `yaml:"tax_rate,omitempty"`
	Packs    []PackConfig `yaml:"packs"`
}

type PackConfig struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name,omitempty"`
	Tokens      int    `yaml:"tokens"`
	BonusTokens int    `yaml:"bonus_tokens,omitempty"`
	FirstTimeX2 bool   `yaml:"first_time_x2,omitempty"`
	PriceCents  int    `yaml:"price_cents"`
}

// EngineParams are the normalized params used by internal/gacha.
type EngineParams struct {
	PBase     float64
	Pity      int
	SoftMode  string
	StartAt   *int
	StartPct  *float64
	Target    *float64
	Increment *float64
	Easing    string
	OffProbs  []float64
	MaxOff    int
	Cushion   int
	Tokens    token.Token
	Store     *pricing.Catalog // nil when no packs are configured
	Version   string // effective config version for tracing
}

// GachaParams converts to the odds engine's params, dropping the ramp fields
// that do not belong to SoftMode.
func (e EngineParams) GachaParams() gacha.Params {
	p := gacha.Params{
		PBase:    e.PBase,
		Pity:     e.Pity,
		Cushion:  e.Cushion,
		OffProbs: e.OffProbs,
		MaxOff:   e.MaxOff,
		Easing:   e.Easing,
	}
	switch e.SoftMode {
	case SoftTargetRamp:
		p.StartAt, p.StartPct, p.TargetProb = e.StartAt, e.StartPct, e.Target
	case SoftPerDrawIncrement:
		p.StartAt, p.Increment = e.StartAt, e.Increment
	}
	return p
}

const (
	SoftNone             = "none"
	SoftTargetRamp       = "target_ramp"
	SoftPerDrawIncrement = "per_draw_increment"
)
