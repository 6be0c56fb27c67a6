// resolve.go
package game

import (
	"github.com/xtding233/gacha-odds/internal/pricing"
	"github.com/xtding233/gacha-odds/internal/token"
)

// Overrides carries per-request overrides like cushion/p_base/etc.
type Overrides struct {
	PBase     *float64
	StartAt   *int
	StartPct  *float64
	Target    *float64
	Increment *float64
	Easing    *string
	OffProbs  *[]float64
	MaxOff    *int
	Cushion   *int
}

type Resolver interface {
	// Returns merged RawConfig and normalized EngineParams
	Resolve(game, pool string, o Overrides) (RawConfig, EngineParams, error)
}

var _ Resolver = (*Loader)(nil)

// Resolve merges default → game → pool → overrides, validates, and normalizes.
func (l *Loader) Resolve(game, pool string, o Overrides) (RawConfig, EngineParams, error) {
	merged, err := l.LoadMerged(game, pool)
	if err != nil {
		return RawConfig{}, EngineParams{}, err
	}
	cfg := applyOverrides(merged, o)
	if err := ValidateRaw(cfg); err != nil {
		return cfg, EngineParams{}, err
	}
	return cfg, normalize(cfg), nil
}

func applyOverrides(cfg RawConfig, o Overrides) RawConfig {
	patch := RawConfig{Draw: DrawConfig{PBase: o.PBase, Cushion: o.Cushion}}
	if o.StartAt != nil || o.StartPct != nil || o.Target != nil || o.Increment != nil || o.Easing != nil {
		patch.Draw.Soft = &SoftCfg{
			StartAt:   o.StartAt,
			StartPct:  o.StartPct,
			Target:    o.Target,
			Increment: o.Increment,
		}
		if o.Easing != nil {
			patch.Draw.Soft.Easing = *o.Easing
		}
		if cfg.Draw.Soft == nil || cfg.Draw.Soft.Mode == "" || cfg.Draw.Soft.Mode == SoftNone {
			patch.Draw.Soft.Mode = SoftTargetRamp
			if o.Increment != nil {
				patch.Draw.Soft.Mode = SoftPerDrawIncrement
			}
		}
	}
	if o.OffProbs != nil || o.MaxOff != nil {
		patch.Banner = &BannerConfig{}
		if o.OffProbs != nil {
			patch.Banner.OffProbs = *o.OffProbs
		}
		if o.MaxOff != nil {
			patch.Banner.MaxOff = *o.MaxOff
		}
	}
	return mergeRaw(cfg, patch)
}

// normalize assumes cfg passed ValidateRaw.
func normalize(cfg RawConfig) EngineParams {
	ep := EngineParams{
		PBase:    *cfg.Draw.PBase,
		Pity:     *cfg.Draw.Pity,
		SoftMode: SoftNone,
		Version:  cfg.Version,
	}
	if cfg.Draw.Cushion != nil {
		ep.Cushion = *cfg.Draw.Cushion
	}
	if s := cfg.Draw.Soft; s != nil && s.Mode != "" && s.Mode != SoftNone {
		ep.SoftMode = s.Mode
		ep.StartAt = s.StartAt
		ep.StartPct = s.StartPct
		ep.Target = s.Target
		ep.Increment = s.Increment
		ep.Easing = s.Easing
	}
	if cfg.Banner != nil {
		ep.OffProbs = append([]float64(nil), cfg.Banner.OffProbs...)
		ep.MaxOff = cfg.Banner.MaxOff
	}
	if t := cfg.Tokens; t != nil {
		ep.Tokens = token.Token{Name: t.Name}
		if t.PerDraw != nil {
			ep.Tokens.PerDraw = *t.PerDraw
		}
		if t.PerTenDraw != nil {
			ep.Tokens.PerTenDraw = *t.PerTenDraw
		}
		if t.PerNDraw != nil {
			ep.Tokens.PerNDraw = *t.PerNDraw
		}
		if t.N != nil {
			ep.Tokens.N = *t.N
		}
	}
	if st := cfg.Store; st != nil && len(st.Packs) > 0 {
		cat := &pricing.Catalog{Currency: st.Currency}
		if st.TaxRate != nil {
			cat.TaxRate = *st.TaxRate
		}
		for _, p := range st.Packs {
			name := p.Name
			if name == "" {
				name = p.ID
			}
			cat.Packs = append(cat.Packs, pricing.Pack{
				ID:          p.ID,
				Name:        name,
				Tokens:      p.Tokens,
				BonusTokens: p.BonusTokens,
				FirstTimeX2: p.FirstTimeX2,
				PriceCents:  p.PriceCents,
			})
		}
		ep.Store = cat
	}
	return ep
}
