package game

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xtding233/gacha-odds/internal/gacha"
)

var ErrInvalidConfig = errors.New("config validation failed")

// MaxPity bounds draw.pity so exact models stay small.
const MaxPity = 1000

// ValidateRaw checks semantic constraints of a RawConfig.
func ValidateRaw(cfg RawConfig) error {
	var errs []string

	// draw.pity
	if cfg.Draw.Pity == nil {
		errs = append(errs, "draw.pity is required")
	} else if *cfg.Draw.Pity <= 0 || *cfg.Draw.Pity > MaxPity {
		errs = append(errs, fmt.Sprintf("draw.pity must be in [1,%d]", MaxPity))
	}
	// draw.p_base
	if cfg.Draw.PBase == nil {
		errs = append(errs, "draw.p_base is required")
	} else if *cfg.Draw.PBase <= 0 || *cfg.Draw.PBase >= 1 {
		errs = append(errs, "draw.p_base must be in (0,1)")
	}
	if cfg.Draw.Cushion != nil && *cfg.Draw.Cushion < 0 {
		errs = append(errs, "draw.cushion must be >= 0")
	}

	if cfg.Draw.Soft != nil {
		soft := cfg.Draw.Soft
		switch soft.Mode {
		case SoftTargetRamp:
			if soft.Target == nil {
				errs = append(errs, "draw.soft.target is required for mode=target_ramp")
			} else if *soft.Target <= 0 || *soft.Target >= 1 {
				errs = append(errs, "draw.soft.target must be in (0,1)")
			}
			if soft.StartAt == nil && soft.StartPct == nil {
				errs = append(errs, "draw.soft.start_at or start_pct is required for mode=target_ramp")
			}
		case SoftPerDrawIncrement:
			if soft.StartAt == nil {
				errs = append(errs, "draw.soft.start_at is required for mode=per_draw_increment")
			}
			if soft.Increment == nil {
				errs = append(errs, "draw.soft.increment is required for mode=per_draw_increment")
			} else if *soft.Increment <= 0 {
				errs = append(errs, "draw.soft.increment must be > 0 for mode=per_draw_increment")
			}
		case "", SoftNone:
		default:
			errs = append(errs, "draw.soft.mode must be one of: target_ramp, per_draw_increment, none")
		}

		if cfg.Draw.Pity != nil && soft.StartAt != nil {
			if *soft.StartAt < 0 || *soft.StartAt >= *cfg.Draw.Pity {
				errs = append(errs, "draw.soft.start_at must satisfy 0 <= start_at < pity")
			}
		}
		if soft.StartPct != nil && (*soft.StartPct < 0 || *soft.StartPct > 1) {
			errs = append(errs, "draw.soft.start_pct must be in [0,1]")
		}
		switch gacha.Easing(soft.Easing) {
		case "", gacha.EaseLinear, gacha.EaseOutQuad, gacha.EaseInOutCubic:
		default:
			errs = append(errs, "draw.soft.easing must be one of: linear, easeOutQuad, easeInOutCubic")
		}
	}

	if cfg.Banner != nil {
		for i, p := range cfg.Banner.OffProbs {
			if !(p > 0 && p < 1) {
				errs = append(errs, fmt.Sprintf("banner.off_probs[%d] must be in (0,1)", i))
			}
		}
		if cfg.Banner.MaxOff < 0 {
			errs = append(errs, "banner.max_off must be >= 0 (0 means default to len(off_probs))")
		}
	}

	if cfg.Tokens != nil {
		if cfg.Tokens.PerDraw != nil && *cfg.Tokens.PerDraw < 0 {
			errs = append(errs, "tokens.per_draw must be >= 0")
		}
		if cfg.Tokens.PerTenDraw != nil && *cfg.Tokens.PerTenDraw < 0 {
			errs = append(errs, "tokens.per_ten_draw must be >= 0")
		}
		if cfg.Tokens.PerNDraw != nil && *cfg.Tokens.PerNDraw < 0 {
			errs = append(errs, "tokens.per_n_draw must be >= 0")
		}
	}

	if cfg.Store != nil {
		if cfg.Store.TaxRate != nil && *cfg.Store.TaxRate < 0 {
			errs = append(errs, "store.tax_rate must be >= 0")
		}
		ids := make(map[string]bool, len(cfg.Store.Packs))
		for i, p := range cfg.Store.Packs {
			switch {
			case p.ID == "":
				errs = append(errs, fmt.Sprintf("store.packs[%d].id is required", i))
			case ids[p.ID]:
				errs = append(errs, fmt.Sprintf("store.packs[%d].id %q is duplicated", i, p.ID))
			}
			ids[p.ID] = true
			if p.Tokens < 0 || p.BonusTokens < 0 || p.Tokens+p.BonusTokens <= 0 {
				errs = append(errs, fmt.Sprintf("store.packs[%d] must grant tokens", i))
			}
			if p.PriceCents <= 0 {
				errs = append(errs, fmt.Sprintf("store.packs[%d].price_cents must be > 0", i))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}
	return nil
}
