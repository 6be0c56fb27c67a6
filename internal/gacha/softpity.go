package gacha

import "errors"

// Easing specifies how the probability ramps up as we approach pity.
type Easing string

const (
	EaseLinear     Easing = "linear"
	EaseOutQuad    Easing = "easeOutQuad"
	EaseInOutCubic Easing = "easeInOutCubic"
)

var ErrSoftPityConfig = errors.New("invalid soft pity config")

// SoftPityConfig defines the ramp behavior before the hard pity.
// Example: Pity=90, StartAt=74, Target=0.5 → from draw #74 up to #89, p ramps to 0.5.
// With Increment > 0 the ramp instead adds Increment per draw from StartAt on.
type SoftPityConfig struct {
	Pity       int     // hard pity threshold
	StartAt    int     // draws since last hit at which the ramp begins, e.g., 74
	TargetProb float64 // probability at draw (Pity-1), must be in (0,1); ignored with Increment
	Increment  float64 // per-draw increment mode when > 0
	Easing     Easing
}

func (c *SoftPityConfig) incremental() bool { return c.Increment > 0 }

// normalize validates and adjusts StartAt; returns error if invalid.
func (c *SoftPityConfig) normalize() error {
	if c.Pity <= 1 {
		return ErrSoftPityConfig
	}
	if !c.incremental() && (c.TargetProb <= 0 || c.TargetProb >= 1) {
		return ErrSoftPityConfig
	}
	if c.StartAt < 0 {
		c.StartAt = 0
	}
	// Ramp ends at (Pity-1). StartAt must be < (Pity-1) to have room to ramp.
	if c.StartAt >= c.Pity-1 {
		return ErrSoftPityConfig
	}
	if c.Easing == "" {
		c.Easing = EaseLinear
	}
	switch c.Easing {
	case EaseLinear, EaseOutQuad, EaseInOutCubic:
	default:
		return ErrSoftPityConfig
	}
	return nil
}

func ease(e Easing, t float64) float64 {
	switch e {
	case EaseOutQuad:
		return 1 - (1-t)*(1-t)
	case EaseInOutCubic:
		if t < 0.5 {
			return 4 * t * t * t
		}
		u := -2*t + 2
		return 1 - u*u*u/2
	default:
		return t
	}
}

// rampProb is the hit probability for a draw taken with count draws since the
// last hit, before hard pity is applied. The result stays below 1 so that only
// hard pity guarantees a hit.
func (c *SoftPityConfig) rampProb(pBase float64, count int) float64 {
	if count < c.StartAt {
		return pBase
	}
	var p float64
	if c.incremental() {
		p = pBase + c.Increment*float64(count-c.StartAt+1)
	} else {
		end := c.Pity - 1
		length := float64(end - c.StartAt)
		if length <= 0 {
			return pBase
		}
		t := min(max(float64(count-c.StartAt)/length, 0), 1)
		p = pBase + (c.TargetProb-pBase)*ease(c.Easing, t)
	}
	return min(max(p, 0), 0.999999999999)
}
