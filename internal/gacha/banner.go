package gacha

import (
	"context"
	"fmt"

	"github.com/xtding233/gacha-odds/internal/dist"
	"github.com/xtding233/gacha-odds/internal/prob"
)

// bannerRules composes hard/soft pity with multi-off logic:
//   - On a hit with the guarantee armed, the hit is featured (UP) and the guarantee clears.
//   - Otherwise the hit goes off-banner with OffProbs[min(streak, len-1)].
//     An off hit extends the streak; once the streak reaches maxOff the next hit is guaranteed.
//   - A featured hit resets the streak.
//
// Any hit resets the pity count.
type bannerRules struct {
	offProbs []prob.Probability
	maxOff   int
}

// newBannerRules returns nil when offProbs is empty (banner layer disabled).
// maxOff <= 0 defaults to len(offProbs).
func newBannerRules(offProbs []float64, maxOff int) (*bannerRules, error) {
	if len(offProbs) == 0 {
		return nil, nil
	}
	b := &bannerRules{offProbs: make([]prob.Probability, len(offProbs)), maxOff: maxOff}
	for i, p := range offProbs {
		v, err := validateProb(fmt.Sprintf("off_probs[%d]", i), p)
		if err != nil {
			return nil, err
		}
		b.offProbs[i] = v
	}
	if b.maxOff <= 0 {
		b.maxOff = len(b.offProbs)
	}
	return b, nil
}

// offProb is the chance an unguaranteed hit goes off-banner; the last value repeats.
func (b *bannerRules) offProb(streak int) prob.Probability {
	idx := min(max(streak, 0), len(b.offProbs)-1)
	return b.offProbs[idx]
}

// bannerState is one point of the banner state machine. Terminal states only
// keep Draws so that paths finishing on the same draw merge.
type bannerState struct {
	Draws      int
	Count      int
	Streak     int
	Guaranteed bool
	Ups        int
	Done       bool
}

// pull is one draw from a live state. onUp decides what a featured hit becomes.
func (m *Model) pull(s bannerState, onUp func(bannerState) bannerState) dist.Distribution[bannerState] {
	miss := s
	miss.Count++
	hit := s
	hit.Count = 0

	if s.Guaranteed {
		hit.Guaranteed = false
		hit.Streak = 0
		return branch(m.HitProb(s.Count), onUp(hit), miss)
	}

	off := hit
	off.Streak++
	off.Guaranteed = off.Streak >= m.banner.maxOff
	up := hit
	up.Streak = 0
	onHit := branch(m.banner.offProb(s.Streak), off, onUp(up))

	return dist.AndThen(branch(m.HitProb(s.Count), true, false), func(h bool) dist.Distribution[bannerState] {
		if h {
			return onHit
		}
		return dist.Always(miss)
	})
}

// FirstUp is the distribution of draws until the first featured hit. Without
// a banner layer every hit is featured and FirstUp equals FirstHit.
func (m *Model) FirstUp(ctx context.Context) (dist.Distribution[int], error) {
	if m.banner == nil {
		return m.FirstHit(ctx)
	}
	finish := func(s bannerState) bannerState { return bannerState{Draws: s.Draws, Done: true} }
	start := bannerState{Count: m.Cushion}
	limit := m.Pity * (m.banner.maxOff + 1)
	d, err := unroll(ctx, start, func(s bannerState) bool { return s.Done }, func(s bannerState) dist.Distribution[bannerState] {
		next := s
		next.Draws++
		return m.pull(next, finish)
	}, limit, m.MaxStates)
	if err != nil {
		return dist.Distribution[int]{}, err
	}
	return dist.Map(d, func(s bannerState) int { return s.Draws }), nil
}
