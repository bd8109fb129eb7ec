// Package heat implements the venue heat state machine: tier classification,
// action-driven increases and periodic decay. All functions are pure.
package heat

import (
	"fmt"
	"math"

	"github.com/ulissesgoncalvess/ferveu/internal/model"
)

const (
	MinValue = 0
	MaxValue = 100
)

// Rules holds the tunable constants of the heat machine.
type Rules struct {
	// MediumAbove is the value a venue must exceed to be MEDIUM.
	MediumAbove int
	// HighAbove is the value a venue must exceed to be HIGH.
	HighAbove int

	CheckInDelta int
	PostDelta    int

	// HighDecay applies to HIGH venues, BaseDecay to the rest.
	HighDecay int
	BaseDecay int
}

// DefaultRules returns the canonical constants.
func DefaultRules() Rules {
	return Rules{
		MediumAbove:  50,
		HighAbove:    80,
		CheckInDelta: 5,
		PostDelta:    15,
		HighDecay:    2,
		BaseDecay:    1,
	}
}

// Validate checks threshold ordering and non-negative deltas.
func (r Rules) Validate() error {
	if r.MediumAbove < MinValue || r.HighAbove > MaxValue || r.MediumAbove >= r.HighAbove {
		return fmt.Errorf("heat thresholds must satisfy 0 <= medium < high <= 100 (got %d, %d)", r.MediumAbove, r.HighAbove)
	}
	if r.CheckInDelta < 0 || r.PostDelta < 0 || r.HighDecay < 0 || r.BaseDecay < 0 {
		return fmt.Errorf("heat deltas must be non-negative")
	}
	return nil
}

// Classify maps a heat value to its tier.
func (r Rules) Classify(value int) model.Tier {
	switch {
	case value > r.HighAbove:
		return model.TierHigh
	case value > r.MediumAbove:
		return model.TierMedium
	default:
		return model.TierLow
	}
}

// Delta returns the heat increase for an action; unknown kinds yield 0.
func (r Rules) Delta(kind model.ActionKind) int {
	switch kind {
	case model.ActionCheckIn:
		return r.CheckInDelta
	case model.ActionPost:
		return r.PostDelta
	default:
		return 0
	}
}

// Increase applies an action to v and returns the updated copy.
func (r Rules) Increase(v model.Venue, kind model.ActionKind) model.Venue {
	v.HeatValue = Clamp(v.HeatValue + r.Delta(kind))
	v.HeatStatus = r.Classify(v.HeatValue)
	v.Trend = model.TrendRising
	switch kind {
	case model.ActionCheckIn:
		v.CheckInCount++
	case model.ActionPost:
		v.VideoCount++
	}
	return v
}

// Decay applies one decay step to v and returns the updated copy.
func (r Rules) Decay(v model.Venue) model.Venue {
	prior := Clamp(v.HeatValue)
	d := r.BaseDecay
	if r.Classify(prior) == model.TierHigh {
		d = r.HighDecay
	}
	v.HeatValue = Clamp(prior - d)
	v.HeatStatus = r.Classify(v.HeatValue)
	switch {
	case v.HeatValue < prior:
		v.Trend = model.TrendFalling
	case v.HeatValue > prior:
		v.Trend = model.TrendRising
	default:
		v.Trend = model.TrendStable
	}
	return v
}

// Tick decays every venue once. The input slice is not modified.
func (r Rules) Tick(venues []model.Venue) []model.Venue {
	out := make([]model.Venue, len(venues))
	for i, v := range venues {
		out[i] = r.Decay(v)
	}
	return out
}

// Advance applies n ticks. n <= 0 returns an identical copy.
func (r Rules) Advance(venues []model.Venue, n int) []model.Venue {
	out := make([]model.Venue, len(venues))
	copy(out, venues)
	for i := 0; i < n; i++ {
		out = r.Tick(out)
	}
	return out
}

// Normalize clamps the value and recomputes the tier.
func (r Rules) Normalize(v model.Venue) model.Venue {
	v.HeatValue = Clamp(v.HeatValue)
	v.HeatStatus = r.Classify(v.HeatValue)
	return v
}

// FromPopularity derives a heat value from a places rating count and rating.
func FromPopularity(popularity int, rating float64) int {
	raw := math.Floor(float64(popularity)/500*50 + rating*10)
	return Clamp(int(raw))
}

// Clamp bounds a heat value to [MinValue, MaxValue].
func Clamp(v int) int {
	if v < MinValue {
		return MinValue
	}
	if v > MaxValue {
		return MaxValue
	}
	return v
}
