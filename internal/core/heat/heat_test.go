package heat

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ulissesgoncalvess/ferveu/internal/model"
)

func venue(value int) model.Venue {
	r := DefaultRules()
	return model.Venue{ID: "v", HeatValue: value, HeatStatus: r.Classify(value), Trend: model.TrendStable}
}

func TestClassifyBoundaries(t *testing.T) {
	r := DefaultRules()
	cases := map[int]model.Tier{
		0:   model.TierLow,
		50:  model.TierLow,
		51:  model.TierMedium,
		80:  model.TierMedium,
		81:  model.TierHigh,
		100: model.TierHigh,
	}
	for v, want := range cases {
		assert.Equal(t, want, r.Classify(v), "value %d", v)
	}
}

func TestIncreaseCheckIn(t *testing.T) {
	r := DefaultRules()
	got := r.Increase(venue(45), model.ActionCheckIn)
	assert.Equal(t, 50, got.HeatValue)
	assert.Equal(t, model.TierLow, got.HeatStatus)
	assert.Equal(t, model.TrendRising, got.Trend)
	assert.Equal(t, 1, got.CheckInCount)
	assert.Equal(t, 0, got.VideoCount)
}

func TestIncreaseClampsAtMax(t *testing.T) {
	r := DefaultRules()
	got := r.Increase(venue(98), model.ActionCheckIn)
	assert.Equal(t, 100, got.HeatValue)
	assert.Equal(t, model.TierHigh, got.HeatStatus)
	assert.Equal(t, model.TrendRising, got.Trend)

	got = r.Increase(venue(95), model.ActionPost)
	assert.Equal(t, 100, got.HeatValue)
	assert.Equal(t, 1, got.VideoCount)
}

func TestDecayHighTier(t *testing.T) {
	r := DefaultRules()
	got := r.Decay(venue(92))
	assert.Equal(t, 90, got.HeatValue)
	assert.Equal(t, model.TierHigh, got.HeatStatus)
	assert.Equal(t, model.TrendFalling, got.Trend)
}

func TestDecayBelowHighUsesBaseStep(t *testing.T) {
	r := DefaultRules()
	got := r.Decay(venue(81))
	assert.Equal(t, 79, got.HeatValue, "81 is HIGH so decays by 2")
	assert.Equal(t, model.TierMedium, got.HeatStatus)

	got = r.Decay(venue(72))
	assert.Equal(t, 71, got.HeatValue)
}

func TestDecayAtZeroIsStable(t *testing.T) {
	r := DefaultRules()
	got := r.Decay(venue(0))
	assert.Equal(t, 0, got.HeatValue)
	assert.Equal(t, model.TrendStable, got.Trend)
}

func TestAdvanceZeroIsIdentity(t *testing.T) {
	r := DefaultRules()
	in := []model.Venue{venue(45), venue(92)}
	out := r.Advance(in, 0)
	require.Equal(t, in, out)
	out[0].HeatValue = 1
	assert.Equal(t, 45, in[0].HeatValue, "Advance must not alias its input")
}

func TestTickDoesNotMutateInput(t *testing.T) {
	r := DefaultRules()
	in := []model.Venue{venue(92)}
	_ = r.Tick(in)
	assert.Equal(t, 92, in[0].HeatValue)
}

func TestAdvanceDrainsToZero(t *testing.T) {
	r := DefaultRules()
	out := r.Advance([]model.Venue{venue(100)}, 200)
	assert.Equal(t, 0, out[0].HeatValue)
	assert.Equal(t, model.TierLow, out[0].HeatStatus)
}

func TestHeatStaysInRangeUnderRandomSequences(t *testing.T) {
	r := DefaultRules()
	rng := rand.New(rand.NewSource(7))
	v := venue(rng.Intn(101))
	for i := 0; i < 5000; i++ {
		switch rng.Intn(3) {
		case 0:
			v = r.Increase(v, model.ActionCheckIn)
		case 1:
			v = r.Increase(v, model.ActionPost)
		default:
			v = r.Decay(v)
		}
		require.GreaterOrEqual(t, v.HeatValue, MinValue)
		require.LessOrEqual(t, v.HeatValue, MaxValue)
		require.Equal(t, r.Classify(v.HeatValue), v.HeatStatus)
	}
}

func TestFromPopularity(t *testing.T) {
	h := FromPopularity(250, 4.5)
	assert.Equal(t, 70, h)
	assert.Equal(t, model.TierMedium, DefaultRules().Classify(h))

	assert.Equal(t, 100, FromPopularity(5000, 5))
	assert.Equal(t, 40, FromPopularity(0, 4))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, DefaultRules().Validate())

	r := DefaultRules()
	r.MediumAbove = 90
	assert.Error(t, r.Validate())

	r = DefaultRules()
	r.PostDelta = -1
	assert.Error(t, r.Validate())
}

func TestUnknownActionHasNoDelta(t *testing.T) {
	r := DefaultRules()
	got := r.Increase(venue(40), model.ActionKind("dance"))
	assert.Equal(t, 40, got.HeatValue)
	assert.Equal(t, 0, got.CheckInCount+got.VideoCount)
}
