package progression

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ulissesgoncalvess/ferveu/internal/model"
)

func TestLevelForBoundaries(t *testing.T) {
	tbl := DefaultTable()
	cases := map[int]model.Level{
		0:    model.LevelCurioso,
		499:  model.LevelCurioso,
		500:  model.LevelEsquentando,
		1499: model.LevelEsquentando,
		1500: model.LevelFervendo,
		2999: model.LevelFervendo,
		3000: model.LevelIncendiario,
		9999: model.LevelIncendiario,
	}
	for xp, want := range cases {
		assert.Equal(t, want, tbl.LevelFor(xp), "xp %d", xp)
	}
}

func TestGainXPStaysInTier(t *testing.T) {
	tbl := DefaultTable()
	u := model.User{XP: 450, Level: model.LevelCurioso}
	got, err := tbl.GainXP(u, 40)
	require.NoError(t, err)
	assert.Equal(t, 490, got.XP)
	assert.Equal(t, model.LevelCurioso, got.Level)
}

func TestGainXPCrossesTier(t *testing.T) {
	tbl := DefaultTable()
	u := model.User{XP: 450, Level: model.LevelCurioso}
	got, err := tbl.GainXP(u, 50)
	require.NoError(t, err)
	assert.Equal(t, 500, got.XP)
	assert.Equal(t, model.LevelEsquentando, got.Level)
}

func TestGainXPRejectsNonPositive(t *testing.T) {
	tbl := DefaultTable()
	u := model.User{XP: 100, Level: model.LevelCurioso}
	for _, amt := range []int{0, -10} {
		got, err := tbl.GainXP(u, amt)
		require.Error(t, err)
		assert.True(t, errors.Is(err, model.ErrInvalidAmount))
		assert.Equal(t, u, got)
	}
}

func TestLevelIsMonotoneInXP(t *testing.T) {
	tbl := DefaultTable()
	order := map[model.Level]int{}
	for i, tier := range tbl {
		order[tier.Level] = i
	}
	prev := 0
	for xp := 0; xp <= 4000; xp += 7 {
		cur := order[tbl.LevelFor(xp)]
		require.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
}

func TestProgress(t *testing.T) {
	tbl := DefaultTable()
	p := tbl.Progress(450)
	assert.Equal(t, model.LevelCurioso, p.Level)
	assert.Equal(t, model.LevelEsquentando, p.NextLevel)
	assert.Equal(t, 50, p.XPToNext)

	top := tbl.Progress(3500)
	assert.Equal(t, model.LevelIncendiario, top.Level)
	assert.Empty(t, top.NextLevel)
	assert.Zero(t, top.XPToNext)
}

func TestRewards(t *testing.T) {
	r := DefaultRewards()
	assert.Equal(t, 50, r.For(model.ActionCheckIn))
	assert.Equal(t, 120, r.For(model.ActionPost))
	assert.Zero(t, r.For(model.ActionKind("x")))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, DefaultTable().Validate())
	assert.Error(t, Table{}.Validate())
	assert.Error(t, Table{{Level: model.LevelCurioso, Threshold: 10}}.Validate())
	assert.Error(t, Table{
		{Level: model.LevelCurioso, Threshold: 0},
		{Level: model.LevelFervendo, Threshold: 0},
	}.Validate())
}
