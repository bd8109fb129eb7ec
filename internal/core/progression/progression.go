// Package progression maps accumulated XP to user levels.
package progression

import (
	"fmt"

	"github.com/ulissesgoncalvess/ferveu/internal/model"
)

// Tier is one step of the level table.
type Tier struct {
	Level     model.Level `json:"level"`
	Threshold int         `json:"threshold"`
}

// Table is an ascending list of level tiers; the first threshold is 0.
type Table []Tier

// DefaultTable returns the canonical level table.
func DefaultTable() Table {
	return Table{
		{Level: model.LevelCurioso, Threshold: 0},
		{Level: model.LevelEsquentando, Threshold: 500},
		{Level: model.LevelFervendo, Threshold: 1500},
		{Level: model.LevelIncendiario, Threshold: 3000},
	}
}

// Validate checks that thresholds start at 0 and strictly increase.
func (t Table) Validate() error {
	if len(t) == 0 || t[0].Threshold != 0 {
		return fmt.Errorf("level table must start at threshold 0")
	}
	for i := 1; i < len(t); i++ {
		if t[i].Threshold <= t[i-1].Threshold {
			return fmt.Errorf("level thresholds must be strictly increasing at %s", t[i].Level)
		}
	}
	return nil
}

// LevelFor returns the highest level whose threshold is <= xp.
func (t Table) LevelFor(xp int) model.Level {
	lvl := t[0].Level
	for _, tier := range t {
		if xp >= tier.Threshold {
			lvl = tier.Level
		}
	}
	return lvl
}

// Progress describes where xp sits in the table.
type Progress struct {
	Level     model.Level `json:"level"`
	NextLevel model.Level `json:"nextLevel,omitempty"`
	XPToNext  int         `json:"xpToNext"`
}

// Progress reports the next level and the XP still missing; at the top tier
// NextLevel is empty and XPToNext is 0.
func (t Table) Progress(xp int) Progress {
	p := Progress{Level: t.LevelFor(xp)}
	for _, tier := range t {
		if tier.Threshold > xp {
			p.NextLevel = tier.Level
			p.XPToNext = tier.Threshold - xp
			break
		}
	}
	return p
}

// Rewards holds the XP granted per action.
type Rewards struct {
	CheckIn int
	Post    int
}

// DefaultRewards returns the canonical XP rewards.
func DefaultRewards() Rewards {
	return Rewards{CheckIn: 50, Post: 120}
}

// For returns the XP reward for an action.
func (r Rewards) For(kind model.ActionKind) int {
	switch kind {
	case model.ActionCheckIn:
		return r.CheckIn
	case model.ActionPost:
		return r.Post
	default:
		return 0
	}
}

// GainXP adds amount to the user's XP and re-derives the level.
// Non-positive amounts are rejected and the user is returned unchanged.
func (t Table) GainXP(u model.User, amount int) (model.User, error) {
	if amount <= 0 {
		return u, fmt.Errorf("gain %d: %w", amount, model.ErrInvalidAmount)
	}
	u.XP += amount
	u.Level = t.LevelFor(u.XP)
	return u, nil
}
