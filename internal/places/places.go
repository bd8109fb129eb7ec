// Package places looks up nearby venues.
package places

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/ulissesgoncalvess/ferveu/internal/breaker"
	"github.com/ulissesgoncalvess/ferveu/internal/core/heat"
	"github.com/ulissesgoncalvess/ferveu/internal/model"
)

// Provider finds venues around a point.
type Provider interface {
	SearchNearby(ctx context.Context, center model.LatLng, radiusMeters int) ([]model.Venue, error)
}

// Place is the provider-neutral shape of a lookup result.
type Place struct {
	ID              string
	Name            string
	Location        model.LatLng
	Types           []string
	Rating          *float64
	UserRatingCount *int
}

const (
	defaultRating   = 4.0
	randPopularity  = 200
	defaultCategory = "Local"
)

// Mapper converts places into venues.
type Mapper struct {
	Rules heat.Rules
	// Intn supplies the popularity fallback when a place has no rating count.
	Intn func(n int) int
	Now  func() time.Time
}

// NewMapper returns a Mapper with a time-seeded fallback generator.
func NewMapper(rules heat.Rules) Mapper {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return Mapper{Rules: rules, Intn: rng.Intn, Now: time.Now}
}

// Venue maps one place.
func (m Mapper) Venue(p Place) model.Venue {
	rating := defaultRating
	if p.Rating != nil && *p.Rating != 0 {
		rating = *p.Rating
	}
	var popularity int
	if p.UserRatingCount != nil && *p.UserRatingCount > 0 {
		popularity = *p.UserRatingCount
	} else {
		popularity = m.Intn(randPopularity)
	}
	value := heat.FromPopularity(popularity, rating)
	return model.Venue{
		ID:           p.ID,
		Name:         p.Name,
		Category:     Category(p.Types),
		HeatValue:    value,
		HeatStatus:   m.Rules.Classify(value),
		CheckInCount: popularity,
		VideoCount:   popularity / 10,
		Location:     p.Location,
		Trend:        model.TrendStable,
		LastUpdate:   m.Now(),
	}
}

// Venues maps all places, preserving order.
func (m Mapper) Venues(ps []Place) []model.Venue {
	out := make([]model.Venue, 0, len(ps))
	for _, p := range ps {
		out = append(out, m.Venue(p))
	}
	return out
}

// Category turns the first place type into a label, e.g. "night_club" into
// "night club". Only the first underscore is replaced.
func Category(types []string) string {
	if len(types) == 0 || types[0] == "" {
		return defaultCategory
	}
	return strings.Replace(types[0], "_", " ", 1)
}

// Guarded routes a provider through a circuit breaker.
type Guarded struct {
	Provider Provider
	Breaker  *breaker.Breaker
}

func (g Guarded) SearchNearby(ctx context.Context, center model.LatLng, radiusMeters int) ([]model.Venue, error) {
	var out []model.Venue
	err := g.Breaker.Execute(ctx, func(ctx context.Context) error {
		vs, err := g.Provider.SearchNearby(ctx, center, radiusMeters)
		out = vs
		return err
	})
	return out, err
}
