package places

import (
	"context"
	"time"

	"github.com/ulissesgoncalvess/ferveu/internal/core/heat"
	"github.com/ulissesgoncalvess/ferveu/internal/model"
)

// SampleVenues returns the built-in São Paulo venues, classified with rules.
func SampleVenues(rules heat.Rules, now time.Time) []model.Venue {
	vs := []model.Venue{
		{
			ID:           "p1",
			Name:         "Bar do Zeca",
			Category:     "Boteco Chic",
			HeatValue:    45,
			CheckInCount: 12,
			VideoCount:   2,
			Location:     model.LatLng{Lat: -23.5505, Lng: -46.6333},
			Trend:        model.TrendStable,
		},
		{
			ID:           "p2",
			Name:         "Techno Bunker",
			Category:     "Balada",
			HeatValue:    92,
			CheckInCount: 156,
			VideoCount:   45,
			Location:     model.LatLng{Lat: -23.5605, Lng: -46.6433},
			Trend:        model.TrendRising,
		},
		{
			ID:           "p3",
			Name:         "Skyline Rooftop",
			Category:     "Lounge",
			HeatValue:    72,
			CheckInCount: 88,
			VideoCount:   18,
			Location:     model.LatLng{Lat: -23.5705, Lng: -46.6533},
			Trend:        model.TrendStable,
		},
	}
	for i := range vs {
		vs[i] = rules.Normalize(vs[i])
		vs[i].LastUpdate = now
	}
	return vs
}

// Static always answers with the sample venues.
type Static struct {
	Rules heat.Rules
}

func (s Static) SearchNearby(context.Context, model.LatLng, int) ([]model.Venue, error) {
	return SampleVenues(s.Rules, time.Now()), nil
}
