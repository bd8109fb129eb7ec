// Package projection maps geographic coordinates onto a square panel
// expressed in percentages, centred on the user.
package projection

import "github.com/ulissesgoncalvess/ferveu/internal/model"

// DefaultRadius is the half-width of the panel in degrees.
const DefaultRadius = 0.02

// Position is a point on the panel, both axes in [0,100].
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Project places point relative to center. ok is false when the point falls
// outside the panel on either axis.
func Project(center, point model.LatLng, radius float64) (Position, bool) {
	if radius <= 0 {
		return Position{}, false
	}
	fx := 0.5 + (point.Lng-center.Lng)/(2*radius)
	fy := 0.5 + (center.Lat-point.Lat)/(2*radius)
	if fx < 0 || fx > 1 || fy < 0 || fy > 1 {
		return Position{}, false
	}
	return Position{X: clamp01(fx) * 100, Y: clamp01(fy) * 100}, true
}

// Placed is a venue with its panel position.
type Placed struct {
	Venue    model.Venue `json:"venue"`
	Position Position    `json:"position"`
}

// ProjectAll projects every venue and drops the out-of-range ones,
// preserving input order.
func ProjectAll(center model.LatLng, venues []model.Venue, radius float64) []Placed {
	out := make([]Placed, 0, len(venues))
	for _, v := range venues {
		pos, ok := Project(center, v.Location, radius)
		if !ok {
			continue
		}
		out = append(out, Placed{Venue: v, Position: pos})
	}
	return out
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
