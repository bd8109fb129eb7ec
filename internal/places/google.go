package places

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ulissesgoncalvess/ferveu/internal/model"
)

const fieldMask = "places.id,places.displayName,places.location,places.types,places.rating,places.userRatingCount"

// IncludedTypes are the place types searched for.
var IncludedTypes = []string{"bar", "night_club", "restaurant"}

// Google calls the Places API (New) nearby search.
type Google struct {
	client     *resty.Client
	mapper     Mapper
	maxResults int
}

// NewGoogle builds a client for baseURL (normally https://places.googleapis.com).
func NewGoogle(baseURL, apiKey string, maxResults int, timeout time.Duration, mapper Mapper) *Google {
	if maxResults <= 0 || maxResults > 20 {
		maxResults = 20
	}
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Goog-Api-Key", apiKey).
		SetHeader("X-Goog-FieldMask", fieldMask).
		SetTimeout(timeout)
	return &Google{client: c, mapper: mapper, maxResults: maxResults}
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type searchNearbyRequest struct {
	IncludedTypes       []string `json:"includedTypes"`
	MaxResultCount      int      `json:"maxResultCount"`
	LocationRestriction struct {
		Circle struct {
			Center latLng  `json:"center"`
			Radius float64 `json:"radius"`
		} `json:"circle"`
	} `json:"locationRestriction"`
}

type searchNearbyResponse struct {
	Places []struct {
		ID          string `json:"id"`
		DisplayName struct {
			Text string `json:"text"`
		} `json:"displayName"`
		Location        latLng   `json:"location"`
		Types           []string `json:"types"`
		Rating          *float64 `json:"rating"`
		UserRatingCount *int     `json:"userRatingCount"`
	} `json:"places"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// SearchNearby returns venues within radiusMeters of center.
func (g *Google) SearchNearby(ctx context.Context, center model.LatLng, radiusMeters int) ([]model.Venue, error) {
	var req searchNearbyRequest
	req.IncludedTypes = IncludedTypes
	req.MaxResultCount = g.maxResults
	req.LocationRestriction.Circle.Center = latLng{Latitude: center.Lat, Longitude: center.Lng}
	req.LocationRestriction.Circle.Radius = float64(radiusMeters)

	var out searchNearbyResponse
	var apiErr apiError
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(&req).
		SetResult(&out).
		SetError(&apiErr).
		Post("/v1/places:searchNearby")
	if err != nil {
		return nil, fmt.Errorf("places request: %w", err)
	}
	if resp.IsError() {
		if apiErr.Error.Message != "" {
			return nil, fmt.Errorf("places status %d: %s", resp.StatusCode(), apiErr.Error.Message)
		}
		return nil, fmt.Errorf("places status %d", resp.StatusCode())
	}

	ps := make([]Place, 0, len(out.Places))
	for _, p := range out.Places {
		ps = append(ps, Place{
			ID:              p.ID,
			Name:            p.DisplayName.Text,
			Location:        model.LatLng{Lat: p.Location.Latitude, Lng: p.Location.Longitude},
			Types:           p.Types,
			Rating:          p.Rating,
			UserRatingCount: p.UserRatingCount,
		})
	}
	return g.mapper.Venues(ps), nil
}
