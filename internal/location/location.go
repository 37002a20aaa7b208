// Package location resolves the coordinate the planner fetches weather for.
package location

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bobby-s-dev/weather-planner/internal/models"
)

// Provider resolves a coordinate once. It fails with models.ErrLocationDenied
// when the user refused, or models.ErrLocationPending when the browser has
// not reported a position yet.
type Provider interface {
	Resolve(ctx context.Context) (models.Coordinate, error)
}

// Fixed always resolves to the same coordinate.
type Fixed struct {
	Coordinate models.Coordinate
}

func (f Fixed) Resolve(context.Context) (models.Coordinate, error) {
	return f.Coordinate, nil
}

// Reported carries what the page's geolocation script sent back as query
// parameters: lat/lon on success, geo=denied on refusal.
type Reported struct {
	Latitude  string
	Longitude string
	Denied    bool
}

func (r Reported) Resolve(context.Context) (models.Coordinate, error) {
	if r.Denied {
		return models.Coordinate{}, models.ErrLocationDenied
	}
	if r.Latitude == "" && r.Longitude == "" {
		return models.Coordinate{}, models.ErrLocationPending
	}

	lat, err := strconv.ParseFloat(r.Latitude, 64)
	if err != nil || lat < -90 || lat > 90 {
		return models.Coordinate{}, fmt.Errorf("%w: bad latitude %q", models.ErrLocationDenied, r.Latitude)
	}
	lon, err := strconv.ParseFloat(r.Longitude, 64)
	if err != nil || lon < -180 || lon > 180 {
		return models.Coordinate{}, fmt.Errorf("%w: bad longitude %q", models.ErrLocationDenied, r.Longitude)
	}
	return models.Coordinate{Latitude: lat, Longitude: lon}, nil
}
