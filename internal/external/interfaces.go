package external

import (
	"context"
	"time"

	"kjorefore/internal/types"
)

// DirectionsResult is the provider-shaped route answer the orchestrator
// consumes: the encoded overview geometry plus the single leg's distance,
// duration, addresses, and bounding box.
type DirectionsResult struct {
	EncodedPolyline string
	DistanceMeters  float64
	DurationSeconds float64
	StartAddress    string
	EndAddress      string
	StartLocation   types.Coordinate
	EndLocation     types.Coordinate
	Bounds          types.Bounds
}

// DirectionsProvider computes a driving route between two coordinates for
// a given departure instant. A non-OK provider status surfaces as a
// recoverable error for that query only.
type DirectionsProvider interface {
	Route(ctx context.Context, origin, destination types.Coordinate, departure time.Time) (*DirectionsResult, error)
}

// ForecastProvider returns a forecast time series for a coordinate.
// Implementations must identify themselves to the provider with a
// name/version/contact string on every request.
type ForecastProvider interface {
	Forecast(ctx context.Context, coord types.Coordinate) (*types.ForecastSeries, error)
}

// GeocodingProvider resolves a coordinate to a human-readable address.
// On failure callers fall back to the coordinate's fixed-precision string
// form; implementations should return an error, not a fabricated name.
type GeocodingProvider interface {
	ReverseGeocode(ctx context.Context, coord types.Coordinate) (string, error)
}
