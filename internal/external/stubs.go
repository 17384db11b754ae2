package external

import (
	"context"
	"log/slog"
	"time"

	"kjorefore/internal/types"
)

// ---------------------------------------------------------------------------
// Stub implementations let the application boot in local/test mode without
// real provider credentials. They log all calls and return predictable,
// safe default values.
// ---------------------------------------------------------------------------

// stubPolyline encodes a short three-point path used by all stub routes.
const stubPolyline = "_p~iF~ps|U_ulLnnqC_mqNvxq`@"

// StubDirectionsProvider implements DirectionsProvider with a fixed route.
type StubDirectionsProvider struct {
	logger *slog.Logger
}

// NewStubDirectionsProvider creates a new StubDirectionsProvider.
func NewStubDirectionsProvider(logger *slog.Logger) *StubDirectionsProvider {
	return &StubDirectionsProvider{logger: logger}
}

func (s *StubDirectionsProvider) Route(ctx context.Context, origin, destination types.Coordinate, departure time.Time) (*DirectionsResult, error) {
	s.logger.InfoContext(ctx, "stub: Route called",
		"origin", origin.String(),
		"destination", destination.String(),
		"departure", departure,
	)
	return &DirectionsResult{
		EncodedPolyline: stubPolyline,
		DistanceMeters:  120000,
		DurationSeconds: 5400,
		StartAddress:    "Stub Origin",
		EndAddress:      "Stub Destination",
		StartLocation:   origin,
		EndLocation:     destination,
		Bounds: types.Bounds{
			Northeast: types.Coordinate{Lat: 43.252, Lng: -120.2},
			Southwest: types.Coordinate{Lat: 38.5, Lng: -126.453},
		},
	}, nil
}

// StubForecastProvider implements ForecastProvider with a mild two-entry
// series spanning the next six hours.
type StubForecastProvider struct {
	logger *slog.Logger
	clock  types.Clock
}

// NewStubForecastProvider creates a new StubForecastProvider.
func NewStubForecastProvider(logger *slog.Logger, clock types.Clock) *StubForecastProvider {
	return &StubForecastProvider{logger: logger, clock: clock}
}

func (s *StubForecastProvider) Forecast(ctx context.Context, coord types.Coordinate) (*types.ForecastSeries, error) {
	s.logger.InfoContext(ctx, "stub: Forecast called", "coord", coord.String())

	now := s.clock.Now().Truncate(time.Hour)
	entries := make([]types.ForecastEntry, 0, 7)
	for i := 0; i < 7; i++ {
		entries = append(entries, types.ForecastEntry{
			Time: now.Add(time.Duration(i) * time.Hour),
			Instant: types.InstantDetails{
				AirTemperature: 8,
				WindSpeed:      4,
			},
			Next1Hours: &types.ForecastBlock{
				PrecipitationAmount: 0,
				SymbolCode:          "clearsky_day",
			},
		})
	}
	return &types.ForecastSeries{Entries: entries}, nil
}

// StubGeocodingProvider implements GeocodingProvider with coordinate echoes.
type StubGeocodingProvider struct {
	logger *slog.Logger
}

// NewStubGeocodingProvider creates a new StubGeocodingProvider.
func NewStubGeocodingProvider(logger *slog.Logger) *StubGeocodingProvider {
	return &StubGeocodingProvider{logger: logger}
}

func (s *StubGeocodingProvider) ReverseGeocode(ctx context.Context, coord types.Coordinate) (string, error) {
	s.logger.InfoContext(ctx, "stub: ReverseGeocode called", "coord", coord.String())
	return "Stub address near " + coord.String(), nil
}
