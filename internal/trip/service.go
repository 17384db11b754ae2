// Package trip is the route-weather orchestrator: it combines the
// directions provider, the geo kernel, the route sampler, the weather
// client, and the hazard classifier into fully annotated routes.
package trip

import (
	"context"
	"time"

	"kjorefore/internal/external"
	"kjorefore/internal/geo"
	"kjorefore/internal/hazard"
	"kjorefore/internal/route"
	"kjorefore/internal/types"
	"kjorefore/internal/weather"
)

// WeatherResolver is the slice of the weather client the orchestrator
// needs; defined locally so tests can substitute a fake.
type WeatherResolver interface {
	GetWeatherBatch(ctx context.Context, points []weather.BatchPoint) []*types.WeatherReading
}

// Service builds annotated routes. It holds no per-route state; every
// route and its segments are created per call and handed to the caller.
type Service struct {
	directions external.DirectionsProvider
	geocoder   external.GeocodingProvider
	weather    WeatherResolver
	logger     types.Logger
}

// NewService creates a trip service over the given collaborators.
func NewService(
	directions external.DirectionsProvider,
	geocoder external.GeocodingProvider,
	weatherResolver WeatherResolver,
	logger types.Logger,
) *Service {
	return &Service{
		directions: directions,
		geocoder:   geocoder,
		weather:    weatherResolver,
		logger:     logger,
	}
}

// PlanRoute fetches the route geometry for one departure instant, decodes
// it, and samples the weather points. Segments carry no weather yet.
// Provider non-OK status and malformed geometry both surface as a single
// error scoped to this query.
func (s *Service) PlanRoute(ctx context.Context, origin, destination types.Location, departure time.Time) (*types.RouteModel, error) {
	result, err := s.directions.Route(ctx, origin.Coordinates, destination.Coordinates, departure)
	if err != nil {
		return nil, err
	}

	polyline, err := geo.DecodePolyline(result.EncodedPolyline)
	if err != nil {
		return nil, err
	}

	segments := route.Sample(polyline, result.DurationSeconds, departure)

	originName := origin.Name
	if originName == "" {
		originName = result.StartAddress
	}
	destinationName := destination.Name
	if destinationName == "" {
		destinationName = result.EndAddress
	}

	return &types.RouteModel{
		Origin: types.Location{
			Coordinates: result.StartLocation,
			Name:        originName,
			PlaceID:     origin.PlaceID,
		},
		Destination: types.Location{
			Coordinates: result.EndLocation,
			Name:        destinationName,
			PlaceID:     destination.PlaceID,
		},
		DepartureTime:   departure,
		Polyline:        polyline,
		EncodedPolyline: result.EncodedPolyline,
		Segments:        segments,
		TotalDistance:   result.DistanceMeters,
		TotalDuration:   result.DurationSeconds,
		Bounds:          result.Bounds,
	}, nil
}

// ResolveSegmentNames reverse-geocodes a display name for every segment.
// A failed lookup falls back to the fixed-precision coordinate string and
// never fails the route.
func (s *Service) ResolveSegmentNames(ctx context.Context, segments []types.RouteSegment) {
	for i := range segments {
		coord := segments[i].Location.Coordinates
		name, err := s.geocoder.ReverseGeocode(ctx, coord)
		if err != nil {
			s.logger.Warn("reverse geocode failed, using coordinate fallback",
				"coord", coord.String(), "error", err.Error())
			name = coord.String()
		}
		segments[i].Location.Name = name
	}
}

// AttachWeather applies per-segment readings and classifies hazards.
// Readings must be index-aligned with segments; a nil reading leaves the
// segment unannotated and unflagged.
func AttachWeather(segments []types.RouteSegment, readings []*types.WeatherReading) {
	for i := range segments {
		if i >= len(readings) {
			break
		}
		segments[i].Weather = readings[i]

		verdict := hazard.ClassifyReading(readings[i], segments[i].ElevationM)
		segments[i].IsHazardous = verdict.IsHazardous
		segments[i].HazardKind = verdict.Kind
	}
}

// BuildWeatherRoute is the single-route overlay entry point: route
// geometry, segment names, weather readings (sequential batch with the
// client's inter-call pause), and hazard verdicts in one call.
func (s *Service) BuildWeatherRoute(ctx context.Context, origin, destination types.Location, departure time.Time) (*types.RouteModel, error) {
	routeModel, err := s.PlanRoute(ctx, origin, destination, departure)
	if err != nil {
		return nil, err
	}

	s.ResolveSegmentNames(ctx, routeModel.Segments)

	points := make([]weather.BatchPoint, 0, len(routeModel.Segments))
	for _, seg := range routeModel.Segments {
		points = append(points, weather.BatchPoint{
			Coordinates: seg.Location.Coordinates,
			Time:        seg.EstimatedArrivalTime,
		})
	}

	readings := s.weather.GetWeatherBatch(ctx, points)
	AttachWeather(routeModel.Segments, readings)

	return routeModel, nil
}
