package types

import (
	"fmt"
	"time"
)

// Coordinate is a geographic position in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lng float64 `json:"lng" validate:"longitude"`
}

// String renders the coordinate at the fixed precision used as the
// display-name fallback when reverse geocoding is unavailable.
func (c Coordinate) String() string {
	return fmt.Sprintf("%.4f, %.4f", c.Lat, c.Lng)
}

// Valid reports whether the coordinate lies within the WGS84 domain.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Location is a coordinate with an optional display name and an optional
// external place identifier. Immutable once constructed.
type Location struct {
	Coordinates Coordinate `json:"coordinates"`
	Name        string     `json:"name,omitempty"`
	PlaceID     string     `json:"place_id,omitempty"`
}

// Bounds is the bounding box of a route as reported by the directions
// provider.
type Bounds struct {
	Northeast Coordinate `json:"northeast"`
	Southwest Coordinate `json:"southwest"`
}

// WeatherReading is a single resolved forecast for one place and time.
// The pointer fields are absent when the provider did not report them.
type WeatherReading struct {
	TemperatureC           float64  `json:"temperature"`
	PrecipitationMmPerHour float64  `json:"precipitation"`
	WindSpeedMps           float64  `json:"wind_speed"`
	WindDirectionDeg       *float64 `json:"wind_direction,omitempty"`
	HumidityPct            *float64 `json:"humidity,omitempty"`
	CloudinessPct          *float64 `json:"cloudiness,omitempty"`
	PressureHpa            *float64 `json:"pressure,omitempty"`
	SymbolCode             string   `json:"symbol_code"`
	Description            string   `json:"description"`
}

// RouteSegment is one sampled weather point along a route: a location, the
// estimated moment the driver passes it, and (once annotated) the forecast
// and hazard verdict for that moment.
//
// Within one route, segments are ordered by non-decreasing arrival time and
// non-decreasing distance from start.
type RouteSegment struct {
	Location             Location        `json:"location"`
	DistanceFromStart    float64         `json:"distance_from_start"`
	EstimatedArrivalTime time.Time       `json:"estimated_arrival_time"`
	Weather              *WeatherReading `json:"weather,omitempty"`
	ElevationM           *float64        `json:"elevation,omitempty"`
	IsImportant          bool            `json:"is_important"`
	IsHazardous          bool            `json:"is_hazardous"`
	HazardKind           HazardKind      `json:"hazard_kind,omitempty"`
}

// RouteModel is a fully described driving route. It owns its segments
// exclusively; segments are never shared across routes. Distance is in
// meters, duration in seconds.
type RouteModel struct {
	Origin          Location       `json:"origin"`
	Destination     Location       `json:"destination"`
	DepartureTime   time.Time      `json:"departure_time"`
	Polyline        []Coordinate   `json:"polyline"`
	EncodedPolyline string         `json:"encoded_polyline,omitempty"`
	Segments        []RouteSegment `json:"segments"`
	TotalDistance   float64        `json:"total_distance"`
	TotalDuration   float64        `json:"total_duration"`
	Bounds          Bounds         `json:"bounds"`
}

// TimeWindow is the inclusive hour range searched for departure candidates.
type TimeWindow struct {
	StartHour int `json:"start_hour" validate:"min=0,max=23"`
	EndHour   int `json:"end_hour" validate:"min=0,max=23"`
}

// WeatherSummary aggregates forecast extrema over one route's segments,
// rounded to one decimal place. The temperature extrema are nil when no
// segment carried a reading.
type WeatherSummary struct {
	AvgPrecipitation float64  `json:"avg_precipitation"`
	MaxPrecipitation float64  `json:"max_precipitation"`
	MaxWindSpeed     float64  `json:"max_wind_speed"`
	MinTemperature   *float64 `json:"min_temperature,omitempty"`
	MaxTemperature   *float64 `json:"max_temperature,omitempty"`
	HasSnow          bool     `json:"has_snow"`
	HasFreezingTemp  bool     `json:"has_freezing_temp"`
}

// TimeCandidate is one fully evaluated departure-time option. Immutable
// after creation.
type TimeCandidate struct {
	DepartureTime  time.Time      `json:"departure_time"`
	Score          int            `json:"score"`
	WeatherSummary WeatherSummary `json:"weather_summary"`
	HazardCount    int            `json:"hazard_count"`
	Route          *RouteModel    `json:"route"`
}
