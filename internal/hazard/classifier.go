// Package hazard classifies weather readings into driving-hazard verdicts.
//
// Classification is an ordered list of predicate/kind pairs evaluated in
// sequence; the first matching rule wins. The order is part of the
// contract: a freezing reading on a windy mountain pass is reported as
// freezing, not mountain.
package hazard

import "kjorefore/internal/types"

// Input is the reading a rule is evaluated against. Elevation is optional;
// rules that need it must treat a nil ElevationM as "not present".
type Input struct {
	TemperatureC           float64
	PrecipitationMmPerHour float64
	WindSpeedMps           float64
	ElevationM             *float64
}

// Verdict is the result of classification. Kind is empty when the reading
// is not hazardous.
type Verdict struct {
	IsHazardous bool
	Kind        types.HazardKind
}

// rule pairs a predicate with the hazard kind it produces.
type rule struct {
	kind  types.HazardKind
	match func(Input) bool
}

// rules in priority order. First match wins.
var rules = []rule{
	{types.HazardFreezing, func(in Input) bool {
		return in.TemperatureC >= -2 && in.TemperatureC <= 2
	}},
	{types.HazardHeavyPrecipitation, func(in Input) bool {
		return in.PrecipitationMmPerHour > 2
	}},
	{types.HazardMountain, func(in Input) bool {
		return in.ElevationM != nil && *in.ElevationM > 500 &&
			(in.WindSpeedMps > 10 || in.PrecipitationMmPerHour > 0.5)
	}},
	{types.HazardHighWind, func(in Input) bool {
		return in.WindSpeedMps > 15
	}},
}

// Classify evaluates the rule list against in and returns the verdict of
// the first matching rule, or a non-hazardous verdict when none match.
// It is a total function: every input yields a verdict.
func Classify(in Input) Verdict {
	for _, r := range rules {
		if r.match(in) {
			return Verdict{IsHazardous: true, Kind: r.kind}
		}
	}
	return Verdict{}
}

// ClassifyReading adapts a resolved WeatherReading plus optional elevation
// to Classify. A nil reading is never hazardous.
func ClassifyReading(w *types.WeatherReading, elevationM *float64) Verdict {
	if w == nil {
		return Verdict{}
	}
	return Classify(Input{
		TemperatureC:           w.TemperatureC,
		PrecipitationMmPerHour: w.PrecipitationMmPerHour,
		WindSpeedMps:           w.WindSpeedMps,
		ElevationM:             elevationM,
	})
}

// Warning returns the advisory text shown alongside a hazard kind.
func Warning(kind types.HazardKind) string {
	switch kind {
	case types.HazardFreezing:
		return "Risk of icy roads - temperatures around the freezing point"
	case types.HazardHeavyPrecipitation:
		return "Heavy precipitation - reduced visibility"
	case types.HazardHighWind:
		return "Strong wind - drive carefully"
	case types.HazardMountain:
		return "Mountain weather - be prepared"
	default:
		return "Stay alert"
	}
}
