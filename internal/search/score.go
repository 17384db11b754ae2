package search

import (
	"math"

	"kjorefore/internal/types"
)

// ScoreWeights are the per-factor multipliers used when deducting from a
// slot's base score of 100.
type ScoreWeights struct {
	Precipitation float64
	Wind          float64
	Hazard        float64
}

// DefaultScoreWeights returns the standard weighting.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		Precipitation: 3,
		Wind:          2,
		Hazard:        20,
	}
}

// Score rates a route's weather on a 0-100 scale. Every segment with a
// reading can deduct: heavy precipitation (>2 mm/h) costs up to 10 points,
// strong wind (>15 m/s) up to 15 points, and a hazardous classification a
// flat 20. The float total is rounded, then clamped to [0, 100].
func Score(segments []types.RouteSegment, weights ScoreWeights) int {
	score := 100.0

	for _, seg := range segments {
		w := seg.Weather
		if w == nil {
			continue
		}
		if w.PrecipitationMmPerHour > 2 {
			score -= math.Min(10, w.PrecipitationMmPerHour*weights.Precipitation)
		}
		if w.WindSpeedMps > 15 {
			score -= math.Min(15, (w.WindSpeedMps-15)*weights.Wind)
		}
		if seg.IsHazardous {
			score -= weights.Hazard
		}
	}

	rounded := int(math.Round(score))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}

// Summarize aggregates the per-segment readings into a compact overview.
// Segments without a reading are excluded from every statistic. With no
// readings at all the averages and maxima are zero and the temperature
// extrema are nil.
func Summarize(segments []types.RouteSegment) types.WeatherSummary {
	var summary types.WeatherSummary

	var (
		precipSum float64
		count     int
		minTemp   float64
		maxTemp   float64
	)

	for _, seg := range segments {
		w := seg.Weather
		if w == nil {
			continue
		}

		precipSum += w.PrecipitationMmPerHour
		if w.PrecipitationMmPerHour > summary.MaxPrecipitation {
			summary.MaxPrecipitation = w.PrecipitationMmPerHour
		}
		if w.WindSpeedMps > summary.MaxWindSpeed {
			summary.MaxWindSpeed = w.WindSpeedMps
		}

		if count == 0 || w.TemperatureC < minTemp {
			minTemp = w.TemperatureC
		}
		if count == 0 || w.TemperatureC > maxTemp {
			maxTemp = w.TemperatureC
		}
		count++

		if w.TemperatureC < 2 && w.PrecipitationMmPerHour > 0 {
			summary.HasSnow = true
		}
		if w.TemperatureC >= -2 && w.TemperatureC <= 2 {
			summary.HasFreezingTemp = true
		}
	}

	if count > 0 {
		summary.AvgPrecipitation = round1(precipSum / float64(count))
		lo, hi := round1(minTemp), round1(maxTemp)
		summary.MinTemperature = &lo
		summary.MaxTemperature = &hi
	}
	summary.MaxPrecipitation = round1(summary.MaxPrecipitation)
	summary.MaxWindSpeed = round1(summary.MaxWindSpeed)

	return summary
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
