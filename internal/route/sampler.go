// Package route turns continuous route geometry into the discrete weather
// sampling points the rest of the core operates on.
package route

import (
	"math"
	"time"

	"kjorefore/internal/geo"
	"kjorefore/internal/types"
)

// SampleInterval is the fixed temporal cadence between weather points.
const SampleInterval = 30 * time.Minute

// Sample produces the ordered weather points for a route: one point every
// 30 minutes of estimated driving, with a minimum of two (start and end)
// so even trips shorter than the interval get sampled. The weather field
// of each segment is left unset.
//
// The model is purely time-linear: point i sits at fraction i/(n-1) of the
// polyline index range and is reached at departure + i*30min, assuming
// uniform speed over the whole route. Cumulative distance is accumulated
// between successive sampled vertices rather than along the raw geometry,
// so distances are index-approximate; downstream consumers depend on these
// exact values and the approximation is deliberate.
//
// First, last, and every second point are flagged important. An empty
// polyline yields no points.
func Sample(polyline []types.Coordinate, totalDurationSeconds float64, departureTime time.Time) []types.RouteSegment {
	if len(polyline) == 0 {
		return nil
	}

	intervalMs := float64(SampleInterval / time.Millisecond)
	n := int(math.Ceil(totalDurationSeconds * 1000 / intervalMs))
	if n < 2 {
		n = 2
	}

	segments := make([]types.RouteSegment, 0, n)
	accumulated := 0.0

	for i := 0; i < n; i++ {
		fraction := float64(i) / float64(n-1)
		idx := int(math.Floor(fraction * float64(len(polyline)-1)))

		if i > 0 {
			prevFraction := float64(i-1) / float64(n-1)
			prevIdx := int(math.Floor(prevFraction * float64(len(polyline)-1)))
			accumulated += geo.Distance(polyline[prevIdx], polyline[idx])
		}

		segments = append(segments, types.RouteSegment{
			Location: types.Location{
				Coordinates: polyline[idx],
			},
			DistanceFromStart:    accumulated,
			EstimatedArrivalTime: departureTime.Add(time.Duration(i) * SampleInterval),
			IsImportant:          i == 0 || i == n-1 || i%2 == 0,
		})
	}

	return segments
}

// PointCount returns the number of sampling points Sample will produce for
// the given duration, before consulting any geometry.
func PointCount(totalDurationSeconds float64) int {
	intervalMs := float64(SampleInterval / time.Millisecond)
	n := int(math.Ceil(totalDurationSeconds * 1000 / intervalMs))
	if n < 2 {
		n = 2
	}
	return n
}
