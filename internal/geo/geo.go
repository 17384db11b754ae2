// Package geo provides the pure geospatial primitives the route-weather
// core is built on: great-circle distance, initial bearing, polyline
// interpolation, nearest-vertex lookup, and the encoded-polyline decoder.
//
// All functions are total over their valid input domain and allocate at
// most the slices they return; only polyline decoding can fail.
package geo

import (
	"math"

	"kjorefore/internal/types"
)

// EarthRadiusMeters is the mean Earth radius used by the haversine formula.
const EarthRadiusMeters = 6371000.0

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }

// Distance returns the haversine great-circle distance between a and b in
// meters. It is symmetric, and zero iff a == b.
func Distance(a, b types.Coordinate) float64 {
	phi1 := toRadians(a.Lat)
	phi2 := toRadians(b.Lat)
	dPhi := toRadians(b.Lat - a.Lat)
	dLambda := toRadians(b.Lng - a.Lng)

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

// Bearing returns the initial bearing from a to b in degrees [0, 360),
// where 0 is north. When a == b the bearing is undefined and 0 is returned.
func Bearing(a, b types.Coordinate) float64 {
	phi1 := toRadians(a.Lat)
	phi2 := toRadians(b.Lat)
	dLambda := toRadians(b.Lng - a.Lng)

	y := math.Sin(dLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)

	theta := math.Atan2(y, x)
	return math.Mod(theta*180/math.Pi+360, 360)
}

// InterpolateAlongPath walks the cumulative segment distances of path and
// returns the position targetDistance meters from its start. Targets at or
// below zero resolve to the first vertex, targets beyond the total length
// to the last. Within the bracketing segment lat/lng are interpolated
// linearly, which is an acceptable approximation at sub-segment scale.
//
// The boolean is false only for an empty path.
func InterpolateAlongPath(path []types.Coordinate, targetDistance float64) (types.Coordinate, bool) {
	if len(path) == 0 {
		return types.Coordinate{}, false
	}
	if targetDistance <= 0 {
		return path[0], true
	}

	accumulated := 0.0
	for i := 0; i < len(path)-1; i++ {
		segment := Distance(path[i], path[i+1])
		if accumulated+segment >= targetDistance {
			fraction := (targetDistance - accumulated) / segment
			return types.Coordinate{
				Lat: path[i].Lat + (path[i+1].Lat-path[i].Lat)*fraction,
				Lng: path[i].Lng + (path[i+1].Lng-path[i].Lng)*fraction,
			}, true
		}
		accumulated += segment
	}

	return path[len(path)-1], true
}

// NearestPointOnPath scans path linearly and returns the index of the
// vertex closest to point, along with its distance in meters. An empty
// path yields index 0 and an infinite distance. Paths stay small enough
// that a spatial index is not worth its complexity here.
func NearestPointOnPath(point types.Coordinate, path []types.Coordinate) (int, float64) {
	minDistance := math.Inf(1)
	closestIndex := 0

	for i, vertex := range path {
		if d := Distance(point, vertex); d < minDistance {
			minDistance = d
			closestIndex = i
		}
	}

	return closestIndex, minDistance
}

// SnapToPath returns the path vertex nearest to point if it lies within
// tolerance meters, otherwise point unchanged.
func SnapToPath(point types.Coordinate, path []types.Coordinate, tolerance float64) types.Coordinate {
	snapped := point
	minDistance := math.Inf(1)

	for _, vertex := range path {
		if d := Distance(point, vertex); d < minDistance && d < tolerance {
			minDistance = d
			snapped = vertex
		}
	}

	return snapped
}

// PathDistance returns the total length of path in meters.
func PathDistance(path []types.Coordinate) float64 {
	total := 0.0
	for i := 0; i < len(path)-1; i++ {
		total += Distance(path[i], path[i+1])
	}
	return total
}

// SplitByDistance thins path to vertices roughly intervalMeters apart.
// The first and last vertices are always included.
func SplitByDistance(path []types.Coordinate, intervalMeters float64) []types.Coordinate {
	if len(path) == 0 {
		return nil
	}

	out := []types.Coordinate{path[0]}
	accumulated := 0.0
	lastEmitted := 0.0

	for i := 0; i < len(path)-1; i++ {
		accumulated += Distance(path[i], path[i+1])
		if accumulated-lastEmitted >= intervalMeters {
			out = append(out, path[i+1])
			lastEmitted = accumulated
		}
	}

	last := path[len(path)-1]
	if out[len(out)-1] != last {
		out = append(out, last)
	}

	return out
}
