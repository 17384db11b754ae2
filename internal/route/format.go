package route

import (
	"fmt"
	"math"
	"time"
)

// FormatDistance renders a distance in meters for display: whole meters
// below one kilometer, otherwise kilometers with one decimal.
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%d m", int(math.Round(meters)))
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}

// FormatDuration renders a duration in seconds as "1t 30min" style text
// (hours use the Norwegian "t" suffix).
func FormatDuration(seconds float64) string {
	hours := int(seconds) / 3600
	minutes := (int(seconds) % 3600) / 60

	if hours > 0 {
		return fmt.Sprintf("%dt %dmin", hours, minutes)
	}
	return fmt.Sprintf("%d min", minutes)
}

// ETA estimates the arrival time from the remaining distance in meters and
// the current speed in km/h, measured from now. A non-positive speed means
// no estimate can be made.
func ETA(now time.Time, distanceRemaining, speedKmh float64) (time.Time, bool) {
	if speedKmh <= 0 {
		return time.Time{}, false
	}

	speedMps := speedKmh * 1000 / 3600
	secondsRemaining := distanceRemaining / speedMps

	return now.Add(time.Duration(secondsRemaining * float64(time.Second))), true
}
