// internal/forecast/velocity.go
package forecast

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Default window sizes for velocity comparison: last week vs the week
// before it.
const (
	DefaultRecentDays  = 7
	DefaultCompareDays = 7
)

// VelocityChange compares mean demand over the most recent window to the
// window immediately preceding it and returns the percentage change,
// rounded to one decimal. Shorter series return 0: insufficient signal
// is not an error.
func VelocityChange(s Series, recentDays, compareDays int) float64 {
	if recentDays <= 0 {
		recentDays = DefaultRecentDays
	}
	if compareDays <= 0 {
		compareDays = DefaultCompareDays
	}

	n := s.Days()
	if n < recentDays+compareDays {
		return 0
	}

	recent := stat.Mean(s.Units[n-recentDays:], nil)
	previous := stat.Mean(s.Units[n-recentDays-compareDays:n-recentDays], nil)

	if previous == 0 {
		if recent > 0 {
			return 100
		}
		return 0
	}

	return math.Round((recent-previous)/previous*1000) / 10
}
