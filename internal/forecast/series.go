// internal/forecast/series.go
package forecast

import (
	"sort"
	"time"
)

// Observation is one observed day of demand.
type Observation struct {
	Date  time.Time
	Units float64
}

// Series is a date-contiguous daily demand series for one sku. Gaps in
// the observed data are zero-demand days, filled before modeling.
type Series struct {
	Start time.Time
	Units []float64
}

// NewSeries builds a contiguous series from observations. Input order
// does not matter; duplicate dates keep the last value; missing days
// become zeros.
func NewSeries(obs []Observation) Series {
	if len(obs) == 0 {
		return Series{}
	}

	sorted := make([]Observation, len(obs))
	copy(sorted, obs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	start := day(sorted[0].Date)
	end := day(sorted[len(sorted)-1].Date)
	n := int(end.Sub(start).Hours()/24) + 1

	units := make([]float64, n)
	for _, o := range sorted {
		units[int(day(o.Date).Sub(start).Hours()/24)] = o.Units
	}

	return Series{Start: start, Units: units}
}

// Days returns the length of the zero-filled history in days.
func (s Series) Days() int { return len(s.Units) }

// LastDate returns the final observed day.
func (s Series) LastDate() time.Time {
	if len(s.Units) == 0 {
		return time.Time{}
	}
	return s.Start.AddDate(0, 0, len(s.Units)-1)
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
