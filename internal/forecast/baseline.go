// internal/forecast/baseline.go
//
// Baseline models. Start simple, stay boring: if ARIMA cannot beat
// these, the answer is not a bigger model.
package forecast

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/kiranalabs/restock/internal/domain"
)

const ciZ = 1.96 // 95% normal quantile

// NaiveForecast repeats the average of the last up-to-7 observed days
// for every horizon day. The confidence band is mean ± 1.96·std; with a
// single observation the spread defaults to 20% of the mean.
func NaiveForecast(s Series, horizon int) []domain.ForecastPoint {
	if s.Days() == 0 {
		return nil
	}

	lookback := 7
	if s.Days() < lookback {
		lookback = s.Days()
	}
	recent := s.Units[s.Days()-lookback:]

	avg := stat.Mean(recent, nil)
	std := avg * 0.2
	if len(recent) > 1 {
		std = stat.StdDev(recent, nil)
	}

	last := s.LastDate()
	points := make([]domain.ForecastPoint, 0, horizon)
	for i := 1; i <= horizon; i++ {
		points = append(points, domain.ForecastPoint{
			Date:            last.AddDate(0, 0, i),
			PredictedUnits:  round2(avg),
			ConfidenceLower: round2(math.Max(0, avg-ciZ*std)),
			ConfidenceUpper: round2(avg + ciZ*std),
		})
	}

	return points
}

// MovingAverageForecast projects the last rolling mean forward with a
// capped linear trend. The interval widens linearly with horizon step.
func MovingAverageForecast(s Series, horizon int) []domain.ForecastPoint {
	if s.Days() < 3 {
		return NaiveForecast(s, horizon)
	}

	window := 7
	if s.Days() < window {
		window = s.Days()
	}
	ma := rollingMean(s.Units, window)

	// Trend: last 3 rolling values vs the first half of the series,
	// per day, capped at ±10% of the recent level to keep long
	// horizons from running away.
	recentMA := stat.Mean(ma[len(ma)-3:], nil)
	olderN := len(s.Units) / 2
	if olderN < 3 {
		olderN = 3
	}
	olderMA := stat.Mean(ma[:olderN], nil)

	daysBetween := len(s.Units) / 2
	if daysBetween < 1 {
		daysBetween = 1
	}
	trend := (recentMA - olderMA) / float64(daysBetween)

	maxTrend := recentMA * 0.1
	trend = math.Max(-maxTrend, math.Min(maxTrend, trend))

	std := stat.StdDev(s.Units, nil)
	base := ma[len(ma)-1]
	last := s.LastDate()

	points := make([]domain.ForecastPoint, 0, horizon)
	for i := 1; i <= horizon; i++ {
		predicted := math.Max(0, base+trend*float64(i))
		width := std * (1 + 0.1*float64(i))

		points = append(points, domain.ForecastPoint{
			Date:            last.AddDate(0, 0, i),
			PredictedUnits:  round2(predicted),
			ConfidenceLower: round2(math.Max(0, predicted-ciZ*width)),
			ConfidenceUpper: round2(predicted + ciZ*width),
		})
	}

	return points
}

// rollingMean computes a trailing mean with partial windows at the head,
// so the result has the same length as the input.
func rollingMean(xs []float64, window int) []float64 {
	out := make([]float64, len(xs))
	sum := 0.0
	for i, x := range xs {
		sum += x
		n := window
		if i+1 < window {
			n = i + 1
		} else if i >= window {
			sum -= xs[i-window]
		}
		out[i] = sum / float64(n)
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
