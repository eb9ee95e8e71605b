// internal/forecast/forecast_test.go
package forecast

import (
	"math"
	"testing"
	"time"

	"github.com/kiranalabs/restock/internal/domain"
)

var seriesStart = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

// dailySeries builds a contiguous series starting Jan 1 2026.
func dailySeries(units ...float64) Series {
	obs := make([]Observation, len(units))
	for i, u := range units {
		obs[i] = Observation{Date: seriesStart.AddDate(0, 0, i), Units: u}
	}
	return NewSeries(obs)
}

func constantSeries(days int, units float64) Series {
	vals := make([]float64, days)
	for i := range vals {
		vals[i] = units
	}
	return dailySeries(vals...)
}

func TestNewSeriesFillsGapsAndSorts(t *testing.T) {
	obs := []Observation{
		{Date: seriesStart.AddDate(0, 0, 4), Units: 5},
		{Date: seriesStart, Units: 2},
		{Date: seriesStart.AddDate(0, 0, 2), Units: 3},
	}
	s := NewSeries(obs)

	if s.Days() != 5 {
		t.Fatalf("days = %d, want 5", s.Days())
	}
	want := []float64{2, 0, 3, 0, 5}
	for i, w := range want {
		if s.Units[i] != w {
			t.Errorf("units[%d] = %v, want %v", i, s.Units[i], w)
		}
	}
	if !s.LastDate().Equal(seriesStart.AddDate(0, 0, 4)) {
		t.Errorf("last date = %v", s.LastDate())
	}
}

func TestNewSeriesDuplicateDatesKeepLast(t *testing.T) {
	s := NewSeries([]Observation{
		{Date: seriesStart, Units: 2},
		{Date: seriesStart, Units: 9},
	})
	if s.Days() != 1 || s.Units[0] != 9 {
		t.Errorf("got %+v, want single day at 9", s)
	}
}

func TestSelectModel(t *testing.T) {
	tests := []struct {
		days int
		want domain.ForecastModel
	}{
		{1, domain.ModelNaive},
		{29, domain.ModelNaive},
		{30, domain.ModelMovingAverage},
		{59, domain.ModelMovingAverage},
		{60, domain.ModelArima},
		{365, domain.ModelArima},
	}
	for _, tt := range tests {
		if got := SelectModel(tt.days); got != tt.want {
			t.Errorf("SelectModel(%d) = %v, want %v", tt.days, got, tt.want)
		}
	}
}

func TestForecastHorizonValidation(t *testing.T) {
	s := constantSeries(10, 5)
	for _, h := range []int{0, -1, 31, 100} {
		if _, _, err := Forecast(s, h); err == nil {
			t.Errorf("horizon %d: expected error", h)
		}
	}
	if _, _, err := Forecast(Series{}, 7); err == nil {
		t.Error("empty series: expected error")
	}
}

// checkPoints verifies the shape contract shared by all models: exactly
// horizon points on consecutive days after the last observation, bands
// ordered and non-negative.
func checkPoints(t *testing.T, s Series, points []domain.ForecastPoint, horizon int) {
	t.Helper()
	if len(points) != horizon {
		t.Fatalf("got %d points, want %d", len(points), horizon)
	}
	for i, p := range points {
		wantDate := s.LastDate().AddDate(0, 0, i+1)
		if !p.Date.Equal(wantDate) {
			t.Errorf("point %d date = %v, want %v", i, p.Date, wantDate)
		}
		if p.ConfidenceLower > p.ConfidenceUpper {
			t.Errorf("point %d: lower %v > upper %v", i, p.ConfidenceLower, p.ConfidenceUpper)
		}
		if p.ConfidenceLower < 0 {
			t.Errorf("point %d: lower %v < 0", i, p.ConfidenceLower)
		}
		if p.PredictedUnits < 0 {
			t.Errorf("point %d: predicted %v < 0", i, p.PredictedUnits)
		}
	}
}

func TestForecastPointShapePerModel(t *testing.T) {
	tests := []struct {
		name      string
		s         Series
		wantModel domain.ForecastModel
	}{
		{"short history", dailySeries(3, 5, 2, 7, 4), domain.ModelNaive},
		{"medium history", constantSeries(45, 6), domain.ModelMovingAverage},
		{"long history", noisySeries(120), domain.ModelArima},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			const horizon = 7
			points, model, err := Forecast(tt.s, horizon)
			if err != nil {
				t.Fatalf("Forecast: %v", err)
			}
			if model != tt.wantModel {
				// ARIMA may legitimately downgrade; anything else must match.
				if tt.wantModel != domain.ModelArima || model != domain.ModelMovingAverage {
					t.Errorf("model = %v, want %v", model, tt.wantModel)
				}
			}
			checkPoints(t, tt.s, points, horizon)
		})
	}
}

// noisySeries produces a deterministic series with enough variation for
// ARIMA fitting to have something to work with.
func noisySeries(days int) Series {
	vals := make([]float64, days)
	for i := range vals {
		vals[i] = 10 + 3*math.Sin(float64(i)/5) + float64(i%3)
	}
	return dailySeries(vals...)
}

func TestForecastConstantNinetyDays(t *testing.T) {
	s := constantSeries(90, 10)
	points, model, err := Forecast(s, 7)
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	if model != domain.ModelArima && model != domain.ModelMovingAverage {
		t.Errorf("model = %v, want arima or its moving-average fallback", model)
	}
	checkPoints(t, s, points, 7)
	for i, p := range points {
		if math.Abs(p.PredictedUnits-10) > 1 {
			t.Errorf("point %d predicted %v, want ~10", i, p.PredictedUnits)
		}
	}
}

func TestNaiveForecastBand(t *testing.T) {
	s := dailySeries(10)
	points := NaiveForecast(s, 3)
	checkPoints(t, s, points, 3)
	for _, p := range points {
		if p.PredictedUnits != 10 {
			t.Errorf("predicted = %v, want 10", p.PredictedUnits)
		}
		// Single observation: spread defaults to 20% of the mean.
		if p.ConfidenceLower != round2(10-ciZ*2) || p.ConfidenceUpper != round2(10+ciZ*2) {
			t.Errorf("band = [%v, %v]", p.ConfidenceLower, p.ConfidenceUpper)
		}
	}
}

func TestMovingAverageTrendCapped(t *testing.T) {
	// Steep ramp: uncapped trend would explode over 14 days.
	vals := make([]float64, 40)
	for i := range vals {
		vals[i] = float64(i * 5)
	}
	s := dailySeries(vals...)

	points := MovingAverageForecast(s, 14)
	checkPoints(t, s, points, 14)

	base := points[0].PredictedUnits
	last := points[len(points)-1].PredictedUnits
	if last > base*2.5 {
		t.Errorf("trend ran away: first %v, last %v", base, last)
	}
	// Interval must widen with horizon step.
	w0 := points[0].ConfidenceUpper - points[0].ConfidenceLower
	wN := points[13].ConfidenceUpper - points[13].ConfidenceLower
	if wN <= w0 {
		t.Errorf("interval did not widen: first %v, last %v", w0, wN)
	}
}

func TestVelocityChange(t *testing.T) {
	tests := []struct {
		name string
		s    Series
		want float64
	}{
		{"too short", constantSeries(13, 5), 0},
		{"exactly two windows flat", constantSeries(14, 5), 0},
		{"doubling", dailySeries(
			5, 5, 5, 5, 5, 5, 5,
			10, 10, 10, 10, 10, 10, 10,
		), 100},
		{"halving", dailySeries(
			10, 10, 10, 10, 10, 10, 10,
			5, 5, 5, 5, 5, 5, 5,
		), -50},
		{"from zero", dailySeries(
			0, 0, 0, 0, 0, 0, 0,
			3, 3, 3, 3, 3, 3, 3,
		), 100},
		{"zero to zero", constantSeries(14, 0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VelocityChange(tt.s, DefaultRecentDays, DefaultCompareDays)
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVelocityChangeRounding(t *testing.T) {
	// 7 days at 3 then 7 days at 4: +33.333...% rounds to 33.3.
	s := dailySeries(3, 3, 3, 3, 3, 3, 3, 4, 4, 4, 4, 4, 4, 4)
	if got := VelocityChange(s, 0, 0); got != 33.3 {
		t.Errorf("got %v, want 33.3", got)
	}
}
