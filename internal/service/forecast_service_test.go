// internal/service/forecast_service_test.go
package service

import (
	"strings"
	"testing"
	"time"

	"github.com/kiranalabs/restock/internal/domain"
)

func storedForecast(skuID, name string, start time.Time, units ...float64) SKUForecast {
	f := SKUForecast{SKUID: skuID, SKUName: name, Model: domain.ModelMovingAverage}
	for i, u := range units {
		f.Points = append(f.Points, domain.ForecastPoint{
			Date:           start.AddDate(0, 0, i),
			PredictedUnits: u,
		})
	}
	return f
}

func TestStoredInsightsEmpty(t *testing.T) {
	insights := StoredInsights(nil)
	if len(insights) != 1 || !strings.Contains(insights[0], "Not enough data") {
		t.Errorf("insights for empty listing = %v", insights)
	}
}

func TestStoredInsightsTotalAndStar(t *testing.T) {
	start := day(2026, time.March, 1)
	forecasts := []SKUForecast{
		storedForecast("sugar", "Sugar", start, 10, 12, 8),
		storedForecast("rice", "Rice", start, 20, 25, 25),
	}

	insights := StoredInsights(forecasts)

	var foundTotal, foundStar bool
	for _, line := range insights {
		if strings.Contains(line, "total demand of 100 units") {
			foundTotal = true
		}
		if strings.Contains(line, "Star Performer: 'Rice'") {
			foundStar = true
		}
	}
	if !foundTotal {
		t.Errorf("missing total demand line in %v", insights)
	}
	if !foundStar {
		t.Errorf("missing star performer line in %v", insights)
	}
}
