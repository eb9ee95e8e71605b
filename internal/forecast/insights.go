// internal/forecast/insights.go
package forecast

import "fmt"

// trendPct is the velocity cutoff for counting a product as trending.
const trendPct = 10.0

// Insights summarizes a forecast batch in plain language for
// non-technical store owners: total volume, how many products are
// trending, and the top expected seller.
func Insights(results map[string]Result) []string {
	if len(results) == 0 {
		return []string{"Not enough data to generate insights yet."}
	}

	var (
		totalVolume  float64
		velocityUp   int
		velocityDown int
		topProduct   string
		maxDemand    = -1.0
	)

	for _, res := range results {
		vol := 0.0
		for _, p := range res.Points {
			vol += p.PredictedUnits
		}
		totalVolume += vol

		if res.VelocityChange > trendPct {
			velocityUp++
		} else if res.VelocityChange < -trendPct {
			velocityDown++
		}

		if vol > maxDemand {
			maxDemand = vol
			topProduct = res.SKUName
		}
	}

	insights := []string{
		fmt.Sprintf("We predicted a total demand of %d units across all products for the next period.", int(totalVolume)),
	}

	if velocityUp > velocityDown {
		insights = append(insights, fmt.Sprintf("Good news! %d products are showing a strong upward sales trend.", velocityUp))
	} else if velocityDown > velocityUp {
		insights = append(insights, fmt.Sprintf("Heads up: %d products are selling slower than usual. You might want to run a promotion.", velocityDown))
	}

	if topProduct != "" {
		insights = append(insights, fmt.Sprintf("Star Performer: '%s' is expected to be your highest selling item.", topProduct))
	}

	return insights
}
