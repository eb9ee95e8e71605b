// internal/reorder/decision.go
package reorder

import (
	"fmt"
	"math"
	"sort"

	"github.com/kiranalabs/restock/internal/domain"
)

// Defaults for the decision policy. Both are config-overridable.
const (
	DefaultSafetyMultiplier = 1.2
	DefaultVelocityPct      = 20.0
)

// Input is everything the decision needs for one product.
type Input struct {
	ForecastedDemand float64
	CurrentStock     int
	VelocityChange   float64
	SafetyMultiplier float64
	VelocityPct      float64
	Horizon          int
}

// Decision is the computed reorder outcome for one product.
type Decision struct {
	Qty     int
	Reason  string
	Urgency domain.Urgency
}

// Decide converts forecast total, current stock and sales velocity into
// a quantity, an urgency tier and a human-readable justification. The
// urgency rules are evaluated in priority order; first match wins.
func Decide(in Input) Decision {
	if in.SafetyMultiplier < 1 {
		in.SafetyMultiplier = DefaultSafetyMultiplier
	}
	if in.VelocityPct <= 0 {
		in.VelocityPct = DefaultVelocityPct
	}
	if in.Horizon < 1 {
		in.Horizon = 1
	}

	safetyStock := in.ForecastedDemand * (in.SafetyMultiplier - 1)
	qty := int(math.Round(in.ForecastedDemand + safetyStock - float64(in.CurrentStock)))
	if qty < 0 {
		qty = 0
	}

	coverageDays := math.Inf(1)
	if in.ForecastedDemand > 0 {
		daily := in.ForecastedDemand / float64(in.Horizon)
		coverageDays = float64(in.CurrentStock) / daily
	}

	coverageText := fmt.Sprintf("%.1f", math.Min(99.9, coverageDays))
	if coverageDays > 99 {
		coverageText = "99+"
	}

	var d Decision
	d.Qty = qty

	switch {
	case in.CurrentStock == 0:
		d.Urgency = domain.UrgencyCritical
		d.Reason = "Out of stock! Immediate reorder needed."
	case coverageDays < 2:
		d.Urgency = domain.UrgencyCritical
		d.Reason = fmt.Sprintf("Stock-out risk: only %s days of stock left.", coverageText)
	case coverageDays < 4:
		d.Urgency = domain.UrgencyHigh
		d.Reason = fmt.Sprintf("Low stock: %s days remaining.", coverageText)
	case in.VelocityChange >= in.VelocityPct:
		d.Urgency = domain.UrgencyHigh
		d.Reason = fmt.Sprintf("%+.0f%% velocity increase vs last week.", in.VelocityChange)
	case in.VelocityChange >= in.VelocityPct/2:
		d.Urgency = domain.UrgencyMedium
		d.Reason = fmt.Sprintf("%+.0f%% velocity increase. Monitor closely.", in.VelocityChange)
	default:
		d.Urgency = domain.UrgencyLow
		d.Reason = fmt.Sprintf("Regular restock for %d-day forecast.", in.Horizon)
	}

	return d
}

// Rank orders recommendations by urgency, critical first. The sort is
// stable: ties keep encounter order.
func Rank(items []domain.ReorderItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Urgency.Rank() < items[j].Urgency.Rank()
	})
}
