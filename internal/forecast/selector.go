// internal/forecast/selector.go
package forecast

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/kiranalabs/restock/internal/domain"
)

// History thresholds for model selection, in days of zero-filled,
// contiguous history.
const (
	MinDaysMovingAverage = 30
	MinDaysArima         = 60
)

// Horizon bounds, validated by callers at the API boundary and enforced
// here as a hard contract.
const (
	MinHorizon = 1
	MaxHorizon = 30
)

// SelectModel returns the model tier for a given history length. Each
// tier is terminal for a run; short history is a downgrade, not an error.
func SelectModel(days int) domain.ForecastModel {
	switch {
	case days < MinDaysMovingAverage:
		return domain.ModelNaive
	case days < MinDaysArima:
		return domain.ModelMovingAverage
	default:
		return domain.ModelArima
	}
}

// Forecast produces exactly horizon points, one per consecutive day after
// the last observed date, with the model chosen by data sufficiency.
// An ARIMA failure downgrades that product to the moving average — a
// full model swap, never a partial result.
func Forecast(s Series, horizon int) ([]domain.ForecastPoint, domain.ForecastModel, error) {
	if horizon < MinHorizon || horizon > MaxHorizon {
		return nil, "", fmt.Errorf("horizon must be within [%d,%d], got %d", MinHorizon, MaxHorizon, horizon)
	}
	if s.Days() == 0 {
		return nil, "", fmt.Errorf("empty series")
	}

	model := SelectModel(s.Days())

	switch model {
	case domain.ModelNaive:
		return NaiveForecast(s, horizon), domain.ModelNaive, nil
	case domain.ModelMovingAverage:
		return MovingAverageForecast(s, horizon), domain.ModelMovingAverage, nil
	default:
		points, err := ArimaForecast(s, horizon)
		if err != nil {
			log.Warn().Err(err).Msg("ARIMA failed, falling back to moving average")
			return MovingAverageForecast(s, horizon), domain.ModelMovingAverage, nil
		}
		return points, domain.ModelArima, nil
	}
}
