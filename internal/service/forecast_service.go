// internal/service/forecast_service.go
package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kiranalabs/restock/internal/domain"
	"github.com/kiranalabs/restock/internal/forecast"
	"github.com/kiranalabs/restock/internal/repository"
	"github.com/kiranalabs/restock/internal/seasonal"
)

// ForecastService runs the per-store forecasting pipeline: load history,
// fan out per-product model fitting, apply the festival signal, persist.
type ForecastService struct {
	stores    repository.StoreRepository
	skus      repository.SKURepository
	sales     repository.SalesRepository
	forecasts repository.ForecastRepository

	orchestrator *forecast.Orchestrator
	seasonal     *seasonal.Provider

	defaultHorizon int
}

func NewForecastService(
	stores repository.StoreRepository,
	skus repository.SKURepository,
	sales repository.SalesRepository,
	forecasts repository.ForecastRepository,
	orchestrator *forecast.Orchestrator,
	seasonalProvider *seasonal.Provider,
	defaultHorizon int,
) *ForecastService {
	if defaultHorizon < forecast.MinHorizon || defaultHorizon > forecast.MaxHorizon {
		defaultHorizon = 7
	}
	return &ForecastService{
		stores:         stores,
		skus:           skus,
		sales:          sales,
		forecasts:      forecasts,
		orchestrator:   orchestrator,
		seasonal:       seasonalProvider,
		defaultHorizon: defaultHorizon,
	}
}

// RunOutput is the result of one forecast run.
type RunOutput struct {
	StoreID     string                     `json:"store_id"`
	Horizon     int                        `json:"forecast_horizon"`
	SKUCount    int                        `json:"skus_forecasted"`
	Results     map[string]forecast.Result `json:"-"`
	Insights    []string                   `json:"insights"`
	GeneratedAt time.Time                  `json:"generated_at"`
}

// Run forecasts every sku of a store over the horizon and supersedes
// the stored forecast batch. Products whose model fails are dropped from
// the batch, never the whole run.
func (s *ForecastService) Run(ctx context.Context, storeID string, horizon int) (*RunOutput, error) {
	horizon = s.normalizeHorizon(horizon)

	store, err := s.stores.GetByStoreID(ctx, storeID)
	if err != nil {
		return nil, err
	}

	catalog, err := s.skus.ListByStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	if len(catalog) == 0 {
		return nil, fmt.Errorf("store %s has no products to forecast", storeID)
	}

	byDBID := make(map[int64]domain.SKU, len(catalog))
	byNatural := make(map[string]domain.SKU, len(catalog))
	for _, sku := range catalog {
		byDBID[sku.ID] = sku
		byNatural[sku.SKUID] = sku
	}

	txs, err := s.sales.ListByStore(ctx, store.ID, nil)
	if err != nil {
		return nil, err
	}

	tasks := buildTasks(txs, byDBID)
	if len(tasks) == 0 {
		return nil, fmt.Errorf("store %s has no sales history to forecast", storeID)
	}

	results := s.orchestrator.ForecastAll(ctx, tasks, horizon)
	s.applySeasonality(ctx, results)

	if err := s.persist(ctx, store.ID, byNatural, results, horizon); err != nil {
		return nil, err
	}

	return &RunOutput{
		StoreID:     storeID,
		Horizon:     horizon,
		SKUCount:    len(results),
		Results:     results,
		Insights:    forecast.Insights(results),
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// SKUForecast is the API-facing forecast listing for one product.
type SKUForecast struct {
	SKUID   string                 `json:"sku_id"`
	SKUName string                 `json:"sku_name"`
	Model   domain.ForecastModel   `json:"model_used"`
	Points  []domain.ForecastPoint `json:"points"`
}

// Get returns the stored future-dated forecasts for a store, optionally
// narrowed to one sku.
func (s *ForecastService) Get(ctx context.Context, storeID, skuID string, horizon int) ([]SKUForecast, error) {
	horizon = s.normalizeHorizon(horizon)

	store, err := s.stores.GetByStoreID(ctx, storeID)
	if err != nil {
		return nil, err
	}

	var skuDBID *int64
	if skuID != "" {
		sku, err := s.skus.GetByNaturalID(ctx, store.ID, skuID)
		if err != nil {
			return nil, err
		}
		skuDBID = &sku.ID
	}

	rows, err := s.forecasts.List(ctx, store.ID, horizon, skuDBID)
	if err != nil {
		return nil, err
	}

	catalog, err := s.skus.ListByStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	byDBID := make(map[int64]domain.SKU, len(catalog))
	for _, sku := range catalog {
		byDBID[sku.ID] = sku
	}

	// Rows arrive ordered by sku then date, so grouping preserves order.
	var out []SKUForecast
	index := make(map[int64]int)
	for _, row := range rows {
		i, ok := index[row.SKUID]
		if !ok {
			sku := byDBID[row.SKUID]
			out = append(out, SKUForecast{
				SKUID:   sku.SKUID,
				SKUName: sku.SKUName,
				Model:   row.ModelUsed,
			})
			i = len(out) - 1
			index[row.SKUID] = i
		}
		out[i].Points = append(out[i].Points, domain.ForecastPoint{
			Date:            row.ForecastDate,
			PredictedUnits:  row.PredictedUnits,
			ConfidenceLower: row.ConfidenceLower,
			ConfidenceUpper: row.ConfidenceUpper,
		})
	}

	return out, nil
}

// StoredInsights rebuilds the plain-language summary from a stored
// forecast listing. Velocity is not persisted, so trend callouts only
// appear on fresh runs.
func StoredInsights(forecasts []SKUForecast) []string {
	results := make(map[string]forecast.Result, len(forecasts))
	for _, f := range forecasts {
		results[f.SKUID] = forecast.Result{
			SKUID:   f.SKUID,
			SKUName: f.SKUName,
			Model:   f.Model,
			Points:  f.Points,
		}
	}
	return forecast.Insights(results)
}

func (s *ForecastService) normalizeHorizon(horizon int) int {
	if horizon == 0 {
		return s.defaultHorizon
	}
	return horizon
}

// applySeasonality scales forecast points near configured festivals. A
// lookup failure leaves the raw forecast in place; the festival signal
// is an enhancement, not a dependency.
func (s *ForecastService) applySeasonality(ctx context.Context, results map[string]forecast.Result) {
	if s.seasonal == nil || len(results) == 0 {
		return
	}

	var start, end time.Time
	for _, res := range results {
		for _, p := range res.Points {
			if start.IsZero() || p.Date.Before(start) {
				start = p.Date
			}
			if p.Date.After(end) {
				end = p.Date
			}
		}
	}
	if start.IsZero() {
		return
	}

	multipliers, err := s.seasonal.MultiplierRange(ctx, start, end)
	if err != nil {
		log.Warn().Err(err).Msg("festival lookup failed, skipping seasonality adjustment")
		return
	}

	for id, res := range results {
		for i, p := range res.Points {
			m, ok := multipliers[p.Date]
			if !ok || m == 1.0 {
				continue
			}
			res.Points[i].PredictedUnits = roundTo2(p.PredictedUnits * m)
			res.Points[i].ConfidenceLower = roundTo2(p.ConfidenceLower * m)
			res.Points[i].ConfidenceUpper = roundTo2(p.ConfidenceUpper * m)
		}
		results[id] = res
	}
}

func (s *ForecastService) persist(ctx context.Context, storeDBID int64, byNatural map[string]domain.SKU, results map[string]forecast.Result, horizon int) error {
	var rows []domain.ForecastResult
	var skuDBIDs []int64

	for naturalID, res := range results {
		sku, ok := byNatural[naturalID]
		if !ok {
			log.Warn().Str("sku", naturalID).Msg("forecast result for unknown sku, skipping")
			continue
		}
		skuDBIDs = append(skuDBIDs, sku.ID)
		for _, p := range res.Points {
			rows = append(rows, domain.ForecastResult{
				StoreID:         storeDBID,
				SKUID:           sku.ID,
				ForecastDate:    p.Date,
				PredictedUnits:  p.PredictedUnits,
				ConfidenceLower: p.ConfidenceLower,
				ConfidenceUpper: p.ConfidenceUpper,
				ModelUsed:       res.Model,
				Horizon:         horizon,
			})
		}
	}

	if len(rows) == 0 {
		return fmt.Errorf("no forecasts produced")
	}

	return s.forecasts.Supersede(ctx, storeDBID, skuDBIDs, rows)
}

// buildTasks groups transactions into one observation series per sku.
func buildTasks(txs []domain.SalesTransaction, byDBID map[int64]domain.SKU) []forecast.Task {
	grouped := make(map[int64][]forecast.Observation)
	for _, tx := range txs {
		grouped[tx.SKUID] = append(grouped[tx.SKUID], forecast.Observation{
			Date:  tx.Date,
			Units: float64(tx.UnitsSold),
		})
	}

	tasks := make([]forecast.Task, 0, len(grouped))
	for dbID, obs := range grouped {
		sku, ok := byDBID[dbID]
		if !ok {
			continue
		}
		tasks = append(tasks, forecast.Task{
			SKUID:        sku.SKUID,
			SKUName:      sku.SKUName,
			Observations: obs,
		})
	}
	return tasks
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
