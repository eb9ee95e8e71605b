// internal/service/reorder_service.go
package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/kiranalabs/restock/internal/cache"
	"github.com/kiranalabs/restock/internal/domain"
	"github.com/kiranalabs/restock/internal/forecast"
	"github.com/kiranalabs/restock/internal/reorder"
	"github.com/kiranalabs/restock/internal/repository"
)

// ReorderPolicy is the configurable part of the decision rules.
type ReorderPolicy struct {
	SafetyMultiplier float64
	VelocityPct      float64
}

// ReorderService turns stored forecasts into an actionable, ranked
// reorder list per store.
type ReorderService struct {
	stores    repository.StoreRepository
	skus      repository.SKURepository
	sales     repository.SalesRepository
	forecasts repository.ForecastRepository
	reorders  repository.ReorderRepository
	cache     cache.ReorderCache

	policy         ReorderPolicy
	defaultHorizon int
}

func NewReorderService(
	stores repository.StoreRepository,
	skus repository.SKURepository,
	sales repository.SalesRepository,
	forecasts repository.ForecastRepository,
	reorders repository.ReorderRepository,
	cacheImpl cache.ReorderCache,
	policy ReorderPolicy,
	defaultHorizon int,
) *ReorderService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopReorderCache()
	}
	if policy.SafetyMultiplier < 1 {
		policy.SafetyMultiplier = reorder.DefaultSafetyMultiplier
	}
	if policy.VelocityPct <= 0 {
		policy.VelocityPct = reorder.DefaultVelocityPct
	}
	if defaultHorizon < forecast.MinHorizon || defaultHorizon > forecast.MaxHorizon {
		defaultHorizon = 7
	}
	return &ReorderService{
		stores:         stores,
		skus:           skus,
		sales:          sales,
		forecasts:      forecasts,
		reorders:       reorders,
		cache:          cacheImpl,
		policy:         policy,
		defaultHorizon: defaultHorizon,
	}
}

// Generate builds a fresh recommendation batch from the stored forecasts
// and supersedes the previous batch. Products with nothing to reorder
// are left out of the list entirely.
func (s *ReorderService) Generate(ctx context.Context, storeID string, horizon int) ([]domain.ReorderItem, error) {
	if horizon == 0 {
		horizon = s.defaultHorizon
	}

	store, err := s.stores.GetByStoreID(ctx, storeID)
	if err != nil {
		return nil, err
	}

	rows, err := s.forecasts.List(ctx, store.ID, horizon, nil)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no forecasts for store %s at horizon %d, run a forecast first", storeID, horizon)
	}

	demand := make(map[int64]float64)
	for _, row := range rows {
		demand[row.SKUID] += row.PredictedUnits
	}

	catalog, err := s.skus.ListByStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}

	velocities, err := s.velocityBySKU(ctx, store.ID)
	if err != nil {
		log.Warn().Err(err).Msg("velocity computation failed, treating all products as flat")
		velocities = map[int64]float64{}
	}

	// Walk the catalog in its query order so equal-urgency items come
	// out in the same order on every run.
	var recs []domain.ReorderRecommendation
	var items []domain.ReorderItem
	for _, sku := range catalog {
		total, ok := demand[sku.ID]
		if !ok {
			continue
		}

		d := reorder.Decide(reorder.Input{
			ForecastedDemand: total,
			CurrentStock:     sku.CurrentStock,
			VelocityChange:   velocities[sku.ID],
			SafetyMultiplier: s.policy.SafetyMultiplier,
			VelocityPct:      s.policy.VelocityPct,
			Horizon:          horizon,
		})
		if d.Qty == 0 {
			continue
		}

		recs = append(recs, domain.ReorderRecommendation{
			StoreID:           store.ID,
			SKUID:             sku.ID,
			ReorderQty:        d.Qty,
			Reason:            d.Reason,
			Urgency:           d.Urgency,
			ForecastedDemand:  total,
			CurrentStock:      sku.CurrentStock,
			VelocityChangePct: velocities[sku.ID],
		})
		items = append(items, domain.ReorderItem{
			SKUID:             sku.SKUID,
			SKUName:           sku.SKUName,
			ReorderQty:        d.Qty,
			Reason:            d.Reason,
			Urgency:           d.Urgency,
			ForecastedDemand:  total,
			CurrentStock:      sku.CurrentStock,
			VelocityChangePct: velocities[sku.ID],
		})
	}

	reorder.Rank(items)

	if err := s.reorders.Supersede(ctx, store.ID, recs); err != nil {
		return nil, err
	}
	if err := s.cache.Invalidate(ctx, storeID); err != nil {
		log.Warn().Err(err).Msg("reorder cache invalidation failed")
	}

	return items, nil
}

// List returns the active recommendation batch, ranked by urgency.
func (s *ReorderService) List(ctx context.Context, storeID string) ([]domain.ReorderItem, error) {
	if items, ok, err := s.cache.GetList(ctx, storeID); err == nil && ok {
		return items, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("reorder cache get failed")
	}

	store, err := s.stores.GetByStoreID(ctx, storeID)
	if err != nil {
		return nil, err
	}

	recs, err := s.reorders.ListActive(ctx, store.ID)
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

	items := make([]domain.ReorderItem, 0, len(recs))
	for _, rec := range recs {
		sku := byDBID[rec.SKUID]
		items = append(items, domain.ReorderItem{
			SKUID:             sku.SKUID,
			SKUName:           sku.SKUName,
			ReorderQty:        rec.ReorderQty,
			Reason:            rec.Reason,
			Urgency:           rec.Urgency,
			ForecastedDemand:  rec.ForecastedDemand,
			CurrentStock:      rec.CurrentStock,
			VelocityChangePct: rec.VelocityChangePct,
		})
	}
	reorder.Rank(items)

	if err := s.cache.SetList(ctx, storeID, items); err != nil {
		log.Warn().Err(err).Msg("reorder cache set failed")
	}

	return items, nil
}

// Summary counts the active recommendations by urgency tier.
func (s *ReorderService) Summary(ctx context.Context, storeID string) (*domain.ReorderSummary, error) {
	if summary, ok, err := s.cache.GetSummary(ctx, storeID); err == nil && ok {
		return summary, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("reorder cache get summary failed")
	}

	items, err := s.List(ctx, storeID)
	if err != nil {
		return nil, err
	}

	summary := &domain.ReorderSummary{TotalItems: len(items)}
	for _, item := range items {
		switch item.Urgency {
		case domain.UrgencyCritical:
			summary.Critical++
		case domain.UrgencyHigh:
			summary.High++
		case domain.UrgencyMedium:
			summary.Medium++
		case domain.UrgencyLow:
			summary.Low++
		}
	}

	if err := s.cache.SetSummary(ctx, storeID, summary); err != nil {
		log.Warn().Err(err).Msg("reorder cache set summary failed")
	}

	return summary, nil
}

// velocityBySKU recomputes the week-over-week change from raw sales per
// product.
func (s *ReorderService) velocityBySKU(ctx context.Context, storeDBID int64) (map[int64]float64, error) {
	txs, err := s.sales.ListByStore(ctx, storeDBID, nil)
	if err != nil {
		return nil, err
	}

	grouped := make(map[int64][]forecast.Observation)
	for _, tx := range txs {
		grouped[tx.SKUID] = append(grouped[tx.SKUID], forecast.Observation{
			Date:  tx.Date,
			Units: float64(tx.UnitsSold),
		})
	}

	out := make(map[int64]float64, len(grouped))
	for skuDBID, obs := range grouped {
		series := forecast.NewSeries(obs)
		out[skuDBID] = forecast.VelocityChange(series, forecast.DefaultRecentDays, forecast.DefaultCompareDays)
	}
	return out, nil
}
