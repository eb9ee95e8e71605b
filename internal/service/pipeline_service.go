// internal/service/pipeline_service.go
package service

import (
	"context"

	"github.com/rs/zerolog/log"
)

// PipelineService chains a forecast run with recommendation generation.
// It backs the automatic post-upload trigger and the manual run-forecast
// flow alike.
type PipelineService struct {
	forecasts *ForecastService
	reorders  *ReorderService
}

func NewPipelineService(forecasts *ForecastService, reorders *ReorderService) *PipelineService {
	return &PipelineService{forecasts: forecasts, reorders: reorders}
}

// RunPipeline forecasts the store and regenerates its reorder list.
// horizon 0 means the configured default.
func (s *PipelineService) RunPipeline(ctx context.Context, storeID string, horizon int) error {
	out, err := s.forecasts.Run(ctx, storeID, horizon)
	if err != nil {
		return err
	}

	items, err := s.reorders.Generate(ctx, storeID, out.Horizon)
	if err != nil {
		return err
	}

	log.Info().
		Str("store", storeID).
		Int("horizon", out.Horizon).
		Int("skus_forecasted", out.SKUCount).
		Int("reorder_items", len(items)).
		Msg("pipeline run complete")

	return nil
}
