// internal/api/handlers/forecast_handler.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/kiranalabs/restock/internal/forecast"
	"github.com/kiranalabs/restock/internal/service"
)

// backgroundRunTimeout bounds a forecast run dispatched off the request.
const backgroundRunTimeout = 2 * time.Minute

type ForecastHandler struct {
	forecasts *service.ForecastService
	reorders  *service.ReorderService
	pipeline  service.PipelineRunner
}

func NewForecastHandler(forecasts *service.ForecastService, reorders *service.ReorderService, pipeline service.PipelineRunner) *ForecastHandler {
	return &ForecastHandler{forecasts: forecasts, reorders: reorders, pipeline: pipeline}
}

type runForecastRequest struct {
	StoreID    string `json:"store_id" binding:"required"`
	Horizon    int    `json:"forecast_horizon"`
	Background bool   `json:"background_tasks"`
}

// RunForecast forecasts every product of a store and regenerates its
// reorder list. With background_tasks set the run is dispatched to a
// goroutine and the request returns immediately.
func (h *ForecastHandler) RunForecast(c *gin.Context) {
	var req runForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "store_id is required")
		return
	}
	if req.Horizon != 0 && (req.Horizon < forecast.MinHorizon || req.Horizon > forecast.MaxHorizon) {
		respondError(c, http.StatusBadRequest, "forecast_horizon must be between 1 and 30")
		return
	}

	if req.Background {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), backgroundRunTimeout)
			defer cancel()
			if err := h.pipeline.RunPipeline(ctx, req.StoreID, req.Horizon); err != nil {
				log.Warn().Err(err).Str("store", req.StoreID).Msg("background forecast run failed")
			}
		}()
		c.JSON(http.StatusAccepted, gin.H{
			"store_id":         req.StoreID,
			"forecast_horizon": req.Horizon,
			"status":           "processing",
		})
		return
	}

	out, err := h.forecasts.Run(c.Request.Context(), req.StoreID, req.Horizon)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// The reorder list follows from the fresh forecasts; a failure here
	// does not invalidate the forecast run itself.
	if _, err := h.reorders.Generate(c.Request.Context(), req.StoreID, out.Horizon); err != nil {
		log.Warn().Err(err).Str("store", req.StoreID).Msg("reorder regeneration failed after forecast run")
	}

	c.JSON(http.StatusOK, out)
}

// GetForecast returns stored future-dated forecasts for a store,
// optionally narrowed by sku_id, with a plain-language summary.
func (h *ForecastHandler) GetForecast(c *gin.Context) {
	storeID := c.Query("store_id")
	if storeID == "" {
		respondError(c, http.StatusBadRequest, "store_id query parameter is required")
		return
	}
	horizon, ok := parseHorizon(c)
	if !ok {
		return
	}

	forecasts, err := h.forecasts.Get(c.Request.Context(), storeID, c.Query("sku_id"), horizon)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"store_id":  storeID,
		"forecasts": forecasts,
		"insights":  service.StoredInsights(forecasts),
		"count":     len(forecasts),
	})
}
