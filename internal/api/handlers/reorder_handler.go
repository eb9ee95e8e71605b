// internal/api/handlers/reorder_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kiranalabs/restock/internal/domain"
	"github.com/kiranalabs/restock/internal/service"
)

type ReorderHandler struct {
	service *service.ReorderService
}

func NewReorderHandler(svc *service.ReorderService) *ReorderHandler {
	return &ReorderHandler{service: svc}
}

// GetReorderList returns the active recommendation batch for a store,
// ranked critical first.
func (h *ReorderHandler) GetReorderList(c *gin.Context) {
	storeID := c.Query("store_id")
	if storeID == "" {
		respondError(c, http.StatusBadRequest, "store_id query parameter is required")
		return
	}

	items, err := h.service.List(c.Request.Context(), storeID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if raw := c.Query("urgency"); raw != "" {
		level, ok := domain.ParseUrgency(raw)
		if !ok {
			respondError(c, http.StatusBadRequest, "urgency must be one of: critical, high, medium, low")
			return
		}

		filtered := items[:0]
		for _, item := range items {
			if item.Urgency == level {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}

	c.JSON(http.StatusOK, gin.H{
		"store_id": storeID,
		"items":    items,
		"count":    len(items),
	})
}

// GetReorderSummary returns the urgency-tier counts for a store.
func (h *ReorderHandler) GetReorderSummary(c *gin.Context) {
	storeID := c.Query("store_id")
	if storeID == "" {
		respondError(c, http.StatusBadRequest, "store_id query parameter is required")
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), storeID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
