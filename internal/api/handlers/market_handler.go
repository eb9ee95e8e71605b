// internal/api/handlers/market_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kiranalabs/restock/internal/market"
)

type MarketHandler struct {
	client *market.Client
}

func NewMarketHandler(client *market.Client) *MarketHandler {
	return &MarketHandler{client: client}
}

// GetMandiPrices returns current wholesale commodity quotes, optionally
// filtered by commodity and state.
func (h *MarketHandler) GetMandiPrices(c *gin.Context) {
	prices, err := h.client.LatestPrices(c.Request.Context(), c.Query("commodity"), c.Query("state"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"prices": prices, "count": len(prices)})
}
