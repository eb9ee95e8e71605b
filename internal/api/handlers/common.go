// internal/api/handlers/common.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/kiranalabs/restock/internal/forecast"
	"github.com/kiranalabs/restock/internal/repository"
)

func respondError(c *gin.Context, statusCode int, message string) {
	log.Error().Msg(message)
	c.JSON(statusCode, gin.H{"error": message})
}

// respondServiceError maps repository-level sentinels to HTTP codes.
func respondServiceError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondError(c, http.StatusInternalServerError, err.Error())
}

// parseHorizon reads an optional horizon query parameter. Zero means
// "use the configured default"; anything else must be within bounds.
func parseHorizon(c *gin.Context) (int, bool) {
	raw := c.DefaultQuery("horizon", "0")
	horizon, err := strconv.Atoi(raw)
	if err != nil || horizon < 0 || (horizon != 0 && (horizon < forecast.MinHorizon || horizon > forecast.MaxHorizon)) {
		respondError(c, http.StatusBadRequest,
			"horizon must be an integer between 1 and 30")
		return 0, false
	}
	return horizon, true
}
