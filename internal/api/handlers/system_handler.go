// internal/api/handlers/system_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/kiranalabs/restock/internal/cache"
	"github.com/kiranalabs/restock/internal/repository/postgres"
)

type SystemHandler struct {
	db    *postgres.DB
	cache cache.ReorderCache
}

func NewSystemHandler(db *postgres.DB, cacheImpl cache.ReorderCache) *SystemHandler {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopReorderCache()
	}
	return &SystemHandler{db: db, cache: cacheImpl}
}

func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// InitDB creates all tables and indexes if they do not exist. Cached
// reorder entries from a previous schema are flushed along the way.
func (h *SystemHandler) InitDB(c *gin.Context) {
	if err := postgres.InitSchema(c.Request.Context(), h.db); err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if err := h.cache.InvalidateAll(c.Request.Context()); err != nil {
		log.Warn().Err(err).Msg("cache flush after schema init failed")
	}
	c.JSON(http.StatusOK, gin.H{"message": "database initialized"})
}
