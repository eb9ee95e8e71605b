// internal/api/handlers/festival_handler.go
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kiranalabs/restock/internal/domain"
	"github.com/kiranalabs/restock/internal/seasonal"
)

type FestivalHandler struct {
	provider *seasonal.Provider
}

func NewFestivalHandler(provider *seasonal.Provider) *FestivalHandler {
	return &FestivalHandler{provider: provider}
}

func (h *FestivalHandler) ListFestivals(c *gin.Context) {
	festivals, err := h.provider.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"festivals": festivals, "count": len(festivals)})
}

// SeedFestivals loads the built-in calendar for a year (default: the
// current year).
func (h *FestivalHandler) SeedFestivals(c *gin.Context) {
	year := time.Now().Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 2000 || parsed > 2100 {
			respondError(c, http.StatusBadRequest, "year must be a four-digit year")
			return
		}
		year = parsed
	}

	added, err := h.provider.SeedDefaults(c.Request.Context(), year)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"year": year, "festivals_added": added})
}

type createFestivalRequest struct {
	Name             string  `json:"name" binding:"required"`
	Date             string  `json:"date" binding:"required"`
	Region           string  `json:"region"`
	ImpactMultiplier float64 `json:"impact_multiplier"`
}

func (h *FestivalHandler) CreateFestival(c *gin.Context) {
	var req createFestivalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "name and date are required")
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		respondError(c, http.StatusBadRequest, "date must be formatted YYYY-MM-DD")
		return
	}

	festival := &domain.Festival{
		Name:             req.Name,
		Date:             date,
		Region:           req.Region,
		ImpactMultiplier: req.ImpactMultiplier,
	}
	if err := h.provider.Add(c.Request.Context(), festival); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, festival)
}

// UpcomingFestivals lists festivals within the next N days (default 30).
func (h *FestivalHandler) UpcomingFestivals(c *gin.Context) {
	days := 30
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 365 {
			respondError(c, http.StatusBadRequest, "days must be between 1 and 365")
			return
		}
		days = parsed
	}

	festivals, err := h.provider.Upcoming(c.Request.Context(), time.Now(), days)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"days":      days,
		"festivals": festivals,
		"count":     len(festivals),
	})
}

// GetImpact returns the demand multiplier for one date and, when the
// date itself is a festival, which one.
func (h *FestivalHandler) GetImpact(c *gin.Context) {
	raw := c.Query("date")
	if raw == "" {
		respondError(c, http.StatusBadRequest, "date query parameter is required")
		return
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, "date must be formatted YYYY-MM-DD")
		return
	}

	multiplier, err := h.provider.ImpactMultiplier(c.Request.Context(), date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	body := gin.H{
		"date":              raw,
		"impact_multiplier": multiplier,
	}
	if festival, err := h.provider.FestivalOn(c.Request.Context(), date); err == nil && festival != nil {
		body["festival"] = festival
	}
	c.JSON(http.StatusOK, body)
}
