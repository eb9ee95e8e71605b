// internal/api/handlers/store_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kiranalabs/restock/internal/service"
)

type StoreHandler struct {
	service *service.StoreService
}

func NewStoreHandler(svc *service.StoreService) *StoreHandler {
	return &StoreHandler{service: svc}
}

func (h *StoreHandler) ListStores(c *gin.Context) {
	stores, err := h.service.ListStores(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stores": stores})
}

func (h *StoreHandler) GetStore(c *gin.Context) {
	store, err := h.service.GetStore(c.Request.Context(), c.Param("store_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, store)
}

func (h *StoreHandler) ListSKUs(c *gin.Context) {
	skus, err := h.service.ListSKUs(c.Request.Context(), c.Param("store_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"skus": skus, "count": len(skus)})
}

type updateStockRequest struct {
	SKUID        string `json:"sku_id" binding:"required"`
	CurrentStock *int   `json:"current_stock" binding:"required"`
}

func (h *StoreHandler) UpdateStock(c *gin.Context) {
	var req updateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "sku_id and current_stock are required")
		return
	}
	if *req.CurrentStock < 0 {
		respondError(c, http.StatusBadRequest, "current_stock must be >= 0")
		return
	}

	err := h.service.UpdateStock(c.Request.Context(), c.Param("store_id"), req.SKUID, *req.CurrentStock)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sku_id":        req.SKUID,
		"current_stock": *req.CurrentStock,
	})
}
