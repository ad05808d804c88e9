package handler

import (
	"net/http"
	"strconv"

	"earnly/internal/service"

	"github.com/gin-gonic/gin"
)

type AdHandler struct {
	catalog *service.CatalogService
}

func NewAdHandler(catalog *service.CatalogService) *AdHandler {
	return &AdHandler{catalog: catalog}
}

// Create handles POST /admin/ads.
func (h *AdHandler) Create(c *gin.Context) {
	var req struct {
		AssetID     string `json:"asset_id" binding:"required"`
		CreatorID   int64  `json:"creator_id"`
		BudgetCents int64  `json:"budget_cents" binding:"required"`
		WorkerSlots int    `json:"worker_slots" binding:"required"`
		Text        string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ad, err := h.catalog.CreateAd(req.CreatorID, req.AssetID, req.BudgetCents, req.WorkerSlots, req.Text)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, ad)
}

// Cancel handles POST /admin/ads/:id/cancel.
func (h *AdHandler) Cancel(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.catalog.CancelAd(uint(id)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// ListActive handles GET /admin/ads.
func (h *AdHandler) ListActive(c *gin.Context) {
	ads, err := h.catalog.ListActiveAds()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": ads})
}
