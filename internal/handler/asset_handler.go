package handler

import (
	"net/http"

	"earnly/internal/models"
	"earnly/internal/service"

	"github.com/gin-gonic/gin"
)

type AssetHandler struct {
	catalog *service.CatalogService
}

func NewAssetHandler(catalog *service.CatalogService) *AssetHandler {
	return &AssetHandler{catalog: catalog}
}

// Upsert handles PUT /admin/assets.
func (h *AssetHandler) Upsert(c *gin.Context) {
	var req struct {
		ID                string `json:"id" binding:"required"`
		Type              string `json:"type" binding:"required"`
		Title             string `json:"title"`
		OwnerID           int64  `json:"owner_id"`
		AdEnabled         *bool  `json:"ad_enabled"`
		RequiredSubscribe bool   `json:"required_subscribe"`
		RewardCents       int64  `json:"reward_cents"`
		PenaltyCents      int64  `json:"penalty_cents"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	adEnabled := true
	if req.AdEnabled != nil {
		adEnabled = *req.AdEnabled
	}
	asset := &models.Asset{
		ID:                req.ID,
		Type:              req.Type,
		Title:             req.Title,
		OwnerID:           req.OwnerID,
		AdEnabled:         adEnabled,
		RequiredSubscribe: req.RequiredSubscribe,
		RewardCents:       req.RewardCents,
		PenaltyCents:      req.PenaltyCents,
	}
	if err := h.catalog.UpsertAsset(asset); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

// List handles GET /admin/assets.
func (h *AssetHandler) List(c *gin.Context) {
	assets, err := h.catalog.ListAssets()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": assets})
}
