package handler

import (
	"net/http"
	"strconv"

	"earnly/internal/service"

	"github.com/gin-gonic/gin"
)

type ClaimHandler struct {
	claims *service.ClaimService
}

func NewClaimHandler(claims *service.ClaimService) *ClaimHandler {
	return &ClaimHandler{claims: claims}
}

// List handles GET /admin/claims?status=awaiting_review.
func (h *ClaimHandler) List(c *gin.Context) {
	status := c.Query("status")
	limit := 50
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 200 {
		limit = v
	}
	claims, err := h.claims.ListByStatus(status, limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": claims})
}

// Approve handles POST /admin/claims/:id/approve. The approver identity in
// the audit trail is the dashboard admin's Telegram id if supplied, else 0.
func (h *ClaimHandler) Approve(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	approver, _ := strconv.ParseInt(c.Query("approver_id"), 10, 64)
	reward, err := h.claims.Approve(uint(id), approver)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "approved", "reward_cents": reward})
}

// Reject handles POST /admin/claims/:id/reject.
func (h *ClaimHandler) Reject(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	approver, _ := strconv.ParseInt(c.Query("approver_id"), 10, 64)
	if err := h.claims.Reject(uint(id), approver); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "rejected"})
}
