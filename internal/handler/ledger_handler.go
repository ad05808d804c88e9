package handler

import (
	"net/http"
	"strconv"

	"earnly/internal/repository"
	"earnly/internal/service"

	"github.com/gin-gonic/gin"
)

type LedgerHandler struct {
	ledgerSvc *service.LedgerService
	adminRepo *repository.AdminRepository
}

func NewLedgerHandler(ledgerSvc *service.LedgerService, adminRepo *repository.AdminRepository) *LedgerHandler {
	return &LedgerHandler{ledgerSvc: ledgerSvc, adminRepo: adminRepo}
}

// Stats handles GET /admin/stats.
func (h *LedgerHandler) Stats(c *gin.Context) {
	stats, err := h.adminRepo.GetDashboardStats()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Transactions handles GET /admin/transactions.
func (h *LedgerHandler) Transactions(c *gin.Context) {
	limit := 30
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 500 {
		limit = v
	}
	txs, err := h.ledgerSvc.RecentTransactions(limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": txs})
}

// Balance handles GET /admin/accounts/:id/balance.
func (h *LedgerHandler) Balance(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	bal, err := h.ledgerSvc.Balance(id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"telegram_id": id, "balance_cents": bal})
}
