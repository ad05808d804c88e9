package router

import (
	"time"

	"earnly/config"
	"earnly/internal/domain"
	"earnly/internal/handler"
	"earnly/internal/middleware"
	"earnly/internal/repository"
	"earnly/internal/service"
	"earnly/internal/ws"

	"github.com/gin-gonic/gin"
)

// Deps carries the already-wired services the HTTP surface exposes.
type Deps struct {
	AuthSvc   *service.AuthService
	LedgerSvc *service.LedgerService
	ClaimSvc  *service.ClaimService
	Catalog   *service.CatalogService
	AdminRepo *repository.AdminRepository
	EventHub  *ws.EventHub
}

func Setup(cfg *config.Config, d Deps) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit("api", middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Credential endpoints get a much tighter budget than the rest of the API.
	loginLimit := middleware.RateLimit("login", middleware.NewInMemoryRateLimiter(5, 60*time.Second))

	authHandler := handler.NewAuthHandler(d.AuthSvc)
	assetHandler := handler.NewAssetHandler(d.Catalog)
	adHandler := handler.NewAdHandler(d.Catalog)
	claimHandler := handler.NewClaimHandler(d.ClaimSvc)
	ledgerHandler := handler.NewLedgerHandler(d.LedgerSvc, d.AdminRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)
	adminMw := middleware.RequireRole(domain.RoleAdmin)

	api := r.Group("/api/v1")
	{
		api.POST("/admin/login", loginLimit, authHandler.Login)
		api.POST("/admin/refresh", loginLimit, authHandler.Refresh)

		admin := api.Group("/admin")
		admin.Use(authMw, adminMw)
		{
			admin.GET("/stats", ledgerHandler.Stats)
			admin.GET("/transactions", ledgerHandler.Transactions)
			admin.GET("/accounts/:id/balance", ledgerHandler.Balance)

			admin.PUT("/assets", assetHandler.Upsert)
			admin.GET("/assets", assetHandler.List)

			admin.POST("/ads", adHandler.Create)
			admin.GET("/ads", adHandler.ListActive)
			admin.POST("/ads/:id/cancel", adHandler.Cancel)

			admin.GET("/claims", claimHandler.List)
			admin.POST("/claims/:id/approve", claimHandler.Approve)
			admin.POST("/claims/:id/reject", claimHandler.Reject)
		}
	}

	r.GET("/ws/events", ws.UpgradeEventsWS(&cfg.JWT, d.EventHub))

	return r
}
