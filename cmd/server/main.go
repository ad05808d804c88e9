package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"earnly/config"
	"earnly/internal/database"
	"earnly/internal/notify"
	"earnly/internal/repository"
	"earnly/internal/router"
	"earnly/internal/service"
	"earnly/internal/telegram"
	"earnly/internal/ws"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	cfg := config.Load()

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("[main] connect database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("[main] migrate: %v", err)
	}
	database.SeedAdmin(db)
	if err := database.SeedSettings(db, &cfg.Rewards); err != nil {
		log.Fatalf("[main] seed settings: %v", err)
	}

	ledgerRepo := repository.NewLedgerRepository(db)
	claimRepo := repository.NewClaimRepository(db)
	assetRepo := repository.NewAssetRepository(db)
	adRepo := repository.NewAdRepository(db)
	grantRepo := repository.NewGrantRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	notifier := notify.NewDispatcher(notifRepo, cfg.Telegram.AdminIDs)
	eventHub := ws.NewEventHub()
	notifier.AddSink(eventHub)

	ledgerSvc := service.NewLedgerService(db, ledgerRepo, notifier)
	claimSvc := service.NewClaimService(db, claimRepo, adRepo, assetRepo, ledgerRepo, notifier)
	referralSvc := service.NewReferralService(db, ledgerRepo, settingRepo, &cfg.Rewards, notifier)
	bonusSvc := service.NewBonusService(db, ledgerRepo, settingRepo, &cfg.Rewards, notifier)
	orderSvc := service.NewOrderService(orderRepo, notifier)
	catalogSvc := service.NewCatalogService(assetRepo, adRepo, notifier)
	authSvc := service.NewAuthService(cfg, adminRepo)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Telegram.Token != "" {
		bot, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
		if err != nil {
			log.Fatalf("[main] telegram: %v", err)
		}
		notifier.AddSink(telegram.NewNotifier(bot, &cfg.Telegram))

		membershipSvc := service.NewMembershipService(
			db, grantRepo, ledgerRepo, assetRepo, settingRepo, &cfg.Rewards, notifier,
			telegram.NewMemberLookup(bot),
		)
		go membershipSvc.Run(ctx, cfg.Telegram.MembershipInterval)

		gateway := telegram.NewGateway(bot, &cfg.Telegram,
			ledgerSvc, claimSvc, referralSvc, bonusSvc, orderSvc, catalogSvc, membershipSvc)
		go gateway.Run(ctx)
	} else {
		log.Printf("[main] TELEGRAM_BOT_TOKEN not set, bot gateway disabled")
	}

	r := router.Setup(cfg, router.Deps{
		AuthSvc:   authSvc,
		LedgerSvc: ledgerSvc,
		ClaimSvc:  claimSvc,
		Catalog:   catalogSvc,
		AdminRepo: adminRepo,
		EventHub:  eventHub,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("[main] listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[main] server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("[main] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[main] shutdown: %v", err)
	}
}
