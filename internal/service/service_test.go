package service

import (
	"strings"
	"testing"

	"earnly/config"
	"earnly/internal/database"
	"earnly/internal/domain"
	"earnly/internal/models"
	"earnly/internal/notify"
	"earnly/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires the full repository stack against an isolated in-memory
// database, one per test.
type testEnv struct {
	db         *gorm.DB
	rewards    *config.RewardsConfig
	ledgerRepo *repository.LedgerRepository
	claimRepo  *repository.ClaimRepository
	assetRepo  *repository.AssetRepository
	adRepo     *repository.AdRepository
	grantRepo  *repository.GrantRepository
	settings   *repository.SettingRepository
	notifier   *notify.Dispatcher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	rewards := &config.RewardsConfig{
		ReferralBonusCents:     400,
		BonusMinCents:          50,
		BonusMaxCents:          500,
		MembershipPenaltyCents: 200,
	}
	if err := database.SeedSettings(db, rewards); err != nil {
		t.Fatalf("seed settings: %v", err)
	}
	return &testEnv{
		db:         db,
		rewards:    rewards,
		ledgerRepo: repository.NewLedgerRepository(db),
		claimRepo:  repository.NewClaimRepository(db),
		assetRepo:  repository.NewAssetRepository(db),
		adRepo:     repository.NewAdRepository(db),
		grantRepo:  repository.NewGrantRepository(db),
		settings:   repository.NewSettingRepository(db),
		notifier:   notify.NewDispatcher(repository.NewNotificationRepository(db), nil),
	}
}

func (e *testEnv) ledgerSvc() *LedgerService {
	return NewLedgerService(e.db, e.ledgerRepo, e.notifier)
}

func (e *testEnv) claimSvc() *ClaimService {
	return NewClaimService(e.db, e.claimRepo, e.adRepo, e.assetRepo, e.ledgerRepo, e.notifier)
}

func (e *testEnv) referralSvc() *ReferralService {
	return NewReferralService(e.db, e.ledgerRepo, e.settings, e.rewards, e.notifier)
}

func (e *testEnv) bonusSvc() *BonusService {
	return NewBonusService(e.db, e.ledgerRepo, e.settings, e.rewards, e.notifier)
}

func (e *testEnv) membershipSvc(checker MembershipChecker) *MembershipService {
	return NewMembershipService(e.db, e.grantRepo, e.ledgerRepo, e.assetRepo, e.settings, e.rewards, e.notifier, checker)
}

func (e *testEnv) mustBalance(t *testing.T, id int64) int64 {
	t.Helper()
	bal, err := e.ledgerRepo.Balance(id)
	if err != nil {
		t.Fatalf("balance of %d: %v", id, err)
	}
	return bal
}

func (e *testEnv) credit(t *testing.T, id, amount int64) {
	t.Helper()
	if err := e.ledgerRepo.ApplyDelta(id, amount); err != nil {
		t.Fatalf("credit %d: %v", id, err)
	}
	if _, err := e.ledgerRepo.RecordTransaction(nil, &id, amount, domain.TxKindBonus, "test credit"); err != nil {
		t.Fatalf("record credit: %v", err)
	}
}

func (e *testEnv) txCount(t *testing.T, kind string) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(&models.Transaction{}).Where("kind = ?", kind).Count(&n).Error; err != nil {
		t.Fatalf("count %s transactions: %v", kind, err)
	}
	return n
}

// ledgerSum replays the transaction log for one account: credits where the
// account is the destination minus debits where it is the source. Balances
// must always equal this sum.
func (e *testEnv) ledgerSum(t *testing.T, id int64) int64 {
	t.Helper()
	var in, out int64
	err := e.db.Model(&models.Transaction{}).
		Where("to_id = ?", id).
		Select("COALESCE(SUM(amount_cents), 0)").Scan(&in).Error
	if err != nil {
		t.Fatalf("sum credits for %d: %v", id, err)
	}
	err = e.db.Model(&models.Transaction{}).
		Where("from_id = ?", id).
		Select("COALESCE(SUM(amount_cents), 0)").Scan(&out).Error
	if err != nil {
		t.Fatalf("sum debits for %d: %v", id, err)
	}
	return in - out
}

func (e *testEnv) checkLedgerSum(t *testing.T, ids ...int64) {
	t.Helper()
	for _, id := range ids {
		bal := e.mustBalance(t, id)
		sum := e.ledgerSum(t, id)
		if bal != sum {
			t.Fatalf("account %d: balance %d does not match transaction sum %d", id, bal, sum)
		}
	}
}

func (e *testEnv) seedActiveAd(t *testing.T, assetID string, rewardCents int64) uint {
	t.Helper()
	asset := &models.Asset{
		ID:           assetID,
		Type:         "channel",
		Title:        "Test " + assetID,
		OwnerID:      1,
		AdEnabled:    true,
		RewardCents:  rewardCents,
		PenaltyCents: 200,
	}
	if err := e.assetRepo.Upsert(asset); err != nil {
		t.Fatalf("seed asset: %v", err)
	}
	ad := &models.Ad{
		AssetID:     assetID,
		CreatorID:   1,
		BudgetCents: 10000,
		WorkerSlots: 5,
		Text:        "join " + assetID,
		Status:      domain.AdStatusActive,
	}
	if err := e.adRepo.Create(ad); err != nil {
		t.Fatalf("seed ad: %v", err)
	}
	return ad.ID
}
