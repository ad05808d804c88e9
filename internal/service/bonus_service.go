package service

import (
	"fmt"
	"math/rand"
	"time"

	"earnly/config"
	"earnly/internal/domain"
	"earnly/internal/notify"
	"earnly/internal/repository"

	"gorm.io/gorm"
)

// BonusService grants the randomized daily bonus behind a 24h cooldown gate.
type BonusService struct {
	db       *gorm.DB
	ledger   *repository.LedgerRepository
	settings *repository.SettingRepository
	rewards  *config.RewardsConfig
	notifier *notify.Dispatcher

	now func() time.Time // swappable in tests
}

func NewBonusService(
	db *gorm.DB,
	ledger *repository.LedgerRepository,
	settings *repository.SettingRepository,
	rewards *config.RewardsConfig,
	notifier *notify.Dispatcher,
) *BonusService {
	return &BonusService{
		db:       db,
		ledger:   ledger,
		settings: settings,
		rewards:  rewards,
		notifier: notifier,
		now:      time.Now,
	}
}

// ClaimDaily grants a random amount within the configured range, once per 24
// hours. The cooldown check, streak bump and timestamp write are one
// conditional update against a single now, so a doubled request claims once.
func (s *BonusService) ClaimDaily(userID int64) (int64, error) {
	minCents := s.settings.GetCents(domain.SettingBonusMin, s.rewards.BonusMinCents)
	maxCents := s.settings.GetCents(domain.SettingBonusMax, s.rewards.BonusMaxCents)
	if maxCents < minCents {
		maxCents = minCents
	}
	now := s.now().UTC()
	amount := minCents + rand.Int63n(maxCents-minCents+1)

	var cooldownErr error
	err := s.db.Transaction(func(tx *gorm.DB) error {
		ledger := s.ledger.WithTx(tx)
		if err := ledger.EnsureAccount(userID, ""); err != nil {
			return err
		}
		ok, err := ledger.MarkBonusClaimed(userID, now, domain.BonusCooldownHours*time.Hour)
		if err != nil {
			return err
		}
		if !ok {
			acct, err := ledger.GetAccount(userID)
			if err != nil {
				return err
			}
			remaining := time.Duration(0)
			if acct.LastBonusAt != nil {
				remaining = domain.BonusCooldownHours*time.Hour - now.Sub(*acct.LastBonusAt)
			}
			cooldownErr = &domain.CooldownError{Remaining: remaining}
			return nil
		}
		if err := ledger.ApplyDelta(userID, amount); err != nil {
			return err
		}
		_, err = ledger.RecordTransaction(nil, &userID, amount, domain.TxKindBonus, "daily bonus")
		return err
	})
	if err != nil {
		return 0, err
	}
	if cooldownErr != nil {
		return 0, cooldownErr
	}
	s.notifier.Send(userID, "bonus_granted",
		fmt.Sprintf("Daily bonus: +%s", domain.FormatCents(amount)))
	return amount, nil
}
