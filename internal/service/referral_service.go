package service

import (
	"fmt"
	"strconv"
	"strings"

	"earnly/config"
	"earnly/internal/domain"
	"earnly/internal/notify"
	"earnly/internal/repository"

	"gorm.io/gorm"
)

// ReferralService attributes new users to their referrer and pays the fixed
// bonus. Attribution is first-write-wins and permanent; a duplicate delivery
// of the same first-contact event credits nothing.
type ReferralService struct {
	db       *gorm.DB
	ledger   *repository.LedgerRepository
	settings *repository.SettingRepository
	rewards  *config.RewardsConfig
	notifier *notify.Dispatcher
}

func NewReferralService(
	db *gorm.DB,
	ledger *repository.LedgerRepository,
	settings *repository.SettingRepository,
	rewards *config.RewardsConfig,
	notifier *notify.Dispatcher,
) *ReferralService {
	return &ReferralService{db: db, ledger: ledger, settings: settings, rewards: rewards, notifier: notifier}
}

// ParseCode extracts the referrer id from a /start payload: "ref123" or a
// bare numeric id. Returns false for anything else.
func ParseCode(code string) (int64, bool) {
	code = strings.TrimPrefix(strings.TrimSpace(code), "ref")
	id, err := strconv.ParseInt(code, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Attribute records newUserID as referred by referrerID and credits the
// bonus. Returns false with no error on self-referral or when the user is
// already attributed; the conditional referrer write and the credit share a
// transaction so a doubled event cannot double-pay.
func (s *ReferralService) Attribute(newUserID, referrerID int64) (bool, error) {
	if newUserID == referrerID {
		return false, nil
	}
	bonus := s.settings.GetCents(domain.SettingReferralBonus, s.rewards.ReferralBonusCents)
	attributed := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		ledger := s.ledger.WithTx(tx)
		if err := ledger.EnsureAccount(newUserID, ""); err != nil {
			return err
		}
		ok, err := ledger.SetReferrerIfUnset(newUserID, referrerID)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := ledger.ApplyDelta(referrerID, bonus); err != nil {
			return err
		}
		note := fmt.Sprintf("ref:%d", newUserID)
		if _, err := ledger.RecordTransaction(nil, &referrerID, bonus, domain.TxKindReferral, note); err != nil {
			return err
		}
		attributed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if attributed {
		s.notifier.Send(referrerID, "referral_bonus",
			fmt.Sprintf("You invited a new user, +%s!", domain.FormatCents(bonus)))
	}
	return attributed, nil
}

// BonusCents reports the currently configured referral bonus.
func (s *ReferralService) BonusCents() int64 {
	return s.settings.GetCents(domain.SettingReferralBonus, s.rewards.ReferralBonusCents)
}
