package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"earnly/config"
	"earnly/internal/domain"
	"earnly/internal/models"
	"earnly/internal/notify"
	"earnly/internal/repository"

	"gorm.io/gorm"
)

// MembershipChecker reports whether a user is still a member of a partner
// chat. The Telegram gateway implements it with GetChatMember.
type MembershipChecker interface {
	IsMember(chatID string, userID int64) (bool, error)
}

// MembershipService pays membership-conditional rewards and runs the
// background reconciler that reverses them when the member leaves.
type MembershipService struct {
	db       *gorm.DB
	grants   *repository.GrantRepository
	ledger   *repository.LedgerRepository
	assets   *repository.AssetRepository
	settings *repository.SettingRepository
	rewards  *config.RewardsConfig
	notifier *notify.Dispatcher
	checker  MembershipChecker
}

func NewMembershipService(
	db *gorm.DB,
	grants *repository.GrantRepository,
	ledger *repository.LedgerRepository,
	assets *repository.AssetRepository,
	settings *repository.SettingRepository,
	rewards *config.RewardsConfig,
	notifier *notify.Dispatcher,
	checker MembershipChecker,
) *MembershipService {
	return &MembershipService{
		db: db, grants: grants, ledger: ledger, assets: assets, settings: settings,
		rewards: rewards, notifier: notifier, checker: checker,
	}
}

// GrantReward pays a user for joining a partner chat, once per (user,
// partner) pair. Returns false when the grant already exists.
func (s *MembershipService) GrantReward(userID int64, partnerChatID string, amountCents int64) (bool, error) {
	if amountCents <= 0 {
		return false, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}
	granted := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		ledger := s.ledger.WithTx(tx)
		if err := ledger.EnsureAccount(userID, ""); err != nil {
			return err
		}
		created, err := s.grants.WithTx(tx).CreateIfAbsent(&models.RewardGrant{
			UserID:        userID,
			PartnerChatID: partnerChatID,
			AmountCents:   amountCents,
			Active:        true,
		})
		if err != nil {
			return err
		}
		if !created {
			return nil
		}
		if err := ledger.ApplyDelta(userID, amountCents); err != nil {
			return err
		}
		note := "partner:" + partnerChatID
		if _, err := ledger.RecordTransaction(nil, &userID, amountCents, domain.TxKindBonus, note); err != nil {
			return err
		}
		granted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if granted {
		s.notifier.Send(userID, "membership_reward",
			fmt.Sprintf("Thanks for joining %s, +%s!", partnerChatID, domain.FormatCents(amountCents)))
	}
	return granted, nil
}

// EnforceRequired checks the user against every required-subscribe asset.
// Channels the user has joined pay their reward once through GrantReward; the
// returned list names the channels still to join, so callers can gate access
// on it being empty. A failed lookup counts as not joined.
func (s *MembershipService) EnforceRequired(userID int64) ([]string, error) {
	required, err := s.assets.ListRequired()
	if err != nil {
		return nil, err
	}
	var missing []string
	for _, a := range required {
		member, err := s.checker.IsMember(a.ID, userID)
		if err != nil {
			log.Printf("[membership] check %s for user %d: %v", a.ID, userID, err)
			missing = append(missing, a.ID)
			continue
		}
		if !member {
			missing = append(missing, a.ID)
			continue
		}
		if a.RewardCents > 0 {
			if _, err := s.GrantReward(userID, a.ID, a.RewardCents); err != nil {
				log.Printf("[membership] join reward %s for user %d: %v", a.ID, userID, err)
			}
		}
	}
	return missing, nil
}

// Run checks active grants every interval until ctx is cancelled.
func (s *MembershipService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	log.Printf("[reconciler] started, interval %s", interval)
	for {
		select {
		case <-ctx.Done():
			log.Printf("[reconciler] stopped")
			return
		case <-ticker.C:
			if err := s.ReconcileOnce(ctx); err != nil {
				log.Printf("[reconciler] pass: %v", err)
			}
		}
	}
}

// ReconcileOnce walks all active grants and penalizes departures. A failed
// membership check on one grant is logged and the pass continues; the loop is
// cancellable between grants but a single grant's check runs to completion.
func (s *MembershipService) ReconcileOnce(ctx context.Context) error {
	grants, err := s.grants.ListActive()
	if err != nil {
		return err
	}
	for _, g := range grants {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		member, err := s.checker.IsMember(g.PartnerChatID, g.UserID)
		if err != nil {
			log.Printf("[reconciler] check grant %d (user %d, %s): %v", g.ID, g.UserID, g.PartnerChatID, err)
			continue
		}
		if member {
			continue
		}
		if err := s.penalize(g); err != nil {
			log.Printf("[reconciler] penalize grant %d: %v", g.ID, err)
		}
	}
	return nil
}

// penalize deactivates the grant and debits the penalty in one transaction.
// The conditional deactivation makes the penalty idempotent: a second pass
// over an already-reversed grant does nothing.
func (s *MembershipService) penalize(g models.RewardGrant) error {
	penalty := s.settings.GetCents(domain.SettingMembershipPenalty, s.rewards.MembershipPenaltyCents)
	applied := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		ok, err := s.grants.WithTx(tx).Deactivate(g.ID)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		ledger := s.ledger.WithTx(tx)
		if err := ledger.ApplyDelta(g.UserID, -penalty); err != nil {
			return err
		}
		note := "left partner " + g.PartnerChatID
		if _, err := ledger.RecordTransaction(&g.UserID, nil, penalty, domain.TxKindPenalty, note); err != nil {
			return err
		}
		applied = true
		return nil
	})
	if err != nil {
		return err
	}
	if applied {
		s.notifier.Send(g.UserID, "membership_penalty",
			fmt.Sprintf("You left %s, a %s penalty was applied.", g.PartnerChatID, domain.FormatCents(penalty)))
	}
	return nil
}
