package service

import (
	"errors"
	"fmt"

	"earnly/internal/domain"
	"earnly/internal/models"
	"earnly/internal/notify"
	"earnly/internal/repository"

	"gorm.io/gorm"
)

// ClaimService owns the claim state machine: pending -> awaiting_review ->
// approved | rejected. Approval is the only path that moves funds and it runs
// as one database transaction, so concurrent adjudications of the same claim
// resolve to exactly one payment.
type ClaimService struct {
	db       *gorm.DB
	claims   *repository.ClaimRepository
	ads      *repository.AdRepository
	assets   *repository.AssetRepository
	ledger   *repository.LedgerRepository
	notifier *notify.Dispatcher
}

func NewClaimService(
	db *gorm.DB,
	claims *repository.ClaimRepository,
	ads *repository.AdRepository,
	assets *repository.AssetRepository,
	ledger *repository.LedgerRepository,
	notifier *notify.Dispatcher,
) *ClaimService {
	return &ClaimService{db: db, claims: claims, ads: ads, assets: assets, ledger: ledger, notifier: notifier}
}

// CreateClaim opens a pending claim against an active ad. No funds move.
func (s *ClaimService) CreateClaim(adID uint, userID int64) (*models.Claim, error) {
	ad, err := s.ads.GetByID(adID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("ad %d: %w", adID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if ad.Status != domain.AdStatusActive {
		return nil, fmt.Errorf("ad %d is %s: %w", adID, ad.Status, domain.ErrInvalidState)
	}
	if err := s.ledger.EnsureAccount(userID, ""); err != nil {
		return nil, err
	}
	claim := &models.Claim{AdID: adID, UserID: userID, Status: domain.ClaimStatusPending}
	if err := s.claims.Create(claim); err != nil {
		return nil, err
	}
	s.notifier.Send(userID, "claim_created",
		fmt.Sprintf("Claim #%d created. Send your proof screenshot with /proof %d.", claim.ID, claim.ID))
	s.notifier.SendAdmins("claim_created",
		fmt.Sprintf("New claim #%d for ad %d by user %d, waiting for proof.", claim.ID, adID, userID))
	return claim, nil
}

// AttachProof stores the proof reference and moves the claim to
// awaiting_review. Resubmission before a decision overwrites the prior proof.
func (s *ClaimService) AttachProof(claimID uint, userID int64, proofRef string) error {
	claim, err := s.claims.GetByID(claimID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("claim %d: %w", claimID, domain.ErrNotFound)
	}
	if err != nil {
		return err
	}
	if claim.UserID != userID {
		return fmt.Errorf("claim %d: %w", claimID, domain.ErrNotFound)
	}
	ok, err := s.claims.AttachProof(claimID, proofRef)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("claim %d already %s: %w", claimID, claim.Status, domain.ErrInvalidState)
	}
	s.notifier.Send(userID, "proof_received",
		fmt.Sprintf("Proof for claim #%d received. An admin will review it.", claimID))
	s.notifier.SendAdmins("proof_submitted",
		fmt.Sprintf("Claim #%d by user %d has proof attached (file %s).", claimID, userID, proofRef),
		notify.Action{Label: "Approve", Data: fmt.Sprintf("approve:%d", claimID)},
		notify.Action{Label: "Reject", Data: fmt.Sprintf("reject:%d", claimID)},
	)
	return nil
}

// Approve adjudicates a claim in the claimant's favor and pays the asset's
// current reward. The terminal-status flip, the credit and the transaction
// record commit or roll back together; a raced second approval loses the
// conditional update and gets ErrAlreadyProcessed.
func (s *ClaimService) Approve(claimID uint, approverID int64) (int64, error) {
	var rewardCents int64
	var claimantID int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		claims := s.claims.WithTx(tx)
		claim, err := claims.GetByID(claimID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("claim %d: %w", claimID, domain.ErrNotFound)
		}
		if err != nil {
			return err
		}
		ok, err := claims.MarkTerminal(claimID, domain.ClaimStatusApproved)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("claim %d: %w", claimID, domain.ErrAlreadyProcessed)
		}
		ad, err := s.ads.WithTx(tx).GetByID(claim.AdID)
		if err != nil {
			return fmt.Errorf("ad %d for claim %d: %w", claim.AdID, claimID, domain.ErrNotFound)
		}
		// Reward is resolved live from the asset at approval time.
		asset, err := s.assets.WithTx(tx).GetByID(ad.AssetID)
		if err != nil {
			return fmt.Errorf("asset %s for claim %d: %w", ad.AssetID, claimID, domain.ErrNotFound)
		}
		ledger := s.ledger.WithTx(tx)
		if err := ledger.ApplyDelta(claim.UserID, asset.RewardCents); err != nil {
			return err
		}
		note := fmt.Sprintf("claim:%d", claimID)
		if _, err := ledger.RecordTransaction(nil, &claim.UserID, asset.RewardCents, domain.TxKindClaimReward, note); err != nil {
			return err
		}
		rewardCents = asset.RewardCents
		claimantID = claim.UserID
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.notifier.Send(claimantID, "claim_approved",
		fmt.Sprintf("Claim #%d approved, +%s credited to your balance.", claimID, domain.FormatCents(rewardCents)))
	s.notifier.Send(approverID, "claim_approved",
		fmt.Sprintf("Claim #%d approved, user %d paid %s.", claimID, claimantID, domain.FormatCents(rewardCents)))
	return rewardCents, nil
}

// Reject adjudicates against the claimant. Same guards as Approve, no funds.
func (s *ClaimService) Reject(claimID uint, approverID int64) error {
	var claimantID int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		claims := s.claims.WithTx(tx)
		claim, err := claims.GetByID(claimID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("claim %d: %w", claimID, domain.ErrNotFound)
		}
		if err != nil {
			return err
		}
		ok, err := claims.MarkTerminal(claimID, domain.ClaimStatusRejected)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("claim %d: %w", claimID, domain.ErrAlreadyProcessed)
		}
		claimantID = claim.UserID
		return nil
	})
	if err != nil {
		return err
	}
	s.notifier.Send(claimantID, "claim_rejected",
		fmt.Sprintf("Claim #%d was rejected. You can contact an admin or try again.", claimID))
	s.notifier.Send(approverID, "claim_rejected", fmt.Sprintf("Claim #%d rejected.", claimID))
	return nil
}

func (s *ClaimService) Get(claimID uint) (*models.Claim, error) {
	c, err := s.claims.GetByID(claimID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("claim %d: %w", claimID, domain.ErrNotFound)
	}
	return c, err
}

func (s *ClaimService) ListByStatus(status string, limit int) ([]models.Claim, error) {
	return s.claims.ListByStatus(status, limit)
}
