package service

import (
	"errors"
	"testing"

	"earnly/internal/domain"
)

func TestClaimHappyPath(t *testing.T) {
	env := newTestEnv(t)
	svc := env.claimSvc()
	adID := env.seedActiveAd(t, "CH1", 300)

	claim, err := svc.CreateClaim(adID, 500)
	if err != nil {
		t.Fatalf("create claim: %v", err)
	}
	if claim.Status != domain.ClaimStatusPending {
		t.Fatalf("status = %q, want pending", claim.Status)
	}

	if err := svc.AttachProof(claim.ID, 500, "file-abc"); err != nil {
		t.Fatalf("attach proof: %v", err)
	}
	got, err := svc.Get(claim.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.ClaimStatusAwaitingReview {
		t.Fatalf("status = %q, want awaiting_review", got.Status)
	}
	if got.ProofRef == nil || *got.ProofRef != "file-abc" {
		t.Fatalf("proof ref = %v, want file-abc", got.ProofRef)
	}

	reward, err := svc.Approve(claim.ID, 1)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if reward != 300 {
		t.Fatalf("reward = %d, want 300", reward)
	}
	if got := env.mustBalance(t, 500); got != 300 {
		t.Fatalf("claimant balance = %d, want 300", got)
	}
	if n := env.txCount(t, domain.TxKindClaimReward); n != 1 {
		t.Fatalf("claim_reward transactions = %d, want 1", n)
	}
	env.checkLedgerSum(t, 500)
}

func TestClaimApproveTwicePaysOnce(t *testing.T) {
	env := newTestEnv(t)
	svc := env.claimSvc()
	adID := env.seedActiveAd(t, "CH1", 300)

	claim, err := svc.CreateClaim(adID, 500)
	if err != nil {
		t.Fatalf("create claim: %v", err)
	}
	if err := svc.AttachProof(claim.ID, 500, "file-abc"); err != nil {
		t.Fatalf("attach proof: %v", err)
	}
	if _, err := svc.Approve(claim.ID, 1); err != nil {
		t.Fatalf("first approve: %v", err)
	}
	if _, err := svc.Approve(claim.ID, 1); !errors.Is(err, domain.ErrAlreadyProcessed) {
		t.Fatalf("second approve: err = %v, want ErrAlreadyProcessed", err)
	}
	if got := env.mustBalance(t, 500); got != 300 {
		t.Fatalf("claimant balance = %d, want 300 after double approve", got)
	}
	if n := env.txCount(t, domain.TxKindClaimReward); n != 1 {
		t.Fatalf("claim_reward transactions = %d, want 1", n)
	}
}

func TestClaimRejectIsTerminal(t *testing.T) {
	env := newTestEnv(t)
	svc := env.claimSvc()
	adID := env.seedActiveAd(t, "CH1", 300)

	claim, err := svc.CreateClaim(adID, 500)
	if err != nil {
		t.Fatalf("create claim: %v", err)
	}
	if err := svc.AttachProof(claim.ID, 500, "file-abc"); err != nil {
		t.Fatalf("attach proof: %v", err)
	}
	if err := svc.Reject(claim.ID, 1); err != nil {
		t.Fatalf("reject: %v", err)
	}

	if _, err := svc.Approve(claim.ID, 1); !errors.Is(err, domain.ErrAlreadyProcessed) {
		t.Fatalf("approve after reject: err = %v, want ErrAlreadyProcessed", err)
	}
	if err := svc.Reject(claim.ID, 1); !errors.Is(err, domain.ErrAlreadyProcessed) {
		t.Fatalf("second reject: err = %v, want ErrAlreadyProcessed", err)
	}
	if err := svc.AttachProof(claim.ID, 500, "file-late"); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("proof after reject: err = %v, want ErrInvalidState", err)
	}
	if got := env.mustBalance(t, 500); got != 0 {
		t.Fatalf("claimant balance = %d, want 0 after reject", got)
	}
	if n := env.txCount(t, domain.TxKindClaimReward); n != 0 {
		t.Fatalf("claim_reward transactions = %d, want 0", n)
	}
}

func TestClaimProofResubmissionOverwrites(t *testing.T) {
	env := newTestEnv(t)
	svc := env.claimSvc()
	adID := env.seedActiveAd(t, "CH1", 300)

	claim, err := svc.CreateClaim(adID, 500)
	if err != nil {
		t.Fatalf("create claim: %v", err)
	}
	if err := svc.AttachProof(claim.ID, 500, "file-one"); err != nil {
		t.Fatalf("first proof: %v", err)
	}
	if err := svc.AttachProof(claim.ID, 500, "file-two"); err != nil {
		t.Fatalf("second proof: %v", err)
	}
	got, err := svc.Get(claim.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ProofRef == nil || *got.ProofRef != "file-two" {
		t.Fatalf("proof ref = %v, want file-two", got.ProofRef)
	}
}

func TestClaimProofOwnership(t *testing.T) {
	env := newTestEnv(t)
	svc := env.claimSvc()
	adID := env.seedActiveAd(t, "CH1", 300)

	claim, err := svc.CreateClaim(adID, 500)
	if err != nil {
		t.Fatalf("create claim: %v", err)
	}
	if err := svc.AttachProof(claim.ID, 777, "file-stolen"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("proof from wrong user: err = %v, want ErrNotFound", err)
	}
}

func TestClaimAgainstMissingOrCancelledAd(t *testing.T) {
	env := newTestEnv(t)
	svc := env.claimSvc()

	if _, err := svc.CreateClaim(9999, 500); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("claim on missing ad: err = %v, want ErrNotFound", err)
	}

	adID := env.seedActiveAd(t, "CH1", 300)
	if ok, err := env.adRepo.Cancel(adID); err != nil || !ok {
		t.Fatalf("cancel ad: ok=%v err=%v", ok, err)
	}
	if _, err := svc.CreateClaim(adID, 500); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("claim on cancelled ad: err = %v, want ErrInvalidState", err)
	}
}

func TestApproveMissingClaim(t *testing.T) {
	env := newTestEnv(t)
	svc := env.claimSvc()

	if _, err := svc.Approve(12345, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("approve missing claim: err = %v, want ErrNotFound", err)
	}
}

func TestApproveUsesRewardAtApprovalTime(t *testing.T) {
	env := newTestEnv(t)
	svc := env.claimSvc()
	adID := env.seedActiveAd(t, "CH1", 300)

	claim, err := svc.CreateClaim(adID, 500)
	if err != nil {
		t.Fatalf("create claim: %v", err)
	}
	if err := svc.AttachProof(claim.ID, 500, "file-abc"); err != nil {
		t.Fatalf("attach proof: %v", err)
	}

	// Raise the asset reward between submission and review.
	asset, err := env.assetRepo.GetByID("CH1")
	if err != nil {
		t.Fatalf("get asset: %v", err)
	}
	asset.RewardCents = 450
	if err := env.assetRepo.Upsert(asset); err != nil {
		t.Fatalf("update asset: %v", err)
	}

	reward, err := svc.Approve(claim.ID, 1)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if reward != 450 {
		t.Fatalf("reward = %d, want the updated 450", reward)
	}
	if got := env.mustBalance(t, 500); got != 450 {
		t.Fatalf("claimant balance = %d, want 450", got)
	}
}
