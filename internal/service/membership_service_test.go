package service

import (
	"context"
	"errors"
	"testing"

	"earnly/internal/domain"
	"earnly/internal/models"
)

// stubChecker answers membership queries from a fixed map; missing entries
// return an error like a flaky API call would.
type stubChecker struct {
	members map[string]bool
}

func (c *stubChecker) IsMember(chatID string, userID int64) (bool, error) {
	member, ok := c.members[chatID]
	if !ok {
		return false, errors.New("chat unreachable")
	}
	return member, nil
}

func TestGrantRewardOncePerPartner(t *testing.T) {
	env := newTestEnv(t)
	svc := env.membershipSvc(&stubChecker{})

	ok, err := svc.GrantReward(500, "@partner", 250)
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if !ok {
		t.Fatal("first grant reported as duplicate")
	}
	ok, err = svc.GrantReward(500, "@partner", 250)
	if err != nil {
		t.Fatalf("repeat grant: %v", err)
	}
	if ok {
		t.Fatal("duplicate grant paid again")
	}
	if got := env.mustBalance(t, 500); got != 250 {
		t.Fatalf("balance = %d, want 250", got)
	}

	// A different partner chat is a separate grant.
	ok, err = svc.GrantReward(500, "@other", 100)
	if err != nil || !ok {
		t.Fatalf("second partner grant: ok=%v err=%v", ok, err)
	}
	if got := env.mustBalance(t, 500); got != 350 {
		t.Fatalf("balance = %d, want 350", got)
	}
	env.checkLedgerSum(t, 500)
}

func TestGrantRewardRejectsNonPositive(t *testing.T) {
	env := newTestEnv(t)
	svc := env.membershipSvc(&stubChecker{})

	if _, err := svc.GrantReward(500, "@partner", 0); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("zero grant: err = %v, want ErrValidation", err)
	}
}

func TestReconcilePenalizesLeaversOnce(t *testing.T) {
	env := newTestEnv(t)
	checker := &stubChecker{members: map[string]bool{"@partner": true, "@other": true}}
	svc := env.membershipSvc(checker)

	if _, err := svc.GrantReward(500, "@partner", 250); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if _, err := svc.GrantReward(600, "@other", 250); err != nil {
		t.Fatalf("grant: %v", err)
	}

	// Everyone still a member: nothing changes.
	if err := svc.ReconcileOnce(context.Background()); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if got := env.mustBalance(t, 500); got != 250 {
		t.Fatalf("balance = %d after clean pass, want 250", got)
	}

	// User 500 leaves the partner chat. Penalty is 200.
	checker.members["@partner"] = false
	if err := svc.ReconcileOnce(context.Background()); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if got := env.mustBalance(t, 500); got != 50 {
		t.Fatalf("balance = %d after penalty, want 50", got)
	}
	if got := env.mustBalance(t, 600); got != 250 {
		t.Fatalf("bystander balance = %d, want 250", got)
	}
	if n := env.txCount(t, domain.TxKindPenalty); n != 1 {
		t.Fatalf("penalty transactions = %d, want 1", n)
	}

	// The grant is now inactive, so another pass must not re-penalize.
	if err := svc.ReconcileOnce(context.Background()); err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
	if got := env.mustBalance(t, 500); got != 50 {
		t.Fatalf("balance = %d after second pass, want 50", got)
	}
	if n := env.txCount(t, domain.TxKindPenalty); n != 1 {
		t.Fatalf("penalty transactions = %d after second pass, want 1", n)
	}
	env.checkLedgerSum(t, 500, 600)
}

func TestReconcileSkipsFailedChecks(t *testing.T) {
	env := newTestEnv(t)
	// No entry for the chat: every check errors.
	checker := &stubChecker{members: map[string]bool{}}
	svc := env.membershipSvc(checker)

	if _, err := svc.GrantReward(500, "@partner", 250); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if err := svc.ReconcileOnce(context.Background()); err != nil {
		t.Fatalf("reconcile with failing checker: %v", err)
	}
	if got := env.mustBalance(t, 500); got != 250 {
		t.Fatalf("balance = %d, want 250 untouched on check failure", got)
	}
	if n := env.txCount(t, domain.TxKindPenalty); n != 0 {
		t.Fatalf("penalty transactions = %d, want 0", n)
	}
}

func seedRequiredChannel(t *testing.T, env *testEnv, id string, rewardCents int64) {
	t.Helper()
	err := env.assetRepo.Upsert(&models.Asset{
		ID:                id,
		Type:              "channel",
		Title:             "Partner " + id,
		OwnerID:           1,
		RequiredSubscribe: true,
		RewardCents:       rewardCents,
		PenaltyCents:      200,
	})
	if err != nil {
		t.Fatalf("seed required channel: %v", err)
	}
}

func TestEnforceRequiredPaysJoinRewardOnce(t *testing.T) {
	env := newTestEnv(t)
	checker := &stubChecker{members: map[string]bool{"@partner": true}}
	svc := env.membershipSvc(checker)
	seedRequiredChannel(t, env, "@partner", 300)

	missing, err := svc.EnforceRequired(500)
	if err != nil {
		t.Fatalf("enforce: %v", err)
	}
	if len(missing) != 0 {
		t.Fatalf("missing = %v, want none for a subscribed user", missing)
	}
	if got := env.mustBalance(t, 500); got != 300 {
		t.Fatalf("balance = %d, want 300 join reward", got)
	}

	// Repeating the gate (every /start hits it) must not pay again.
	if _, err := svc.EnforceRequired(500); err != nil {
		t.Fatalf("second enforce: %v", err)
	}
	if got := env.mustBalance(t, 500); got != 300 {
		t.Fatalf("balance = %d after repeat, want 300", got)
	}
	if n := env.txCount(t, domain.TxKindBonus); n != 1 {
		t.Fatalf("bonus transactions = %d, want 1", n)
	}
	env.checkLedgerSum(t, 500)
}

func TestEnforceRequiredReportsMissingChannels(t *testing.T) {
	env := newTestEnv(t)
	checker := &stubChecker{members: map[string]bool{"@joined": true, "@skipped": false}}
	svc := env.membershipSvc(checker)
	seedRequiredChannel(t, env, "@joined", 100)
	seedRequiredChannel(t, env, "@skipped", 100)
	// Not in the checker map: the lookup fails and must count as not joined.
	seedRequiredChannel(t, env, "@unreachable", 100)

	missing, err := svc.EnforceRequired(500)
	if err != nil {
		t.Fatalf("enforce: %v", err)
	}
	want := map[string]bool{"@skipped": true, "@unreachable": true}
	if len(missing) != len(want) {
		t.Fatalf("missing = %v, want %v", missing, want)
	}
	for _, ch := range missing {
		if !want[ch] {
			t.Fatalf("unexpected missing channel %q", ch)
		}
	}
	if got := env.mustBalance(t, 500); got != 100 {
		t.Fatalf("balance = %d, want 100 for the one joined channel", got)
	}
}

func TestEnforceRequiredIgnoresOptionalAssets(t *testing.T) {
	env := newTestEnv(t)
	svc := env.membershipSvc(&stubChecker{members: map[string]bool{}})
	// Ad-only asset, not a subscription requirement.
	if err := env.assetRepo.Upsert(&models.Asset{
		ID: "CH1", Type: "channel", Title: "Optional", OwnerID: 1,
		AdEnabled: true, RewardCents: 300,
	}); err != nil {
		t.Fatalf("seed asset: %v", err)
	}

	missing, err := svc.EnforceRequired(500)
	if err != nil {
		t.Fatalf("enforce: %v", err)
	}
	if len(missing) != 0 {
		t.Fatalf("missing = %v, want none without required channels", missing)
	}
	if got := env.mustBalance(t, 500); got != 0 {
		t.Fatalf("balance = %d, want 0", got)
	}
}

func TestEnforcedGrantIsReconciled(t *testing.T) {
	env := newTestEnv(t)
	checker := &stubChecker{members: map[string]bool{"@partner": true}}
	svc := env.membershipSvc(checker)
	seedRequiredChannel(t, env, "@partner", 300)

	if _, err := svc.EnforceRequired(500); err != nil {
		t.Fatalf("enforce: %v", err)
	}

	// The user leaves; the next reconciler pass reverses the join reward's
	// grant with the standard penalty.
	checker.members["@partner"] = false
	if err := svc.ReconcileOnce(context.Background()); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if got := env.mustBalance(t, 500); got != 100 {
		t.Fatalf("balance = %d, want 300-200=100 after penalty", got)
	}
	if n := env.txCount(t, domain.TxKindPenalty); n != 1 {
		t.Fatalf("penalty transactions = %d, want 1", n)
	}
	env.checkLedgerSum(t, 500)
}

func TestReconcileStopsOnCancel(t *testing.T) {
	env := newTestEnv(t)
	svc := env.membershipSvc(&stubChecker{members: map[string]bool{"@partner": true}})

	if _, err := svc.GrantReward(500, "@partner", 250); err != nil {
		t.Fatalf("grant: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := svc.ReconcileOnce(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("reconcile on cancelled ctx: err = %v, want context.Canceled", err)
	}
}
