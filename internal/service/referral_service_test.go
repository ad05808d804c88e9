package service

import (
	"testing"

	"earnly/internal/domain"
)

func TestReferralAttribution(t *testing.T) {
	env := newTestEnv(t)
	svc := env.referralSvc()

	ok, err := svc.Attribute(500, 100)
	if err != nil {
		t.Fatalf("attribute: %v", err)
	}
	if !ok {
		t.Fatal("attribute returned false for a fresh user")
	}
	if got := env.mustBalance(t, 100); got != 400 {
		t.Fatalf("referrer balance = %d, want 400", got)
	}
	acct, err := env.ledgerRepo.GetAccount(500)
	if err != nil {
		t.Fatalf("get referred account: %v", err)
	}
	if acct.ReferrerID == nil || *acct.ReferrerID != 100 {
		t.Fatalf("referrer id = %v, want 100", acct.ReferrerID)
	}
	if n := env.txCount(t, domain.TxKindReferral); n != 1 {
		t.Fatalf("referral transactions = %d, want 1", n)
	}
	env.checkLedgerSum(t, 100)
}

func TestReferralDuplicateEventPaysOnce(t *testing.T) {
	env := newTestEnv(t)
	svc := env.referralSvc()

	if _, err := svc.Attribute(500, 100); err != nil {
		t.Fatalf("first attribute: %v", err)
	}
	ok, err := svc.Attribute(500, 100)
	if err != nil {
		t.Fatalf("duplicate attribute: %v", err)
	}
	if ok {
		t.Fatal("duplicate attribution reported as new")
	}
	if got := env.mustBalance(t, 100); got != 400 {
		t.Fatalf("referrer balance = %d, want 400 after duplicate", got)
	}
	if n := env.txCount(t, domain.TxKindReferral); n != 1 {
		t.Fatalf("referral transactions = %d, want 1", n)
	}
}

func TestReferralFirstWriteWins(t *testing.T) {
	env := newTestEnv(t)
	svc := env.referralSvc()

	if _, err := svc.Attribute(500, 100); err != nil {
		t.Fatalf("first attribute: %v", err)
	}
	ok, err := svc.Attribute(500, 200)
	if err != nil {
		t.Fatalf("competing attribute: %v", err)
	}
	if ok {
		t.Fatal("second referrer overwrote the first")
	}
	if got := env.mustBalance(t, 200); got != 0 {
		t.Fatalf("losing referrer balance = %d, want 0", got)
	}
	acct, err := env.ledgerRepo.GetAccount(500)
	if err != nil {
		t.Fatalf("get referred account: %v", err)
	}
	if acct.ReferrerID == nil || *acct.ReferrerID != 100 {
		t.Fatalf("referrer id = %v, want the original 100", acct.ReferrerID)
	}
}

func TestReferralSelfIsIgnored(t *testing.T) {
	env := newTestEnv(t)
	svc := env.referralSvc()

	ok, err := svc.Attribute(100, 100)
	if err != nil {
		t.Fatalf("self attribute: %v", err)
	}
	if ok {
		t.Fatal("self-referral was attributed")
	}
	if n := env.txCount(t, domain.TxKindReferral); n != 0 {
		t.Fatalf("referral transactions = %d, want 0", n)
	}
}

func TestParseCode(t *testing.T) {
	tests := []struct {
		in   string
		id   int64
		ok   bool
	}{
		{"ref123", 123, true},
		{"123", 123, true},
		{" ref42 ", 42, true},
		{"ref", 0, false},
		{"refabc", 0, false},
		{"ref-5", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		id, ok := ParseCode(tt.in)
		if id != tt.id || ok != tt.ok {
			t.Errorf("ParseCode(%q) = (%d, %v), want (%d, %v)", tt.in, id, ok, tt.id, tt.ok)
		}
	}
}
