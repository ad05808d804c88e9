package service

import (
	"errors"
	"testing"

	"earnly/internal/domain"
)

func TestTransferMovesFundsAndLogs(t *testing.T) {
	env := newTestEnv(t)
	svc := env.ledgerSvc()

	env.credit(t, 100, 1000)

	if err := svc.Transfer(100, 200, 300); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if got := env.mustBalance(t, 100); got != 700 {
		t.Fatalf("sender balance = %d, want 700", got)
	}
	if got := env.mustBalance(t, 200); got != 300 {
		t.Fatalf("recipient balance = %d, want 300", got)
	}
	if n := env.txCount(t, domain.TxKindTransfer); n != 1 {
		t.Fatalf("transfer transactions = %d, want 1", n)
	}
	env.checkLedgerSum(t, 100, 200)
}

func TestTransferInsufficientFunds(t *testing.T) {
	env := newTestEnv(t)
	svc := env.ledgerSvc()

	env.credit(t, 100, 100)

	err := svc.Transfer(100, 200, 300)
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	if got := env.mustBalance(t, 100); got != 100 {
		t.Fatalf("sender balance changed to %d", got)
	}
	if got := env.mustBalance(t, 200); got != 0 {
		t.Fatalf("recipient balance changed to %d", got)
	}
	if n := env.txCount(t, domain.TxKindTransfer); n != 0 {
		t.Fatalf("transfer transactions = %d, want 0", n)
	}
}

func TestTransferValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := env.ledgerSvc()

	if err := svc.Transfer(100, 200, 0); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("zero amount: err = %v, want ErrValidation", err)
	}
	if err := svc.Transfer(100, 200, -50); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("negative amount: err = %v, want ErrValidation", err)
	}
	if err := svc.Transfer(100, 100, 50); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("self transfer: err = %v, want ErrValidation", err)
	}
}

func TestBalanceUnknownAccountIsZero(t *testing.T) {
	env := newTestEnv(t)
	svc := env.ledgerSvc()

	bal, err := svc.Balance(999)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if bal != 0 {
		t.Fatalf("balance = %d, want 0", bal)
	}
	if _, err := svc.GetAccount(999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("get unknown account: err = %v, want ErrNotFound", err)
	}
}

func TestEnsureAccountRefreshesUsername(t *testing.T) {
	env := newTestEnv(t)
	svc := env.ledgerSvc()

	if err := svc.EnsureAccount(42, "alice"); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if err := svc.EnsureAccount(42, "alice_renamed"); err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	acct, err := svc.GetAccount(42)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if acct.Username != "alice_renamed" {
		t.Fatalf("username = %q, want alice_renamed", acct.Username)
	}
	if acct.BalanceCents != 0 {
		t.Fatalf("fresh account balance = %d", acct.BalanceCents)
	}
}
