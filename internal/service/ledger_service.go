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

// LedgerService wraps the ledger store for account registration, balance
// queries and peer-to-peer transfers.
type LedgerService struct {
	db       *gorm.DB
	ledger   *repository.LedgerRepository
	notifier *notify.Dispatcher
}

func NewLedgerService(db *gorm.DB, ledger *repository.LedgerRepository, notifier *notify.Dispatcher) *LedgerService {
	return &LedgerService{db: db, ledger: ledger, notifier: notifier}
}

func (s *LedgerService) EnsureAccount(id int64, username string) error {
	return s.ledger.EnsureAccount(id, username)
}

func (s *LedgerService) Balance(id int64) (int64, error) {
	return s.ledger.Balance(id)
}

func (s *LedgerService) GetAccount(id int64) (*models.Account, error) {
	a, err := s.ledger.GetAccount(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	return a, err
}

func (s *LedgerService) TransactionsFor(id int64, limit int) ([]models.Transaction, error) {
	return s.ledger.TransactionsFor(id, limit)
}

func (s *LedgerService) RecentTransactions(limit int) ([]models.Transaction, error) {
	return s.ledger.RecentTransactions(limit)
}

// Transfer moves amountCents between two users. The debit is a conditional
// update, so an insufficient balance aborts the whole transaction and neither
// side changes.
func (s *LedgerService) Transfer(fromID, toID, amountCents int64) error {
	if amountCents <= 0 {
		return fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}
	if fromID == toID {
		return fmt.Errorf("%w: cannot transfer to yourself", domain.ErrValidation)
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		ledger := s.ledger.WithTx(tx)
		if err := ledger.EnsureAccount(fromID, ""); err != nil {
			return err
		}
		if err := ledger.EnsureAccount(toID, ""); err != nil {
			return err
		}
		if err := ledger.DebitIfSufficient(fromID, amountCents); err != nil {
			return err
		}
		if err := ledger.ApplyDelta(toID, amountCents); err != nil {
			return err
		}
		_, err := ledger.RecordTransaction(&fromID, &toID, amountCents, domain.TxKindTransfer, "user transfer")
		return err
	})
	if err != nil {
		return err
	}
	s.notifier.Send(toID, "transfer_received",
		fmt.Sprintf("You received %s from %d", domain.FormatCents(amountCents), fromID))
	return nil
}
