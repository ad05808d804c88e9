package repository

import (
	"errors"
	"time"

	"earnly/internal/domain"
	"earnly/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerRepository is the only writer of account balances and the transaction
// log. Callers that need a balance mutation paired with its log entry run both
// through the same gorm transaction via WithTx.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// WithTx returns a repository bound to an open transaction handle.
func (r *LedgerRepository) WithTx(tx *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: tx}
}

// EnsureAccount creates the account if absent and refreshes the username.
func (r *LedgerRepository) EnsureAccount(id int64, username string) error {
	err := r.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Account{TelegramID: id, Username: username}).Error
	if err != nil {
		return err
	}
	if username != "" {
		return r.db.Model(&models.Account{}).
			Where("telegram_id = ? AND username <> ?", id, username).
			Update("username", username).Error
	}
	return nil
}

func (r *LedgerRepository) GetAccount(id int64) (*models.Account, error) {
	var a models.Account
	if err := r.db.First(&a, "telegram_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// Balance returns 0 for unknown accounts without creating them.
func (r *LedgerRepository) Balance(id int64) (int64, error) {
	a, err := r.GetAccount(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return a.BalanceCents, nil
}

// ApplyDelta adjusts the balance by delta (positive or negative), creating the
// account first if needed. The store does not enforce non-negativity here:
// penalties may legitimately drive a balance below zero, and transfer debits
// pre-check via DebitIfSufficient instead.
func (r *LedgerRepository) ApplyDelta(id int64, delta int64) error {
	if err := r.EnsureAccount(id, ""); err != nil {
		return err
	}
	return r.db.Model(&models.Account{}).
		Where("telegram_id = ?", id).
		Update("balance_cents", gorm.Expr("balance_cents + ?", delta)).Error
}

// DebitIfSufficient debits amount only when the balance covers it, in a single
// conditional update so two concurrent spenders cannot both pass the check.
func (r *LedgerRepository) DebitIfSufficient(id int64, amount int64) error {
	res := r.db.Model(&models.Account{}).
		Where("telegram_id = ? AND balance_cents >= ?", id, amount).
		Update("balance_cents", gorm.Expr("balance_cents - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrInsufficientFunds
	}
	return nil
}

// RecordTransaction appends an immutable log entry. Nil from/to marks the
// system side of the mutation.
func (r *LedgerRepository) RecordTransaction(from, to *int64, amount int64, kind, note string) (uint, error) {
	tx := models.Transaction{FromID: from, ToID: to, AmountCents: amount, Kind: kind, Note: note}
	if err := r.db.Create(&tx).Error; err != nil {
		return 0, err
	}
	return tx.ID, nil
}

func (r *LedgerRepository) RecentTransactions(limit int) ([]models.Transaction, error) {
	var list []models.Transaction
	err := r.db.Order("id DESC").Limit(limit).Find(&list).Error
	return list, err
}

func (r *LedgerRepository) TransactionsFor(id int64, limit int) ([]models.Transaction, error) {
	var list []models.Transaction
	err := r.db.Where("from_id = ? OR to_id = ?", id, id).
		Order("id DESC").Limit(limit).Find(&list).Error
	return list, err
}

// SetReferrerIfUnset performs the first-write-wins referral attribution.
// Returns false when the account already has a referrer.
func (r *LedgerRepository) SetReferrerIfUnset(id, referrerID int64) (bool, error) {
	res := r.db.Model(&models.Account{}).
		Where("telegram_id = ? AND referrer_id IS NULL", id).
		Update("referrer_id", referrerID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkBonusClaimed advances the bonus clock and streak only when the cooldown
// has elapsed relative to the supplied now. Returns false when still cooling.
func (r *LedgerRepository) MarkBonusClaimed(id int64, now time.Time, cooldown time.Duration) (bool, error) {
	cutoff := now.Add(-cooldown)
	res := r.db.Model(&models.Account{}).
		Where("telegram_id = ? AND (last_bonus_at IS NULL OR last_bonus_at <= ?)", id, cutoff).
		Updates(map[string]interface{}{
			"last_bonus_at": now,
			"bonus_streak":  gorm.Expr("bonus_streak + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
