package models

import (
	"strconv"
	"time"
)

// Account is a ledger account keyed by the Telegram user id. Created lazily on
// first reference, never deleted. BalanceCents is mutated only through the
// ledger repository so every change is paired with a Transaction row.
type Account struct {
	TelegramID   int64      `gorm:"primaryKey;autoIncrement:false" json:"telegram_id"`
	Username     string     `gorm:"size:64;index" json:"username"`
	BalanceCents int64      `gorm:"not null;default:0" json:"balance_cents"`
	LastBonusAt  *time.Time `json:"last_bonus_at"`
	BonusStreak  int        `gorm:"not null;default:0" json:"bonus_streak"`
	ReferrerID   *int64     `gorm:"index" json:"referrer_id"` // set at most once, immutable after
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (Account) TableName() string { return "accounts" }

// ReferralCode returns the deep-link payload for this account's invite link.
func (a *Account) ReferralCode() string {
	return "ref" + strconv.FormatInt(a.TelegramID, 10)
}
