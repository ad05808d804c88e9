package models

import "time"

// Transaction is one immutable balance mutation. A nil FromID or ToID is the
// system side: bonuses, referral credits and claim rewards are issued with a
// nil source; penalties debit into a nil destination. For every account the
// sum of incoming minus outgoing amounts equals its current balance.
type Transaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FromID      *int64    `gorm:"index" json:"from_id"`
	ToID        *int64    `gorm:"index" json:"to_id"`
	AmountCents int64     `gorm:"not null" json:"amount_cents"`
	Kind        string    `gorm:"size:30;not null;index" json:"kind"` // transfer, referral, claim_reward, bonus, penalty
	Note        string    `gorm:"size:255" json:"note"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Transaction) TableName() string { return "transactions" }
