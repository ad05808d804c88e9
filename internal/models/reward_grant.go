package models

import "time"

// RewardGrant records a membership-conditional payout: the user was paid for
// joining a partner channel and the reconciler reverses it if they leave.
// Unique per (user, partner) so re-joining never duplicates the grant.
type RewardGrant struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        int64     `gorm:"not null;uniqueIndex:idx_grant_user_partner" json:"user_id"`
	PartnerChatID string    `gorm:"size:64;not null;uniqueIndex:idx_grant_user_partner" json:"partner_chat_id"`
	AmountCents   int64     `gorm:"not null" json:"amount_cents"`
	Active        bool      `gorm:"not null;default:true;index" json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (RewardGrant) TableName() string { return "reward_grants" }
