package models

import (
	"time"

	"earnly/internal/domain"
)

// Claim is one user's attempt at one ad's task. Status is an explicit column:
// pending -> awaiting_review (proof attached) -> approved | rejected. The two
// terminal states are guarded by conditional updates in the claim repository,
// so a reward can be paid at most once per claim.
type Claim struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AdID      uint      `gorm:"not null;index" json:"ad_id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	Status    string    `gorm:"size:20;not null;default:'pending';index" json:"status"`
	ProofRef  *string   `gorm:"size:255" json:"proof_ref"` // opaque Telegram file id, nil until submitted
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Ad Ad `gorm:"foreignKey:AdID" json:"-"`
}

func (Claim) TableName() string { return "claims" }

// Terminal reports whether the claim has been adjudicated.
func (c *Claim) Terminal() bool {
	return c.Status == domain.ClaimStatusApproved || c.Status == domain.ClaimStatusRejected
}
