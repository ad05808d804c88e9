package models

import "time"

// Notification is a persisted outbound obligation: who should hear about what.
// Delivery is best-effort and never affects the ledger mutation that produced
// it; DeliveredAt stays nil when every sink failed.
type Notification struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	ObligationID string     `gorm:"size:36;uniqueIndex" json:"obligation_id"`
	Recipient    int64      `gorm:"not null;index" json:"recipient"` // 0 = owner channel broadcast
	Kind         string     `gorm:"size:50;not null;index" json:"kind"`
	Body         string     `gorm:"type:text" json:"body"`
	Actions      string     `gorm:"type:text" json:"actions"` // JSON-encoded inline actions
	DeliveredAt  *time.Time `json:"delivered_at"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
