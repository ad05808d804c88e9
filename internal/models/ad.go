package models

import "time"

// Ad is one budgeted posting of an asset's task. Claims reference the ad; the
// payout is resolved through AssetID at approval time.
type Ad struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	AssetID         string    `gorm:"size:64;not null;index" json:"asset_id"`
	CreatorID       int64     `gorm:"not null;index" json:"creator_id"`
	BudgetCents     int64     `gorm:"not null" json:"budget_cents"`
	WorkerSlots     int       `gorm:"not null" json:"worker_slots"`
	Text            string    `gorm:"type:text" json:"text"`
	Status          string    `gorm:"size:20;not null;default:'active';index" json:"status"` // active | cancelled
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Asset Asset `gorm:"foreignKey:AssetID" json:"-"`
}

func (Ad) TableName() string { return "ads" }
