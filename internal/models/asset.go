package models

import "time"

// Asset is a sponsor-defined task template: what category of work it is, what
// an approved claim pays and what a membership lapse costs.
type Asset struct {
	ID                string    `gorm:"primaryKey;size:64" json:"id"`
	Type              string    `gorm:"size:30;not null" json:"type"` // YOUTUBE, INSTAGRAM, CHANNEL, ...
	Title             string    `gorm:"size:255" json:"title"`
	OwnerID           int64     `gorm:"not null;index" json:"owner_id"`
	AdEnabled         bool      `gorm:"not null;default:true" json:"ad_enabled"`
	RequiredSubscribe bool      `gorm:"not null;default:false" json:"required_subscribe"`
	RewardCents       int64     `gorm:"not null;default:0" json:"reward_cents"`
	PenaltyCents      int64     `gorm:"not null;default:0" json:"penalty_cents"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (Asset) TableName() string { return "assets" }
