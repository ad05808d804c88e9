package models

import "time"

// Order is a free-text request a user places; it is stored and re-posted to
// the owner channel for manual handling.
type Order struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	Username  string    `gorm:"size:64" json:"username"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Status    string    `gorm:"size:20;not null;default:'new'" json:"status"` // new | posted
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Order) TableName() string { return "orders" }
