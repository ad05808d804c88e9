package repository

import (
	"time"

	"earnly/internal/models"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(n *models.Notification) error {
	return r.db.Create(n).Error
}

func (r *NotificationRepository) MarkDelivered(obligationID string) error {
	now := time.Now()
	return r.db.Model(&models.Notification{}).
		Where("obligation_id = ?", obligationID).
		Update("delivered_at", &now).Error
}

func (r *NotificationRepository) ListRecent(limit int) ([]models.Notification, error) {
	var list []models.Notification
	err := r.db.Order("id DESC").Limit(limit).Find(&list).Error
	return list, err
}
