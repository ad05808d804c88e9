package repository

import (
	"earnly/internal/domain"
	"earnly/internal/models"

	"gorm.io/gorm"
)

type AdRepository struct {
	db *gorm.DB
}

func NewAdRepository(db *gorm.DB) *AdRepository {
	return &AdRepository{db: db}
}

func (r *AdRepository) WithTx(tx *gorm.DB) *AdRepository {
	return &AdRepository{db: tx}
}

func (r *AdRepository) Create(ad *models.Ad) error {
	return r.db.Create(ad).Error
}

func (r *AdRepository) GetByID(id uint) (*models.Ad, error) {
	var ad models.Ad
	if err := r.db.First(&ad, id).Error; err != nil {
		return nil, err
	}
	return &ad, nil
}

// Cancel flips an active ad to cancelled; returns false when the ad was
// already cancelled or missing.
func (r *AdRepository) Cancel(id uint) (bool, error) {
	res := r.db.Model(&models.Ad{}).
		Where("id = ? AND status = ?", id, domain.AdStatusActive).
		Update("status", domain.AdStatusCancelled)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *AdRepository) ListActive() ([]models.Ad, error) {
	var list []models.Ad
	err := r.db.Where("status = ?", domain.AdStatusActive).Order("id DESC").Find(&list).Error
	return list, err
}
