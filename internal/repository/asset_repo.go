package repository

import (
	"earnly/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AssetRepository struct {
	db *gorm.DB
}

func NewAssetRepository(db *gorm.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

func (r *AssetRepository) WithTx(tx *gorm.DB) *AssetRepository {
	return &AssetRepository{db: tx}
}

// Upsert creates the asset or replaces its mutable fields by id.
func (r *AssetRepository) Upsert(a *models.Asset) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"type", "title", "owner_id", "ad_enabled", "required_subscribe",
			"reward_cents", "penalty_cents", "updated_at",
		}),
	}).Create(a).Error
}

func (r *AssetRepository) GetByID(id string) (*models.Asset, error) {
	var a models.Asset
	if err := r.db.First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AssetRepository) List() ([]models.Asset, error) {
	var list []models.Asset
	err := r.db.Order("created_at ASC").Find(&list).Error
	return list, err
}

// ListRequired returns the assets users must stay subscribed to.
func (r *AssetRepository) ListRequired() ([]models.Asset, error) {
	var list []models.Asset
	err := r.db.Where("required_subscribe = ?", true).Order("id ASC").Find(&list).Error
	return list, err
}
