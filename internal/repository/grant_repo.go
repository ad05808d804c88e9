package repository

import (
	"earnly/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GrantRepository struct {
	db *gorm.DB
}

func NewGrantRepository(db *gorm.DB) *GrantRepository {
	return &GrantRepository{db: db}
}

func (r *GrantRepository) WithTx(tx *gorm.DB) *GrantRepository {
	return &GrantRepository{db: tx}
}

// CreateIfAbsent inserts the grant unless one already exists for the same
// (user, partner) pair; re-joining a partner never duplicates a grant.
// Returns true only when a new row was written.
func (r *GrantRepository) CreateIfAbsent(g *models.RewardGrant) (bool, error) {
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(g)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GrantRepository) ListActive() ([]models.RewardGrant, error) {
	var list []models.RewardGrant
	err := r.db.Where("active = ?", true).Find(&list).Error
	return list, err
}

// Deactivate flips an active grant off; returns false when it was already
// inactive, which makes penalty application idempotent.
func (r *GrantRepository) Deactivate(id uint) (bool, error) {
	res := r.db.Model(&models.RewardGrant{}).
		Where("id = ? AND active = ?", id, true).
		Update("active", false)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
