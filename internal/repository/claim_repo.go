package repository

import (
	"earnly/internal/domain"
	"earnly/internal/models"

	"gorm.io/gorm"
)

type ClaimRepository struct {
	db *gorm.DB
}

func NewClaimRepository(db *gorm.DB) *ClaimRepository {
	return &ClaimRepository{db: db}
}

func (r *ClaimRepository) WithTx(tx *gorm.DB) *ClaimRepository {
	return &ClaimRepository{db: tx}
}

func (r *ClaimRepository) Create(c *models.Claim) error {
	return r.db.Create(c).Error
}

func (r *ClaimRepository) GetByID(id uint) (*models.Claim, error) {
	var c models.Claim
	if err := r.db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// AttachProof stores (or replaces) the proof reference and moves the claim to
// awaiting_review. Only non-terminal claims match the guard; resubmission
// before a decision is allowed.
func (r *ClaimRepository) AttachProof(id uint, proofRef string) (bool, error) {
	res := r.db.Model(&models.Claim{}).
		Where("id = ? AND status IN ?", id, []string{domain.ClaimStatusPending, domain.ClaimStatusAwaitingReview}).
		Updates(map[string]interface{}{
			"proof_ref": proofRef,
			"status":    domain.ClaimStatusAwaitingReview,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkTerminal transitions a non-terminal claim to the given terminal status
// in one conditional update. The RowsAffected result is the only arbiter of
// who won a concurrent adjudication race.
func (r *ClaimRepository) MarkTerminal(id uint, status string) (bool, error) {
	res := r.db.Model(&models.Claim{}).
		Where("id = ? AND status IN ?", id, []string{domain.ClaimStatusPending, domain.ClaimStatusAwaitingReview}).
		Update("status", status)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ClaimRepository) ListByStatus(status string, limit int) ([]models.Claim, error) {
	var list []models.Claim
	q := r.db.Order("id DESC").Limit(limit)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *ClaimRepository) ListByUser(userID int64, limit int) ([]models.Claim, error) {
	var list []models.Claim
	err := r.db.Where("user_id = ?", userID).Order("id DESC").Limit(limit).Find(&list).Error
	return list, err
}
