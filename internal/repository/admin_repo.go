package repository

import (
	"earnly/internal/domain"
	"earnly/internal/models"

	"gorm.io/gorm"
)

// AdminRepository backs the dashboard: logins and aggregate stats.
type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) GetByEmail(email string) (*models.AdminUser, error) {
	var u models.AdminUser
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *AdminRepository) GetByID(id uint) (*models.AdminUser, error) {
	var u models.AdminUser
	if err := r.db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

type DashboardStats struct {
	Users          int64 `json:"users"`
	TotalBalance   int64 `json:"total_balance_cents"`
	Transactions   int64 `json:"transactions"`
	PendingClaims  int64 `json:"pending_claims"`
	AwaitingReview int64 `json:"awaiting_review"`
	ActiveAds      int64 `json:"active_ads"`
}

func (r *AdminRepository) GetDashboardStats() (*DashboardStats, error) {
	var s DashboardStats
	if err := r.db.Model(&models.Account{}).Count(&s.Users).Error; err != nil {
		return nil, err
	}
	var total *int64
	if err := r.db.Model(&models.Account{}).Select("SUM(balance_cents)").Scan(&total).Error; err != nil {
		return nil, err
	}
	if total != nil {
		s.TotalBalance = *total
	}
	if err := r.db.Model(&models.Transaction{}).Count(&s.Transactions).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Claim{}).Where("status = ?", domain.ClaimStatusPending).Count(&s.PendingClaims).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Claim{}).Where("status = ?", domain.ClaimStatusAwaitingReview).Count(&s.AwaitingReview).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Ad{}).Where("status = ?", domain.AdStatusActive).Count(&s.ActiveAds).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
