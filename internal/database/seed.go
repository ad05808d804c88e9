package database

import (
	"log"
	"os"
	"strconv"

	"earnly/config"
	"earnly/internal/domain"
	"earnly/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin creates the first dashboard admin when the table is empty.
// Credentials come from ADMIN_EMAIL / ADMIN_PASSWORD.
func SeedAdmin(db *gorm.DB) {
	var count int64
	db.Model(&models.AdminUser{}).Count(&count)
	if count > 0 {
		return
	}
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Printf("[seed] no admin users and ADMIN_EMAIL/ADMIN_PASSWORD unset; dashboard login disabled")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[seed] admin password hash: %v", err)
		return
	}
	admin := models.AdminUser{Email: email, PasswordHash: string(hash), Role: domain.RoleAdmin}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("[seed] create admin: %v", err)
		return
	}
	log.Printf("[seed] created admin user %s", email)
}

// SeedSettings inserts reward amounts from config unless already present.
func SeedSettings(db *gorm.DB, rw *config.RewardsConfig) error {
	defaults := map[string]string{
		domain.SettingReferralBonus:     strconv.FormatInt(rw.ReferralBonusCents, 10),
		domain.SettingBonusMin:          strconv.FormatInt(rw.BonusMinCents, 10),
		domain.SettingBonusMax:          strconv.FormatInt(rw.BonusMaxCents, 10),
		domain.SettingMembershipPenalty: strconv.FormatInt(rw.MembershipPenaltyCents, 10),
	}
	for k, v := range defaults {
		var count int64
		db.Model(&models.SystemSetting{}).Where("`key` = ?", k).Count(&count)
		if count == 0 {
			if err := db.Create(&models.SystemSetting{Key: k, Value: v}).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
