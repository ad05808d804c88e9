package database

import (
	"strings"

	"earnly/config"
	"earnly/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens the configured database. MySQL DSNs (user:pass@tcp(...)/db) use
// the mysql driver; anything else is treated as a sqlite path/URI, which keeps
// local development and tests free of an external server.
func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dialector := openDialector(cfg.DSN)
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error), // only log errors, not every SQL query
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

func openDialector(dsn string) gorm.Dialector {
	if strings.Contains(dsn, "@tcp(") || strings.Contains(dsn, "@unix(") {
		return mysql.Open(dsn)
	}
	return sqlite.Open(dsn)
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Account{},
		&models.Transaction{},
		&models.Asset{},
		&models.Ad{},
		&models.Claim{},
		&models.RewardGrant{},
		&models.Order{},
		&models.AdminUser{},
		&models.SystemSetting{},
		&models.Notification{},
	)
}
