package models

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pageturners/bookclub/backend/internal/config"
)

// InitDB opens the configured database and returns the handle. Callers own
// the handle and pass it down explicitly; there is no package-level
// instance.
func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Member{},
		&Book{},
		&Suggestion{},
		&ReadingProgress{},
		&AccessCode{},
		&Meeting{},
		&AuditEntry{},
		&Feedback{},
	)
}

// SeedDefaultData creates the access-code row if none exists. The
// bootstrap admin is seeded separately by the auth service.
func SeedDefaultData(db *gorm.DB, seed *config.SeedConfig) error {
	var count int64
	if err := db.Model(&AccessCode{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		if err := db.Create(&AccessCode{Code: seed.AccessCode}).Error; err != nil {
			return err
		}
	}
	return nil
}
