package main

import (
	"gorm.io/gorm"

	"github.com/pageturners/bookclub/backend/internal/config"
	"github.com/pageturners/bookclub/backend/internal/models"
	"github.com/pageturners/bookclub/backend/internal/services"
	"github.com/pageturners/bookclub/backend/internal/utils"
	"github.com/pageturners/bookclub/backend/pkg/logger"
)

// appState carries the database handle every handler receives explicitly.
// There is no package-level instance anywhere.
type appState struct {
	db *gorm.DB
}

// bootstrap opens the database, migrates the schema, and seeds what a
// fresh deployment needs: the access code and the first admin account.
func bootstrap(cfg *config.Config) *appState {
	utils.SetSessionSecret(cfg.Session.Secret)

	db, err := models.InitDB(&cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(db); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	if err := models.SeedDefaultData(db, &cfg.Seed); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed default data")
	}

	if err := services.NewAuthService(db).CreateAdminIfNotExists(cfg.Seed.AdminEmail, cfg.Seed.AdminPassword); err != nil {
		logger.Warn().Err(err).Msg("Failed to create admin user")
	}

	return &appState{db: db}
}
