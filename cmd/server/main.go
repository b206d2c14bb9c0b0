package main

import (
	"embed"
	"io/fs"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/pageturners/bookclub/backend/internal/config"
	"github.com/pageturners/bookclub/backend/pkg/logger"
)

//go:embed static/*
var staticFiles embed.FS

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Log.Level)

	if cfg.Session.Secret == config.DefaultSessionSecret {
		if cfg.Server.Mode == "release" {
			logger.Fatal().Msg("Refusing to start in release mode with the default session secret; set SESSION_SECRET")
		}
		logger.Warn().Msg("Using the default session secret; set SESSION_SECRET before deploying")
	}

	app := bootstrap(cfg)

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()

	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		logger.Fatalf("Failed to mount static assets: %v", err)
	}

	registerRoutes(r, app, cfg, staticFS)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	logger.Infof("Server starting on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
