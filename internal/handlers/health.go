package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check reports service liveness and database reachability.
// GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	status := "ok"
	dbStatus := "ok"

	sqlDB, err := h.db.DB()
	if err != nil {
		dbStatus = "error: " + err.Error()
		status = "degraded"
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "error: " + err.Error()
		status = "degraded"
	}

	c.JSON(200, gin.H{
		"status":   status,
		"service":  "bookclub",
		"database": dbStatus,
	})
}
