package services

import (
	"time"

	"github.com/pageturners/bookclub/backend/internal/models"
	"gorm.io/gorm"
)

// recordAdminAction appends an audit entry using the caller's handle, so
// entries written inside a transaction commit or roll back together with
// the mutation they describe.
func recordAdminAction(tx *gorm.DB, actorID uint, action, target string) error {
	entry := models.AuditEntry{
		ActorID: &actorID,
		Action:  action,
		Target:  target,
	}
	return tx.Create(&entry).Error
}

type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

type AuditLogRow struct {
	ID        uint      `json:"id"`
	ActorName string    `json:"admin_name"`
	Action    string    `json:"action"`
	Target    string    `json:"target"`
	CreatedAt time.Time `json:"timestamp"`
}

// Recent returns the latest admin actions, newest first. Entries whose
// actor account was deleted are kept and labeled "Former admin".
func (s *AuditService) Recent(limit int) ([]AuditLogRow, error) {
	if limit <= 0 {
		limit = 20
	}

	rows := []AuditLogRow{}
	err := s.db.Model(&models.AuditEntry{}).
		Select("admin_actions.id, admin_actions.action, admin_actions.target, admin_actions.created_at, COALESCE(members.name, 'Former admin') AS actor_name").
		Joins("LEFT JOIN members ON members.id = admin_actions.actor_id").
		Order("admin_actions.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
