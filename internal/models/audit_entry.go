package models

import "time"

// AuditEntry records one privileged admin mutation. Rows are append-only:
// the application never updates or deletes them. ActorID survives as NULL
// when the acting admin's account is later removed.
type AuditEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ActorID   *uint     `gorm:"index" json:"actor_id"`
	Action    string    `gorm:"size:100;not null;index" json:"action"`
	Target    string    `gorm:"size:500" json:"target"`
	CreatedAt time.Time `json:"created_at"`
}

func (AuditEntry) TableName() string { return "admin_actions" }
