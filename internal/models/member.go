package models

import "time"

// Member is a registered book-club account.
type Member struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	IsAdmin      bool      `gorm:"default:false" json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`

	// Deleting a member removes its suggestions and progress rows and
	// detaches (nulls) its audit entries.
	Suggestions  []Suggestion      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Progress     []ReadingProgress `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	AuditEntries []AuditEntry      `gorm:"foreignKey:ActorID;constraint:OnDelete:SET NULL" json:"-"`
}

func (Member) TableName() string { return "members" }
