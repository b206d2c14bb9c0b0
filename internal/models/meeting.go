package models

import "time"

// Meeting holds the next club meeting. Single mutable row, admin-managed.
type Meeting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StartAt   time.Time `gorm:"not null" json:"start_at"`
	MeetLink  string    `gorm:"size:500" json:"meet_link"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Meeting) TableName() string { return "meetings" }
