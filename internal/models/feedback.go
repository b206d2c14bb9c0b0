package models

import "time"

// Feedback is a free-form note from a guest or member. MemberID and Email
// are both optional; a logged-in submitter's email is backfilled when none
// is given.
type Feedback struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Type      string    `gorm:"size:50;not null" json:"type"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Email     string    `gorm:"size:255" json:"email"`
	MemberID  *uint     `gorm:"index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Feedback) TableName() string { return "feedback" }
