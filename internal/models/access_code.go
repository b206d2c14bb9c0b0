package models

import "time"

// AccessCode is the shared secret gating guest entry. At most one row
// exists; updates overwrite it in place.
type AccessCode struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"size:100;not null" json:"code"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (AccessCode) TableName() string { return "access_codes" }
