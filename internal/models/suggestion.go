package models

import "time"

// SuggestionStatus is monotonic: pending -> approved or rejected, never
// back.
type SuggestionStatus string

const (
	SuggestionPending  SuggestionStatus = "pending"
	SuggestionApproved SuggestionStatus = "approved"
	SuggestionRejected SuggestionStatus = "rejected"
)

func (s SuggestionStatus) Valid() bool {
	switch s {
	case SuggestionPending, SuggestionApproved, SuggestionRejected:
		return true
	}
	return false
}

// Suggestion is a member-proposed book awaiting admin review. Approval
// materializes exactly one queued Book.
type Suggestion struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	Title         string           `gorm:"size:200;not null" json:"title"`
	PDFURL        string           `gorm:"size:500;not null" json:"pdf_url"`
	CoverImageURL string           `gorm:"size:500" json:"cover_image_url"`
	Status        SuggestionStatus `gorm:"size:20;not null;default:pending;index" json:"status"`
	MemberID      uint             `gorm:"index;not null" json:"user_id"`
	Member        *Member          `gorm:"foreignKey:MemberID" json:"-"`
	CreatedAt     time.Time        `json:"created_at"`
}

func (Suggestion) TableName() string { return "book_suggestions" }
