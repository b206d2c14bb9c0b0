package models

import "time"

// Chapter marker values. Positive values mean "currently reading that
// chapter"; no upper bound is enforced against the book's chapter count.
const (
	ChapterNotStarted = 0
	ChapterCompleted  = -1
)

// ReadingProgress is one member's marker for one book, unique per
// (member, book) pair and upserted in place.
type ReadingProgress struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	MemberID  uint      `gorm:"uniqueIndex:idx_progress_member_book;not null" json:"user_id"`
	BookID    uint      `gorm:"uniqueIndex:idx_progress_member_book;not null" json:"book_id"`
	Chapter   int       `gorm:"not null;default:0" json:"chapter"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ReadingProgress) TableName() string { return "reading_progress" }
