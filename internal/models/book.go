package models

import "time"

// BookStatus is the lifecycle state of a book. Transitions only move
// forward: queued -> current -> completed.
type BookStatus string

const (
	BookQueued    BookStatus = "queued"
	BookCurrent   BookStatus = "current"
	BookCompleted BookStatus = "completed"
)

func (s BookStatus) Valid() bool {
	switch s {
	case BookQueued, BookCurrent, BookCompleted:
		return true
	}
	return false
}

// Book is a club reading selection. At most one book has status "current"
// at any time; CurrentChapters is only meaningful while current.
type Book struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Title           string     `gorm:"size:200;not null" json:"title"`
	PDFURL          string     `gorm:"size:500;not null" json:"pdf_url"`
	CoverImageURL   string     `gorm:"size:500" json:"cover_image_url"`
	TotalChapters   *int       `json:"total_chapters"`
	Status          BookStatus `gorm:"size:20;not null;default:queued;index" json:"status"`
	CurrentChapters string     `gorm:"size:100" json:"current_chapters"`
	CompletedDate   *time.Time `json:"completed_date"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (Book) TableName() string { return "books" }
