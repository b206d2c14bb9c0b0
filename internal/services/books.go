package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pageturners/bookclub/backend/internal/models"
	"github.com/pageturners/bookclub/backend/pkg/response"
	"gorm.io/gorm"
)

type BookService struct {
	db *gorm.DB
}

func NewBookService(db *gorm.DB) *BookService {
	return &BookService{db: db}
}

type SetCurrentBookRequest struct {
	CurrentChapters string `form:"current_chapters" json:"current_chapters" binding:"required"`
	CoverImageURL   string `form:"cover_image_url" json:"cover_image_url"`
}

type UpdateCurrentBookRequest struct {
	Title           *string `form:"title" json:"title"`
	PDFURL          *string `form:"pdf_url" json:"pdf_url"`
	CoverImageURL   *string `form:"cover_image_url" json:"cover_image_url"`
	CurrentChapters *string `form:"current_chapters" json:"current_chapters"`
	TotalChapters   *int    `form:"total_chapters" json:"total_chapters"`
}

// Current returns the book being read right now, or nil when none is set.
func (s *BookService) Current() (*models.Book, error) {
	var book models.Book
	err := s.db.Where("status = ?", models.BookCurrent).First(&book).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &book, nil
}

// Queue lists queued books oldest first, so the next pick is on top.
func (s *BookService) Queue() ([]models.Book, error) {
	books := []models.Book{}
	err := s.db.Where("status = ?", models.BookQueued).
		Order("created_at ASC").
		Find(&books).Error
	if err != nil {
		return nil, err
	}
	return books, nil
}

// Past lists completed books, most recently finished first.
func (s *BookService) Past() ([]models.Book, error) {
	books := []models.Book{}
	err := s.db.Where("status = ?", models.BookCompleted).
		Order("completed_date DESC").
		Find(&books).Error
	if err != nil {
		return nil, err
	}
	return books, nil
}

// SetCurrent promotes a queued book to current. Fails when another book
// is already current so the club never reads two books at once.
func (s *BookService) SetCurrent(bookID uint, req *SetCurrentBookRequest, actorID uint) (*models.Book, error) {
	var book models.Book
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Book
		err := tx.Where("status = ?", models.BookCurrent).First(&existing).Error
		if err == nil {
			return response.Conflict(fmt.Sprintf("There's already a current book: %s. Complete it first.", existing.Title))
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Where("id = ? AND status = ?", bookID, models.BookQueued).First(&book).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.NotFound("Book not found in queue")
			}
			return err
		}

		book.Status = models.BookCurrent
		book.CurrentChapters = req.CurrentChapters
		if req.CoverImageURL != "" {
			book.CoverImageURL = req.CoverImageURL
		}
		if err := tx.Save(&book).Error; err != nil {
			return err
		}

		return recordAdminAction(tx, actorID, "set_current_book",
			fmt.Sprintf("book_id=%d, title=%s", book.ID, book.Title))
	})
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// UpdateCurrent applies a partial edit to the current book. Only fields
// present in the request change.
func (s *BookService) UpdateCurrent(req *UpdateCurrentBookRequest, actorID uint) (*models.Book, error) {
	var book models.Book
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("status = ?", models.BookCurrent).First(&book).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.Invalid("No current book set. Please set a book from the queue first.")
			}
			return err
		}

		if req.Title != nil {
			book.Title = strings.TrimSpace(*req.Title)
		}
		if req.PDFURL != nil {
			book.PDFURL = *req.PDFURL
		}
		if req.CoverImageURL != nil {
			book.CoverImageURL = *req.CoverImageURL
		}
		if req.CurrentChapters != nil {
			book.CurrentChapters = *req.CurrentChapters
		}
		if req.TotalChapters != nil {
			book.TotalChapters = req.TotalChapters
		}
		if err := tx.Save(&book).Error; err != nil {
			return err
		}

		return recordAdminAction(tx, actorID, "update_current_book",
			fmt.Sprintf("book_id=%d", book.ID))
	})
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Complete archives the current book. Any member still marked mid-book
// is moved to completed so stale "reading chapter N" rows never outlive
// the book itself.
func (s *BookService) Complete(actorID uint) (*models.Book, error) {
	var book models.Book
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("status = ?", models.BookCurrent).First(&book).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.NotFound("No current book to complete")
			}
			return err
		}

		now := time.Now().UTC()
		book.Status = models.BookCompleted
		book.CompletedDate = &now
		book.CurrentChapters = ""
		if err := tx.Save(&book).Error; err != nil {
			return err
		}

		err := tx.Model(&models.ReadingProgress{}).
			Where("book_id = ? AND chapter > 0", book.ID).
			Update("chapter", models.ChapterCompleted).Error
		if err != nil {
			return err
		}

		return recordAdminAction(tx, actorID, "complete_book",
			fmt.Sprintf("book_id=%d, title=%s", book.ID, book.Title))
	})
	if err != nil {
		return nil, err
	}
	return &book, nil
}
