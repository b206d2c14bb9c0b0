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

type SuggestionService struct {
	db *gorm.DB
}

func NewSuggestionService(db *gorm.DB) *SuggestionService {
	return &SuggestionService{db: db}
}

type SuggestionCreateRequest struct {
	Title  string `form:"title" json:"title" binding:"required"`
	PDFURL string `form:"pdf_url" json:"pdf_url" binding:"required"`
}

type ApproveSuggestionRequest struct {
	CoverImageURL string `form:"cover_image_url" json:"cover_image_url"`
}

// PendingSuggestion is a suggestion joined with its submitter for the
// admin review list.
type PendingSuggestion struct {
	ID            uint                    `json:"id"`
	Title         string                  `json:"title"`
	PDFURL        string                  `json:"pdf_url"`
	CoverImageURL string                  `json:"cover_image_url"`
	Status        models.SuggestionStatus `json:"status"`
	MemberID      uint                    `json:"user_id"`
	UserName      string                  `json:"user_name"`
	UserEmail     string                  `json:"user_email"`
	CreatedAt     time.Time               `json:"created_at"`
}

// Create records a member's book proposal in pending status.
func (s *SuggestionService) Create(memberID uint, req *SuggestionCreateRequest) (*models.Suggestion, error) {
	suggestion := models.Suggestion{
		Title:    strings.TrimSpace(req.Title),
		PDFURL:   req.PDFURL,
		Status:   models.SuggestionPending,
		MemberID: memberID,
	}
	if err := s.db.Create(&suggestion).Error; err != nil {
		return nil, err
	}
	return &suggestion, nil
}

// Mine lists a member's own suggestions, newest first, in every status.
func (s *SuggestionService) Mine(memberID uint) ([]models.Suggestion, error) {
	suggestions := []models.Suggestion{}
	err := s.db.Where("member_id = ?", memberID).
		Order("created_at DESC").
		Find(&suggestions).Error
	if err != nil {
		return nil, err
	}
	return suggestions, nil
}

// Pending lists suggestions awaiting review, oldest first, with submitter
// details for the admin panel.
func (s *SuggestionService) Pending() ([]PendingSuggestion, error) {
	rows := []PendingSuggestion{}
	err := s.db.Model(&models.Suggestion{}).
		Select("book_suggestions.id, book_suggestions.title, book_suggestions.pdf_url, book_suggestions.cover_image_url, book_suggestions.status, book_suggestions.member_id, book_suggestions.created_at, members.name AS user_name, members.email AS user_email").
		Joins("JOIN members ON members.id = book_suggestions.member_id").
		Where("book_suggestions.status = ?", models.SuggestionPending).
		Order("book_suggestions.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Approve marks a pending suggestion approved and queues exactly one book
// copying its title and source, plus the cover supplied with the approval.
// Suggestion status is monotonic, so anything not pending conflicts.
func (s *SuggestionService) Approve(suggestionID uint, req *ApproveSuggestionRequest, actorID uint) (*models.Suggestion, error) {
	var suggestion models.Suggestion
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&suggestion, suggestionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.NotFound("Suggestion not found")
			}
			return err
		}
		if suggestion.Status != models.SuggestionPending {
			return response.Conflict(fmt.Sprintf("Suggestion is already %s", suggestion.Status))
		}

		suggestion.Status = models.SuggestionApproved
		if err := tx.Save(&suggestion).Error; err != nil {
			return err
		}

		book := models.Book{
			Title:         suggestion.Title,
			PDFURL:        suggestion.PDFURL,
			CoverImageURL: req.CoverImageURL,
			Status:        models.BookQueued,
		}
		if err := tx.Create(&book).Error; err != nil {
			return err
		}

		return recordAdminAction(tx, actorID, "approve_suggestion",
			fmt.Sprintf("suggestion_id=%d, title=%s", suggestion.ID, suggestion.Title))
	})
	if err != nil {
		return nil, err
	}
	return &suggestion, nil
}

// Reject marks a pending suggestion rejected. No book is created.
func (s *SuggestionService) Reject(suggestionID uint, actorID uint) (*models.Suggestion, error) {
	var suggestion models.Suggestion
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&suggestion, suggestionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.NotFound("Suggestion not found")
			}
			return err
		}
		if suggestion.Status != models.SuggestionPending {
			return response.Conflict(fmt.Sprintf("Suggestion is already %s", suggestion.Status))
		}

		suggestion.Status = models.SuggestionRejected
		if err := tx.Save(&suggestion).Error; err != nil {
			return err
		}

		return recordAdminAction(tx, actorID, "reject_suggestion",
			fmt.Sprintf("suggestion_id=%d", suggestion.ID))
	})
	if err != nil {
		return nil, err
	}
	return &suggestion, nil
}
