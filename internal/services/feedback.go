package services

import (
	"strings"

	"github.com/pageturners/bookclub/backend/internal/models"
	"gorm.io/gorm"
)

type FeedbackService struct {
	db *gorm.DB
}

func NewFeedbackService(db *gorm.DB) *FeedbackService {
	return &FeedbackService{db: db}
}

type FeedbackRequest struct {
	Type    string `form:"type" json:"type" binding:"required"`
	Message string `form:"message" json:"message" binding:"required"`
	Email   string `form:"email" json:"email"`
}

// Submit stores feedback from anyone. When the submitter is logged in and
// left the email blank, their account email is recorded instead.
func (s *FeedbackService) Submit(req *FeedbackRequest, member *models.Member) (*models.Feedback, error) {
	feedback := models.Feedback{
		Type:    req.Type,
		Message: strings.TrimSpace(req.Message),
		Email:   req.Email,
	}
	if member != nil {
		feedback.MemberID = &member.ID
		if feedback.Email == "" {
			feedback.Email = member.Email
		}
	}

	if err := s.db.Create(&feedback).Error; err != nil {
		return nil, err
	}
	return &feedback, nil
}
