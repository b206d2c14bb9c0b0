package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/pageturners/bookclub/backend/internal/models"
	"github.com/pageturners/bookclub/backend/pkg/response"
	"gorm.io/gorm"
)

type MeetingService struct {
	db *gorm.DB
}

func NewMeetingService(db *gorm.DB) *MeetingService {
	return &MeetingService{db: db}
}

type MeetingUpdateRequest struct {
	Date     string `form:"date" json:"date" binding:"required"`
	Time     string `form:"time" json:"time" binding:"required"`
	MeetLink string `form:"meet_link" json:"meet_link" binding:"required"`
}

// Get returns the next meeting, or nil when none is scheduled.
func (s *MeetingService) Get() (*models.Meeting, error) {
	var meeting models.Meeting
	if err := s.db.First(&meeting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meeting, nil
}

// Update replaces the single meeting row, creating it on first use. Date
// and time arrive as separate form fields and are stored as one UTC
// timestamp.
func (s *MeetingService) Update(req *MeetingUpdateRequest, actorID uint) (*models.Meeting, error) {
	startAt, err := time.Parse("2006-01-02 15:04", req.Date+" "+req.Time)
	if err != nil {
		return nil, response.Validation("date must be YYYY-MM-DD and time must be HH:MM")
	}

	var meeting models.Meeting
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&meeting).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			meeting = models.Meeting{StartAt: startAt.UTC(), MeetLink: req.MeetLink}
			if err := tx.Create(&meeting).Error; err != nil {
				return err
			}
		} else {
			meeting.StartAt = startAt.UTC()
			meeting.MeetLink = req.MeetLink
			if err := tx.Save(&meeting).Error; err != nil {
				return err
			}
		}

		return recordAdminAction(tx, actorID, "update_meeting",
			fmt.Sprintf("date=%s, time=%s", req.Date, req.Time))
	})
	if txErr != nil {
		return nil, txErr
	}
	return &meeting, nil
}
