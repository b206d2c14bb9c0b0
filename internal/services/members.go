package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/pageturners/bookclub/backend/internal/models"
	"github.com/pageturners/bookclub/backend/pkg/response"
	"gorm.io/gorm"
)

type MemberService struct {
	db *gorm.DB
}

func NewMemberService(db *gorm.DB) *MemberService {
	return &MemberService{db: db}
}

// BookEngagement summarizes how the club is tracking the current book.
type BookEngagement struct {
	TrackingProgress int64   `json:"tracking_progress"`
	AverageChapter   float64 `json:"average_chapter"`
	BookTitle        *string `json:"book_title"`
}

type AdminStats struct {
	TotalMembers          int64          `json:"total_members"`
	NewMembersThisMonth   int64          `json:"new_members_this_month"`
	PendingSuggestions    int64          `json:"pending_suggestions"`
	CurrentBookEngagement BookEngagement `json:"current_book_engagement"`
}

// List returns every member, newest account first.
func (s *MemberService) List() ([]models.Member, error) {
	members := []models.Member{}
	if err := s.db.Order("created_at DESC").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// Promote grants admin rights to a member.
func (s *MemberService) Promote(memberID uint, actorID uint) (*models.Member, error) {
	var member models.Member
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&member, memberID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.NotFound("User not found")
			}
			return err
		}
		if member.IsAdmin {
			return response.Conflict(fmt.Sprintf("%s is already an admin", member.Name))
		}

		member.IsAdmin = true
		if err := tx.Save(&member).Error; err != nil {
			return err
		}

		return recordAdminAction(tx, actorID, "promote_admin",
			fmt.Sprintf("user_id=%d, email=%s", member.ID, member.Email))
	})
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// Demote revokes admin rights. Admins cannot demote themselves, and the
// last remaining admin cannot be demoted at all — the club must never be
// left without one.
func (s *MemberService) Demote(memberID uint, actorID uint) (*models.Member, error) {
	if memberID == actorID {
		return nil, response.Conflict("You cannot demote yourself. Ask another admin to do this.")
	}

	var member models.Member
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&member, memberID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.NotFound("User not found")
			}
			return err
		}
		if !member.IsAdmin {
			return response.Conflict(fmt.Sprintf("%s is not an admin", member.Name))
		}

		var adminCount int64
		if err := tx.Model(&models.Member{}).Where("is_admin = ?", true).Count(&adminCount).Error; err != nil {
			return err
		}
		if adminCount <= 1 {
			return response.Conflict("Cannot demote the last admin. Promote another user to admin first.")
		}

		member.IsAdmin = false
		if err := tx.Save(&member).Error; err != nil {
			return err
		}

		return recordAdminAction(tx, actorID, "demote_admin",
			fmt.Sprintf("user_id=%d, email=%s", member.ID, member.Email))
	})
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// AdminStats gathers the admin dashboard numbers. The month boundary is
// the first of the current month in UTC.
func (s *MemberService) AdminStats() (*AdminStats, error) {
	stats := &AdminStats{}

	if err := s.db.Model(&models.Member{}).Count(&stats.TotalMembers).Error; err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if err := s.db.Model(&models.Member{}).
		Where("created_at >= ?", firstOfMonth).
		Count(&stats.NewMembersThisMonth).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Suggestion{}).
		Where("status = ?", models.SuggestionPending).
		Count(&stats.PendingSuggestions).Error; err != nil {
		return nil, err
	}

	var book models.Book
	err := s.db.Where("status = ?", models.BookCurrent).First(&book).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return stats, nil
		}
		return nil, err
	}

	if err := s.db.Model(&models.ReadingProgress{}).
		Where("book_id = ?", book.ID).
		Count(&stats.CurrentBookEngagement.TrackingProgress).Error; err != nil {
		return nil, err
	}

	var avg float64
	if err := s.db.Model(&models.ReadingProgress{}).
		Where("book_id = ? AND chapter > 0", book.ID).
		Select("COALESCE(AVG(chapter), 0)").
		Scan(&avg).Error; err != nil {
		return nil, err
	}

	stats.CurrentBookEngagement.AverageChapter = math.Round(avg*10) / 10
	stats.CurrentBookEngagement.BookTitle = &book.Title
	return stats, nil
}
