package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/pageturners/bookclub/backend/internal/models"
	"github.com/pageturners/bookclub/backend/internal/utils"
	"github.com/pageturners/bookclub/backend/pkg/response"
	"gorm.io/gorm"
)

type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

type ProfileStats struct {
	TotalSuggestions    int64     `json:"total_suggestions"`
	ApprovedSuggestions int64     `json:"approved_suggestions"`
	CompletedBooks      int64     `json:"completed_books"`
	CurrentlyReading    int64     `json:"currently_reading"`
	MemberSince         time.Time `json:"member_since"`
}

type UpdateNameRequest struct {
	NewName string `form:"new_name" json:"new_name" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `form:"current_password" json:"current_password" binding:"required"`
	NewPassword     string `form:"new_password" json:"new_password" binding:"required"`
}

type DeleteAccountRequest struct {
	Password     string `form:"password" json:"password" binding:"required"`
	Confirmation string `form:"confirmation" json:"confirmation" binding:"required"`
}

// Stats summarizes a member's reading history.
func (s *ProfileService) Stats(member *models.Member) (*ProfileStats, error) {
	stats := &ProfileStats{MemberSince: member.CreatedAt}

	if err := s.db.Model(&models.Suggestion{}).
		Where("member_id = ?", member.ID).
		Count(&stats.TotalSuggestions).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Suggestion{}).
		Where("member_id = ? AND status = ?", member.ID, models.SuggestionApproved).
		Count(&stats.ApprovedSuggestions).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.ReadingProgress{}).
		Where("member_id = ? AND chapter = ?", member.ID, models.ChapterCompleted).
		Count(&stats.CompletedBooks).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.ReadingProgress{}).
		Where("member_id = ? AND chapter > 0", member.ID).
		Count(&stats.CurrentlyReading).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// UpdateName renames the member and reports both names back.
func (s *ProfileService) UpdateName(member *models.Member, req *UpdateNameRequest) (string, error) {
	newName := strings.TrimSpace(req.NewName)
	if len(newName) < 2 || len(newName) > 50 {
		return "", response.Validation("new_name must be between 2 and 50 characters")
	}

	oldName := member.Name
	member.Name = newName
	if err := s.db.Save(member).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("Name updated from '%s' to '%s'", oldName, newName), nil
}

// ChangePassword replaces the member's password after verifying the
// current one. Callers must clear the session afterwards so every device
// re-authenticates.
func (s *ProfileService) ChangePassword(member *models.Member, req *ChangePasswordRequest) error {
	if !utils.CheckPassword(req.CurrentPassword, member.PasswordHash) {
		return response.Invalid("Current password is incorrect")
	}
	if len(req.NewPassword) < 8 {
		return response.Invalid("Password must be at least 8 characters")
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	member.PasswordHash = hash
	return s.db.Save(member).Error
}

// DeleteAccount removes the member and everything they own: suggestions
// and progress rows go with the account, audit entries survive with a
// detached actor. The last admin cannot delete their account.
func (s *ProfileService) DeleteAccount(member *models.Member, req *DeleteAccountRequest) error {
	if member.IsAdmin {
		var adminCount int64
		if err := s.db.Model(&models.Member{}).Where("is_admin = ?", true).Count(&adminCount).Error; err != nil {
			return err
		}
		if adminCount <= 1 {
			return response.Conflict("Cannot delete account. You are the only admin. Please assign another admin first or contact support.")
		}
	}

	if !utils.CheckPassword(req.Password, member.PasswordHash) {
		return response.Invalid("Password is incorrect")
	}

	if strings.ToLower(strings.TrimSpace(req.Confirmation)) != "delete my account" {
		return response.Invalid("Please type 'delete my account' exactly to confirm")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("member_id = ?", member.ID).Delete(&models.Suggestion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("member_id = ?", member.ID).Delete(&models.ReadingProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.AuditEntry{}).
			Where("actor_id = ?", member.ID).
			Update("actor_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(member).Error
	})
}
