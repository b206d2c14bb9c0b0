package services

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/pageturners/bookclub/backend/internal/models"
	"github.com/pageturners/bookclub/backend/pkg/response"
	"gorm.io/gorm"
)

type AccessCodeService struct {
	db *gorm.DB
}

func NewAccessCodeService(db *gorm.DB) *AccessCodeService {
	return &AccessCodeService{db: db}
}

// Verify checks a supplied code against the stored one. The supplied value
// is trimmed and both sides compare case-insensitively in constant time.
func (s *AccessCodeService) Verify(supplied string) (bool, error) {
	var stored models.AccessCode
	if err := s.db.First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	got := []byte(strings.ToLower(strings.TrimSpace(supplied)))
	want := []byte(strings.ToLower(stored.Code))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

// Get returns the stored access code for admin display.
func (s *AccessCodeService) Get() (*models.AccessCode, error) {
	var code models.AccessCode
	if err := s.db.First(&code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NotFound("Access code not found")
		}
		return nil, err
	}
	return &code, nil
}

// Update replaces the access code, creating the row on first use.
func (s *AccessCodeService) Update(newCode string, actorID uint) (*models.AccessCode, error) {
	var code models.AccessCode
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&code).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			code = models.AccessCode{Code: newCode}
			if err := tx.Create(&code).Error; err != nil {
				return err
			}
		} else {
			code.Code = newCode
			if err := tx.Save(&code).Error; err != nil {
				return err
			}
		}
		return recordAdminAction(tx, actorID, "update_access_code", fmt.Sprintf("new_code=%s", newCode))
	})
	if err != nil {
		return nil, err
	}
	return &code, nil
}
