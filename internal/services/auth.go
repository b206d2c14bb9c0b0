package services

import (
	"strings"

	"github.com/pageturners/bookclub/backend/internal/models"
	"github.com/pageturners/bookclub/backend/internal/utils"
	"github.com/pageturners/bookclub/backend/pkg/logger"
	"github.com/pageturners/bookclub/backend/pkg/response"
	"gorm.io/gorm"
)

type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

type RegisterRequest struct {
	Name     string `form:"name" json:"name"`
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password"`
}

type LoginRequest struct {
	Email    string `form:"email" json:"email" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// Register creates a member account. Emails are stored lowercased so
// the uniqueness check is case-insensitive.
func (s *AuthService) Register(req *RegisterRequest) (*models.Member, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, response.Invalid("Name is required")
	}
	if len(req.Password) < 8 {
		return nil, response.Invalid("Password must be at least 8 characters")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var count int64
	if err := s.db.Model(&models.Member{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, response.Invalid("Email already registered. Please login instead.")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	member := models.Member{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.db.Create(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// Login checks credentials and returns the member. Unknown emails and
// wrong passwords produce the same error so neither can be probed.
func (s *AuthService) Login(req *LoginRequest) (*models.Member, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var member models.Member
	if err := s.db.Where("email = ?", email).First(&member).Error; err != nil {
		return nil, response.Unauthenticated("Invalid email or password")
	}
	if !utils.CheckPassword(req.Password, member.PasswordHash) {
		return nil, response.Unauthenticated("Invalid email or password")
	}
	return &member, nil
}

// MemberByID fetches a member row by id.
func (s *AuthService) MemberByID(id uint) (*models.Member, error) {
	var member models.Member
	if err := s.db.First(&member, id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// CreateAdminIfNotExists bootstraps the first admin account so a fresh
// deployment is never locked out of the admin panel.
func (s *AuthService) CreateAdminIfNotExists(email, password string) error {
	var count int64
	if err := s.db.Model(&models.Member{}).Where("is_admin = ?", true).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	admin := models.Member{
		Name:         "Admin",
		Email:        strings.ToLower(email),
		PasswordHash: hash,
		IsAdmin:      true,
	}
	if err := s.db.Create(&admin).Error; err != nil {
		return err
	}

	logger.Info().Str("email", admin.Email).Msg("Seeded initial admin account")
	return nil
}
