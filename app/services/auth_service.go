package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/voltmart/voltmart/app/models"
	"github.com/voltmart/voltmart/pkg/auth"
)

// AuthService handles registration, login, and self-service profile changes.
// Passwords are bcrypt-hashed; sessions are stateless JWTs.
type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// TokenPair is what a successful login or registration returns.
type TokenPair struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Register creates a user account with the default role and logs it in.
func (s *AuthService) Register(email, password, name, company, phone string) (*models.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var n int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return nil, nil, err
	}
	if n > 0 {
		return nil, nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, nil, err
	}

	user := models.User{
		Email:    email,
		Password: hash,
		Name:     name,
		Company:  company,
		Phone:    phone,
		Role:     models.RoleUser,
		IsActive: true,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokens(&user)
	if err != nil {
		return nil, nil, err
	}
	return &user, pair, nil
}

// Login checks credentials and account state. Bad credentials and a disabled
// account are both authentication failures, reported separately so the
// controller can phrase them but mapped to the same status.
func (s *AuthService) Login(email, password string) (*models.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !auth.CheckPassword(user.Password, password) {
		return nil, nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, nil, ErrAccountDisabled
	}

	pair, err := s.issueTokens(&user)
	if err != nil {
		return nil, nil, err
	}
	return &user, pair, nil
}

func (s *AuthService) issueTokens(user *models.User) (*TokenPair, error) {
	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := auth.GenerateRefreshToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		Token:        token,
		RefreshToken: refresh,
		ExpiresAt:    time.Now().Add(24 * time.Hour),
	}, nil
}

// Me returns the authenticated user's record.
func (s *AuthService) Me(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile overwrites the self-editable fields. Email and role are not
// touched here.
func (s *AuthService) UpdateProfile(userID uint, name, company, phone string) (*models.User, error) {
	user, err := s.Me(userID)
	if err != nil {
		return nil, err
	}

	user.Name = name
	user.Company = company
	user.Phone = phone
	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *AuthService) ChangePassword(userID uint, current, next string) error {
	user, err := s.Me(userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.Password, current) {
		return ErrWrongPassword
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}
	user.Password = hash
	return s.db.Save(user).Error
}
