package services

import (
	"crypto/rand"
	"encoding/base64"
	"errors"

	"gorm.io/gorm"

	"github.com/voltmart/voltmart/app/models"
	"github.com/voltmart/voltmart/pkg/auth"
	"github.com/voltmart/voltmart/pkg/orm"
)

// UserService is the admin-facing account management layer.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// UserQuery filters the admin user listing.
type UserQuery struct {
	Role     string
	Keyword  string // matched against email, name, and company
	Page     int
	PageSize int
}

// List returns accounts newest-first with optional role and keyword filters.
func (s *UserService) List(q UserQuery) ([]models.User, orm.Pagination, error) {
	query := s.db.Model(&models.User{})
	if q.Role != "" {
		query = query.Where("role = ?", q.Role)
	}
	if q.Keyword != "" {
		kw := "%" + q.Keyword + "%"
		query = query.Where("email LIKE ? OR name LIKE ? OR company LIKE ?", kw, kw, kw)
	}
	query = query.Order("created_at DESC, id DESC")

	var users []models.User
	pg, err := orm.Paginate(query, q.Page, q.PageSize, &users)
	if err != nil {
		return nil, orm.Pagination{}, err
	}
	return users, pg, nil
}

// Get returns one account by ID.
func (s *UserService) Get(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// SetRole changes an account's role.
func (s *UserService) SetRole(id uint, role string) (*models.User, error) {
	switch role {
	case models.RoleUser, models.RoleEnterprise, models.RoleAdmin:
	default:
		return nil, ErrInvalidRole
	}

	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	user.Role = role
	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// SetActive enables or disables an account. Disabled accounts keep their
// data but can no longer log in.
func (s *UserService) SetActive(id uint, active bool) (*models.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	user.IsActive = active
	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// ResetPassword replaces the account's password with a random temporary one
// and returns the plaintext so the admin can hand it to the user. The old
// password stops working immediately.
func (s *UserService) ResetPassword(id uint) (string, error) {
	user, err := s.Get(id)
	if err != nil {
		return "", err
	}

	temp, err := tempPassword()
	if err != nil {
		return "", err
	}
	hash, err := auth.HashPassword(temp)
	if err != nil {
		return "", err
	}

	user.Password = hash
	if err := s.db.Save(user).Error; err != nil {
		return "", err
	}
	return temp, nil
}

// tempPassword returns 12 URL-safe characters from a CSPRNG.
func tempPassword() (string, error) {
	buf := make([]byte, 9)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Count returns the total number of accounts, for the back-office header.
func (s *UserService) Count() (int64, error) {
	var n int64
	err := s.db.Model(&models.User{}).Count(&n).Error
	return n, err
}

// Delete removes an account and its cart. Orders are kept for the books.
func (s *UserService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
}
