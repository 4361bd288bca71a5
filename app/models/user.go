package models

import "gorm.io/gorm"

// Roles assignable to a user account.
const (
	RoleUser       = "user"
	RoleEnterprise = "enterprise"
	RoleAdmin      = "admin"
)

// User is an account in the storefront. Password holds the bcrypt hash and
// is never serialised.
type User struct {
	gorm.Model
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"`
	Name     string `gorm:"size:255" json:"name"`
	Company  string `gorm:"size:255" json:"company"`
	Phone    string `gorm:"size:50" json:"phone"`
	Role     string `gorm:"size:50;not null;default:user" json:"role"`
	IsActive bool   `gorm:"not null;default:true" json:"is_active"`
}
