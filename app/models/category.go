package models

import "gorm.io/gorm"

// Category is one node of the self-referential category tree. ParentID is an
// explicit foreign key; child lookups go through CategoryService rather than
// a navigation collection on the struct.
type Category struct {
	gorm.Model
	Name        string `gorm:"size:255;not null;index" json:"name"`
	ParentID    *uint  `gorm:"index" json:"parent_id"`
	Description string `gorm:"type:text" json:"description"`
	SortOrder   int    `gorm:"not null;default:0" json:"sort_order"`
	IsActive    bool   `gorm:"not null;default:true" json:"is_active"`
}
