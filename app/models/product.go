package models

import (
	"encoding/json"

	"gorm.io/gorm"
)

// Product is a catalogue entry. Images holds a JSON-encoded ordered list of
// image URLs in a single text column; use ImageList/SetImageList to work with
// it as a slice.
type Product struct {
	gorm.Model
	Name        string  `gorm:"size:255;not null;index" json:"name"`
	ModelNumber string  `gorm:"size:100;not null;index" json:"model_number"`
	CategoryID  uint    `gorm:"not null;index" json:"category_id"`
	Brand       string  `gorm:"size:100;not null;index" json:"brand"`
	Price       float64 `gorm:"not null;default:0" json:"price"`
	Unit        string  `gorm:"size:50;default:piece" json:"unit"`
	Stock       int     `gorm:"not null;default:0" json:"stock"`
	MinOrderQty int     `gorm:"not null;default:1" json:"min_order_qty"`
	Specs       string  `gorm:"type:text" json:"specs"`
	Description string  `gorm:"type:text" json:"description"`
	Images      string  `gorm:"type:text" json:"-"`
	IsActive    bool    `gorm:"not null;default:true" json:"is_active"`
}

// ImageList decodes the Images column. A malformed or empty column yields nil.
func (p *Product) ImageList() []string {
	if p.Images == "" {
		return nil
	}
	var urls []string
	if err := json.Unmarshal([]byte(p.Images), &urls); err != nil {
		return nil
	}
	return urls
}

// SetImageList encodes urls into the Images column. Nil or empty clears it.
func (p *Product) SetImageList(urls []string) {
	if len(urls) == 0 {
		p.Images = ""
		return
	}
	raw, err := json.Marshal(urls)
	if err != nil {
		return
	}
	p.Images = string(raw)
}
