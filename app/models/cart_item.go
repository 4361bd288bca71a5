package models

import "gorm.io/gorm"

// CartItem is one line of a user's cart. The (user, product) pair is unique:
// adding a product already in the cart bumps the quantity on the existing row.
type CartItem struct {
	gorm.Model
	UserID    uint `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductID uint `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"product_id"`
	Quantity  int  `gorm:"not null" json:"quantity"`
}
