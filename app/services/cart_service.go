package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/voltmart/voltmart/app/models"
	"github.com/voltmart/voltmart/pkg/collection"
)

// CartService manages per-user cart lines. A user has at most one line per
// product; adding the same product again bumps the quantity on the existing
// line after revalidating the combined amount against current stock.
type CartService struct {
	db *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// CartLine is a cart item joined with the current product state for display.
type CartLine struct {
	ID        uint    `json:"id"`
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Model     string  `json:"model_number"`
	Price     float64 `json:"price"`
	Unit      string  `json:"unit"`
	Quantity  int     `json:"quantity"`
	Stock     int     `json:"stock"`
	Subtotal  float64 `json:"subtotal"`
	IsActive  bool    `json:"is_active"`
}

// List returns the user's cart lines with live product data and the running
// total over active lines.
func (s *CartService) List(userID uint) ([]CartLine, float64, error) {
	var items []models.CartItem
	if err := s.db.Where("user_id = ?", userID).Order("id").Find(&items).Error; err != nil {
		return nil, 0, err
	}

	lines := make([]CartLine, 0, len(items))
	for _, item := range items {
		var p models.Product
		if err := s.db.First(&p, item.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue // product removed since it was carted
			}
			return nil, 0, err
		}

		lines = append(lines, CartLine{
			ID:        item.ID,
			ProductID: p.ID,
			Name:      p.Name,
			Model:     p.ModelNumber,
			Price:     p.Price,
			Unit:      p.Unit,
			Quantity:  item.Quantity,
			Stock:     p.Stock,
			Subtotal:  p.Price * float64(item.Quantity),
			IsActive:  p.IsActive,
		})
	}

	active := collection.Filter(lines, func(l CartLine) bool { return l.IsActive })
	total := collection.Sum(active, func(l CartLine) float64 { return l.Subtotal })
	return lines, total, nil
}

// Count returns the sum of quantities across the user's lines, for the
// cart badge. Recomputed on every call.
func (s *CartService) Count(userID uint) (int, error) {
	var count int64
	err := s.db.Model(&models.CartItem{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&count).Error
	return int(count), err
}

// Add puts quantity units of a product into the user's cart. When a line for
// the product already exists the quantities are merged, and stock is checked
// against the combined amount.
func (s *CartService) Add(userID, productID uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, ErrBelowMinQty
	}

	var product models.Product
	if err := s.db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, ErrProductInactive
	}

	var item models.CartItem
	err := s.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error
	switch {
	case err == nil:
		combined := item.Quantity + quantity
		if combined > product.Stock {
			return nil, ErrInsufficientStock
		}
		item.Quantity = combined
		if err := s.db.Save(&item).Error; err != nil {
			return nil, err
		}
		return &item, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		if quantity < product.MinOrderQty {
			return nil, ErrBelowMinQty
		}
		if quantity > product.Stock {
			return nil, ErrInsufficientStock
		}
		item = models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
		if err := s.db.Create(&item).Error; err != nil {
			return nil, err
		}
		return &item, nil

	default:
		return nil, err
	}
}

// UpdateQuantity overwrites a line's quantity. Zero deletes the line.
func (s *CartService) UpdateQuantity(userID, itemID uint, quantity int) error {
	var item models.CartItem
	err := s.db.Where("id = ? AND user_id = ?", itemID, userID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCartItemNotFound
	}
	if err != nil {
		return err
	}

	if quantity == 0 {
		return s.db.Delete(&item).Error
	}
	if quantity < 0 {
		return ErrBelowMinQty
	}

	var product models.Product
	if err := s.db.First(&product, item.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	if quantity > product.Stock {
		return ErrInsufficientStock
	}

	item.Quantity = quantity
	return s.db.Save(&item).Error
}

// Remove deletes one line. A missing line is reported, not ignored.
func (s *CartService) Remove(userID, itemID uint) error {
	res := s.db.Where("id = ? AND user_id = ?", itemID, userID).Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// Clear deletes every line the user has. Clearing an empty cart is a no-op.
func (s *CartService) Clear(userID uint) error {
	return s.db.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}
