package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/voltmart/voltmart/app/models"
	"github.com/voltmart/voltmart/pkg/orm"
)

// ProductService owns catalogue reads and admin catalogue writes.
type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

// ProductQuery is the filter/sort/page input for List. Zero values mean
// "no filter".
type ProductQuery struct {
	CategoryID      uint
	Keyword         string
	Brand           string
	MinPrice        *float64
	MaxPrice        *float64
	IncludeInactive bool
	SortBy          string
	SortOrder       string
	Page            int
	PageSize        int
}

// sortColumns maps client sort keys to columns. Anything else falls back to
// newest-first.
var sortColumns = map[string]string{
	"price":     "price",
	"name":      "name",
	"createdat": "created_at",
	"stock":     "stock",
}

// List applies every requested filter, then sorts and paginates. Page and
// page size are clamped server-side regardless of client input.
func (s *ProductService) List(q ProductQuery) ([]models.Product, orm.Pagination, error) {
	query := s.db.Model(&models.Product{})

	if !q.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	if q.CategoryID != 0 {
		query = query.Where("category_id = ?", q.CategoryID)
	}
	if q.Keyword != "" {
		kw := "%" + q.Keyword + "%"
		query = query.Where("name LIKE ? OR model_number LIKE ? OR brand LIKE ?", kw, kw, kw)
	}
	if q.Brand != "" {
		query = query.Where("brand = ?", q.Brand)
	}
	if q.MinPrice != nil {
		query = query.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		query = query.Where("price <= ?", *q.MaxPrice)
	}

	if col, ok := sortColumns[q.SortBy]; ok {
		dir := "DESC"
		if q.SortOrder == "asc" {
			dir = "ASC"
		}
		query = query.Order(fmt.Sprintf("%s %s", col, dir))
	} else {
		query = query.Order("created_at DESC")
	}

	var products []models.Product
	pg, err := orm.Paginate(query, q.Page, q.PageSize, &products)
	if err != nil {
		return nil, orm.Pagination{}, err
	}
	return products, pg, nil
}

// Get returns one product by ID.
func (s *ProductService) Get(id uint) (*models.Product, error) {
	var p models.Product
	if err := s.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Brands returns the distinct brand names of active products, cached briefly
// since the set changes rarely.
func (s *ProductService) Brands() ([]string, error) {
	var brands []string
	err := orm.Remember("products:brands", 5*time.Minute, &brands, func() error {
		return s.db.Model(&models.Product{}).
			Where("is_active = ?", true).
			Distinct("brand").
			Order("brand").
			Pluck("brand", &brands).Error
	})
	return brands, err
}

// Create inserts a new product after checking the category exists.
func (s *ProductService) Create(p *models.Product) error {
	var n int64
	if err := s.db.Model(&models.Category{}).Where("id = ?", p.CategoryID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrCategoryNotFound
	}
	if p.MinOrderQty < 1 {
		p.MinOrderQty = 1
	}
	return s.db.Create(p).Error
}

// Update overwrites the mutable fields of an existing product.
func (s *ProductService) Update(id uint, updated *models.Product) (*models.Product, error) {
	p, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if updated.CategoryID != p.CategoryID {
		var n int64
		if err := s.db.Model(&models.Category{}).Where("id = ?", updated.CategoryID).Count(&n).Error; err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, ErrCategoryNotFound
		}
	}

	p.Name = updated.Name
	p.ModelNumber = updated.ModelNumber
	p.CategoryID = updated.CategoryID
	p.Brand = updated.Brand
	p.Price = updated.Price
	p.Unit = updated.Unit
	p.Stock = updated.Stock
	p.MinOrderQty = updated.MinOrderQty
	p.Specs = updated.Specs
	p.Description = updated.Description
	p.IsActive = updated.IsActive
	if p.MinOrderQty < 1 {
		p.MinOrderQty = 1
	}

	if err := s.db.Save(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a product unless carts or orders still reference it.
func (s *ProductService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}

	var inCarts int64
	if err := s.db.Model(&models.CartItem{}).Where("product_id = ?", id).Count(&inCarts).Error; err != nil {
		return err
	}
	var inOrders int64
	if err := s.db.Model(&models.OrderItem{}).Where("product_id = ?", id).Count(&inOrders).Error; err != nil {
		return err
	}
	if inCarts > 0 || inOrders > 0 {
		return ErrProductInUse
	}

	return s.db.Delete(&models.Product{}, id).Error
}

// AddImage appends an image URL to the product's ordered image list.
func (s *ProductService) AddImage(id uint, url string) (*models.Product, error) {
	p, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	p.SetImageList(append(p.ImageList(), url))
	if err := s.db.Save(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// LowStock returns active products at or below the given stock threshold.
func (s *ProductService) LowStock(threshold int) ([]models.Product, error) {
	var products []models.Product
	err := s.db.Where("is_active = ? AND stock <= ?", true, threshold).
		Order("stock").
		Find(&products).Error
	return products, err
}
