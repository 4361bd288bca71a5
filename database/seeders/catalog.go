package seeders

import (
	"gorm.io/gorm"

	"github.com/voltmart/voltmart/app/models"
	"github.com/voltmart/voltmart/pkg/auth"
)

func init() {
	Register("admin_user", SeedAdminUser)
	Register("categories", SeedCategories)
	Register("products", SeedProducts)
}

// SeedAdminUser creates the initial back-office account if none exists.
func SeedAdminUser(db *gorm.DB) error {
	var n int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	hash, err := auth.HashPassword("changeme123")
	if err != nil {
		return err
	}
	return db.Create(&models.User{
		Email:    "admin@voltmart.app",
		Password: hash,
		Name:     "Administrator",
		Role:     models.RoleAdmin,
		IsActive: true,
	}).Error
}

// SeedCategories builds a small two-level tree.
func SeedCategories(db *gorm.DB) error {
	var n int64
	if err := db.Model(&models.Category{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	roots := []models.Category{
		{Name: "Components", Description: "Electronic components", SortOrder: 1, IsActive: true},
		{Name: "Tools", Description: "Bench and field tools", SortOrder: 2, IsActive: true},
	}
	if err := db.Create(&roots).Error; err != nil {
		return err
	}

	children := []models.Category{
		{Name: "Resistors", ParentID: &roots[0].ID, SortOrder: 1, IsActive: true},
		{Name: "Capacitors", ParentID: &roots[0].ID, SortOrder: 2, IsActive: true},
		{Name: "Soldering", ParentID: &roots[1].ID, SortOrder: 1, IsActive: true},
	}
	return db.Create(&children).Error
}

// SeedProducts fills the catalogue with a starter set.
func SeedProducts(db *gorm.DB) error {
	var n int64
	if err := db.Model(&models.Product{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	var resistors models.Category
	if err := db.Where("name = ?", "Resistors").First(&resistors).Error; err != nil {
		return err
	}
	var soldering models.Category
	if err := db.Where("name = ?", "Soldering").First(&soldering).Error; err != nil {
		return err
	}

	products := []models.Product{
		{
			Name: "Metal Film Resistor Kit", ModelNumber: "MFR-600", CategoryID: resistors.ID,
			Brand: "OhmWorks", Price: 12.50, Unit: "kit", Stock: 240, MinOrderQty: 1,
			Description: "600 pieces, 1% tolerance, 30 values", IsActive: true,
		},
		{
			Name: "Precision Resistor 10k", ModelNumber: "PR-10K", CategoryID: resistors.ID,
			Brand: "OhmWorks", Price: 0.35, Unit: "piece", Stock: 5000, MinOrderQty: 10,
			Description: "0.1% tolerance, 1/4W", IsActive: true,
		},
		{
			Name: "Soldering Station 60W", ModelNumber: "SS-60", CategoryID: soldering.ID,
			Brand: "HeatPro", Price: 89.00, Unit: "piece", Stock: 35, MinOrderQty: 1,
			Description: "Temperature controlled, ESD safe", IsActive: true,
		},
	}
	return db.Create(&products).Error
}
