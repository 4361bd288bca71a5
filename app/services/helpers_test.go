package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/voltmart/voltmart/app/models"
)

// newTestDB opens a fresh in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

// seedCategory inserts a category and returns it.
func seedCategory(t *testing.T, db *gorm.DB, name string, parentID *uint) models.Category {
	t.Helper()
	c := models.Category{Name: name, ParentID: parentID, IsActive: true}
	require.NoError(t, db.Create(&c).Error)
	return c
}

// seedProduct inserts an active product and returns it.
func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) models.Product {
	t.Helper()
	cat := seedCategory(t, db, "cat-for-"+name, nil)
	p := models.Product{
		Name:        name,
		ModelNumber: "M-" + name,
		CategoryID:  cat.ID,
		Brand:       "Acme",
		Price:       price,
		Unit:        "piece",
		Stock:       stock,
		MinOrderQty: 1,
		IsActive:    true,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

// seedUser inserts a user and returns it.
func seedUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	u := models.User{Email: email, Password: "x", Name: "Test User", Role: models.RoleUser, IsActive: true}
	require.NoError(t, db.Create(&u).Error)
	return u
}
