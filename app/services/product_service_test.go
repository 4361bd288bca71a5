package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltmart/voltmart/app/models"
	"github.com/voltmart/voltmart/app/services"
)

func TestListProductsFilters(t *testing.T) {
	db := newTestDB(t)
	products := services.NewProductService(db)

	cat := seedCategory(t, db, "Components", nil)
	for _, p := range []models.Product{
		{Name: "1k resistor", ModelNumber: "R-1K", CategoryID: cat.ID, Brand: "Ohmite", Price: 0.05, Unit: "piece", Stock: 500, MinOrderQty: 1, IsActive: true},
		{Name: "10k resistor", ModelNumber: "R-10K", CategoryID: cat.ID, Brand: "Ohmite", Price: 0.07, Unit: "piece", Stock: 300, MinOrderQty: 1, IsActive: true},
		{Name: "Soldering iron", ModelNumber: "SI-60", CategoryID: cat.ID, Brand: "Hakko", Price: 45.00, Unit: "piece", Stock: 12, MinOrderQty: 1, IsActive: true},
		{Name: "Retired iron", ModelNumber: "SI-01", CategoryID: cat.ID, Brand: "Hakko", Price: 30.00, Unit: "piece", Stock: 0, MinOrderQty: 1, IsActive: false},
	} {
		p := p
		require.NoError(t, db.Create(&p).Error)
	}

	// Inactive products are hidden from the public listing.
	list, pg, err := products.List(services.ProductQuery{PageSize: 50})
	require.NoError(t, err)
	assert.Len(t, list, 3)
	assert.EqualValues(t, 3, pg.Total)

	// Admins can opt in to see them.
	list, _, err = products.List(services.ProductQuery{IncludeInactive: true, PageSize: 50})
	require.NoError(t, err)
	assert.Len(t, list, 4)

	// Keyword matches name and model number.
	list, _, err = products.List(services.ProductQuery{Keyword: "resistor", PageSize: 50})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, _, err = products.List(services.ProductQuery{Keyword: "SI-60", PageSize: 50})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Soldering iron", list[0].Name)

	// Brand and price range.
	list, _, err = products.List(services.ProductQuery{Brand: "Ohmite", PageSize: 50})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	min, max := 0.06, 50.0
	list, _, err = products.List(services.ProductQuery{MinPrice: &min, MaxPrice: &max, PageSize: 50})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestListProductsSorting(t *testing.T) {
	db := newTestDB(t)
	products := services.NewProductService(db)

	seedProduct(t, db, "cheap", 1.00, 10)
	seedProduct(t, db, "mid", 5.00, 10)
	seedProduct(t, db, "pricey", 9.00, 10)

	list, _, err := products.List(services.ProductQuery{SortBy: "price", SortOrder: "asc", PageSize: 50})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "cheap", list[0].Name)
	assert.Equal(t, "pricey", list[2].Name)

	list, _, err = products.List(services.ProductQuery{SortBy: "price", PageSize: 50})
	require.NoError(t, err)
	assert.Equal(t, "pricey", list[0].Name)

	// Unknown sort keys fall back to newest-first rather than erroring.
	_, _, err = products.List(services.ProductQuery{SortBy: "evil; DROP TABLE products", PageSize: 50})
	assert.NoError(t, err)
}

func TestListProductsClampsPaging(t *testing.T) {
	db := newTestDB(t)
	products := services.NewProductService(db)
	seedProduct(t, db, "only", 1.00, 10)

	_, pg, err := products.List(services.ProductQuery{Page: -3, PageSize: 9999})
	require.NoError(t, err)
	assert.Equal(t, 1, pg.Page)
	assert.Equal(t, 100, pg.PageSize)

	_, pg, err = products.List(services.ProductQuery{Page: 0, PageSize: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, pg.Page)
	assert.GreaterOrEqual(t, pg.PageSize, 1)
}

func TestBrandsDistinct(t *testing.T) {
	db := newTestDB(t)
	products := services.NewProductService(db)

	a := seedProduct(t, db, "a", 1.00, 10)
	seedProduct(t, db, "b", 1.00, 10)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", a.ID).Update("brand", "Zenith").Error)

	brands, err := products.Brands()
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme", "Zenith"}, brands)
}

func TestCreateProductRequiresCategory(t *testing.T) {
	db := newTestDB(t)
	products := services.NewProductService(db)

	err := products.Create(&models.Product{
		Name: "widget", ModelNumber: "W-1", CategoryID: 999,
		Brand: "Acme", Price: 1.00, Unit: "piece", Stock: 10, IsActive: true,
	})
	assert.ErrorIs(t, err, services.ErrCategoryNotFound)

	cat := seedCategory(t, db, "Components", nil)
	p := models.Product{
		Name: "widget", ModelNumber: "W-1", CategoryID: cat.ID,
		Brand: "Acme", Price: 1.00, Unit: "piece", Stock: 10, IsActive: true,
	}
	require.NoError(t, products.Create(&p))
	assert.Equal(t, 1, p.MinOrderQty) // floor applied
}

func TestDeleteProductGuardedByReferences(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "u@example.com")
	p := seedProduct(t, db, "widget", 4.00, 10)

	products := services.NewProductService(db)
	cart := services.NewCartService(db)

	_, err := cart.Add(user.ID, p.ID, 1)
	require.NoError(t, err)
	assert.ErrorIs(t, products.Delete(p.ID), services.ErrProductInUse)

	orders := services.NewOrderService(db)
	_, err = orders.Create(user.ID, "")
	require.NoError(t, err)

	// Cart is gone but the order item still references it.
	assert.ErrorIs(t, products.Delete(p.ID), services.ErrProductInUse)

	free := seedProduct(t, db, "unused", 1.00, 5)
	require.NoError(t, products.Delete(free.ID))
	_, err = products.Get(free.ID)
	assert.ErrorIs(t, err, services.ErrProductNotFound)
}

func TestAddImageAppends(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "widget", 4.00, 10)
	products := services.NewProductService(db)

	got, err := products.AddImage(p.ID, "/files/products/1/a.jpg")
	require.NoError(t, err)
	got, err = products.AddImage(p.ID, "/files/products/1/b.jpg")
	require.NoError(t, err)

	assert.Equal(t, []string{"/files/products/1/a.jpg", "/files/products/1/b.jpg"}, got.ImageList())
}

func TestLowStock(t *testing.T) {
	db := newTestDB(t)
	products := services.NewProductService(db)

	seedProduct(t, db, "plenty", 1.00, 50)
	low := seedProduct(t, db, "low", 1.00, 3)
	gone := seedProduct(t, db, "inactive-low", 1.00, 1)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", gone.ID).Update("is_active", false).Error)

	list, err := products.LowStock(10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, low.ID, list[0].ID)
}
