package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltmart/voltmart/app/models"
	"github.com/voltmart/voltmart/app/services"
)

func TestAddToCartCreatesAndMerges(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "u@example.com")
	p := seedProduct(t, db, "widget", 4.00, 10)

	cart := services.NewCartService(db)

	item, err := cart.Add(user.ID, p.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, item.Quantity)

	// Same product again merges into one line.
	item, err = cart.Add(user.ID, p.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 7, item.Quantity)

	var n int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestAddToCartCombinedQuantityAgainstStock(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "u@example.com")
	p := seedProduct(t, db, "widget", 4.00, 10)

	cart := services.NewCartService(db)
	_, err := cart.Add(user.ID, p.ID, 8)
	require.NoError(t, err)

	// 8 already carted; 3 more would exceed the 10 in stock.
	_, err = cart.Add(user.ID, p.ID, 3)
	assert.ErrorIs(t, err, services.ErrInsufficientStock)

	// The existing line is untouched.
	item, err := cart.Add(user.ID, p.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 10, item.Quantity)
}

func TestAddToCartValidation(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "u@example.com")
	cart := services.NewCartService(db)

	_, err := cart.Add(user.ID, 12345, 1)
	assert.ErrorIs(t, err, services.ErrProductNotFound)

	inactive := seedProduct(t, db, "hidden", 4.00, 10)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", inactive.ID).Update("is_active", false).Error)
	_, err = cart.Add(user.ID, inactive.ID, 1)
	assert.ErrorIs(t, err, services.ErrProductInactive)

	bulk := seedProduct(t, db, "bulk", 1.00, 100)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", bulk.ID).Update("min_order_qty", 10).Error)
	_, err = cart.Add(user.ID, bulk.ID, 5)
	assert.ErrorIs(t, err, services.ErrBelowMinQty)
}

func TestUpdateQuantityZeroDeletes(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "u@example.com")
	p := seedProduct(t, db, "widget", 4.00, 10)

	cart := services.NewCartService(db)
	item, err := cart.Add(user.ID, p.ID, 3)
	require.NoError(t, err)

	require.NoError(t, cart.UpdateQuantity(user.ID, item.ID, 0))

	count, err := cart.Count(user.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUpdateQuantityRevalidatesStock(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "u@example.com")
	p := seedProduct(t, db, "widget", 4.00, 10)

	cart := services.NewCartService(db)
	item, err := cart.Add(user.ID, p.ID, 3)
	require.NoError(t, err)

	assert.ErrorIs(t, cart.UpdateQuantity(user.ID, item.ID, 11), services.ErrInsufficientStock)
	require.NoError(t, cart.UpdateQuantity(user.ID, item.ID, 10))

	lines, total, err := cart.List(user.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 10, lines[0].Quantity)
	assert.InDelta(t, 40.00, total, 0.001)
}

func TestRemoveMissingLineReportsNotFound(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "u@example.com")
	cart := services.NewCartService(db)

	assert.ErrorIs(t, cart.Remove(user.ID, 42), services.ErrCartItemNotFound)
	assert.ErrorIs(t, cart.UpdateQuantity(user.ID, 42, 1), services.ErrCartItemNotFound)

	// Clearing an empty cart is fine.
	assert.NoError(t, cart.Clear(user.ID))
}

func TestCountSumsQuantities(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "u@example.com")
	p1 := seedProduct(t, db, "widget", 4.00, 10)
	p2 := seedProduct(t, db, "gadget", 2.00, 10)

	cart := services.NewCartService(db)
	_, err := cart.Add(user.ID, p1.ID, 3)
	require.NoError(t, err)
	_, err = cart.Add(user.ID, p2.ID, 5)
	require.NoError(t, err)

	count, err := cart.Count(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, count)
}
