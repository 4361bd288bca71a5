package services_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltmart/voltmart/app/models"
	"github.com/voltmart/voltmart/app/services"
)

func TestCreateOrderFromCart(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	p1 := seedProduct(t, db, "widget", 10.00, 50)
	p2 := seedProduct(t, db, "gadget", 2.50, 20)

	cart := services.NewCartService(db)
	orders := services.NewOrderService(db)

	_, err := cart.Add(user.ID, p1.ID, 3)
	require.NoError(t, err)
	_, err = cart.Add(user.ID, p2.ID, 4)
	require.NoError(t, err)

	order, err := orders.Create(user.ID, "leave at the door")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(order.OrderNumber, "VM"))
	assert.Len(t, order.OrderNumber, 20)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.InDelta(t, 40.00, order.TotalAmount, 0.001)
	assert.Equal(t, "leave at the door", order.Remark)

	// Items snapshot name and price at creation time.
	_, items, err := orders.Get(order.ID, user.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "widget", items[0].ProductName)
	assert.InDelta(t, 10.00, items[0].UnitPrice, 0.001)

	// Stock was decremented and the cart emptied.
	var got models.Product
	require.NoError(t, db.First(&got, p1.ID).Error)
	assert.Equal(t, 47, got.Stock)

	count, err := cart.Count(user.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCreateOrderEmptyCart(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")

	_, err := services.NewOrderService(db).Create(user.ID, "")
	assert.ErrorIs(t, err, services.ErrEmptyCart)
}

func TestCreateOrderInactiveProductRollsBack(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	p1 := seedProduct(t, db, "widget", 10.00, 50)
	p2 := seedProduct(t, db, "gadget", 5.00, 20)

	cart := services.NewCartService(db)
	_, err := cart.Add(user.ID, p1.ID, 2)
	require.NoError(t, err)
	_, err = cart.Add(user.ID, p2.ID, 1)
	require.NoError(t, err)

	// Deactivate after carting.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", p2.ID).Update("is_active", false).Error)

	_, err = services.NewOrderService(db).Create(user.ID, "")
	assert.ErrorIs(t, err, services.ErrProductInactive)

	// Nothing committed: stock untouched, cart intact, no orders.
	var got models.Product
	require.NoError(t, db.First(&got, p1.ID).Error)
	assert.Equal(t, 50, got.Stock)

	count, err := cart.Count(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	var n int64
	require.NoError(t, db.Model(&models.Order{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	p := seedProduct(t, db, "scarce", 99.00, 5)

	cart := services.NewCartService(db)
	_, err := cart.Add(user.ID, p.ID, 5)
	require.NoError(t, err)

	// Stock shrank between carting and checkout.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", p.ID).Update("stock", 3).Error)

	_, err = services.NewOrderService(db).Create(user.ID, "")
	assert.ErrorIs(t, err, services.ErrInsufficientStock)

	var got models.Product
	require.NoError(t, db.First(&got, p.ID).Error)
	assert.Equal(t, 3, got.Stock)
}

func TestCancelRestoresStock(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	p := seedProduct(t, db, "widget", 10.00, 50)

	cart := services.NewCartService(db)
	orders := services.NewOrderService(db)
	_, err := cart.Add(user.ID, p.ID, 8)
	require.NoError(t, err)

	order, err := orders.Create(user.ID, "")
	require.NoError(t, err)

	cancelled, err := orders.Cancel(order.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, cancelled.Status)

	var got models.Product
	require.NoError(t, db.First(&got, p.ID).Error)
	assert.Equal(t, 50, got.Stock)

	// A second cancel is an invalid transition.
	_, err = orders.Cancel(order.ID, user.ID)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)
}

func TestCancelOnlyByOwner(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	other := seedUser(t, db, "other@example.com")
	p := seedProduct(t, db, "widget", 10.00, 50)

	cart := services.NewCartService(db)
	orders := services.NewOrderService(db)
	_, err := cart.Add(owner.ID, p.ID, 1)
	require.NoError(t, err)
	order, err := orders.Create(owner.ID, "")
	require.NoError(t, err)

	_, err = orders.Cancel(order.ID, other.ID)
	assert.ErrorIs(t, err, services.ErrOrderNotFound)
}

func TestStatusLifecycle(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	p := seedProduct(t, db, "widget", 10.00, 50)

	cart := services.NewCartService(db)
	orders := services.NewOrderService(db)
	_, err := cart.Add(user.ID, p.ID, 1)
	require.NoError(t, err)
	order, err := orders.Create(user.ID, "")
	require.NoError(t, err)

	// Shipping before confirming is rejected.
	_, err = orders.Ship(order.ID, "TRK123")
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	confirmed, err := orders.Confirm(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderConfirmed, confirmed.Status)

	// Confirmed orders can no longer be cancelled.
	_, err = orders.Cancel(order.ID, user.ID)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	shipped, err := orders.Ship(order.ID, "TRK123")
	require.NoError(t, err)
	assert.Equal(t, models.OrderShipped, shipped.Status)
	assert.Equal(t, "TRK123", shipped.TrackingNumber)

	completed, err := orders.Complete(order.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, completed.Status)

	// Terminal: no further transitions.
	_, err = orders.Confirm(order.ID)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)
}

func TestBatchConfirm(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	p := seedProduct(t, db, "widget", 10.00, 50)

	cart := services.NewCartService(db)
	orders := services.NewOrderService(db)

	var ids []uint
	for i := 0; i < 2; i++ {
		_, err := cart.Add(user.ID, p.ID, 1)
		require.NoError(t, err)
		order, err := orders.Create(user.ID, "")
		require.NoError(t, err)
		ids = append(ids, order.ID)
	}
	// One already confirmed, one unknown.
	_, err := orders.Confirm(ids[1])
	require.NoError(t, err)
	ids = append(ids, 9999)

	results := orders.BatchConfirm(ids)
	require.Len(t, results, 3)
	assert.True(t, results[0].OK)
	assert.False(t, results[1].OK)
	assert.Contains(t, results[1].Error, "transition")
	assert.False(t, results[2].OK)
	assert.Contains(t, results[2].Error, "not found")
}

func TestListOrdersFilterAndPaginate(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	p := seedProduct(t, db, "widget", 10.00, 500)

	cart := services.NewCartService(db)
	orders := services.NewOrderService(db)
	for i := 0; i < 5; i++ {
		_, err := cart.Add(user.ID, p.ID, 1)
		require.NoError(t, err)
		_, err = orders.Create(user.ID, "")
		require.NoError(t, err)
	}

	list, pg, err := orders.List(services.OrderQuery{UserID: user.ID, Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.EqualValues(t, 5, pg.Total)
	assert.Equal(t, 3, pg.TotalPages)

	pending, _, err := orders.List(services.OrderQuery{UserID: user.ID, Status: models.OrderPending, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, pending, 5)

	_, _, err = orders.List(services.OrderQuery{UserID: user.ID, Status: "teleported", PageSize: 10})
	assert.ErrorIs(t, err, services.ErrInvalidStatus)
}

func TestExportCSV(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	widget := seedProduct(t, db, "widget", 10.00, 50)
	gadget := seedProduct(t, db, "gadget", 3.00, 50)

	cart := services.NewCartService(db)
	orders := services.NewOrderService(db)
	_, err := cart.Add(user.ID, widget.ID, 2)
	require.NoError(t, err)
	_, err = cart.Add(user.ID, gadget.ID, 1)
	require.NoError(t, err)
	order, err := orders.Create(user.ID, "")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, orders.ExportCSV(&buf, ""))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	// Header plus one row per item, order columns repeated.
	require.Len(t, records, 3)
	assert.Equal(t, []string{
		"order_number", "user_email", "status", "total_amount", "tracking_number",
		"created_at", "product_name", "model_number", "quantity", "unit_price",
	}, records[0])

	for _, row := range records[1:] {
		assert.Equal(t, order.OrderNumber, row[0])
		assert.Equal(t, "buyer@example.com", row[1])
		assert.Equal(t, "pending", row[2])
		assert.Equal(t, "23.00", row[3])
	}
	assert.Equal(t, "widget", records[1][6])
	assert.Equal(t, "2", records[1][8])
	assert.Equal(t, "10.00", records[1][9])
	assert.Equal(t, "gadget", records[2][6])
	assert.Equal(t, "1", records[2][8])
	assert.Equal(t, "3.00", records[2][9])
}

func TestExportCSVDeletedUserBlankEmail(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "gone@example.com")
	p := seedProduct(t, db, "widget", 10.00, 50)

	cart := services.NewCartService(db)
	orders := services.NewOrderService(db)
	_, err := cart.Add(user.ID, p.ID, 1)
	require.NoError(t, err)
	_, err = orders.Create(user.ID, "")
	require.NoError(t, err)

	require.NoError(t, services.NewUserService(db).Delete(user.ID))

	var buf bytes.Buffer
	require.NoError(t, orders.ExportCSV(&buf, ""))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Empty(t, records[1][1])
	assert.Equal(t, "widget", records[1][6])
}
