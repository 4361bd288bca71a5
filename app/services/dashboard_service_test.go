package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltmart/voltmart/app/services"
)

func TestDashboardStats(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	p := seedProduct(t, db, "widget", 10.00, 50)
	seedProduct(t, db, "scarce", 5.00, 2)

	cart := services.NewCartService(db)
	orders := services.NewOrderService(db)

	_, err := cart.Add(user.ID, p.ID, 2)
	require.NoError(t, err)
	_, err = orders.Create(user.ID, "")
	require.NoError(t, err)

	_, err = cart.Add(user.ID, p.ID, 1)
	require.NoError(t, err)
	cancelled, err := orders.Create(user.ID, "")
	require.NoError(t, err)
	_, err = orders.Cancel(cancelled.ID, user.ID)
	require.NoError(t, err)

	stats, err := services.NewDashboardService(db).Stats(10)
	require.NoError(t, err)

	assert.EqualValues(t, 2, stats.Orders)
	assert.EqualValues(t, 1, stats.PendingOrders)
	assert.InDelta(t, 20.00, stats.Revenue, 0.001) // cancelled order excluded
	assert.EqualValues(t, 2, stats.Products)
	assert.EqualValues(t, 1, stats.Users)
	assert.EqualValues(t, 1, stats.LowStock)
	assert.NotEmpty(t, stats.GeneratedAt)

	// Both orders are recent, newest first; the cancelled one still shows.
	require.Len(t, stats.RecentOrders, 2)
	assert.Equal(t, cancelled.ID, stats.RecentOrders[0].ID)

	// Seven days ending today, cancelled orders excluded from the trend.
	require.Len(t, stats.SalesTrend, 7)
	today := stats.SalesTrend[6]
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), today.Date)
	assert.InDelta(t, 20.00, today.Amount, 0.001)
	assert.Equal(t, 1, today.Orders)
	for _, day := range stats.SalesTrend[:6] {
		assert.Zero(t, day.Orders)
	}
}
