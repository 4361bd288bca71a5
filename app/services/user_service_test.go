package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltmart/voltmart/app/models"
	"github.com/voltmart/voltmart/app/services"
	"github.com/voltmart/voltmart/pkg/auth"
)

func TestListUsersFilters(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewUserService(db)

	alice := seedUser(t, db, "alice@example.com")
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", alice.ID).Updates(map[string]interface{}{
		"role": models.RoleAdmin, "company": "Volt Industries",
	}).Error)
	seedUser(t, db, "bob@example.com")
	seedUser(t, db, "carol@shop.example")

	admins, pg, err := svc.List(services.UserQuery{Role: models.RoleAdmin, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, alice.ID, admins[0].ID)
	assert.EqualValues(t, 1, pg.Total)

	byEmail, _, err := svc.List(services.UserQuery{Keyword: "example.com", PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, byEmail, 2)

	byCompany, _, err := svc.List(services.UserQuery{Keyword: "Volt Industries", PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, byCompany, 1)
}

func TestSetRole(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewUserService(db)
	user := seedUser(t, db, "u@example.com")

	got, err := svc.SetRole(user.ID, models.RoleEnterprise)
	require.NoError(t, err)
	assert.Equal(t, models.RoleEnterprise, got.Role)

	_, err = svc.SetRole(user.ID, "superadmin")
	assert.ErrorIs(t, err, services.ErrInvalidRole)

	_, err = svc.SetRole(9999, models.RoleUser)
	assert.ErrorIs(t, err, services.ErrUserNotFound)
}

func TestSetActive(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewUserService(db)
	user := seedUser(t, db, "u@example.com")

	got, err := svc.SetActive(user.ID, false)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	got, err = svc.SetActive(user.ID, true)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
}

func TestResetPassword(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewUserService(db)
	user := seedUser(t, db, "u@example.com")

	temp, err := svc.ResetPassword(user.ID)
	require.NoError(t, err)
	assert.Len(t, temp, 12)

	reloaded, err := svc.Get(user.ID)
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(reloaded.Password, temp))
	assert.False(t, auth.CheckPassword(reloaded.Password, "x"))

	_, err = svc.ResetPassword(9999)
	assert.ErrorIs(t, err, services.ErrUserNotFound)
}

func TestCountUsers(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewUserService(db)

	seedUser(t, db, "a@example.com")
	seedUser(t, db, "b@example.com")

	n, err := svc.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestDeleteUserKeepsOrders(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "u@example.com")
	p := seedProduct(t, db, "widget", 4.00, 10)

	cart := services.NewCartService(db)
	orders := services.NewOrderService(db)
	_, err := cart.Add(user.ID, p.ID, 1)
	require.NoError(t, err)
	order, err := orders.Create(user.ID, "")
	require.NoError(t, err)

	// Leave something in the cart to be cleaned up.
	_, err = cart.Add(user.ID, p.ID, 2)
	require.NoError(t, err)

	svc := services.NewUserService(db)
	require.NoError(t, svc.Delete(user.ID))

	_, err = svc.Get(user.ID)
	assert.ErrorIs(t, err, services.ErrUserNotFound)

	var cartLines int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&cartLines).Error)
	assert.Zero(t, cartLines)

	var kept models.Order
	assert.NoError(t, db.First(&kept, order.ID).Error)
}
