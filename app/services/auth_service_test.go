package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltmart/voltmart/app/models"
	"github.com/voltmart/voltmart/app/services"
	"github.com/voltmart/voltmart/pkg/auth"
)

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewAuthService(db)

	user, pair, err := svc.Register("  Buyer@Example.COM ", "s3cretpass", "Buyer", "Acme Corp", "555-0100")
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "s3cretpass", user.Password)
	require.NotEmpty(t, pair.Token)

	claims, err := auth.ValidateToken(pair.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleUser, claims.Role)

	// Login is case-insensitive on email.
	got, pair, err := svc.Login("BUYER@example.com", "s3cretpass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewAuthService(db)

	_, _, err := svc.Register("buyer@example.com", "s3cretpass", "Buyer", "", "")
	require.NoError(t, err)

	_, _, err = svc.Register("Buyer@Example.com", "otherpass1", "Impostor", "", "")
	assert.ErrorIs(t, err, services.ErrEmailTaken)
}

func TestLoginFailures(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewAuthService(db)

	_, _, err := svc.Register("buyer@example.com", "s3cretpass", "Buyer", "", "")
	require.NoError(t, err)

	_, _, err = svc.Login("nobody@example.com", "s3cretpass")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	_, _, err = svc.Login("buyer@example.com", "wrongpass1")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "buyer@example.com").Update("is_active", false).Error)
	_, _, err = svc.Login("buyer@example.com", "s3cretpass")
	assert.ErrorIs(t, err, services.ErrAccountDisabled)
}

func TestChangePassword(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewAuthService(db)

	user, _, err := svc.Register("buyer@example.com", "s3cretpass", "Buyer", "", "")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ChangePassword(user.ID, "wrongpass1", "newpass123"), services.ErrWrongPassword)
	require.NoError(t, svc.ChangePassword(user.ID, "s3cretpass", "newpass123"))

	_, _, err = svc.Login("buyer@example.com", "s3cretpass")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	_, _, err = svc.Login("buyer@example.com", "newpass123")
	assert.NoError(t, err)
}

func TestUpdateProfileLeavesEmailAlone(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewAuthService(db)

	user, _, err := svc.Register("buyer@example.com", "s3cretpass", "Buyer", "", "")
	require.NoError(t, err)

	got, err := svc.UpdateProfile(user.ID, "New Name", "New Co", "555-0199")
	require.NoError(t, err)
	assert.Equal(t, "New Name", got.Name)
	assert.Equal(t, "New Co", got.Company)
	assert.Equal(t, "buyer@example.com", got.Email)
}
