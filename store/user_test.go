package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jewelstore/database"
	"jewelstore/models"
)

func TestUserStore_Authenticate(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, database.EnsureAdmin(db, "admin", "s3cret"))
	users := NewUserStore(db)
	ctx := context.Background()

	user, err := users.Authenticate(ctx, "admin", "s3cret")
	require.NoError(t, err)
	require.NotNil(t, user.LastLogin)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.NotNil(t, stored.LastLogin)

	_, err = users.Authenticate(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = users.Authenticate(ctx, "nobody", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = users.Authenticate(ctx, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false).Error)
	_, err = users.Authenticate(ctx, "admin", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
