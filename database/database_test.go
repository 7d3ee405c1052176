package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jewelstore/config"
	"jewelstore/models"
)

func TestConnect_SQLiteMigratesAllTables(t *testing.T) {
	db, err := Connect(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)

	for _, table := range models.Tables {
		assert.True(t, db.Migrator().HasTable(table), "missing table for %T", table)
	}
}

func TestConnect_UnknownDriver(t *testing.T) {
	_, err := Connect(config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, ":memory:?_foreign_keys=on", sqliteDSN(""))
	assert.Equal(t, "store.db?_foreign_keys=on", sqliteDSN("store.db"))
	assert.Equal(t, "file:x?mode=memory&_foreign_keys=on", sqliteDSN("file:x?mode=memory"))
	assert.Equal(t, "x.db?_foreign_keys=off", sqliteDSN("x.db?_foreign_keys=off"))
}

func TestEnsureAdmin(t *testing.T) {
	db, err := Connect(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)

	t.Run("skips without password", func(t *testing.T) {
		require.NoError(t, EnsureAdmin(db, "admin", ""))
		var count int64
		db.Model(&models.User{}).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("creates admin", func(t *testing.T) {
		require.NoError(t, EnsureAdmin(db, "admin", "s3cret"))
		var user models.User
		require.NoError(t, db.Where("username = ?", "admin").First(&user).Error)
		assert.True(t, user.IsActive)
		assert.True(t, user.CheckPassword("s3cret"))
	})

	t.Run("repairs deactivated admin", func(t *testing.T) {
		require.NoError(t, db.Model(&models.User{}).Where("username = ?", "admin").Update("is_active", false).Error)
		require.NoError(t, EnsureAdmin(db, "admin", "other"))

		var user models.User
		require.NoError(t, db.Where("username = ?", "admin").First(&user).Error)
		assert.True(t, user.IsActive)
		assert.True(t, user.CheckPassword("other"))
	})

	t.Run("leaves healthy admin alone", func(t *testing.T) {
		require.NoError(t, EnsureAdmin(db, "admin", "ignored"))
		var user models.User
		require.NoError(t, db.Where("username = ?", "admin").First(&user).Error)
		assert.True(t, user.CheckPassword("other"))
	})
}
