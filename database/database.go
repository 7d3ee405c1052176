package database

import (
	"errors"
	"fmt"
	stdlog "log"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"jewelstore/config"
	"jewelstore/models"
)

// Connect opens the configured database and migrates the schema.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(sqliteDSN(cfg.DSN))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: logger.New(stdlog.New(log.Logger, "", 0), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Driver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// one connection, so ":memory:" is the same database for every query
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	log.Info().Str("driver", cfg.Driver).Msg("database connected and migrated")
	return db, nil
}

// Migrate creates or updates all catalog tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.Tables...); err != nil {
		return fmt.Errorf("failed to migrate the database: %w", err)
	}
	return nil
}

func sqliteDSN(dsn string) string {
	if dsn == "" {
		dsn = ":memory:"
	}
	if strings.Contains(dsn, "_foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}

// EnsureAdmin creates the configured administrator or repairs it when it has
// lost its password or was deactivated. An empty password disables seeding.
func EnsureAdmin(db *gorm.DB, username, password string) error {
	if username == "" || password == "" {
		log.Warn().Msg("admin credentials not configured, skipping admin seeding")
		return nil
	}

	var user models.User
	err := db.Where("username = ?", username).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{Username: username, IsActive: true}
		if err := user.SetPassword(password); err != nil {
			return err
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
		log.Info().Str("username", username).Msg("initialized admin account")
		return nil
	case err != nil:
		return fmt.Errorf("failed to query admin user: %w", err)
	}

	if strings.TrimSpace(user.Password) != "" && user.IsActive {
		return nil
	}
	if err := user.SetPassword(password); err != nil {
		return err
	}
	user.IsActive = true
	if err := db.Save(&user).Error; err != nil {
		return fmt.Errorf("failed to repair admin user: %w", err)
	}
	log.Warn().Str("username", username).Msg("repaired admin account")
	return nil
}
