// Package db handles database connection, schema migration and seeding.
package db

import (
	"fmt"
	"os"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// The following blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kwo0two/rentmanagerpro/internal/config"
	"github.com/kwo0two/rentmanagerpro/internal/models"
)

// Connect opens a database connection for the configured driver.
// sqlite is the default for local use; postgres retries a few times so the
// server can start before the database is ready.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	switch cfg.Driver {
	case "sqlite":
		return gorm.Open(sqlite.Open(cfg.Path), gormCfg)
	case "postgres":
		var db *gorm.DB
		var err error
		for i := 0; i < 10; i++ {
			db, err = gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
			if err == nil {
				break
			}
			time.Sleep(2 * time.Second)
		}
		if err != nil {
			return nil, fmt.Errorf("connect postgres after retries: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// Migrate runs AutoMigrate for all models.
// Call this at application startup or as part of a migration step.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// Auth
		&models.User{},
		// Business entities
		&models.Building{},
		&models.Unit{},
		&models.Lease{},
		&models.Renewal{},
		&models.Payment{},
		&models.RentAdjustment{},
		// Operational
		&models.AuditLog{},
	)
}

// RunSQLMigrations executes versioned migrations in ./migrations using the
// golang-migrate file source. Only supported for the postgres driver;
// sqlite setups rely on AutoMigrate.
func RunSQLMigrations(cfg config.DatabaseConfig) error {
	if cfg.Driver != "postgres" {
		return fmt.Errorf("sql migrations require the postgres driver, got %q", cfg.Driver)
	}
	m, err := migrate.New("file://migrations", cfg.URL())
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
