package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alfredoptarigan/office-letters/internal/models"
)

// InitDatabase opens the configured store and creates any missing tables.
func InitDatabase(cfg *Config, log zerolog.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Silent
	if cfg.IsDevelopment() {
		logLevel = logger.Warn
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info().Str("driver", cfg.Database.Driver).Msg("database connected")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info().Msg("database migration completed")

	return db, nil
}

// Migrate creates the users, documents and document_files tables if absent.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Document{},
		&models.DocumentFile{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func dialectorFor(cfg *Config) (gorm.Dialector, error) {
	switch cfg.Database.Driver {
	case DriverSQLite:
		if dir := filepath.Dir(cfg.Database.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dsn := cfg.GetDatabaseDSN()
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return sqlite.Open(dsn + sep + "_foreign_keys=on&_busy_timeout=5000"), nil
	case DriverPostgres:
		return postgres.Open(cfg.GetDatabaseDSN()), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}
