// Package db opens the SQL database that holds the workbook and implements
// the worksheet backend on top of it.
package db

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/diewo77/go-pos/internal/config"
	migrate "github.com/golang-migrate/migrate/v4"
	// The following blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MigrationsDir is read by golang-migrate when SQL migrations are enabled.
var MigrationsDir = "file://migrations"

// Open connects using the store settings and retries a postgres server that
// is still starting.
func Open(cfg config.StoreConfig) (*gorm.DB, error) {
	dsn := NormalizeDSN(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("STORE_DSN is empty, check the environment configuration")
	}
	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var dialector gorm.Dialector
	attempts := 1
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(dsn)
		attempts = 10
	case "sqlite", "":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.Driver)
	}

	var db *gorm.DB
	var err error
	for i := 0; i < attempts; i++ {
		db, err = gorm.Open(dialector, gcfg)
		if err == nil {
			break
		}
		log.Printf("[DB] retrying connection: %v", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}
	if pingErr := db.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}
	log.Printf("[DB] using %s DSN: %s", cfg.Driver, MaskDSN(dsn))
	return db, nil
}

// Migrate creates the worksheet tables. With sqlMigrations on a postgres
// store it runs the SQL files through golang-migrate; otherwise AutoMigrate.
func Migrate(db *gorm.DB, cfg config.StoreConfig, sqlMigrations bool) error {
	if sqlMigrations && cfg.Driver == "postgres" {
		if err := runSQLMigrations(ToURLDSN(NormalizeDSN(cfg.DSN))); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		if sqlMigrations {
			log.Printf("[DB] SQL migrations need postgres; using AutoMigrate for %s", cfg.Driver)
		}
		for _, m := range []any{&Worksheet{}, &SheetRow{}} {
			if err := db.AutoMigrate(m); err != nil {
				return fmt.Errorf("automigrate %T: %w", m, err)
			}
		}
	}
	for _, table := range []string{"worksheets", "sheet_rows"} {
		if !db.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	return nil
}

// runSQLMigrations executes migrations in MigrationsDir using golang-migrate file source.
func runSQLMigrations(dsn string) error {
	m, err := migrate.New(MigrationsDir, dsn)
	if err != nil {
		return err
	}
	defer m.Close()
	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
