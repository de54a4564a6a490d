// Package postgres implements the domain repositories on PostgreSQL via
// gorm. Stock adjustment is a single guarded UPDATE so the non-negativity
// check and the write commit atomically.
package postgres

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to the database behind the given URL. SQL logging is left
// to the application's structured logger, so gorm's own logger is muted.
func Open(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		// Map driver duplicate-key errors onto gorm.ErrDuplicatedKey.
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the orders, products and users tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&orderRow{}, &productRow{}, &userRow{}); err != nil {
		return fmt.Errorf("postgres: migrate: %w", err)
	}
	return nil
}
