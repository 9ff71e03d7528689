package db

import (
	"github.com/Neeraj-1996/mlmbackend/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus"

	"gorm.io/driver/mysql" // MySQL driver for GORM
	"gorm.io/gorm"         // GORM ORM library
	"gorm.io/gorm/logger"  // GORM logger levels
)

// Models lists every table owned by the application
func Models() []any {
	return []any{
		&domain.User{},
		&domain.WithdrawalRequest{},
		&domain.Product{},
		&domain.Event{},
		&domain.SliderImage{},
	}
}

// Open connects to MySQL. Verbose enables SQL logging.
func Open(dsn string, verbose bool) (*gorm.DB, error) {
	level := logger.Warn
	if verbose {
		level = logger.Info
	}
	return gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true, // Map driver errors such as duplicate keys to gorm errors
	})
}

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}
