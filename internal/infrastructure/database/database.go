package database

import (
	"aquafund-backend/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open opens a GORM DB from DSN (Postgres pooler URL).
// PreferSimpleProtocol disables prepared statement caching to avoid 42P05
// ("prepared statement already exists") behind a transaction pooler such as PgBouncer.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
}

// AutoMigrate creates the tables this service owns (only the cache fallback).
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.CacheEntry{})
}
