package database

import (
	"context"
	"fmt"
	"log"

	"github.com/LouisLibre/BorderPOS/internal/config"
	"github.com/LouisLibre/BorderPOS/internal/domain/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// New opens the database selected by cfg.Driver
func New(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	logLevel := logger.Silent
	if debug {
		logLevel = logger.Info
	}
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	switch cfg.Driver {
	case "sqlite":
		return NewSQLiteDB(cfg.DSN(), gormCfg)
	case "postgres":
		return NewPostgresDB(cfg, gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&entity.CatalogItem{},
		&entity.Ticket{},
		&entity.TicketItem{},
		&entity.Setting{},
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData stores the default exchange rate unless one is already set
func SeedDefaultData(db *gorm.DB, cfg *config.RegisterConfig) error {
	setting := entity.Setting{
		Key:   entity.SettingExchangeRate,
		Value: cfg.DefaultExchangeRate.StringFixed(2),
	}
	err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&setting).Error
	if err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}
	return nil
}

// Ping checks connectivity for the health endpoint
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
