package database

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sangkips/salon-commission-api/internal/config"
	"github.com/sangkips/salon-commission-api/internal/domain/entity"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, env string, log zerolog.Logger) (*gorm.DB, error) {
	logLevel := logger.Warn
	if env == "development" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Info().Str("host", cfg.Host).Str("database", cfg.Name).Msg("connected to PostgreSQL")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		// Catalog
		&entity.Branch{},
		&entity.Service{},
		&entity.Employee{},
		&entity.Member{},

		// Sales
		&entity.Transaction{},
		&entity.LineItem{},

		// System
		&entity.CommissionReset{},
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// DefaultBranchCode is the branch seeded into an empty database
const DefaultBranchCode = "HQ"

// SeedDefaultData creates the head-office branch when no branch exists yet
func SeedDefaultData(db *gorm.DB, log zerolog.Logger) error {
	var count int64
	if err := db.Model(&entity.Branch{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count branches: %w", err)
	}
	if count > 0 {
		return nil
	}

	hq := entity.Branch{Name: "Head Office", Code: DefaultBranchCode}
	if err := db.Create(&hq).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return fmt.Errorf("failed to seed default branch: %w", err)
	}

	log.Info().Str("branch_id", hq.ID.String()).Msg("seeded default branch")
	return nil
}
