package db

import (
	"fmt"
	"time"

	"flixcrd-backend/models"
	"flixcrd-backend/utils"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB opens the postgres connection and stores it in DB.
func InitDB(dsn string) error {
	if dsn == "" {
		return fmt.Errorf("DB_URL is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: utils.GetGormLogger(),
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	DB = conn
	utils.LogSuccess("Database connection successful")
	return nil
}

// Migrate creates or updates the ledger tables.
func Migrate(conn *gorm.DB) error {
	err := conn.AutoMigrate(
		&models.Subscription{},
		&models.Payment{},
		&models.PixPayment{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}
