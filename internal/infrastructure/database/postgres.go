package database

import (
	"fmt"
	"log"

	"github.com/kedaikopi/pos-api/internal/config"
	"github.com/kedaikopi/pos-api/internal/domain/entity"
	"github.com/kedaikopi/pos-api/internal/domain/enum"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Account entities
		&entity.User{},

		// Catalog entities
		&entity.Category{},
		&entity.Product{},
		&entity.Addon{},

		// Sales entities
		&entity.Sale{},
		&entity.SaleItem{},
		&entity.SaleItemAddon{},

		// Shift entities
		&entity.CashierSession{},

		// Floor entities
		&entity.DiningTable{},

		// System entities
		&entity.StoreSettings{},
		&entity.PaymentMethod{},
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds the database with default data (settings, payment
// methods, tables, admin user)
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	// Create the store settings row if the store is not configured yet
	var settingsCount int64
	db.Model(&entity.StoreSettings{}).Count(&settingsCount)
	if settingsCount == 0 {
		if err := db.Create(entity.DefaultStoreSettings()).Error; err != nil {
			log.Printf("Warning: failed to seed store settings: %v", err)
		}
	}

	// Create default payment methods
	methods := []entity.PaymentMethod{
		{Name: "Cash", Type: enum.PaymentTypeCash, IsActive: true},
		{Name: "Debit Card", Type: enum.PaymentTypeCard, IsActive: true},
		{Name: "QRIS", Type: enum.PaymentTypeQris, IsActive: true},
	}
	for i := range methods {
		var existing entity.PaymentMethod
		if err := db.Where("name = ?", methods[i].Name).First(&existing).Error; err != nil {
			if err := db.Create(&methods[i]).Error; err != nil {
				log.Printf("Warning: failed to create payment method %s: %v", methods[i].Name, err)
			}
		}
	}

	// Create a small default floor plan
	var tableCount int64
	db.Model(&entity.DiningTable{}).Count(&tableCount)
	if tableCount == 0 {
		for no := 1; no <= 8; no++ {
			table := entity.DiningTable{TableNo: no, Seats: 4}
			if err := db.Create(&table).Error; err != nil {
				log.Printf("Warning: failed to create table %d: %v", no, err)
			}
		}
	}

	// Create manager user if configured via environment variables
	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")

	if adminEmail != "" && adminPassword != "" {
		var existingAdmin entity.User
		if err := db.Where("email = ?", adminEmail).First(&existingAdmin).Error; err != nil {
			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				log.Printf("Warning: failed to hash admin password: %v", err)
			} else {
				if adminName == "" {
					adminName = "Store Manager"
				}
				// Split admin name into first and last name
				firstName := adminName
				lastName := ""
				for i, c := range adminName {
					if c == ' ' {
						firstName = adminName[:i]
						lastName = adminName[i+1:]
						break
					}
				}
				adminUser := entity.User{
					FirstName: firstName,
					LastName:  lastName,
					Email:     adminEmail,
					Password:  string(hashedPassword),
					Role:      entity.RoleManager,
				}
				if err := db.Create(&adminUser).Error; err != nil {
					log.Printf("Warning: failed to create manager user: %v", err)
				} else {
					log.Printf("Manager user created: %s", adminEmail)
				}
			}
		} else {
			log.Printf("Manager user already exists: %s", adminEmail)
		}
	}

	log.Println("Default data seeding completed")
	return nil
}
