package database

import (
	"fmt"
	"log"

	"taskboard-api/internal/auth"
	"taskboard-api/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open opens the SQLite database at path (created if it doesn't exist
// initially) and runs migrations. The four domain collections plus users each
// get their own table. Using glebarez/sqlite which is a pure Go implementation
// (no CGO required).
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// Auto-migrate the schema (it will create tables if they don't exist)
	if err := db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.Project{},
		&models.Category{},
		&models.Activity{},
	); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	log.Println("Database connected and migrated successfully")
	return db, nil
}

// SeedAdmin creates an initial admin account when the user table is empty, so
// a fresh install has a login to manage further users with.
func SeedAdmin(db *gorm.DB, username, password string) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	admin := models.User{
		ID:       "user-1",
		Username: username,
		Password: hash,
		Admin:    true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Printf("Seeded initial admin user %q", username)
	return nil
}
