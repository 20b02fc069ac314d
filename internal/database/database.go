package database

import (
	"log"

	"github.com/checkinto-io/checkinto-app/internal/config"
	"github.com/checkinto-io/checkinto-app/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto Migrate
	err = db.AutoMigrate(
		&models.Community{},
		&models.Venue{},
		&models.Profile{},
		&models.Event{},
		&models.Attendee{},
		&models.EventAttendee{},
		&models.User{},
		&models.APIKey{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	return db
}
