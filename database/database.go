package database

import (
	"log"
	"os"

	models "visionforge-backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectToDB() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("[ERROR] DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("[ERROR] Error connecting to database: %v", err)
	}

	err = db.AutoMigrate(&models.Story{}, &models.Scene{}, &models.Video{})
	if err != nil {
		log.Fatalf("[ERROR] Error migrating database: %v", err)
	}

	DB = db
	log.Println("[INFO] Connected to database")
}
