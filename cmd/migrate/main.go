package main

import (
	"log"

	"github.com/tedgershon/SafePlate/config"
	"github.com/tedgershon/SafePlate/internal/database"
)

// Standalone schema migration, for deployments that migrate before
// rolling the API.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db.Gorm); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations applied")
}
